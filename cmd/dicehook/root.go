package main

import (
	"fmt"

	"dicehook/internal/logger"
	"dicehook/internal/version"

	"github.com/spf13/cobra"
)

// newRootCmd creates the root dicehook command with all subcommands attached.
func newRootCmd() *cobra.Command {
	return newRootCmdWithEnv(defaultEnv())
}

// newRootCmdWithEnv builds the command tree against env.
func newRootCmdWithEnv(env *cliEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dicehook",
		Short: "Dice-slot triggers for Claude Code hooks",
		Long: "dicehook rolls dice once per conversation turn for every registered slot.\n" +
			"A slot fires when its rolls hit the target; accumulator slots gain dice as the\n" +
			"conversation grows and reset when they fire.",
		Version:       fmt.Sprintf("dicehook %s", version.String()),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetContext(logger.WithInvocationID(cmd.Context(), logger.NewInvocationID()))
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return env.Close()
		},
	}

	cmd.SetVersionTemplate("{{.Version}}\n")

	pf := cmd.PersistentFlags()
	pf.StringVar(&env.sessionID, "session", "", "session id (default: $CLAUDE_SESSION_ID or a hash of the working directory)")
	pf.IntVar(&env.depth, "depth", 0, "conversation depth to evaluate at")
	pf.StringVar(&env.transcript, "transcript", "", "Claude Code transcript to derive the depth from")
	pf.BoolVar(&env.jsonOut, "json", false, "write JSON even on a terminal")

	cmd.AddCommand(
		newInitCmd(env),
		newRegisterCmd(env),
		newUnregisterCmd(env),
		newListCmd(env),
		newShowCmd(env),
		newCheckCmd(env),
		newRollCmd(env),
		newStatusCmd(env),
		newResetCmd(env),
		newClearCmd(env),
		newSessionStartCmd(env),
		newProbCmd(env),
		newVersionCmd(),
	)

	return cmd
}
