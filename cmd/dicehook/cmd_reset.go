package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newResetCmd creates the "dicehook reset" subcommand.
func newResetCmd(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "reset <name>",
		Short: "Restart a slot's accumulation from the current depth",
		Long: "Move the slot's baseline to the current depth (--depth or --transcript).\n" +
			"Without a depth the slot becomes uncalibrated and recalibrates on its next turn.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := env.App(cmd.Context())
			if err != nil {
				return err
			}
			sess := env.Session(cmd, a)
			if err := a.Engine.Reset(cmd.Context(), args[0], sess); err != nil {
				return fmt.Errorf("reset: %w", err)
			}
			return report(env, cmd, "reset", args[0], sess.ID)
		},
	}
}

// newClearCmd creates the "dicehook clear" subcommand.
func newClearCmd(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <name>",
		Short: "Forget a slot's state and cooldown in the session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := env.App(cmd.Context())
			if err != nil {
				return err
			}
			sess := env.Session(cmd, a)
			if err := a.Engine.Clear(cmd.Context(), args[0], sess); err != nil {
				return fmt.Errorf("clear: %w", err)
			}
			return report(env, cmd, "clear", args[0], sess.ID)
		},
	}
}

// newSessionStartCmd creates the "dicehook session-start" subcommand.
func newSessionStartCmd(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "session-start",
		Short: "Clear every slot flagged clear-on-start",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := env.App(cmd.Context())
			if err != nil {
				return err
			}
			sess := env.Session(cmd, a)
			cleared, err := a.Engine.SessionStart(cmd.Context(), sess)
			if err != nil {
				return fmt.Errorf("session-start: %w", err)
			}

			out := cmd.OutOrStdout()
			if !env.styled(out) {
				return writeJSON(out, map[string]any{"session": sess.ID, "cleared": cleared})
			}
			fmt.Fprintf(out, "Cleared %d slot(s) in session %s\n", len(cleared), sess.ID)
			return nil
		},
	}
}

func report(env *cliEnv, cmd *cobra.Command, action, name, sessionID string) error {
	out := cmd.OutOrStdout()
	if !env.styled(out) {
		return writeJSON(out, map[string]string{"action": action, "slot": name, "session": sessionID})
	}
	fmt.Fprintf(out, "%s %s in session %s\n", action, name, sessionID)
	return nil
}
