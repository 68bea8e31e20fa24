package main

import (
	"fmt"

	"dicehook/pkg/dice"

	"github.com/spf13/cobra"
)

// newProbCmd creates the "dicehook prob" subcommand.
func newProbCmd(env *cliEnv) *cobra.Command {
	var (
		count  int
		die    int
		target int
		mode   string
	)

	cmd := &cobra.Command{
		Use:   "prob",
		Short: "Chance that at least one die hits the target",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := dice.ParseMode(mode)
			if err != nil {
				return fmt.Errorf("prob: %w", err)
			}
			p := dice.Probability(count, die, target, m)

			out := cmd.OutOrStdout()
			if !env.styled(out) {
				return writeJSON(out, map[string]any{
					"dice": count, "die_size": die, "target": target, "mode": m, "probability": p,
				})
			}
			fmt.Fprintf(out, "%dd%d %s %d: %.2f%%\n", count, die, m, target, p)
			return nil
		},
	}

	fl := cmd.Flags()
	fl.IntVar(&count, "dice", 1, "number of dice")
	fl.IntVar(&die, "die", 20, "die size")
	fl.IntVar(&target, "target", 20, "target face")
	fl.StringVar(&mode, "mode", string(dice.ModeExact), "target mode: exact|gte|lte")

	return cmd
}
