package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"dicehook/pkg/engine"

	"github.com/spf13/cobra"
)

// newCheckCmd creates the "dicehook check" subcommand.
func newCheckCmd(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "check <name>",
		Short: "Roll one slot on its own dice",
		Long: "Evaluate a single slot with independent rolls, exactly as a turn would,\n" +
			"including state updates and cooldowns.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := env.App(cmd.Context())
			if err != nil {
				return err
			}
			o, err := a.Engine.Check(cmd.Context(), args[0], env.Session(cmd, a))
			if err != nil {
				return fmt.Errorf("check: %w", err)
			}
			return writeOutcomes(env, cmd.OutOrStdout(), []engine.Outcome{o}, false)
		},
	}
}

// newRollCmd creates the "dicehook roll" subcommand.
func newRollCmd(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "roll",
		Short: "Roll every slot from the shared pool",
		Long: "Evaluate all slots for one turn. Slots with the same die size share their\n" +
			"first die, so their triggers are correlated.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := env.App(cmd.Context())
			if err != nil {
				return err
			}
			outs, err := a.Engine.CheckAll(cmd.Context(), env.Session(cmd, a))
			if err != nil {
				return fmt.Errorf("roll: %w", err)
			}
			return writeOutcomes(env, cmd.OutOrStdout(), outs, true)
		},
	}
}

// newStatusCmd creates the "dicehook status" subcommand.
func newStatusCmd(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show each slot's current dice count and hit chance",
		Long:  "Report what the next turn would roll for every slot without rolling or writing anything.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := env.App(cmd.Context())
			if err != nil {
				return err
			}
			sess := env.Session(cmd, a)
			ests, err := a.Engine.EstimateAll(cmd.Context(), sess)
			if err != nil {
				return fmt.Errorf("status: %w", err)
			}

			out := cmd.OutOrStdout()
			if !env.styled(out) {
				return writeJSON(out, map[string]any{"session": sess.ID, "slots": ests})
			}
			fmt.Fprintf(out, "Session %s\n", sess.ID)
			rows := make([][]string, 0, len(ests))
			for _, e := range ests {
				rows = append(rows, []string{
					e.Slot.Name,
					strconv.Itoa(e.Count.Dice) + "d" + strconv.Itoa(e.Slot.DieSize),
					fmt.Sprintf("%.2f%%", e.Probability),
					yesNo(e.OnCooldown),
				})
			}
			return writeTable(out, []string{"NAME", "DICE", "CHANCE", "COOLDOWN"}, rows)
		},
	}
}

func writeOutcomes(env *cliEnv, w io.Writer, outs []engine.Outcome, many bool) error {
	if !env.styled(w) {
		if many {
			return writeJSON(w, outs)
		}
		return writeJSON(w, outs[0])
	}
	rows := make([][]string, 0, len(outs))
	for _, o := range outs {
		result := mutedStyle.Render("miss")
		if o.Triggered {
			result = hitStyle.Render("HIT")
		}
		rolls := make([]string, len(o.Rolls))
		for i, r := range o.Rolls {
			rolls[i] = strconv.Itoa(r)
		}
		rows = append(rows, []string{
			o.SlotName, result, strconv.Itoa(o.DiceCount), strings.Join(rolls, ", "), fmt.Sprintf("%.2f%%", o.Probability),
		})
	}
	return writeTable(w, []string{"NAME", "RESULT", "DICE", "ROLLS", "CHANCE"}, rows)
}
