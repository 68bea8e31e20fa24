package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"dicehook/pkg/registry"
	"dicehook/pkg/slot"

	"github.com/spf13/cobra"
)

// newListCmd creates the "dicehook list" subcommand.
func newListCmd(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered slots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := env.App(cmd.Context())
			if err != nil {
				return err
			}
			cfgs, err := a.Registry.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("list: %w", err)
			}

			out := cmd.OutOrStdout()
			if !env.styled(out) {
				return writeJSON(out, cfgs)
			}
			if len(cfgs) == 0 {
				fmt.Fprintln(out, mutedStyle.Render("No slots registered."))
				return nil
			}
			rows := make([][]string, 0, len(cfgs))
			for _, c := range cfgs {
				rows = append(rows, []string{
					c.Name, string(c.Kind), diceLabel(c), string(c.TargetMode) + " " + strconv.Itoa(c.Target), string(c.Cooldown),
				})
			}
			return writeTable(out, []string{"NAME", "KIND", "DICE", "TARGET", "COOLDOWN"}, rows)
		},
	}
}

// newShowCmd creates the "dicehook show" subcommand.
func newShowCmd(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show one slot's configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := env.App(cmd.Context())
			if err != nil {
				return err
			}
			cfg, err := a.Registry.Get(cmd.Context(), args[0])
			if errors.Is(err, registry.ErrNotFound) {
				return fmt.Errorf("show: slot %q not found", args[0])
			}
			if err != nil {
				return fmt.Errorf("show: %w", err)
			}

			out := cmd.OutOrStdout()
			if !env.styled(out) {
				return writeJSON(out, cfg)
			}
			return writeSlotDetail(out, cfg)
		},
	}
}

// diceLabel describes how many dice a slot rolls, e.g. "d20 x1..10/7".
func diceLabel(c slot.Config) string {
	d := "d" + strconv.Itoa(c.DieSize)
	switch c.Kind {
	case slot.KindFixed:
		return fmt.Sprintf("%dx%s", c.FixedCount, d)
	case slot.KindSingle:
		return "1x" + d
	default:
		return fmt.Sprintf("%s +1/%d turns (max %d)", d, c.AccumulationRate, c.MaxDice)
	}
}

func writeSlotDetail(w io.Writer, c slot.Config) error {
	rows := [][]string{
		{"name", c.Name},
		{"dice", diceLabel(c)},
		{"target", string(c.TargetMode) + " " + strconv.Itoa(c.Target)},
		{"cooldown", string(c.Cooldown)},
		{"clear on session start", yesNo(c.ClearOnSessionStart)},
		{"reset on trigger", yesNo(c.ResetOnTrigger)},
		{"message", c.Message},
	}
	return writeTable(w, []string{"FIELD", "VALUE"}, rows)
}
