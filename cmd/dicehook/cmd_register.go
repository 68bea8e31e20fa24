package main

import (
	"fmt"

	"dicehook/pkg/dice"
	"dicehook/pkg/slot"

	"github.com/spf13/cobra"
)

// registerFlags mirrors slot.Patch; only flags the user set are applied.
type registerFlags struct {
	die          int
	target       int
	mode         string
	kind         string
	rate         int
	maxDice      int
	fixed        int
	cooldown     string
	clearOnStart bool
	resetOnHit   bool
	message      string
}

func (f *registerFlags) patch(cmd *cobra.Command) (slot.Patch, error) {
	var p slot.Patch
	changed := cmd.Flags().Changed

	if changed("die") {
		p.DieSize = &f.die
	}
	if changed("target") {
		p.Target = &f.target
	}
	if changed("mode") {
		m, err := dice.ParseMode(f.mode)
		if err != nil {
			return slot.Patch{}, err
		}
		p.TargetMode = &m
	}
	if changed("kind") {
		k := slot.Kind(f.kind)
		p.Kind = &k
	}
	if changed("rate") {
		p.AccumulationRate = &f.rate
	}
	if changed("max-dice") {
		p.MaxDice = &f.maxDice
	}
	if changed("fixed") {
		p.FixedCount = &f.fixed
	}
	if changed("cooldown") {
		c := slot.CooldownPolicy(f.cooldown)
		p.Cooldown = &c
	}
	if changed("clear-on-start") {
		p.ClearOnSessionStart = &f.clearOnStart
	}
	if changed("reset-on-trigger") {
		p.ResetOnTrigger = &f.resetOnHit
	}
	if changed("message") {
		p.Message = &f.message
	}
	return p, nil
}

// newRegisterCmd creates the "dicehook register" subcommand.
func newRegisterCmd(env *cliEnv) *cobra.Command {
	var f registerFlags

	cmd := &cobra.Command{
		Use:   "register <name>",
		Short: "Create or update a slot",
		Long: "Register a slot, or update an existing one. Flags that are not given keep the\n" +
			"recorded value, or the default for a new slot (d20, target 20, exact, accumulator\n" +
			"every 7 turns up to 10 dice, once per session).",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := f.patch(cmd)
			if err != nil {
				return fmt.Errorf("register: %w", err)
			}
			a, err := env.App(cmd.Context())
			if err != nil {
				return err
			}
			cfg, err := a.Registry.Register(cmd.Context(), args[0], p)
			if err != nil {
				return fmt.Errorf("register: %w", err)
			}

			out := cmd.OutOrStdout()
			if !env.styled(out) {
				return writeJSON(out, cfg)
			}
			fmt.Fprintf(out, "Registered %s\n", cfg.Name)
			return writeSlotDetail(out, cfg)
		},
	}

	fl := cmd.Flags()
	fl.IntVar(&f.die, "die", 20, "die size (faces)")
	fl.IntVar(&f.target, "target", 20, "target face")
	fl.StringVar(&f.mode, "mode", string(dice.ModeExact), "target mode: exact|gte|lte")
	fl.StringVar(&f.kind, "kind", string(slot.KindAccumulator), "dice count kind: accumulator|fixed|single")
	fl.IntVar(&f.rate, "rate", 7, "turns per accumulated die")
	fl.IntVar(&f.maxDice, "max-dice", 10, "accumulator cap")
	fl.IntVar(&f.fixed, "fixed", 1, "dice rolled by a fixed slot")
	fl.StringVar(&f.cooldown, "cooldown", string(slot.CooldownPerSession), "cooldown: per-session|none")
	fl.BoolVar(&f.clearOnStart, "clear-on-start", true, "clear state when a session starts")
	fl.BoolVar(&f.resetOnHit, "reset-on-trigger", true, "reset the accumulator when the slot fires")
	fl.StringVar(&f.message, "message", slot.DefaultMessage, "trigger message template ({rolls} {best} {diceCount} {slotName})")

	return cmd
}

// newUnregisterCmd creates the "dicehook unregister" subcommand.
func newUnregisterCmd(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "unregister <name>",
		Short: "Remove a slot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := env.App(cmd.Context())
			if err != nil {
				return err
			}
			removed, err := a.Registry.Unregister(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("unregister: %w", err)
			}

			out := cmd.OutOrStdout()
			if !env.styled(out) {
				return writeJSON(out, map[string]any{"name": args[0], "removed": removed})
			}
			if removed {
				fmt.Fprintf(out, "Unregistered %s\n", args[0])
			} else {
				fmt.Fprintf(out, "No slot named %s\n", args[0])
			}
			return nil
		},
	}
}
