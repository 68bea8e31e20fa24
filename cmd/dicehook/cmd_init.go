package main

import (
	"errors"
	"fmt"
	"os"

	"dicehook/internal/config"

	"github.com/spf13/cobra"
)

// newInitCmd creates the "dicehook init" subcommand.
func newInitCmd(env *cliEnv) *cobra.Command {
	var (
		backend string
		seed    uint64
		force   bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write config.toml with the current settings",
		Long: "Write the effective configuration to config.toml in the dicehook home.\n" +
			"An existing file is kept unless --force is given.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := env.App(cmd.Context())
			if err != nil {
				return err
			}
			path := a.Paths.ConfigPath

			_, statErr := os.Stat(path)
			exists := statErr == nil
			if statErr != nil && !errors.Is(statErr, os.ErrNotExist) {
				return fmt.Errorf("init: %w", statErr)
			}

			written := false
			if !exists || force {
				cfg := a.Config
				if cmd.Flags().Changed("backend") {
					cfg.Backend = backend
				}
				if cmd.Flags().Changed("seed") {
					cfg.Seed = seed
				}
				if err := cfg.Validate(); err != nil {
					return fmt.Errorf("init: %w", err)
				}
				if err := config.Save(path, cfg); err != nil {
					return fmt.Errorf("init: %w", err)
				}
				written = true
			}

			out := cmd.OutOrStdout()
			if !env.styled(out) {
				return writeJSON(out, map[string]any{"path": path, "written": written})
			}
			if written {
				fmt.Fprintf(out, "Wrote %s\n", path)
			} else {
				fmt.Fprintf(out, "%s already exists (use --force to overwrite)\n", path)
			}
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&backend, "backend", config.BackendFile, "state backend: file|sqlite")
	fl.Uint64Var(&seed, "seed", 0, "random seed (0 = random)")
	fl.BoolVar(&force, "force", false, "overwrite an existing config.toml")

	return cmd
}
