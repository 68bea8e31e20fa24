package main

import (
	"fmt"

	"dicehook/internal/version"

	"github.com/spf13/cobra"
)

// newVersionCmd creates the "dicehook version" subcommand.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the dicehook version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "dicehook %s\n", version.String())
		},
	}
}
