// Package main implements dicehook-dash, a live view of every slot's dice
// count, hit chance and cooldown in one session.
package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"dicehook/internal/app"
	"dicehook/internal/logger"
	"dicehook/pkg/session"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error running dashboard: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		src  session.Sources
		once bool
	)

	cmd := &cobra.Command{
		Use:           "dicehook-dash",
		Short:         "Live dashboard of dicehook slots",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := logger.WithInvocationID(cmd.Context(), logger.NewInvocationID())

			a, err := app.Open(ctx, os.Getenv)
			if err != nil {
				return err
			}
			defer a.Close()

			// The TUI owns the terminal; keep the log file as the only sink.
			closeLog := initLog(a)
			defer closeLog()

			src.Cwd, _ = os.Getwd()
			ds := &dataSource{app: a, src: src, getenv: os.Getenv}

			if once {
				snap := ds.fetch(ctx)
				if snap.Err != nil {
					return snap.Err
				}
				data, err := robotMode(snap)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}

			w := newWatcher(watchDirs(a, ds.sessionKey()))
			if w != nil {
				defer w.Close()
			}

			p := tea.NewProgram(newModel(ctx, ds, w), tea.WithAltScreen(), tea.WithContext(ctx))
			_, err = p.Run()
			return err
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&src.Explicit, "session", "", "session id (default: $CLAUDE_SESSION_ID or a hash of the working directory)")
	fl.StringVar(&src.TranscriptPath, "transcript", "", "transcript to read the conversation depth from")
	fl.BoolVar(&once, "once", false, "print one JSON snapshot and exit")

	return cmd
}

func initLog(a *app.App) func() {
	f, err := os.OpenFile(a.Paths.LogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return func() {}
	}
	logger.Init(a.Config.Logger(), f)
	return func() { _ = f.Close() }
}
