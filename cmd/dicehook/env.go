package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"dicehook/internal/app"
	"dicehook/internal/logger"
	"dicehook/pkg/engine"
	"dicehook/pkg/session"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// cliEnv carries what the commands need from the outside world. Tests
// replace open and getenv; everything else is derived.
type cliEnv struct {
	open   func(ctx context.Context) (*app.App, error)
	getenv func(string) string

	app *app.App

	// persistent flags
	sessionID  string
	depth      int
	transcript string
	jsonOut    bool
}

// defaultEnv opens the real home directory and installs the logger on stderr.
func defaultEnv() *cliEnv {
	return &cliEnv{
		open: func(ctx context.Context) (*app.App, error) {
			a, err := app.Open(ctx, os.Getenv)
			if err != nil {
				return nil, err
			}
			logger.Init(a.Config.Logger(), os.Stderr)
			return a, nil
		},
		getenv: os.Getenv,
	}
}

// App opens the application once per process.
func (e *cliEnv) App(ctx context.Context) (*app.App, error) {
	if e.app != nil {
		return e.app, nil
	}
	a, err := e.open(ctx)
	if err != nil {
		return nil, fmt.Errorf("open dicehook: %w", err)
	}
	e.app = a
	return a, nil
}

// Close releases the opened application, if any.
func (e *cliEnv) Close() error {
	if e.app == nil {
		return nil
	}
	err := e.app.Close()
	e.app = nil
	return err
}

// Session resolves the session from flags. --depth wins over --transcript.
func (e *cliEnv) Session(cmd *cobra.Command, a *app.App) engine.Session {
	cwd, _ := os.Getwd()
	sess := a.Session(cmd.Context(), session.Sources{
		Explicit:       e.sessionID,
		TranscriptPath: e.transcript,
		Cwd:            cwd,
	}, e.getenv)
	if cmd.Flags().Changed("depth") {
		sess = sess.WithDepth(e.depth)
	}
	return sess
}

// styled reports whether output should be the human table rather than JSON.
func (e *cliEnv) styled(w io.Writer) bool {
	if e.jsonOut {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
