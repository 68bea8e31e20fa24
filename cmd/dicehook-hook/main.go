// Binary dicehook-hook is the Claude Code hook entry point for dicehook.
//
// Register it for SessionStart and for the per-turn events (UserPromptSubmit
// or Stop). It reads the hook payload from stdin and:
//   - SessionStart: clears flagged slots, no output, exit 0.
//   - any other event: rolls every slot; triggered messages go to stderr
//     with exit code 2, otherwise no output and exit 0.
//
// Logs go to ~/.dicehook/dicehook.log, never to stdout or stderr, since both
// are part of the hook protocol.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"dicehook/internal/app"
	"dicehook/internal/config"
	"dicehook/internal/logger"
	"dicehook/pkg/engine"
	"dicehook/pkg/hook"
	"dicehook/pkg/session"
)

func main() {
	os.Exit(run(context.Background(), os.Stdin, os.Stdout, os.Stderr, os.Getenv))
}

// run is main without the process globals. It always returns a hook exit
// code; setup failures are reported on stderr once and then fail open.
func run(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer, getenv func(string) string) int {
	input, err := io.ReadAll(stdin)
	if err != nil {
		fmt.Fprintf(stderr, "dicehook-hook: failed to read stdin: %v\n", err)
		return hook.ExitOK
	}

	getenv = config.WithDotEnv(getenv, config.DotEnvFile)
	paths, err := config.ResolvePaths(getenv)
	if err != nil {
		fmt.Fprintf(stderr, "dicehook-hook: %v\n", err)
		return hook.ExitOK
	}
	cfg, err := config.Load(paths.ConfigPath, getenv)
	if err != nil {
		fmt.Fprintf(stderr, "dicehook-hook: %v\n", err)
		return hook.ExitOK
	}

	closeLog := initLog(paths.LogPath, cfg)
	defer closeLog()

	ctx = logger.WithInvocationID(ctx, logger.NewInvocationID())
	log := logger.FromContext(ctx)

	a, err := app.OpenWith(ctx, paths, cfg)
	if err != nil {
		log.Error("open failed", "error", err)
		return hook.ExitOK
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Warn("close failed", "error", err)
		}
	}()

	h := &hook.Handler{
		Engine:   a.Engine,
		Registry: a.Registry,
		Session: func(ctx context.Context, src session.Sources) engine.Session {
			return a.Session(ctx, src, getenv)
		},
	}
	resp := h.Handle(ctx, input)

	if resp.Stdout != "" {
		if _, err := io.WriteString(stdout, resp.Stdout); err != nil {
			log.Warn("stdout write error", "error", err)
		}
	}
	if resp.Stderr != "" {
		if _, err := io.WriteString(stderr, resp.Stderr); err != nil {
			log.Warn("stderr write error", "error", err)
			return hook.ExitOK
		}
	}
	return resp.ExitCode
}

// initLog points the default logger at the log file. When the file cannot
// be opened, logging is discarded.
func initLog(path string, cfg config.Config) func() {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err == nil {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err == nil {
			logger.Init(cfg.Logger(), f)
			return func() { _ = f.Close() }
		}
	}
	logger.Init(cfg.Logger(), io.Discard)
	return func() {}
}
