package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"dicehook/internal/app"
	"dicehook/internal/config"
)

// newTestEnv returns an env rooted in a temp home with a seeded source.
func newTestEnv(t *testing.T, vars map[string]string) *cliEnv {
	t.Helper()
	home := t.TempDir()
	getenv := func(k string) string {
		if k == "DICEHOOK_HOME" {
			return home
		}
		return vars[k]
	}
	return &cliEnv{
		open: func(ctx context.Context) (*app.App, error) {
			paths, err := config.ResolvePaths(getenv)
			if err != nil {
				return nil, err
			}
			cfg := config.Default()
			cfg.Seed = 1
			return app.OpenWith(ctx, paths, cfg)
		},
		getenv: getenv,
	}
}

// run executes the command tree once against env and returns stdout.
func run(t *testing.T, env *cliEnv, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmdWithEnv(env)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// mustRun is run that fails the test on error.
func mustRun(t *testing.T, env *cliEnv, args ...string) string {
	t.Helper()
	out, err := run(t, env, args...)
	if err != nil {
		t.Fatalf("dicehook %v: %v\noutput: %s", args, err, out)
	}
	return out
}

func decode(t *testing.T, s string, v any) {
	t.Helper()
	if err := json.Unmarshal([]byte(s), v); err != nil {
		t.Fatalf("decode %q: %v", s, err)
	}
}
