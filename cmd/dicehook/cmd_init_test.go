package main

import (
	"path/filepath"
	"testing"

	"dicehook/internal/config"
)

func TestInitCmd(t *testing.T) {
	env := newTestEnv(t, nil)
	path := filepath.Join(env.getenv("DICEHOOK_HOME"), "config.toml")

	var got struct {
		Path    string `json:"path"`
		Written bool   `json:"written"`
	}
	decode(t, mustRun(t, env, "init", "--backend", "sqlite", "--seed", "11"), &got)
	if !got.Written || got.Path != path {
		t.Fatalf("init = %+v, want written to %s", got, path)
	}

	cfg, err := config.Load(path, func(string) string { return "" })
	if err != nil {
		t.Fatalf("load written config: %v", err)
	}
	if cfg.Backend != config.BackendSQLite || cfg.Seed != 11 {
		t.Errorf("written config = %+v", cfg)
	}

	decode(t, mustRun(t, env, "init", "--backend", "file"), &got)
	if got.Written {
		t.Error("init without --force must keep an existing file")
	}

	decode(t, mustRun(t, env, "init", "--backend", "file", "--force"), &got)
	if !got.Written {
		t.Error("init --force should overwrite")
	}
	cfg, err = config.Load(path, func(string) string { return "" })
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if cfg.Backend != config.BackendFile {
		t.Errorf("backend = %q after --force, want file", cfg.Backend)
	}
}

func TestInitCmd_RejectsBadBackend(t *testing.T) {
	if _, err := run(t, newTestEnv(t, nil), "init", "--backend", "redis"); err == nil {
		t.Error("expected error for unknown backend")
	}
}
