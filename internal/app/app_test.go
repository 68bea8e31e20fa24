package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dicehook/internal/config"
	"dicehook/pkg/session"
	"dicehook/pkg/slot"
	"dicehook/pkg/state"
)

func openTemp(t *testing.T, backend string) *App {
	t.Helper()
	home := t.TempDir()
	paths, err := config.ResolvePaths(func(k string) string {
		if k == "DICEHOOK_HOME" {
			return home
		}
		return ""
	})
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Backend = backend
	cfg.Seed = 1

	a, err := OpenWith(context.Background(), paths, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestOpenWith_Backends(t *testing.T) {
	fileApp := openTemp(t, config.BackendFile)
	assert.IsType(t, &state.FileStore{}, fileApp.Store)

	sqlApp := openTemp(t, config.BackendSQLite)
	assert.IsType(t, &state.SQLiteStore{}, sqlApp.Store)
	_, err := os.Stat(sqlApp.Paths.DBPath)
	assert.NoError(t, err)
}

func TestOpenStore_UnknownBackend(t *testing.T) {
	paths := &config.Paths{Home: t.TempDir()}
	_, err := OpenStore(context.Background(), paths, "redis")
	assert.ErrorContains(t, err, "unknown backend")
}

func TestApp_EndToEndFixedSlot(t *testing.T) {
	ctx := context.Background()
	a := openTemp(t, config.BackendFile)

	kind := slot.KindFixed
	die, target, count := 1, 1, 1
	_, err := a.Registry.Register(ctx, "always", slot.Patch{
		Kind: &kind, DieSize: &die, Target: &target, FixedCount: &count,
	})
	require.NoError(t, err)

	out, err := a.Engine.CheckAll(ctx, a.Session(ctx, session.Sources{Explicit: "s1"}, func(string) string { return "" }))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.True(t, out[0].Triggered)
}

func TestApp_SessionDepthFromTranscript(t *testing.T) {
	ctx := context.Background()
	a := openTemp(t, config.BackendFile)

	path := filepath.Join(t.TempDir(), "t.jsonl")
	lines := []string{
		`{"type":"user","message":{"role":"user"}}`,
		`{"type":"assistant","message":{"role":"assistant"}}`,
		`{"type":"user","message":{"role":"user"}}`,
	}
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))

	sess := a.Session(ctx, session.Sources{Payload: "abc", TranscriptPath: path}, func(string) string { return "" })
	assert.Equal(t, "abc", sess.ID)
	assert.True(t, sess.HasDepth)
	assert.Equal(t, 3, sess.Depth)

	missing := a.Session(ctx, session.Sources{Payload: "abc", TranscriptPath: path + ".gone"}, func(string) string { return "" })
	assert.False(t, missing.HasDepth)
}
