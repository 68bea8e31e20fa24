// Package app opens everything a dicehook binary needs from resolved paths
// and configuration: the slot registry, the state backend, the engine and
// the transcript depth counter.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"dicehook/internal/config"
	"dicehook/internal/logger"
	"dicehook/pkg/dice"
	"dicehook/pkg/engine"
	"dicehook/pkg/registry"
	"dicehook/pkg/session"
	"dicehook/pkg/state"
	"dicehook/pkg/transcript"
)

// App bundles the opened components. Close releases the state backend.
type App struct {
	Paths       *config.Paths
	Config      config.Config
	Registry    *registry.Store
	Store       state.Store
	Engine      *engine.Engine
	Transcripts *transcript.Counter
}

// Open resolves paths from getenv (plus a .env in the working directory),
// loads config.toml and opens the configured backend.
func Open(ctx context.Context, getenv func(string) string) (*App, error) {
	getenv = config.WithDotEnv(getenv, config.DotEnvFile)
	paths, err := config.ResolvePaths(getenv)
	if err != nil {
		return nil, fmt.Errorf("resolve paths: %w", err)
	}
	cfg, err := config.Load(paths.ConfigPath, getenv)
	if err != nil {
		return nil, err
	}
	return OpenWith(ctx, paths, cfg)
}

// OpenWith is Open with paths and config already resolved.
func OpenWith(ctx context.Context, paths *config.Paths, cfg config.Config) (*App, error) {
	store, err := OpenStore(ctx, paths, cfg.Backend)
	if err != nil {
		return nil, err
	}

	reg := registry.NewStore(paths.RegistryPath)

	opts := []engine.Option{}
	if cfg.Seed != 0 {
		opts = append(opts, engine.WithSource(dice.NewSeededSource(cfg.Seed)))
	}

	return &App{
		Paths:       paths,
		Config:      cfg,
		Registry:    reg,
		Store:       store,
		Engine:      engine.New(reg, store, opts...),
		Transcripts: transcript.NewCounter(cfg.TranscriptCacheSize, cfg.TranscriptCacheTTL.Duration),
	}, nil
}

// OpenStore opens the state backend named by backend.
func OpenStore(ctx context.Context, paths *config.Paths, backend string) (state.Store, error) {
	switch backend {
	case config.BackendFile, "":
		return state.NewFileStore(paths.StateDir, paths.CooldownDir), nil
	case config.BackendSQLite:
		if err := os.MkdirAll(paths.Home, 0o755); err != nil {
			return nil, fmt.Errorf("create home dir: %w", err)
		}
		s, err := state.OpenSQLite(ctx, paths.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite state: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown backend %q", backend)
	}
}

// Close releases the state backend.
func (a *App) Close() error {
	if a == nil || a.Store == nil {
		return nil
	}
	return a.Store.Close()
}

// Session resolves the session id from src and, when a transcript is
// available, attaches its depth. A transcript that cannot be read leaves
// the depth unknown.
func (a *App) Session(ctx context.Context, src session.Sources, getenv func(string) string) engine.Session {
	sess := engine.Session{ID: session.Resolve(src, getenv)}
	if src.TranscriptPath == "" {
		return sess
	}
	depth, ok, err := a.Transcripts.Depth(src.TranscriptPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.FromContext(ctx).Warn("transcript depth unavailable",
				"path", src.TranscriptPath, "error", err)
		}
		return sess
	}
	if ok {
		sess = sess.WithDepth(depth)
	}
	return sess
}
