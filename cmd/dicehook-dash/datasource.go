package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"dicehook/internal/app"
	"dicehook/pkg/engine"
	"dicehook/pkg/session"
)

// snapshot is one refresh worth of dashboard data.
type snapshot struct {
	Session   string            `json:"session"`
	Depth     int               `json:"depth"`
	HasDepth  bool              `json:"has_depth"`
	Slots     []engine.Estimate `json:"slots"`
	FetchedAt time.Time         `json:"fetched_at"`
	Err       error             `json:"-"`
}

// snapshotMsg carries a finished fetch into Update.
type snapshotMsg snapshot

// estimator is the read side of the engine the dashboard needs.
type estimator interface {
	EstimateAll(ctx context.Context, sess engine.Session) ([]engine.Estimate, error)
}

// dataSource resolves the session and asks the engine for estimates.
type dataSource struct {
	app    *app.App
	src    session.Sources
	getenv func(string) string

	// est and resolve are swapped out in tests.
	est     estimator
	resolve func(ctx context.Context) engine.Session
}

func (d *dataSource) session(ctx context.Context) engine.Session {
	if d.resolve != nil {
		return d.resolve(ctx)
	}
	return d.app.Session(ctx, d.src, d.getenv)
}

// sessionKey is the storage key of the watched session.
func (d *dataSource) sessionKey() string {
	return session.Resolve(d.src, d.getenv)
}

func (d *dataSource) fetch(ctx context.Context) snapshot {
	sess := d.session(ctx)
	snap := snapshot{Session: sess.ID, Depth: sess.Depth, HasDepth: sess.HasDepth, FetchedAt: time.Now()}

	est := d.est
	if est == nil {
		est = d.app.Engine
	}
	slots, err := est.EstimateAll(ctx, sess)
	if err != nil {
		snap.Err = fmt.Errorf("estimate: %w", err)
		return snap
	}
	snap.Slots = slots
	return snap
}

// robotMode renders a snapshot as JSON for scripts.
func robotMode(s snapshot) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return data, nil
}
