// Package state persists per-(slot, session) accumulator baselines and
// per-session cooldown markers. Two backends implement the same Store
// interface: one JSON file per key, or a SQLite database.
package state

import (
	"context"
	"fmt"
	"time"
)

// Uncalibrated marks a baseline that has not yet observed a real depth.
// It is what gets written when a reset happens without depth access.
const Uncalibrated = -1

// State is the accumulator record for one slot in one session.
type State struct {
	DepthAtLastTrigger int       `json:"depth_at_last_trigger"`
	LastReset          time.Time `json:"last_reset"`
}

// Default is the state of a (slot, session) pair that has never been written.
func Default(now time.Time) State {
	return State{DepthAtLastTrigger: 0, LastReset: now}
}

// Calibrated reports whether the baseline holds a real depth.
func (s State) Calibrated() bool {
	return s.DepthAtLastTrigger >= 0
}

// Key identifies one (slot, session) pair.
type Key struct {
	Slot    string
	Session string
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s", k.Slot, k.Session)
}

// StateStore persists accumulator state. LoadState never fails on a missing
// or corrupt record; found is false and the default state is returned.
type StateStore interface {
	LoadState(ctx context.Context, k Key) (st State, found bool, err error)
	SaveState(ctx context.Context, k Key, st State) error
}

// CooldownStore persists existence-only cooldown markers.
type CooldownStore interface {
	HasCooldown(ctx context.Context, k Key) (bool, error)
	MarkCooldown(ctx context.Context, k Key, at time.Time) error
	ClearCooldown(ctx context.Context, k Key) error
}

// Store is a complete persistence backend.
type Store interface {
	StateStore
	CooldownStore
	Close() error
}

// Reset points the baseline at depth, which may be Uncalibrated, and
// refreshes the reset timestamp.
func Reset(ctx context.Context, s StateStore, k Key, depth int, now time.Time) error {
	if depth < 0 {
		depth = Uncalibrated
	}
	return s.SaveState(ctx, k, State{DepthAtLastTrigger: depth, LastReset: now})
}

// Clear forces the baseline back to zero.
func Clear(ctx context.Context, s StateStore, k Key, now time.Time) error {
	return s.SaveState(ctx, k, State{DepthAtLastTrigger: 0, LastReset: now})
}
