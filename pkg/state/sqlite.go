package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"dicehook/internal/logger"

	_ "modernc.org/sqlite"
)

// SchemaDDL creates the tables used by SQLiteStore.
const SchemaDDL = `
CREATE TABLE IF NOT EXISTS slot_state (
    slot TEXT NOT NULL,
    session TEXT NOT NULL,
    depth_at_last_trigger INTEGER NOT NULL,
    last_reset TEXT NOT NULL,
    PRIMARY KEY (slot, session)
);

CREATE TABLE IF NOT EXISTS cooldowns (
    slot TEXT NOT NULL,
    session TEXT NOT NULL,
    marked_at TEXT NOT NULL,
    PRIMARY KEY (slot, session)
);
`

// SQLiteStore keeps state and cooldowns in a SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (or creates) the database at path with WAL journaling and
// a 5-second busy timeout, and applies the schema. Use ":memory:" in tests.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// One connection: ":memory:" databases are per-connection and SQLite
	// serialises writers anyway.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode on %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy_timeout on %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, SchemaDDL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema on %s: %w", path, err)
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

// LoadState implements StateStore.
func (s *SQLiteStore) LoadState(ctx context.Context, k Key) (State, bool, error) {
	var depth int
	var lastReset string
	err := s.db.QueryRowContext(ctx,
		`SELECT depth_at_last_trigger, last_reset FROM slot_state WHERE slot = ? AND session = ?`,
		k.Slot, k.Session,
	).Scan(&depth, &lastReset)
	if errors.Is(err, sql.ErrNoRows) {
		return Default(s.now()), false, nil
	}
	if err != nil {
		return State{}, false, fmt.Errorf("state load %s: %w", k, err)
	}

	ts, err := time.Parse(time.RFC3339Nano, lastReset)
	if err != nil {
		logger.FromContext(ctx).Warn("state row unreadable, using default", "key", k.String(), "error", err)
		return Default(s.now()), false, nil
	}
	return State{DepthAtLastTrigger: depth, LastReset: ts}, true, nil
}

// SaveState implements StateStore.
func (s *SQLiteStore) SaveState(ctx context.Context, k Key, st State) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO slot_state (slot, session, depth_at_last_trigger, last_reset)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (slot, session) DO UPDATE
		 SET depth_at_last_trigger = excluded.depth_at_last_trigger, last_reset = excluded.last_reset`,
		k.Slot, k.Session, st.DepthAtLastTrigger, st.LastReset.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("state save %s: %w", k, err)
	}
	return nil
}

// HasCooldown implements CooldownStore.
func (s *SQLiteStore) HasCooldown(ctx context.Context, k Key) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM cooldowns WHERE slot = ? AND session = ?`, k.Slot, k.Session,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cooldown check %s: %w", k, err)
	}
	return true, nil
}

// MarkCooldown implements CooldownStore.
func (s *SQLiteStore) MarkCooldown(ctx context.Context, k Key, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cooldowns (slot, session, marked_at) VALUES (?, ?, ?)
		 ON CONFLICT (slot, session) DO UPDATE SET marked_at = excluded.marked_at`,
		k.Slot, k.Session, at.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("cooldown mark %s: %w", k, err)
	}
	return nil
}

// ClearCooldown implements CooldownStore.
func (s *SQLiteStore) ClearCooldown(ctx context.Context, k Key) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM cooldowns WHERE slot = ? AND session = ?`, k.Slot, k.Session); err != nil {
		return fmt.Errorf("cooldown clear %s: %w", k, err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
