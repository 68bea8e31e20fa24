package state

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dicehook/internal/fsutil"
	"dicehook/internal/logger"
)

// FileStore keeps one JSON file per (slot, session) under stateDir and one
// marker file per (slot, session) under cooldownDir:
//
//	<stateDir>/<session>/<slot>.json
//	<cooldownDir>/<session>/<slot>
type FileStore struct {
	stateDir    string
	cooldownDir string
	now         func() time.Time
}

// NewFileStore returns a FileStore rooted at the given directories. They are
// created lazily on first write.
func NewFileStore(stateDir, cooldownDir string) *FileStore {
	return &FileStore{stateDir: stateDir, cooldownDir: cooldownDir, now: time.Now}
}

// segment makes s safe to use as a single path element. Escaped names start
// with "_", so any input already starting with "_" is escaped too and two
// distinct inputs never share a path.
func segment(s string) string {
	if s == "" || strings.HasPrefix(s, ".") || strings.HasPrefix(s, "_") || strings.ContainsAny(s, "/\\\x00") {
		return "_" + hex.EncodeToString([]byte(s))
	}
	return s
}

func (f *FileStore) statePath(k Key) string {
	return filepath.Join(f.stateDir, segment(k.Session), segment(k.Slot)+".json")
}

func (f *FileStore) cooldownPath(k Key) string {
	return filepath.Join(f.cooldownDir, segment(k.Session), segment(k.Slot))
}

// LoadState implements StateStore.
func (f *FileStore) LoadState(ctx context.Context, k Key) (State, bool, error) {
	path := f.statePath(k)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(f.now()), false, nil
	}
	if err != nil {
		return State{}, false, fmt.Errorf("state load %s: %w", k, err)
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		logger.FromContext(ctx).Warn("state record unreadable, using default", "path", path, "error", err)
		return Default(f.now()), false, nil
	}
	return st, true, nil
}

// SaveState implements StateStore.
func (f *FileStore) SaveState(_ context.Context, k Key, st State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("state encode %s: %w", k, err)
	}
	if err := fsutil.WriteFileAtomic(f.statePath(k), data, 0o644); err != nil {
		return fmt.Errorf("state save %s: %w", k, err)
	}
	return nil
}

// HasCooldown implements CooldownStore.
func (f *FileStore) HasCooldown(_ context.Context, k Key) (bool, error) {
	_, err := os.Stat(f.cooldownPath(k))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cooldown check %s: %w", k, err)
	}
	return true, nil
}

// MarkCooldown implements CooldownStore.
func (f *FileStore) MarkCooldown(_ context.Context, k Key, at time.Time) error {
	if err := fsutil.WriteFileAtomic(f.cooldownPath(k), []byte(at.UTC().Format(time.RFC3339Nano)), 0o644); err != nil {
		return fmt.Errorf("cooldown mark %s: %w", k, err)
	}
	return nil
}

// ClearCooldown implements CooldownStore.
func (f *FileStore) ClearCooldown(_ context.Context, k Key) error {
	err := os.Remove(f.cooldownPath(k))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("cooldown clear %s: %w", k, err)
	}
	return nil
}

// Close implements Store. FileStore holds no resources.
func (f *FileStore) Close() error { return nil }
