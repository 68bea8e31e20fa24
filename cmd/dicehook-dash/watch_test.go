package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func TestWatcherReportsChange(t *testing.T) {
	dir := t.TempDir()
	w := newWatcher([]string{dir, filepath.Join(dir, "missing")})
	if w == nil {
		t.Fatal("newWatcher returned nil for an existing dir")
	}
	defer w.Close()

	msgs := make(chan tea.Msg, 1)
	go func() { msgs <- waitForChange(w)() }()

	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "slots.yaml"), []byte("slots: {}\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	select {
	case msg := <-msgs:
		if _, ok := msg.(fsChangeMsg); !ok {
			t.Errorf("expected fsChangeMsg, got %T", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for fsChangeMsg")
	}
}

func TestWatcherWithoutDirs(t *testing.T) {
	if w := newWatcher([]string{filepath.Join(t.TempDir(), "nope")}); w != nil {
		_ = w.Close()
		t.Error("newWatcher should return nil when nothing exists")
	}
	if cmd := waitForChange(nil); cmd != nil {
		t.Error("waitForChange(nil) should be nil")
	}
}
