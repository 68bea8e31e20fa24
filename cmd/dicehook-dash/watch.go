package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"dicehook/internal/app"
)

const debounceDuration = 100 * time.Millisecond

// fsChangeMsg is sent once a burst of file changes has settled.
type fsChangeMsg struct{}

// watchDirs lists the directories whose changes affect the dashboard: the
// home (registry, sqlite db) and this session's state and cooldown folders.
func watchDirs(a *app.App, sessionKey string) []string {
	return []string{
		a.Paths.Home,
		filepath.Dir(a.Paths.RegistryPath),
		filepath.Join(a.Paths.StateDir, sessionKey),
		filepath.Join(a.Paths.CooldownDir, sessionKey),
	}
}

// newWatcher watches every existing directory in dirs. It returns nil when
// nothing could be watched; the dashboard then relies on the tick alone.
func newWatcher(dirs []string) *fsnotify.Watcher {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		slog.Warn("fsnotify: failed to create watcher, falling back to polling", "error", err)
		return nil
	}

	watched := 0
	seen := map[string]bool{}
	for _, dir := range dirs {
		if seen[dir] {
			continue
		}
		seen[dir] = true
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			slog.Warn("fsnotify: failed to watch", "dir", dir, "error", err)
			continue
		}
		watched++
	}

	if watched == 0 {
		_ = watcher.Close()
		return nil
	}
	return watcher
}

// waitForChange blocks until watcher reports changes and they have been
// quiet for debounceDuration. A nil watcher never fires.
func waitForChange(watcher *fsnotify.Watcher) tea.Cmd {
	if watcher == nil {
		return nil
	}
	return func() tea.Msg {
		timer := time.NewTimer(0)
		if !timer.Stop() {
			<-timer.C
		}
		defer timer.Stop()

		for {
			select {
			case _, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				resetTimer(timer)

			case <-timer.C:
				return fsChangeMsg{}

			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				slog.Warn("fsnotify: watcher error", "error", err)
				return nil
			}
		}
	}
}

func resetTimer(timer *time.Timer) {
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
	timer.Reset(debounceDuration)
}
