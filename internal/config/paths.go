// Package config resolves where dicehook keeps its files and how it is
// configured: config.toml under the home directory, an optional .env file,
// and DICEHOOK_* environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// HomeDirName is the user-level state directory (e.g. ~/.dicehook).
const HomeDirName = ".dicehook"

// Paths holds all resolved dicehook file locations.
type Paths struct {
	Home         string // ~/.dicehook or DICEHOOK_HOME
	ConfigPath   string // config.toml
	RegistryPath string // slots.yaml or DICEHOOK_REGISTRY
	StateDir     string // state/ or DICEHOOK_STATE_DIR
	CooldownDir  string // cooldowns/ or DICEHOOK_COOLDOWN_DIR
	DBPath       string // state.db or DICEHOOK_DB_PATH
	LogPath      string // dicehook.log or DICEHOOK_LOG
}

// ResolvePaths returns all paths, respecting env overrides. getenv is
// usually os.Getenv.
//
// If DICEHOOK_HOME is set it becomes the base for every default path;
// the specific variables override both.
func ResolvePaths(getenv func(string) string) (*Paths, error) {
	home, err := resolveHome(getenv)
	if err != nil {
		return nil, err
	}

	return &Paths{
		Home:         home,
		ConfigPath:   filepath.Join(home, "config.toml"),
		RegistryPath: resolvePathWithEnv(getenv, "DICEHOOK_REGISTRY", home, "slots.yaml"),
		StateDir:     resolvePathWithEnv(getenv, "DICEHOOK_STATE_DIR", home, "state"),
		CooldownDir:  resolvePathWithEnv(getenv, "DICEHOOK_COOLDOWN_DIR", home, "cooldowns"),
		DBPath:       resolvePathWithEnv(getenv, "DICEHOOK_DB_PATH", home, "state.db"),
		LogPath:      resolvePathWithEnv(getenv, "DICEHOOK_LOG", home, "dicehook.log"),
	}, nil
}

func resolveHome(getenv func(string) string) (string, error) {
	if v := getenv("DICEHOOK_HOME"); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, HomeDirName), nil
}

func resolvePathWithEnv(getenv func(string) string, envKey, base, suffix string) string {
	if v := getenv(envKey); v != "" {
		return v
	}
	return filepath.Join(base, suffix)
}
