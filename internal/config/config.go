package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"dicehook/internal/fsutil"
	"dicehook/internal/logger"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Backend names.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Config is the contents of config.toml after env overrides.
type Config struct {
	Backend  string `toml:"backend" validate:"oneof=file sqlite"`
	LogLevel string `toml:"log_level" validate:"oneof=debug info warn warning error"`
	// LogFormat is "text" or "json".
	LogFormat string `toml:"log_format" validate:"oneof=text json"`
	// Seed makes rolls reproducible; 0 means random.
	Seed uint64 `toml:"seed"`

	TranscriptCacheSize int      `toml:"transcript_cache_size" validate:"gte=1"`
	TranscriptCacheTTL  Duration `toml:"transcript_cache_ttl"`
}

// Duration is a time.Duration written as a string ("30s") in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Backend:             BackendFile,
		LogLevel:            "warn",
		LogFormat:           "text",
		TranscriptCacheSize: 64,
		TranscriptCacheTTL:  Duration{30 * time.Second},
	}
}

// DotEnvFile is read from the working directory by WithDotEnv.
const DotEnvFile = ".env"

// WithDotEnv returns a lookup that consults getenv first and falls back to
// DICEHOOK_* values from the dotenv file at path. The process environment
// is never modified; a missing or unreadable file leaves getenv as is.
func WithDotEnv(getenv func(string) string, path string) func(string) string {
	vals, err := godotenv.Read(path)
	if err != nil || len(vals) == 0 {
		return getenv
	}
	return func(k string) string {
		if v := getenv(k); v != "" {
			return v
		}
		if strings.HasPrefix(k, envPrefix) {
			return vals[k]
		}
		return ""
	}
}

const envPrefix = "DICEHOOK_"

// Load reads the TOML file at path (if present), applies DICEHOOK_*
// overrides from getenv, and validates the result.
func Load(path string, getenv func(string) string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg, getenv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config, getenv func(string) string) error {
	if v := getenv("DICEHOOK_BACKEND"); v != "" {
		cfg.Backend = v
	}
	if v := getenv("DICEHOOK_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := getenv("DICEHOOK_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := getenv("DICEHOOK_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid DICEHOOK_SEED value: %w", err)
		}
		cfg.Seed = seed
	}
	return nil
}

// Validate checks field values.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s=%v (%s %s)", fe.Field(), fe.Value(), fe.Tag(), fe.Param())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Save writes c as TOML to path, creating the directory if needed.
func Save(path string, c Config) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir for config: %w", err)
	}
	if err := fsutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// Logger returns the logger settings carried by c.
func (c Config) Logger() logger.Config {
	return logger.Config{Level: c.LogLevel, Format: c.LogFormat}
}
