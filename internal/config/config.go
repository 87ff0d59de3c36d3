// Package config resolves runtime settings from defaults, an optional YAML
// file and TWELVEWEEKS_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/alexanderramin/twelveweeks/internal/api"
)

// Config holds all client settings.
type Config struct {
	// APIURL is the API base URL including the /api prefix.
	APIURL string `yaml:"api_url"`

	// Timeout bounds every API request.
	Timeout time.Duration `yaml:"timeout"`

	// WeekGoalsTimeout bounds each per-week goal fetch while loading a plan.
	WeekGoalsTimeout time.Duration `yaml:"week_goals_timeout"`

	// WeekConcurrency caps concurrent per-week goal fetches.
	WeekConcurrency int `yaml:"week_concurrency"`

	// ListTTL applies to cached plan lists; DetailTTL to everything else.
	ListTTL   time.Duration `yaml:"list_ttl"`
	DetailTTL time.Duration `yaml:"detail_ttl"`

	// DBPath is the SQLite file holding the session and preferences.
	DBPath string `yaml:"db_path"`

	// DemoFallback serves a sample plan when the API is unreachable
	// (default true).
	DemoFallback *bool `yaml:"demo_fallback"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Dir returns ~/.twelveweeks.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".twelveweeks"), nil
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// DefaultConfig returns a Config with sensible defaults. DBPath is left
// empty when the home directory cannot be resolved.
func DefaultConfig() Config {
	cfg := Config{
		APIURL:           api.DefaultBaseURL,
		Timeout:          10 * time.Second,
		WeekGoalsTimeout: 3 * time.Second,
		WeekConcurrency:  4,
		ListTTL:          15 * time.Minute,
		DetailTTL:        5 * time.Minute,
		LogLevel:         "error",
	}
	if dir, err := Dir(); err == nil {
		cfg.DBPath = filepath.Join(dir, "twelveweeks.db")
	}
	return cfg
}

// Load builds the effective configuration. A missing file at path is not an
// error; an unreadable or invalid one is. Environment variables win over
// the file, and invalid environment values are ignored.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		if err := mergeFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}
	applyEnv(&cfg, os.Getenv)
	cfg.applyDefaults()
	return cfg, nil
}

func mergeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config, getenv func(string) string) {
	if v := getenv("TWELVEWEEKS_API_URL"); v != "" {
		cfg.APIURL = v
	}
	envDuration(getenv, "TWELVEWEEKS_TIMEOUT", &cfg.Timeout)
	envDuration(getenv, "TWELVEWEEKS_WEEK_GOALS_TIMEOUT", &cfg.WeekGoalsTimeout)
	envDuration(getenv, "TWELVEWEEKS_LIST_TTL", &cfg.ListTTL)
	envDuration(getenv, "TWELVEWEEKS_DETAIL_TTL", &cfg.DetailTTL)
	if v := getenv("TWELVEWEEKS_WEEK_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.WeekConcurrency = n
		}
	}
	if v := getenv("TWELVEWEEKS_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := getenv("TWELVEWEEKS_DEMO_FALLBACK"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.DemoFallback = &b
		}
	}
	if v := getenv("TWELVEWEEKS_LOG_LEVEL"); v != "" {
		if _, ok := parseLevel(v); ok {
			cfg.LogLevel = v
		}
	}
}

func envDuration(getenv func(string) string, name string, dst *time.Duration) {
	v := getenv(name)
	if v == "" {
		return
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		*dst = d
	}
}

// applyDefaults repairs zero or negative values left by the file.
func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.APIURL == "" {
		c.APIURL = def.APIURL
	}
	if c.Timeout <= 0 {
		c.Timeout = def.Timeout
	}
	if c.WeekGoalsTimeout <= 0 {
		c.WeekGoalsTimeout = def.WeekGoalsTimeout
	}
	if c.WeekConcurrency <= 0 {
		c.WeekConcurrency = def.WeekConcurrency
	}
	if c.ListTTL <= 0 {
		c.ListTTL = def.ListTTL
	}
	if c.DetailTTL <= 0 {
		c.DetailTTL = def.DetailTTL
	}
	if c.DBPath == "" {
		c.DBPath = def.DBPath
	}
	if _, ok := parseLevel(c.LogLevel); !ok {
		c.LogLevel = def.LogLevel
	}
}

// Demo reports whether the demo fallback is enabled.
func (c Config) Demo() bool {
	if c.DemoFallback == nil {
		return true
	}
	return *c.DemoFallback
}

// API returns the transport settings for the API client.
func (c Config) API() api.Config {
	cfg := api.DefaultConfig()
	cfg.BaseURL = c.APIURL
	cfg.Timeout = c.Timeout
	return cfg
}

// Level returns LogLevel as a slog level.
func (c Config) Level() slog.Level {
	lvl, _ := parseLevel(c.LogLevel)
	return lvl
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelError, false
}
