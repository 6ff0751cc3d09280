// Package config provides configuration loading and validation for the server and CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"
)

// Storage backends.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Config represents the configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Server
	Port int `json:"port,omitempty"` // Port to listen on

	// Storage
	StorageBackend string `json:"storage_backend,omitempty"` // memory, sqlite, postgres or redis
	SQLitePath     string `json:"sqlite_path,omitempty"`     // Database file for the sqlite backend
	DatabaseURL    string `json:"database_url,omitempty"`    // PostgreSQL connection URL
	RedisURL       string `json:"redis_url,omitempty"`       // Redis connection URL

	// Behavior
	FetchDelay      string `json:"fetch_delay,omitempty"`       // Simulated fetch delay, e.g. "1s"
	PageIdleTimeout string `json:"page_idle_timeout,omitempty"` // Drop in-memory page state after this long
	Verbose         bool   `json:"verbose,omitempty"`           // Log every request
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Port:            8080,
		StorageBackend:  BackendSQLite,
		SQLitePath:      "profile-editor.db",
		FetchDelay:      "1s",
		PageIdleTimeout: "30m",
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}

	backends := []string{BackendMemory, BackendSQLite, BackendPostgres, BackendRedis}
	if c.StorageBackend != "" && !slices.Contains(backends, c.StorageBackend) {
		return fmt.Errorf("config error: unknown storage_backend %q", c.StorageBackend)
	}

	// Backend-specific requirements
	switch c.StorageBackend {
	case BackendSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("config error: 'sqlite_path' is required for the sqlite backend")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config error: 'database_url' is required for the postgres backend")
		}
	case BackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("config error: 'redis_url' is required for the redis backend")
		}
	}

	if _, err := parseDuration("fetch_delay", c.FetchDelay); err != nil {
		return err
	}
	if _, err := parseDuration("page_idle_timeout", c.PageIdleTimeout); err != nil {
		return err
	}

	return nil
}

// FetchDelayDuration returns the parsed fetch delay, or zero when unset.
func (c *Config) FetchDelayDuration() time.Duration {
	d, _ := parseDuration("fetch_delay", c.FetchDelay)
	return d
}

// PageIdleTimeoutDuration returns the parsed idle timeout, or zero when unset.
func (c *Config) PageIdleTimeoutDuration() time.Duration {
	d, _ := parseDuration("page_idle_timeout", c.PageIdleTimeout)
	return d
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to layer config file values over environment values over built-in defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.StorageBackend == "" {
		result.StorageBackend = defaults.StorageBackend
	}
	if result.SQLitePath == "" {
		result.SQLitePath = defaults.SQLitePath
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.RedisURL == "" {
		result.RedisURL = defaults.RedisURL
	}
	if result.FetchDelay == "" {
		result.FetchDelay = defaults.FetchDelay
	}
	if result.PageIdleTimeout == "" {
		result.PageIdleTimeout = defaults.PageIdleTimeout
	}

	// Int fields: use default if zero
	if result.Port == 0 {
		result.Port = defaults.Port
	}

	// Bool fields: cannot distinguish unset from false, so a true default wins
	result.Verbose = result.Verbose || defaults.Verbose

	return result
}

func parseDuration(name, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("config error: invalid '%s': %w", name, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("config error: '%s' must be non-negative", name)
	}
	return d, nil
}
