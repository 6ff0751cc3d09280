package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Env holds settings read from environment variables.
type Env struct {
	Port            int           `env:"PROFILE_EDITOR_PORT"`
	StorageBackend  string        `env:"PROFILE_EDITOR_STORAGE"`
	SQLitePath      string        `env:"PROFILE_EDITOR_SQLITE_PATH"`
	DatabaseURL     string        `env:"DATABASE_URL"`
	RedisURL        string        `env:"REDIS_URL"`
	FetchDelay      time.Duration `env:"PROFILE_EDITOR_FETCH_DELAY"`
	PageIdleTimeout time.Duration `env:"PROFILE_EDITOR_PAGE_IDLE_TIMEOUT"`
	Verbose         bool          `env:"PROFILE_EDITOR_VERBOSE"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadEnv reads Env from the process environment.
func LoadEnv() (*Env, error) {
	var e Env
	if err := ParseEnv(&e); err != nil {
		return nil, err
	}
	return &e, nil
}

// AsConfig converts the environment settings into a Config layer. Unset values stay empty.
func (e *Env) AsConfig() Config {
	cfg := Config{
		Port:           e.Port,
		StorageBackend: e.StorageBackend,
		SQLitePath:     e.SQLitePath,
		DatabaseURL:    e.DatabaseURL,
		RedisURL:       e.RedisURL,
		Verbose:        e.Verbose,
	}
	if e.FetchDelay > 0 {
		cfg.FetchDelay = e.FetchDelay.String()
	}
	if e.PageIdleTimeout > 0 {
		cfg.PageIdleTimeout = e.PageIdleTimeout.String()
	}
	return cfg
}
