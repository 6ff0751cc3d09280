package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
)

// SessionConfig holds configuration for the signed session cookie.
type SessionConfig struct {
	Secret   string `env:"SESSION_SECRET"`
	TTLHours int    `env:"SESSION_TTL_HOURS" envDefault:"720"`
}

// NewSessionConfig creates a session configuration from environment variables.
// It reads SESSION_SECRET and SESSION_TTL_HOURS (default: 720). Without a secret a random one
// is generated, so cookies stop verifying when the process restarts.
func NewSessionConfig() (*SessionConfig, error) {
	var cfg SessionConfig
	if err := ParseEnv(&cfg); err != nil {
		return nil, err
	}

	if cfg.Secret == "" {
		secret, err := randomSecret()
		if err != nil {
			return nil, err
		}
		log.Printf("[config] SESSION_SECRET not set, using a per-process secret")
		cfg.Secret = secret
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// normalize validates the configuration.
func (c *SessionConfig) normalize() error {
	if c.Secret == "" {
		return fmt.Errorf("SESSION_SECRET cannot be empty")
	}
	if c.TTLHours < 1 {
		return fmt.Errorf("SESSION_TTL_HOURS must be at least 1 hour, got: %d", c.TTLHours)
	}
	return nil
}

func randomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
