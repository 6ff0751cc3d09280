package ratelimit

import (
	"fmt"
	"time"

	"github.com/jonathan/profile-editor/internal/config"
)

// Rule limits one route. Path ending in "/" matches by prefix.
type Rule struct {
	Path   string
	Method string
	Limit  int // requests per Window; 0 means unlimited
	Window time.Duration
	Burst  int // defaults to Limit when 0
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled      bool          `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	WriteLimit   int           `env:"RATE_LIMIT_WRITE_LIMIT" envDefault:"120"`
	WriteWindow  time.Duration `env:"RATE_LIMIT_WRITE_WINDOW" envDefault:"1m"`
	IdleEviction time.Duration `env:"RATE_LIMIT_IDLE_EVICTION" envDefault:"1h"`
	Allowlist    []string      `env:"RATE_LIMIT_ALLOWLIST" envSeparator:","`

	Rules []Rule `env:"-"`
}

// LoadConfig reads RATE_LIMIT_* variables and attaches the default route rules.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return nil, err
	}
	if cfg.WriteLimit < 0 {
		return nil, fmt.Errorf("RATE_LIMIT_WRITE_LIMIT must be non-negative, got: %d", cfg.WriteLimit)
	}
	if cfg.WriteWindow <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_WRITE_WINDOW must be positive, got: %s", cfg.WriteWindow)
	}
	cfg.Rules = DefaultRules()
	return &cfg, nil
}

// DefaultRules returns the per-route limits applied on top of the write limit.
func DefaultRules() []Rule {
	return []Rule{
		{Path: "/contact", Method: "POST", Limit: 10, Window: time.Minute, Burst: 5},
		{Path: "/reset", Method: "POST", Limit: 5, Window: time.Minute, Burst: 2},
	}
}
