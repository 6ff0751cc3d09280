package config

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnv(t *testing.T) {
	t.Setenv("PROFILE_EDITOR_PORT", "9999")
	t.Setenv("PROFILE_EDITOR_STORAGE", BackendRedis)
	t.Setenv("REDIS_URL", "redis://cache:6379/1")
	t.Setenv("PROFILE_EDITOR_FETCH_DELAY", "1500ms")
	t.Setenv("PROFILE_EDITOR_VERBOSE", "true")

	e, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, 9999, e.Port)
	assert.Equal(t, 1500*time.Millisecond, e.FetchDelay)

	cfg := e.AsConfig()
	assert.Equal(t, BackendRedis, cfg.StorageBackend)
	assert.Equal(t, "redis://cache:6379/1", cfg.RedisURL)
	assert.Equal(t, "1.5s", cfg.FetchDelay)
	assert.Empty(t, cfg.PageIdleTimeout)
	assert.True(t, cfg.Verbose)
}

func TestLoadEnv_InvalidValue(t *testing.T) {
	t.Setenv("PROFILE_EDITOR_PORT", "not-an-int")

	_, err := LoadEnv()
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "parse env:"))
}

func TestNewSessionConfig(t *testing.T) {
	t.Setenv("SESSION_SECRET", "test-secret-key")
	t.Setenv("SESSION_TTL_HOURS", "")
	os.Unsetenv("SESSION_TTL_HOURS")

	cfg, err := NewSessionConfig()
	require.NoError(t, err)
	assert.Equal(t, "test-secret-key", cfg.Secret)
	assert.Equal(t, 720, cfg.TTLHours, "should use default TTL")
}

func TestNewSessionConfig_GeneratesSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")

	a, err := NewSessionConfig()
	require.NoError(t, err)
	b, err := NewSessionConfig()
	require.NoError(t, err)

	assert.Len(t, a.Secret, 64)
	assert.NotEqual(t, a.Secret, b.Secret)
}

func TestNewSessionConfig_InvalidTTL(t *testing.T) {
	t.Setenv("SESSION_SECRET", "s")

	tests := []struct {
		ttl    string
		errMsg string
	}{
		{ttl: "0", errMsg: "at least 1 hour"},
		{ttl: "-5", errMsg: "at least 1 hour"},
		{ttl: "abc", errMsg: "parse env"},
	}
	for _, tt := range tests {
		t.Run(tt.ttl, func(t *testing.T) {
			t.Setenv("SESSION_TTL_HOURS", tt.ttl)
			_, err := NewSessionConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
