package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonathan/profile-editor/internal/config"
	"github.com/jonathan/profile-editor/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearConfigEnv isolates a test from PROFILE_EDITOR_* values loaded from .env.
func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PROFILE_EDITOR_STORAGE",
		"PROFILE_EDITOR_SQLITE_PATH",
		"DATABASE_URL",
		"REDIS_URL",
	} {
		t.Setenv(key, "")
	}
}

func TestResolveConfig_DefaultsOnly(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := resolveConfig("")
	require.NoError(t, err)

	defaults := config.Defaults()
	assert.Equal(t, defaults.StorageBackend, cfg.StorageBackend)
	assert.Equal(t, defaults.SQLitePath, cfg.SQLitePath)
	assert.Equal(t, defaults.FetchDelay, cfg.FetchDelay)
}

func TestResolveConfig_FileOverridesEnv(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("PROFILE_EDITOR_STORAGE", config.BackendMemory)
	t.Setenv("PROFILE_EDITOR_PORT", "9000")

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"port": 9100, "fetch_delay": "10ms"}`), 0644))

	cfg, err := resolveConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, config.BackendMemory, cfg.StorageBackend)
	assert.Equal(t, 10*time.Millisecond, cfg.FetchDelayDuration())
	assert.Equal(t, config.Defaults().PageIdleTimeout, cfg.PageIdleTimeout)
}

func TestResolveConfig_MissingFile(t *testing.T) {
	clearConfigEnv(t)

	_, err := resolveConfig(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestOpenBackend_Memory(t *testing.T) {
	backend, err := openBackend(context.Background(), config.Config{StorageBackend: config.BackendMemory}, time.Hour)
	require.NoError(t, err)
	defer backend.Close() //nolint:errcheck

	_, ok := backend.(*storage.Memory)
	assert.True(t, ok)
}

func TestOpenBackend_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.db")

	backend, err := openBackend(context.Background(), config.Config{StorageBackend: config.BackendSQLite, SQLitePath: path}, time.Hour)
	require.NoError(t, err)
	defer backend.Close() //nolint:errcheck

	assert.NoError(t, backend.Ping(context.Background()))
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestOpenBackend_Unknown(t *testing.T) {
	_, err := openBackend(context.Background(), config.Config{StorageBackend: "mongo"}, time.Hour)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown storage backend")
}

func TestOpenConfiguredBackend_RejectsMemory(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("PROFILE_EDITOR_STORAGE", config.BackendMemory)

	_, err := openConfiguredBackend(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "memory backend")
}

func TestOpenConfiguredBackend_SQLite(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("PROFILE_EDITOR_SQLITE_PATH", filepath.Join(t.TempDir(), "cli.db"))
	t.Setenv("SESSION_SECRET", "test-secret-key-for-testing-only")

	backend, err := openConfiguredBackend(context.Background(), "")
	require.NoError(t, err)
	assert.NoError(t, backend.Close())
}
