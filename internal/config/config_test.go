package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	// Create temp config file
	content := `{
		"port": 9090,
		"storage_backend": "postgres",
		"database_url": "postgres://localhost/profile",
		"fetch_delay": "250ms",
		"verbose": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, BackendPostgres, cfg.StorageBackend)
	assert.Equal(t, "postgres://localhost/profile", cfg.DatabaseURL)
	assert.Equal(t, 250*time.Millisecond, cfg.FetchDelayDuration())
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	content := `{ invalid json }`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestValidate_BackendRequirements(t *testing.T) {
	tests := []struct {
		name   string
		cfg    Config
		errMsg string
	}{
		{name: "unknown backend", cfg: Config{StorageBackend: "mongo"}, errMsg: "unknown storage_backend"},
		{name: "sqlite without path", cfg: Config{StorageBackend: BackendSQLite}, errMsg: "sqlite_path"},
		{name: "postgres without url", cfg: Config{StorageBackend: BackendPostgres}, errMsg: "database_url"},
		{name: "redis without url", cfg: Config{StorageBackend: BackendRedis}, errMsg: "redis_url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestValidate_Durations(t *testing.T) {
	cfg := Config{FetchDelay: "soon"}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch_delay")

	cfg = Config{PageIdleTimeout: "-1m"}
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be non-negative")
}

func TestValidate_Port(t *testing.T) {
	cfg := Config{Port: 70000}
	assert.Error(t, cfg.Validate())
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := Defaults()
	assert.NoError(t, cfg.Validate())

	memory := Config{StorageBackend: BackendMemory}
	assert.NoError(t, memory.Validate())
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{
		StorageBackend: BackendRedis,
		RedisURL:       "redis://localhost:6379/0",
	}

	merged := cfg.MergeWithDefaults(Defaults())

	assert.Equal(t, BackendRedis, merged.StorageBackend)
	assert.Equal(t, "redis://localhost:6379/0", merged.RedisURL)
	assert.Equal(t, 8080, merged.Port)
	assert.Equal(t, "1s", merged.FetchDelay)
	assert.Equal(t, time.Second, merged.FetchDelayDuration())
	assert.Equal(t, 30*time.Minute, merged.PageIdleTimeoutDuration())
}

func TestMergeWithDefaults_EmptyDefaults(t *testing.T) {
	cfg := Config{Port: 1234}
	merged := cfg.MergeWithDefaults(Config{})

	assert.Equal(t, 1234, merged.Port)
	assert.Empty(t, merged.StorageBackend)
	assert.Zero(t, merged.FetchDelayDuration())
}

func TestMergeWithDefaults_Layers(t *testing.T) {
	file := Config{Port: 9000}
	env := Config{Port: 7000, StorageBackend: BackendMemory, Verbose: true}

	merged := file.MergeWithDefaults(env.MergeWithDefaults(Defaults()))

	assert.Equal(t, 9000, merged.Port, "file wins over env")
	assert.Equal(t, BackendMemory, merged.StorageBackend, "env wins over defaults")
	assert.True(t, merged.Verbose)
}
