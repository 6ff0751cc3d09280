package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jonathan/profile-editor/internal/config"
	"github.com/jonathan/profile-editor/internal/db"
	"github.com/jonathan/profile-editor/internal/storage"
	"github.com/jonathan/profile-editor/internal/storage/redisstore"
	"github.com/jonathan/profile-editor/internal/storage/sqlite"
)

// resolveConfig layers the built-in defaults, the environment, and the optional config file,
// in increasing priority. Flags are applied by the caller.
func resolveConfig(configPath string) (config.Config, error) {
	env, err := config.LoadEnv()
	if err != nil {
		return config.Config{}, err
	}
	envCfg := env.AsConfig()
	cfg := envCfg.MergeWithDefaults(config.Defaults())

	if configPath != "" {
		fileCfg, err := config.LoadConfig(configPath)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = fileCfg.MergeWithDefaults(cfg)
	}

	return cfg, nil
}

// openBackend opens the storage backend named in cfg. sessionTTL bounds how long redis keeps an
// untouched session.
func openBackend(ctx context.Context, cfg config.Config, sessionTTL time.Duration) (storage.Backend, error) {
	switch cfg.StorageBackend {
	case config.BackendMemory:
		log.Printf("[storage] using in-memory storage; edits are lost on restart")
		return storage.NewMemory(), nil
	case config.BackendSQLite, "":
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.Printf("[storage] using sqlite at %s", cfg.SQLitePath)
		return store, nil
	case config.BackendPostgres:
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := database.EnsureSchema(ctx); err != nil {
			_ = database.Close()
			return nil, err
		}
		log.Printf("[storage] using postgres")
		return database, nil
	case config.BackendRedis:
		store, err := redisstore.Open(ctx, cfg.RedisURL, sessionTTL)
		if err != nil {
			return nil, err
		}
		log.Printf("[storage] using redis")
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
