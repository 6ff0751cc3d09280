// Package db provides PostgreSQL-backed browser storage.
package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS browser_storage (
	session_id UUID NOT NULL,
	key        TEXT NOT NULL,
	value      TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (session_id, key)
)`

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// EnsureSchema creates the storage table if it does not exist
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the connection pool
func (db *DB) Close() error {
	if db.pool != nil {
		db.pool.Close()
	}
	return nil
}

// Ping verifies the database is reachable
func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

// Get retrieves a stored value for a session
func (db *DB) Get(ctx context.Context, session uuid.UUID, key string) (string, bool, error) {
	var value string
	err := db.pool.QueryRow(ctx,
		`SELECT value FROM browser_storage WHERE session_id = $1 AND key = $2`,
		session, key,
	).Scan(&value)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores a value for a session, replacing any previous one
func (db *DB) Set(ctx context.Context, session uuid.UUID, key, value string) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO browser_storage (session_id, key, value)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (session_id, key) DO UPDATE SET value = $3, updated_at = NOW()`,
		session, key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// Remove deletes a stored value for a session
func (db *DB) Remove(ctx context.Context, session uuid.UUID, key string) error {
	_, err := db.pool.Exec(ctx,
		`DELETE FROM browser_storage WHERE session_id = $1 AND key = $2`,
		session, key,
	)
	if err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}
