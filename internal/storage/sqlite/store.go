// Package sqlite provides an on-disk storage backend using SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS browser_storage (
	session_id TEXT NOT NULL,
	key        TEXT NOT NULL,
	value      TEXT NOT NULL,
	updated_at INTEGER NOT NULL,
	PRIMARY KEY (session_id, key)
)`

// Store provides SQLite-backed persistence for browser storage values.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a SQLite store at the provided path, creating the table if needed.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{sqlDB: sqlDB}, nil
}

// Get returns the value stored for a session key.
func (s *Store) Get(ctx context.Context, session uuid.UUID, key string) (string, bool, error) {
	var value string
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT value FROM browser_storage WHERE session_id = ? AND key = ?`,
		session.String(), key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores a value, replacing any previous one.
func (s *Store) Set(ctx context.Context, session uuid.UUID, key, value string) error {
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO browser_storage (session_id, key, value, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (session_id, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		session.String(), key, value, time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Remove deletes a session key.
func (s *Store) Remove(ctx context.Context, session uuid.UUID, key string) error {
	_, err := s.sqlDB.ExecContext(ctx,
		`DELETE FROM browser_storage WHERE session_id = ? AND key = ?`,
		session.String(), key,
	)
	if err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

// Ping checks the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.sqlDB.PingContext(ctx)
}

// Close closes the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}
