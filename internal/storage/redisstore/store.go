// Package redisstore provides a Redis-backed storage backend so several server instances can
// share browser storage.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "profile-editor:"

// Store keeps one Redis hash per session, with the storage keys as hash fields.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// Open connects to the Redis server at url. A positive ttl expires idle sessions.
func Open(ctx context.Context, url string, ttl time.Duration) (*Store, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return New(client, ttl), nil
}

// New wraps an existing client.
func New(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func sessionKey(session uuid.UUID) string {
	return keyPrefix + session.String()
}

// Get returns the value stored for a session key.
func (s *Store) Get(ctx context.Context, session uuid.UUID, key string) (string, bool, error) {
	value, err := s.client.HGet(ctx, sessionKey(session), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("hget %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores a value and refreshes the session expiry.
func (s *Store) Set(ctx context.Context, session uuid.UUID, key, value string) error {
	hash := sessionKey(session)
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, hash, key, value)
	if s.ttl > 0 {
		pipe.Expire(ctx, hash, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("hset %s: %w", key, err)
	}
	return nil
}

// Remove deletes a session key.
func (s *Store) Remove(ctx context.Context, session uuid.UUID, key string) error {
	if err := s.client.HDel(ctx, sessionKey(session), key).Err(); err != nil {
		return fmt.Errorf("hdel %s: %w", key, err)
	}
	return nil
}

// Ping checks the Redis connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (s *Store) Close() error {
	return s.client.Close()
}
