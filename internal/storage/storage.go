// Package storage provides the per-browser key/value storage the profile editor persists into.
//
// A Backend holds values for every session; a Store is the view of a single session, which is
// what the profile and contact components are given.
package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Storage keys used by the editor.
const (
	ProfileDataKey     = "profileData"
	ContactFormDataKey = "contactFormData"
)

// Store is the key/value storage of one browser session.
type Store interface {
	// Get returns the stored value and whether the key was present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Backend stores values for all sessions.
type Backend interface {
	Get(ctx context.Context, session uuid.UUID, key string) (string, bool, error)
	Set(ctx context.Context, session uuid.UUID, key, value string) error
	Remove(ctx context.Context, session uuid.UUID, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// ForSession returns the Store of a single session on the given backend.
func ForSession(b Backend, session uuid.UUID) Store {
	return &sessionStore{backend: b, session: session}
}

type sessionStore struct {
	backend Backend
	session uuid.UUID
}

func (s *sessionStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, ok, err := s.backend.Get(ctx, s.session, key)
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, ok, nil
}

func (s *sessionStore) Set(ctx context.Context, key, value string) error {
	if err := s.backend.Set(ctx, s.session, key, value); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *sessionStore) Remove(ctx context.Context, key string) error {
	if err := s.backend.Remove(ctx, s.session, key); err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

// Memory is an in-process Backend. Values are lost when the process exits.
type Memory struct {
	mu     sync.RWMutex
	values map[uuid.UUID]map[string]string
}

// NewMemory creates an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{values: make(map[uuid.UUID]map[string]string)}
}

// Get implements Backend.
func (m *Memory) Get(_ context.Context, session uuid.UUID, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.values[session][key]
	return value, ok, nil
}

// Set implements Backend.
func (m *Memory) Set(_ context.Context, session uuid.UUID, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.values[session] == nil {
		m.values[session] = make(map[string]string)
	}
	m.values[session][key] = value
	return nil
}

// Remove implements Backend.
func (m *Memory) Remove(_ context.Context, session uuid.UUID, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values[session], key)
	if len(m.values[session]) == 0 {
		delete(m.values, session)
	}
	return nil
}

// Ping implements Backend.
func (m *Memory) Ping(context.Context) error { return nil }

// Close implements Backend.
func (m *Memory) Close() error { return nil }

// MapStore is a Store backed by a plain map, for tests and single-session tools.
type MapStore struct {
	mu     sync.Mutex
	Values map[string]string
	Writes int
}

// NewMapStore returns an empty MapStore.
func NewMapStore() *MapStore {
	return &MapStore{Values: make(map[string]string)}
}

// Get implements Store.
func (s *MapStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.Values[key]
	return value, ok, nil
}

// Set implements Store. Every call counts as a write.
func (s *MapStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Values[key] = value
	s.Writes++
	return nil
}

// Remove implements Store.
func (s *MapStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Values, key)
	return nil
}
