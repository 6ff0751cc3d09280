package redisstore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/profile-editor/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set, skipping integration test")
	}
	s, err := Open(context.Background(), url, time.Minute)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_SetGetRemove_Integration(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	session := uuid.New()

	_, ok, err := s.Get(ctx, session, storage.ProfileDataKey)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, session, storage.ProfileDataKey, `{"skills":["Go"]}`))
	value, ok, err := s.Get(ctx, session, storage.ProfileDataKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"skills":["Go"]}`, value)

	ttl, err := s.client.TTL(ctx, sessionKey(session)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, s.Remove(ctx, session, storage.ProfileDataKey))
	_, ok, err = s.Get(ctx, session, storage.ProfileDataKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOpen_InvalidURL(t *testing.T) {
	_, err := Open(context.Background(), "not a url", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse redis URL")
}

func TestSessionKey(t *testing.T) {
	id := uuid.MustParse("123e4567-e89b-12d3-a456-426614174000")
	assert.Equal(t, "profile-editor:123e4567-e89b-12d3-a456-426614174000", sessionKey(id))
}
