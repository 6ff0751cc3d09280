package db

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

// setupTestDB connects to the database for integration testing.
// Skipped if DATABASE_URL is not set or connection fails.
func setupTestDB(t *testing.T) *DB {
	t.Helper()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	db, err := Connect(ctx, dbURL)
	if err != nil {
		t.Skipf("Skipping integration test: failed to connect to DB: %v", err)
	}
	require.NoError(t, db.EnsureSchema(ctx))
	return db
}

func TestBrowserStorageCRUD(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()
	session := uuid.New()

	// 1. Missing
	_, ok, err := db.Get(ctx, session, storage.ProfileDataKey)
	require.NoError(t, err)
	assert.False(t, ok)

	// 2. Set and overwrite
	require.NoError(t, db.Set(ctx, session, storage.ProfileDataKey, `{"skills":["Go"]}`))
	require.NoError(t, db.Set(ctx, session, storage.ProfileDataKey, `{"skills":["SQL"]}`))
	require.NoError(t, db.Set(ctx, session, storage.ContactFormDataKey, `{"name":"A"}`))

	value, ok, err := db.Get(ctx, session, storage.ProfileDataKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"skills":["SQL"]}`, value)

	contactValue, ok, err := db.Get(ctx, session, storage.ContactFormDataKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"name":"A"}`, contactValue)

	// 3. Remove
	require.NoError(t, db.Remove(ctx, session, storage.ProfileDataKey))
	_, ok, err = db.Get(ctx, session, storage.ProfileDataKey)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, db.Remove(ctx, session, storage.ContactFormDataKey))
}

func TestDB_ImplementsBackend(t *testing.T) {
	var _ storage.Backend = (*DB)(nil)
}
