package metadata

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func setupCache(t *testing.T) *Cache {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
		CREATE TABLE metadata_cache (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			expires_at TIMESTAMP NOT NULL
		)`)
	require.NoError(t, err)
	return NewCache(db)
}

func TestCache_SetGet(t *testing.T) {
	cache := setupCache(t)
	ctx := context.Background()

	_, ok := cache.Get(ctx, "movie:550")
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, "movie:550", []byte(`{"title":"Fight Club"}`), time.Hour))

	got, ok := cache.Get(ctx, "movie:550")
	require.True(t, ok)
	assert.Equal(t, `{"title":"Fight Club"}`, string(got))

	// Overwrite replaces the value.
	require.NoError(t, cache.Set(ctx, "movie:550", []byte(`{"title":"Updated"}`), time.Hour))
	got, ok = cache.Get(ctx, "movie:550")
	require.True(t, ok)
	assert.Equal(t, `{"title":"Updated"}`, string(got))
}

func TestCache_Expiry(t *testing.T) {
	cache := setupCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "stale", []byte("old"), -time.Minute))

	_, ok := cache.Get(ctx, "stale")
	assert.False(t, ok, "expired entries are misses")
}

func TestCache_Prune(t *testing.T) {
	cache := setupCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "stale", []byte("old"), -time.Minute))
	require.NoError(t, cache.Set(ctx, "fresh", []byte("new"), time.Hour))

	removed, err := cache.Prune(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, ok := cache.Get(ctx, "fresh")
	assert.True(t, ok)
}
