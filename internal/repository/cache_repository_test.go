package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/academic-scheduler-api/pkg/errors"
)

func newCacheRepo(t *testing.T) (*CacheRepository, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCacheRepository(client, "schedview:", nil), mr
}

func TestCacheRepositoryRoundTrip(t *testing.T) {
	repo, mr := newCacheRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "faculty:2", map[string]int{"rows": 3}, time.Minute))
	assert.True(t, mr.Exists("schedview:faculty:2"))

	var got map[string]int
	require.NoError(t, repo.Get(ctx, "faculty:2", &got))
	assert.Equal(t, 3, got["rows"])

	mr.FastForward(2 * time.Minute)
	assert.ErrorIs(t, repo.Get(ctx, "faculty:2", &got), appErrors.ErrCacheMiss)
}

func TestCacheRepositoryPurgeKeepsForeignKeys(t *testing.T) {
	repo, mr := newCacheRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "faculty:1", 1, 0))
	require.NoError(t, repo.Set(ctx, "room:4", 1, 0))
	require.NoError(t, mr.Set("other:key", "x"))

	removed, err := repo.Purge(ctx, "*")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.True(t, mr.Exists("other:key"))
}

func TestCacheRepositoryNilClient(t *testing.T) {
	repo := NewCacheRepository(nil, "x:", nil)
	var dest string
	assert.ErrorIs(t, repo.Get(context.Background(), "k", &dest), appErrors.ErrCacheMiss)
	assert.NoError(t, repo.Set(context.Background(), "k", "v", 0))
	n, err := repo.Purge(context.Background(), "*")
	assert.NoError(t, err)
	assert.Zero(t, n)
}
