package cachemanager

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInMemoryCacheManager_GetSet(t *testing.T) {
	ctx := context.Background()
	cache := NewInMemoryCacheManager[string, int]("test", DefaultExpiration, DefaultCleanupInterval)

	_, found := cache.Get(ctx, "missing")
	require.False(t, found)

	cache.Set(ctx, "answer", 42, time.Minute)

	value, found := cache.Get(ctx, "answer")
	require.True(t, found)
	require.Equal(t, 42, value)
}

func TestInMemoryCacheManager_Expiration(t *testing.T) {
	ctx := context.Background()
	cache := NewInMemoryCacheManager[string, string]("test", DefaultExpiration, DefaultCleanupInterval)

	cache.Set(ctx, "short", "lived", 20*time.Millisecond)
	time.Sleep(60 * time.Millisecond)

	_, found := cache.Get(ctx, "short")
	require.False(t, found)
}

func TestInMemoryCacheManager_GetWithRefresh(t *testing.T) {
	ctx := context.Background()
	cache := NewInMemoryCacheManager[string, string]("test", DefaultExpiration, DefaultCleanupInterval)

	cache.Set(ctx, "key", "value", 40*time.Millisecond)

	// Refresh resets the ttl so the entry outlives its original window.
	time.Sleep(25 * time.Millisecond)
	value, found := cache.GetWithRefresh(ctx, "key", 200*time.Millisecond)
	require.True(t, found)
	require.Equal(t, "value", value)

	time.Sleep(60 * time.Millisecond)
	_, found = cache.Get(ctx, "key")
	require.True(t, found)
}

func TestInMemoryCacheManager_Delete(t *testing.T) {
	ctx := context.Background()
	cache := NewInMemoryCacheManager[string, int]("test", DefaultExpiration, DefaultCleanupInterval)

	cache.Set(ctx, "a", 1, time.Minute)
	cache.Set(ctx, "b", 2, time.Minute)

	require.NoError(t, cache.Delete(ctx, "a"))
	require.NoError(t, cache.Delete(ctx))

	_, found := cache.Get(ctx, "a")
	require.False(t, found)
	_, found = cache.Get(ctx, "b")
	require.True(t, found)
}

func TestInMemoryCacheManager_Flush(t *testing.T) {
	ctx := context.Background()
	cache := NewInMemoryCacheManager[string, int]("test", DefaultExpiration, DefaultCleanupInterval)

	cache.Set(ctx, "a", 1, time.Minute)
	cache.Set(ctx, "b", 2, time.Minute)

	require.NoError(t, cache.Flush(ctx))

	_, found := cache.Get(ctx, "a")
	require.False(t, found)
}

type widthKey string

func TestInMemoryCacheManager_TypedKeys(t *testing.T) {
	ctx := context.Background()
	cache := NewInMemoryCacheManager[widthKey, []string]("test", DefaultExpiration, DefaultCleanupInterval)

	cache.Set(ctx, widthKey("80"), []string{"line"}, time.Minute)

	value, found := cache.Get(ctx, widthKey("80"))
	require.True(t, found)
	require.Equal(t, []string{"line"}, value)
}
