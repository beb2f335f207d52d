package cachemanager

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type symbolKey string

type entry struct {
	Decimal  string
	Grouping string
}

func TestNewInMemoryCacheManager(t *testing.T) {
	require.NotPanics(t, func() {
		NewInMemoryCacheManager[string, string]("test", DefaultExpiration, DefaultCleanupInterval)
	})
}

func TestInMemoryCacheManager_GetExistingValue_StructType(t *testing.T) {
	cache := NewInMemoryCacheManager[symbolKey, entry]("symbols", DefaultExpiration, DefaultCleanupInterval)
	want := entry{Decimal: ",", Grouping: "."}
	cache.Set(context.Background(), "de-DE", want, DefaultExpiration)

	got, ok := cache.Get(context.Background(), "de-DE")
	require.True(t, ok)
	require.Equal(t, want, got)
	require.Equal(t, 1, cache.ItemCount())
}

func TestInMemoryCacheManager_GetMissing(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("symbols", DefaultExpiration, DefaultCleanupInterval)

	got, ok := cache.Get(context.Background(), "fr-FR")
	require.False(t, ok)
	require.Empty(t, got)
}

func TestInMemoryCacheManager_GetWithWrongType(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("symbols", DefaultExpiration, DefaultCleanupInterval)
	cache.cache.Set("en-US", 123, DefaultExpiration)

	got, ok := cache.Get(context.Background(), "en-US")
	require.False(t, ok)
	require.Empty(t, got)
}

func TestInMemoryCacheManager_Expiry(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("symbols", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(context.Background(), "en-US", ".", time.Millisecond)

	time.Sleep(5 * time.Millisecond)
	_, ok := cache.Get(context.Background(), "en-US")
	require.False(t, ok)
}

func TestInMemoryCacheManager_GetWithRefresh(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("symbols", DefaultExpiration, DefaultCleanupInterval)

	_, ok := cache.GetWithRefresh(context.Background(), "en-US", time.Hour)
	require.False(t, ok)

	cache.Set(context.Background(), "en-US", ".", 20*time.Millisecond)
	got, ok := cache.GetWithRefresh(context.Background(), "en-US", time.Hour)
	require.True(t, ok)
	require.Equal(t, ".", got)

	time.Sleep(40 * time.Millisecond)
	got, ok = cache.Get(context.Background(), "en-US")
	require.True(t, ok, "refresh extends the ttl")
	require.Equal(t, ".", got)
}

func TestInMemoryCacheManager_DeleteAndFlush(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("symbols", DefaultExpiration, DefaultCleanupInterval)
	ctx := context.Background()

	require.NoError(t, cache.Delete(ctx))

	cache.Set(ctx, "a", "1", NoExpiration)
	cache.Set(ctx, "b", "2", NoExpiration)
	cache.Set(ctx, "c", "3", NoExpiration)

	require.NoError(t, cache.Delete(ctx, "a", "b"))
	_, ok := cache.Get(ctx, "a")
	require.False(t, ok)
	require.Equal(t, 1, cache.ItemCount())

	require.NoError(t, cache.Flush(ctx))
	require.Zero(t, cache.ItemCount())
}
