package cachemanager

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/zjrosen/maskedit/internal/log"
)

const (
	DefaultExpiration      = 30 * time.Minute
	DefaultCleanupInterval = time.Hour
	// NoExpiration keeps an entry until it is deleted or the cache is flushed.
	NoExpiration = gocache.NoExpiration
)

// NewInMemoryCacheManager creates a cache named after its use case. The name
// only appears in log lines.
func NewInMemoryCacheManager[K ~string, V any](useCase string, defaultExpiration, cleanupInterval time.Duration) *InMemoryCacheManager[K, V] {
	return &InMemoryCacheManager[K, V]{
		useCase: useCase,
		cache:   gocache.New(defaultExpiration, cleanupInterval),
	}
}

// InMemoryCacheManager is the go-cache implementation of CacheManager.
type InMemoryCacheManager[K ~string, V any] struct {
	useCase string
	cache   *gocache.Cache
}

var _ CacheManager[string, int] = (*InMemoryCacheManager[string, int])(nil)

// Get retrieves an item from the cache by its key.
func (c *InMemoryCacheManager[K, V]) Get(_ context.Context, key K) (V, bool) {
	var zero V

	value, found := c.cache.Get(string(key))
	if !found {
		log.Debug(log.CatCache, "cache miss", "cache", c.useCase, "key", key)
		return zero, false
	}

	v, ok := value.(V)
	if !ok {
		log.Error(log.CatCache, "wrong type assertion when getting value", "cache", c.useCase, "key", key)
		return zero, false
	}

	log.Debug(log.CatCache, "cache hit", "cache", c.useCase, "key", key)
	return v, true
}

// GetWithRefresh retrieves an item and, when found, extends its TTL by
// putting it back.
func (c *InMemoryCacheManager[K, V]) GetWithRefresh(ctx context.Context, key K, ttl time.Duration) (V, bool) {
	value, found := c.Get(ctx, key)
	if !found {
		return value, false
	}
	c.Set(ctx, key, value, ttl)
	return value, true
}

// Set stores value under key for ttl.
func (c *InMemoryCacheManager[K, V]) Set(_ context.Context, key K, value V, ttl time.Duration) {
	c.cache.Set(string(key), value, ttl)
}

// Delete removes the given keys.
func (c *InMemoryCacheManager[K, V]) Delete(_ context.Context, keys ...K) error {
	for _, key := range keys {
		c.cache.Delete(string(key))
	}
	return nil
}

// Flush removes every item.
func (c *InMemoryCacheManager[K, V]) Flush(_ context.Context) error {
	c.cache.Flush()
	log.Debug(log.CatCache, "cache flushed", "cache", c.useCase)
	return nil
}

// ItemCount returns the number of items, including expired ones not yet
// cleaned up.
func (c *InMemoryCacheManager[K, V]) ItemCount() int {
	return c.cache.ItemCount()
}
