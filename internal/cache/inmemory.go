package cache

import (
	"context"
	"strings"
	"time"

	goCache "github.com/patrickmn/go-cache"
	"github.com/socialdesk/socialdesk/internal/config"
)

const (
	DefaultExpiration      = 5 * time.Minute
	DefaultCleanupInterval = 10 * time.Minute
)

// InMemoryCache implements Cache on top of patrickmn/go-cache
type InMemoryCache struct {
	cache *goCache.Cache
}

func NewInMemoryCache(cfg *config.Configuration) *InMemoryCache {
	expiration := cfg.Cache.DefaultExpiration
	if expiration <= 0 {
		expiration = DefaultExpiration
	}
	cleanup := cfg.Cache.CleanupInterval
	if cleanup <= 0 {
		cleanup = DefaultCleanupInterval
	}
	return &InMemoryCache{cache: goCache.New(expiration, cleanup)}
}

var _ Cache = (*InMemoryCache)(nil)

func (c *InMemoryCache) Get(ctx context.Context, key string) (interface{}, bool) {
	span := StartCacheSpan(ctx, "inmemory", "get", map[string]interface{}{"key": key})
	defer FinishSpan(span)

	return c.cache.Get(key)
}

func (c *InMemoryCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) {
	if expiration == 0 {
		expiration = goCache.DefaultExpiration
	}
	c.cache.Set(key, value, expiration)
}

func (c *InMemoryCache) Delete(ctx context.Context, key string) {
	c.cache.Delete(key)
}

func (c *InMemoryCache) DeleteByPrefix(ctx context.Context, prefix string) {
	for key := range c.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			c.cache.Delete(key)
		}
	}
}

func (c *InMemoryCache) Flush(ctx context.Context) {
	c.cache.Flush()
}

// incrementWindow bumps an integer counter that lives for ttl from its first increment
func (c *InMemoryCache) incrementWindow(key string, ttl time.Duration) int64 {
	if err := c.cache.Add(key, int64(1), ttl); err == nil {
		return 1
	}
	n, err := c.cache.IncrementInt64(key, 1)
	if err != nil {
		// expired between Add and Increment, start a new window
		c.cache.Set(key, int64(1), ttl)
		return 1
	}
	return n
}
