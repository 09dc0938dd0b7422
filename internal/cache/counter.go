package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
)

// Counter is a windowed request counter shared by everything that can reach the backend.
// Increment and the caller's limit check are not atomic together.
type Counter interface {
	// Increment adds one to key and returns the new value. The key expires ttl
	// after its first increment.
	Increment(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// NewCounter prefers redis so the count is shared across instances
func NewCounter(redisClient *redis.Client, memory *InMemoryCache) Counter {
	if redisClient != nil {
		return &RedisCounter{client: redisClient}
	}
	return &MemoryCounter{cache: memory}
}

// MemoryCounter counts within this process only
type MemoryCounter struct {
	cache *InMemoryCache
}

func (m *MemoryCounter) Increment(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	return m.cache.incrementWindow(key, ttl), nil
}

// RedisCounter sends INCR and EXPIRE in one MULTI/EXEC. Keys carry their window, so
// refreshing the expiry on every hit never joins two windows.
type RedisCounter struct {
	client *redis.Client
}

func (r *RedisCounter) Increment(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	span := StartCacheSpan(ctx, "redis", "incr", map[string]interface{}{"key": key})
	defer FinishSpan(span)

	var incr *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		SetSpanError(span, err)
		return 0, ierr.WithError(err).
			WithMessage("failed to increment counter").
			Mark(ierr.ErrSystem)
	}
	return incr.Val(), nil
}
