package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/socialdesk/socialdesk/internal/config"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
	"github.com/socialdesk/socialdesk/internal/logger"
	"go.uber.org/fx"
)

// NewRedisClient returns nil when redis is disabled, callers fall back to in-process state
func NewRedisClient(lc fx.Lifecycle, cfg *config.Configuration, log *logger.Logger) (*redis.Client, error) {
	if !cfg.Redis.Enabled {
		log.Info("redis is disabled, using in-memory counters")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Failed to connect to redis at %s", cfg.Redis.Address).
			Mark(ierr.ErrSystem)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})

	return client, nil
}
