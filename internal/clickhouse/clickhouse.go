package clickhouse

import (
	"context"

	clickhouse_go "github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/socialdesk/socialdesk/internal/config"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
	"github.com/socialdesk/socialdesk/internal/logger"
	"github.com/socialdesk/socialdesk/internal/sentry"
	"go.uber.org/fx"
)

// ClickHouseStore holds the analytics connection. It is nil when clickhouse is disabled.
type ClickHouseStore struct {
	conn   driver.Conn
	sentry *sentry.Service
}

const analyticsEventsDDL = `
CREATE TABLE IF NOT EXISTS analytics_events (
	id String,
	tenant_id String,
	user_id String,
	kind LowCardinality(String),
	name LowCardinality(String),
	properties String,
	ip_address String,
	timestamp DateTime64(3, 'UTC')
) ENGINE = MergeTree
PARTITION BY toYYYYMM(timestamp)
ORDER BY (tenant_id, timestamp, id)`

func NewClickHouseStore(lc fx.Lifecycle, cfg *config.Configuration, sentryService *sentry.Service, log *logger.Logger) (*ClickHouseStore, error) {
	if !cfg.ClickHouse.Enabled {
		log.Infow("clickhouse disabled, analytics events are stored in postgres")
		return nil, nil
	}

	conn, err := clickhouse_go.Open(cfg.ClickHouse.GetClientOptions())
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to initialize clickhouse client").
			Mark(ierr.ErrDatabase)
	}

	store := &ClickHouseStore{conn: conn, sentry: sentryService}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := conn.Ping(ctx); err != nil {
				return ierr.WithError(err).
					WithHint("Clickhouse is not reachable").
					Mark(ierr.ErrDatabase)
			}
			return store.EnsureSchema(ctx)
		},
		OnStop: func(ctx context.Context) error {
			return conn.Close()
		},
	})

	return store, nil
}

// EnsureSchema creates the analytics tables
func (s *ClickHouseStore) EnsureSchema(ctx context.Context) error {
	if err := s.conn.Exec(ctx, analyticsEventsDDL); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create clickhouse tables").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

// Exec runs a statement inside a sentry span
func (s *ClickHouseStore) Exec(ctx context.Context, query string, args ...any) error {
	span, ctx := s.sentry.StartClickHouseSpan(ctx, "clickhouse.exec", map[string]interface{}{"query": query})
	defer sentry.FinishSpan(span)
	return s.conn.Exec(ctx, query, args...)
}

// Select scans rows into dest inside a sentry span
func (s *ClickHouseStore) Select(ctx context.Context, dest any, query string, args ...any) error {
	span, ctx := s.sentry.StartClickHouseSpan(ctx, "clickhouse.select", map[string]interface{}{"query": query})
	defer sentry.FinishSpan(span)
	return s.conn.Select(ctx, dest, query, args...)
}

func (s *ClickHouseStore) GetRawConn() driver.Conn {
	return s.conn
}
