package postgres

import (
	"context"

	"github.com/samber/lo"
	"github.com/socialdesk/socialdesk/internal/domain/analytics"
	"github.com/socialdesk/socialdesk/internal/logger"
	"github.com/socialdesk/socialdesk/internal/postgres"
	"github.com/socialdesk/socialdesk/internal/types"
)

// analyticsRepository keeps events in postgres when clickhouse is disabled
type analyticsRepository struct {
	db  *postgres.DB
	log *logger.Logger
}

func NewAnalyticsRepository(db *postgres.DB, log *logger.Logger) analytics.Repository {
	return &analyticsRepository{db: db, log: log}
}

func (r *analyticsRepository) Insert(ctx context.Context, e *analytics.Event) error {
	_, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, `
		INSERT INTO analytics_events (id, tenant_id, user_id, kind, name, properties, ip_address, timestamp)
		VALUES (:id, :tenant_id, :user_id, :kind, :name, :properties, :ip_address, :timestamp)`, e)
	if err != nil {
		return wrapWriteError(err, "Analytics event", map[string]any{"name": e.Name})
	}
	return nil
}

func (r *analyticsRepository) Summary(ctx context.Context, tenantID string, filter *types.AnalyticsSummaryFilter) ([]*analytics.SummaryRow, error) {
	q := newListQuery("analytics_events").
		Where("tenant_id = ?", tenantID).
		Where("timestamp >= ?", filter.StartTime).
		Where("timestamp < ?", filter.EndTime).
		WhereIn("kind", lo.Map(filter.Kinds, func(k types.AnalyticsEventKind, _ int) string { return string(k) }))

	query, args := q.Select("kind, name, COUNT(*) AS count")
	query += " GROUP BY kind, name ORDER BY count DESC"

	var rows []*analytics.SummaryRow
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, wrapListError(err, "analytics events")
	}
	return rows, nil
}
