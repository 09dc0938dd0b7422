package clickhouse

import (
	"context"
	"encoding/json"

	"github.com/samber/lo"
	"github.com/socialdesk/socialdesk/internal/clickhouse"
	"github.com/socialdesk/socialdesk/internal/domain/analytics"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
	"github.com/socialdesk/socialdesk/internal/logger"
	"github.com/socialdesk/socialdesk/internal/types"
)

// summaryRecord is scanned by the driver, which needs plain string columns
type summaryRecord struct {
	Kind  string `ch:"kind"`
	Name  string `ch:"name"`
	Count uint64 `ch:"count"`
}

type AnalyticsRepository struct {
	store  *clickhouse.ClickHouseStore
	logger *logger.Logger
}

func NewAnalyticsRepository(store *clickhouse.ClickHouseStore, logger *logger.Logger) analytics.Repository {
	return &AnalyticsRepository{store: store, logger: logger}
}

func (r *AnalyticsRepository) Insert(ctx context.Context, event *analytics.Event) error {
	span := StartRepositorySpan(ctx, "analytics", "insert", map[string]interface{}{
		"event_id": event.ID,
		"name":     event.Name,
	})
	defer FinishSpan(span)

	propertiesJSON, err := json.Marshal(event.Properties)
	if err != nil {
		SetSpanError(span, err)
		return ierr.WithError(err).
			WithHint("Failed to marshal event properties").
			WithReportableDetails(map[string]interface{}{
				"event_id": event.ID,
			}).
			Mark(ierr.ErrValidation)
	}

	query := `
		INSERT INTO analytics_events (
			id, tenant_id, user_id, kind, name, properties, ip_address, timestamp
		) VALUES (
			?, ?, ?, ?, ?, ?, ?, ?
		)
	`

	err = r.store.Exec(ctx, query,
		event.ID,
		event.TenantID,
		event.UserID,
		string(event.Kind),
		event.Name,
		string(propertiesJSON),
		event.IPAddress,
		event.Timestamp,
	)
	if err != nil {
		SetSpanError(span, err)
		return ierr.WithError(err).
			WithHint("Failed to insert analytics event").
			WithReportableDetails(map[string]interface{}{
				"event_id": event.ID,
				"name":     event.Name,
			}).
			Mark(ierr.ErrDatabase)
	}

	return nil
}

func (r *AnalyticsRepository) Summary(ctx context.Context, tenantID string, filter *types.AnalyticsSummaryFilter) ([]*analytics.SummaryRow, error) {
	span := StartRepositorySpan(ctx, "analytics", "summary", map[string]interface{}{
		"tenant_id": tenantID,
	})
	defer FinishSpan(span)

	query := `
		SELECT kind, name, count() AS count
		FROM analytics_events
		WHERE tenant_id = ? AND timestamp >= ? AND timestamp < ?`
	args := []interface{}{tenantID, filter.StartTime, filter.EndTime}

	if len(filter.Kinds) > 0 {
		query += " AND kind IN ?"
		args = append(args, lo.Map(filter.Kinds, func(k types.AnalyticsEventKind, _ int) string { return string(k) }))
	}
	query += " GROUP BY kind, name ORDER BY count DESC"

	var rows []summaryRecord
	if err := r.store.Select(ctx, &rows, query, args...); err != nil {
		SetSpanError(span, err)
		return nil, ierr.WithError(err).
			WithHint("Failed to summarize analytics events").
			Mark(ierr.ErrDatabase)
	}

	return lo.Map(rows, func(row summaryRecord, _ int) *analytics.SummaryRow {
		return &analytics.SummaryRow{
			Kind:  types.AnalyticsEventKind(row.Kind),
			Name:  row.Name,
			Count: row.Count,
		}
	}), nil
}
