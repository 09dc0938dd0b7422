package analytics

import (
	"context"

	"github.com/socialdesk/socialdesk/internal/types"
)

// Repository stores analytics events, backed by ClickHouse or postgres
type Repository interface {
	Insert(ctx context.Context, event *Event) error
	Summary(ctx context.Context, tenantID string, filter *types.AnalyticsSummaryFilter) ([]*SummaryRow, error)
}
