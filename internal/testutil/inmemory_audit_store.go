package testutil

import (
	"context"

	"github.com/samber/lo"
	"github.com/socialdesk/socialdesk/internal/domain/analytics"
	"github.com/socialdesk/socialdesk/internal/domain/auditlog"
	"github.com/socialdesk/socialdesk/internal/types"
)

// InMemoryAuditLogStore implements auditlog.Repository
type InMemoryAuditLogStore struct {
	*InMemoryStore[*auditlog.AuditLog]
}

func NewInMemoryAuditLogStore() *InMemoryAuditLogStore {
	return &InMemoryAuditLogStore{
		InMemoryStore: NewInMemoryStore[*auditlog.AuditLog](),
	}
}

func auditLogFilterFn(ctx context.Context, l *auditlog.AuditLog, filter interface{}) bool {
	if l == nil {
		return false
	}
	f, ok := filter.(*types.AuditLogFilter)
	if !ok {
		return CheckTenantFilter(ctx, l.TenantID)
	}
	if !f.AllTenants && !CheckTenantFilter(ctx, l.TenantID) {
		return false
	}
	if len(f.Actions) > 0 && !lo.Contains(f.Actions, l.Action) {
		return false
	}
	if f.EntityType != "" && l.EntityType != f.EntityType {
		return false
	}
	if f.EntityID != "" && l.EntityID != f.EntityID {
		return false
	}
	if f.UserID != "" && l.UserID != f.UserID {
		return false
	}
	if f.TimeRangeFilter != nil {
		if f.StartTime != nil && l.CreatedAt.Before(*f.StartTime) {
			return false
		}
		if f.EndTime != nil && l.CreatedAt.After(*f.EndTime) {
			return false
		}
	}
	return true
}

func (s *InMemoryAuditLogStore) Create(ctx context.Context, l *auditlog.AuditLog) error {
	return s.InMemoryStore.Create(ctx, l.ID, l)
}

func (s *InMemoryAuditLogStore) List(ctx context.Context, filter *types.AuditLogFilter) ([]*auditlog.AuditLog, error) {
	return s.InMemoryStore.List(ctx, filter, auditLogFilterFn, func(i, j *auditlog.AuditLog) bool {
		return i.CreatedAt.After(j.CreatedAt)
	})
}

func (s *InMemoryAuditLogStore) Count(ctx context.Context, filter *types.AuditLogFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, auditLogFilterFn)
}

// InMemoryAnalyticsStore implements analytics.Repository
type InMemoryAnalyticsStore struct {
	*InMemoryStore[*analytics.Event]
	// Err is returned by Insert when set
	Err error
}

func NewInMemoryAnalyticsStore() *InMemoryAnalyticsStore {
	return &InMemoryAnalyticsStore{
		InMemoryStore: NewInMemoryStore[*analytics.Event](),
	}
}

func (s *InMemoryAnalyticsStore) Insert(ctx context.Context, e *analytics.Event) error {
	if s.Err != nil {
		return s.Err
	}
	return s.InMemoryStore.Create(ctx, e.ID, e)
}

func (s *InMemoryAnalyticsStore) Summary(ctx context.Context, tenantID string, filter *types.AnalyticsSummaryFilter) ([]*analytics.SummaryRow, error) {
	events, err := s.InMemoryStore.List(ctx, nil, func(_ context.Context, e *analytics.Event, _ interface{}) bool {
		if e.TenantID != tenantID {
			return false
		}
		if e.Timestamp.Before(filter.StartTime) || !e.Timestamp.Before(filter.EndTime) {
			return false
		}
		return len(filter.Kinds) == 0 || lo.Contains(filter.Kinds, e.Kind)
	}, nil)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]*analytics.SummaryRow)
	var rows []*analytics.SummaryRow
	for _, e := range events {
		key := string(e.Kind) + ":" + e.Name
		row, ok := counts[key]
		if !ok {
			row = &analytics.SummaryRow{Kind: e.Kind, Name: e.Name}
			counts[key] = row
			rows = append(rows, row)
		}
		row.Count++
	}
	return rows, nil
}

// Names returns the names of the recorded events
func (s *InMemoryAnalyticsStore) Names(ctx context.Context) []string {
	events, _ := s.InMemoryStore.List(ctx, nil, nil, nil)
	return lo.Map(events, func(e *analytics.Event, _ int) string { return e.Name })
}
