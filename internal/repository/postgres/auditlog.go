package postgres

import (
	"context"

	"github.com/samber/lo"
	"github.com/socialdesk/socialdesk/internal/domain/auditlog"
	"github.com/socialdesk/socialdesk/internal/logger"
	"github.com/socialdesk/socialdesk/internal/postgres"
	"github.com/socialdesk/socialdesk/internal/types"
)

type auditLogRepository struct {
	db  *postgres.DB
	log *logger.Logger
}

func NewAuditLogRepository(db *postgres.DB, log *logger.Logger) auditlog.Repository {
	return &auditLogRepository{db: db, log: log}
}

func (r *auditLogRepository) Create(ctx context.Context, l *auditlog.AuditLog) error {
	query := `
		INSERT INTO audit_logs (
			id, tenant_id, user_id, action, entity_type, entity_id, ip_address, user_agent, metadata, created_at
		) VALUES (
			:id, :tenant_id, :user_id, :action, :entity_type, :entity_id, :ip_address, :user_agent, :metadata, :created_at
		)
		ON CONFLICT (id) DO NOTHING`

	if _, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, l); err != nil {
		return wrapWriteError(err, "Audit log", map[string]any{"action": l.Action})
	}
	return nil
}

// audit rows carry no row status so the base status filter is not applied
func (r *auditLogRepository) applyFilter(ctx context.Context, q *listQuery, filter *types.AuditLogFilter) *listQuery {
	if !filter.AllTenants {
		q = q.ApplyTenantFilter(ctx)
	}
	q = q.WhereIn("action", lo.Map(filter.Actions, func(a types.AuditAction, _ int) string { return string(a) }))
	if filter.EntityType != "" {
		q = q.Where("entity_type = ?", filter.EntityType)
	}
	if filter.EntityID != "" {
		q = q.Where("entity_id = ?", filter.EntityID)
	}
	if filter.UserID != "" {
		q = q.Where("user_id = ?", filter.UserID)
	}
	return q.ApplyTimeRange("created_at", filter.TimeRangeFilter)
}

func (r *auditLogRepository) List(ctx context.Context, filter *types.AuditLogFilter) ([]*auditlog.AuditLog, error) {
	if filter == nil {
		filter = types.NewAuditLogFilter()
	}
	q := r.applyFilter(ctx, newListQuery("audit_logs"), filter)
	q = ApplyQueryOptions(q, filter.QueryFilter, sortableFields{"created_at": "created_at"})

	query, args := q.Select("*")
	var logs []*auditlog.AuditLog
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &logs, query, args...); err != nil {
		return nil, wrapListError(err, "audit logs")
	}
	return logs, nil
}

func (r *auditLogRepository) Count(ctx context.Context, filter *types.AuditLogFilter) (int, error) {
	if filter == nil {
		filter = types.NewAuditLogFilter()
	}
	query, args := r.applyFilter(ctx, newListQuery("audit_logs"), filter).Count()
	var count int
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &count, query, args...); err != nil {
		return 0, wrapListError(err, "audit logs")
	}
	return count, nil
}
