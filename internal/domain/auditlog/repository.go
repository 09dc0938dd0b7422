package auditlog

import (
	"context"

	"github.com/socialdesk/socialdesk/internal/types"
)

type Repository interface {
	Create(ctx context.Context, log *AuditLog) error
	List(ctx context.Context, filter *types.AuditLogFilter) ([]*AuditLog, error)
	Count(ctx context.Context, filter *types.AuditLogFilter) (int, error)
}
