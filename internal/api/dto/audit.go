package dto

import (
	"github.com/socialdesk/socialdesk/internal/domain/auditlog"
	"github.com/socialdesk/socialdesk/internal/types"
)

type AuditLogResponse struct {
	*auditlog.AuditLog
}

type ListAuditLogsResponse = types.ListResponse[*AuditLogResponse]
