package auditlog

import (
	"time"

	"github.com/socialdesk/socialdesk/internal/types"
)

type AuditLog struct {
	ID         string            `db:"id" json:"id"`
	TenantID   string            `db:"tenant_id" json:"tenant_id"`
	UserID     string            `db:"user_id" json:"user_id"`
	Action     types.AuditAction `db:"action" json:"action"`
	EntityType string            `db:"entity_type" json:"entity_type"`
	EntityID   string            `db:"entity_id" json:"entity_id"`
	IPAddress  string            `db:"ip_address" json:"ip_address"`
	UserAgent  string            `db:"user_agent" json:"user_agent"`
	Metadata   types.JSONMap     `db:"metadata" json:"metadata"`
	CreatedAt  time.Time         `db:"created_at" json:"created_at"`
}
