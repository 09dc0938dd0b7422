package analytics

import (
	"time"

	"github.com/socialdesk/socialdesk/internal/types"
)

type Event struct {
	ID         string                   `db:"id" json:"id" ch:"id"`
	TenantID   string                   `db:"tenant_id" json:"tenant_id" ch:"tenant_id"`
	UserID     string                   `db:"user_id" json:"user_id" ch:"user_id"`
	Kind       types.AnalyticsEventKind `db:"kind" json:"kind" ch:"kind"`
	Name       string                   `db:"name" json:"name" ch:"name"`
	Properties types.JSONMap            `db:"properties" json:"properties" ch:"-"`
	IPAddress  string                   `db:"ip_address" json:"ip_address" ch:"ip_address"`
	Timestamp  time.Time                `db:"timestamp" json:"timestamp" ch:"timestamp"`
}

// SummaryRow is the event count for one kind and name
type SummaryRow struct {
	Kind  types.AnalyticsEventKind `db:"kind" json:"kind" ch:"kind"`
	Name  string                   `db:"name" json:"name" ch:"name"`
	Count uint64                   `db:"count" json:"count" ch:"count"`
}
