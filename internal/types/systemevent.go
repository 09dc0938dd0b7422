package types

import (
	"encoding/json"
	"time"
)

// SystemEventName names an event published on the internal bus
// and forwarded to tenants' webhook endpoints
type SystemEventName string

const (
	SystemEventSubscriptionCreated     SystemEventName = "subscription.created"
	SystemEventSubscriptionActivated   SystemEventName = "subscription.activated"
	SystemEventSubscriptionCancelled   SystemEventName = "subscription.cancelled"
	SystemEventSubscriptionReactivated SystemEventName = "subscription.reactivated"
	SystemEventSubscriptionUpdated     SystemEventName = "subscription.updated"
	SystemEventInvoiceIssued           SystemEventName = "invoice.issued"
	SystemEventInvoicePaid             SystemEventName = "invoice.paid"
	SystemEventWhatsAppMessageReceived SystemEventName = "whatsapp.message.received"
)

const (
	// TopicSystemEvents carries SystemEventName payloads
	TopicSystemEvents = "system_events"
	// TopicAuditLogs carries audit rows to be persisted
	TopicAuditLogs = "audit_logs"
)

// SystemEvent is the envelope published on TopicSystemEvents
type SystemEvent struct {
	ID        string          `json:"id"`
	EventName SystemEventName `json:"event_name"`
	TenantID  string          `json:"tenant_id"`
	UserID    string          `json:"user_id,omitempty"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}
