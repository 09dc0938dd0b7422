package whatsapp

import (
	"time"

	"github.com/socialdesk/socialdesk/internal/types"
)

// PhoneNumber is a WhatsApp Business number connected to a workspace
type PhoneNumber struct {
	ID                 string `db:"id" json:"id"`
	WorkspaceID        string `db:"workspace_id" json:"workspace_id"`
	PhoneNumberID      string `db:"phone_number_id" json:"phone_number_id"`
	DisplayPhoneNumber string `db:"display_phone_number" json:"display_phone_number"`
	BusinessAccountID  string `db:"business_account_id" json:"business_account_id"`
	AccessToken        string `db:"access_token" json:"-"`
	VerifiedName       string `db:"verified_name" json:"verified_name"`
	types.BaseModel
}

// Template is a message template approved for a phone number's business account
type Template struct {
	ID             string        `db:"id" json:"id"`
	PhoneNumberID  string        `db:"phone_number_id" json:"phone_number_id"`
	ExternalID     string        `db:"external_id" json:"external_id"`
	Name           string        `db:"name" json:"name"`
	Language       string        `db:"language" json:"language"`
	Category       string        `db:"category" json:"category"`
	TemplateStatus string        `db:"template_status" json:"template_status"`
	Components     types.RawJSON `db:"components" json:"components" swaggertype:"object"`
	SyncedAt       time.Time     `db:"synced_at" json:"synced_at"`
	types.BaseModel
}

// Message is a row of the inbox, inbound or outbound
type Message struct {
	ID            string                         `db:"id" json:"id"`
	PhoneNumberID string                         `db:"phone_number_id" json:"phone_number_id"`
	WAMessageID   string                         `db:"wa_message_id" json:"wa_message_id"`
	Direction     types.WhatsAppMessageDirection `db:"direction" json:"direction"`
	From          string                         `db:"from_number" json:"from"`
	To            string                         `db:"to_number" json:"to"`
	ContactName   string                         `db:"contact_name" json:"contact_name"`
	MessageType   types.WhatsAppMessageType      `db:"message_type" json:"message_type"`
	Body          string                         `db:"body" json:"body"`
	MediaID       string                         `db:"media_id" json:"media_id,omitempty"`
	MessageStatus types.WhatsAppMessageStatus    `db:"message_status" json:"message_status"`
	ErrorMessage  string                         `db:"error_message" json:"error_message,omitempty"`
	RawPayload    types.RawJSON                  `db:"raw_payload" json:"-"`
	SentAt        *time.Time                     `db:"sent_at" json:"sent_at,omitempty"`
	DeliveredAt   *time.Time                     `db:"delivered_at" json:"delivered_at,omitempty"`
	ReadAt        *time.Time                     `db:"read_at" json:"read_at,omitempty"`
	types.BaseModel
}

// Contact returns the counterpart number of the conversation
func (m *Message) Contact() string {
	if m.Direction == types.WhatsAppMessageInbound {
		return m.From
	}
	return m.To
}

// ApplyStatus moves the message forward to status at ts. It returns false when
// status would move the message backwards.
func (m *Message) ApplyStatus(status types.WhatsAppMessageStatus, ts time.Time, errMsg string) bool {
	if !status.Supersedes(m.MessageStatus) {
		return false
	}
	m.MessageStatus = status
	switch status {
	case types.WhatsAppMessageStatusSent:
		m.SentAt = &ts
	case types.WhatsAppMessageStatusDelivered:
		m.DeliveredAt = &ts
	case types.WhatsAppMessageStatusRead:
		m.ReadAt = &ts
	case types.WhatsAppMessageStatusFailed:
		m.ErrorMessage = errMsg
	}
	return true
}
