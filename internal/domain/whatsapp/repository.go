package whatsapp

import (
	"context"
	"time"

	"github.com/socialdesk/socialdesk/internal/types"
)

type PhoneNumberRepository interface {
	Create(ctx context.Context, number *PhoneNumber) error
	Get(ctx context.Context, id string) (*PhoneNumber, error)
	// GetByPhoneNumberID looks the number up across tenants
	GetByPhoneNumberID(ctx context.Context, phoneNumberID string) (*PhoneNumber, error)
	List(ctx context.Context, filter *types.WhatsAppPhoneNumberFilter) ([]*PhoneNumber, error)
	Count(ctx context.Context, filter *types.WhatsAppPhoneNumberFilter) (int, error)
	Delete(ctx context.Context, id string) error
}

type TemplateRepository interface {
	// Upsert inserts or updates by (phone_number_id, name, language)
	Upsert(ctx context.Context, template *Template) error
	List(ctx context.Context, filter *types.WhatsAppTemplateFilter) ([]*Template, error)
	Count(ctx context.Context, filter *types.WhatsAppTemplateFilter) (int, error)
	// MarkStaleDeleted soft deletes templates of the number not synced since syncedAt
	MarkStaleDeleted(ctx context.Context, phoneNumberID string, syncedAt time.Time) (int64, error)
}

type MessageRepository interface {
	// Create returns an already exists error for a duplicate wa_message_id
	Create(ctx context.Context, msg *Message) error
	GetByWAMessageID(ctx context.Context, waMessageID string) (*Message, error)
	List(ctx context.Context, filter *types.WhatsAppMessageFilter) ([]*Message, error)
	Count(ctx context.Context, filter *types.WhatsAppMessageFilter) (int, error)
	Update(ctx context.Context, msg *Message) error
	// CountOutboundSince counts outbound messages of the tenant created at or after since
	CountOutboundSince(ctx context.Context, since time.Time) (int, error)
}
