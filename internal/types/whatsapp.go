package types

import (
	"github.com/samber/lo"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
)

type WhatsAppMessageDirection string

const (
	WhatsAppMessageInbound  WhatsAppMessageDirection = "inbound"
	WhatsAppMessageOutbound WhatsAppMessageDirection = "outbound"
)

// WhatsAppMessageStatus mirrors the delivery statuses reported by the Cloud API
type WhatsAppMessageStatus string

const (
	WhatsAppMessageStatusReceived  WhatsAppMessageStatus = "received"
	WhatsAppMessageStatusSent      WhatsAppMessageStatus = "sent"
	WhatsAppMessageStatusDelivered WhatsAppMessageStatus = "delivered"
	WhatsAppMessageStatusRead      WhatsAppMessageStatus = "read"
	WhatsAppMessageStatusFailed    WhatsAppMessageStatus = "failed"
)

// statusRank orders delivery statuses so late webhooks never move a message backwards
var statusRank = map[WhatsAppMessageStatus]int{
	WhatsAppMessageStatusSent:      1,
	WhatsAppMessageStatusDelivered: 2,
	WhatsAppMessageStatusRead:      3,
	WhatsAppMessageStatusFailed:    4,
}

// Supersedes reports whether s may replace the current status
func (s WhatsAppMessageStatus) Supersedes(current WhatsAppMessageStatus) bool {
	return statusRank[s] > statusRank[current]
}

type WhatsAppMessageType string

const (
	WhatsAppMessageTypeText     WhatsAppMessageType = "text"
	WhatsAppMessageTypeTemplate WhatsAppMessageType = "template"
	WhatsAppMessageTypeImage    WhatsAppMessageType = "image"
	WhatsAppMessageTypeDocument WhatsAppMessageType = "document"
	WhatsAppMessageTypeAudio    WhatsAppMessageType = "audio"
	WhatsAppMessageTypeVideo    WhatsAppMessageType = "video"
)

func (t WhatsAppMessageType) Validate() error {
	allowed := []WhatsAppMessageType{
		WhatsAppMessageTypeText,
		WhatsAppMessageTypeTemplate,
		WhatsAppMessageTypeImage,
		WhatsAppMessageTypeDocument,
		WhatsAppMessageTypeAudio,
		WhatsAppMessageTypeVideo,
	}
	if !lo.Contains(allowed, t) {
		return ierr.NewError("invalid whatsapp message type").
			WithHint("Invalid message type").
			WithReportableDetails(map[string]any{
				"type":    t,
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// IsMedia reports whether the message carries an uploaded media object
func (t WhatsAppMessageType) IsMedia() bool {
	return t == WhatsAppMessageTypeImage ||
		t == WhatsAppMessageTypeDocument ||
		t == WhatsAppMessageTypeAudio ||
		t == WhatsAppMessageTypeVideo
}

type WhatsAppPhoneNumberFilter struct {
	*QueryFilter
	WorkspaceID   string `json:"workspace_id,omitempty" form:"workspace_id"`
	PhoneNumberID string `json:"phone_number_id,omitempty" form:"phone_number_id"`
	// AllTenants is used by webhook ingestion which resolves the tenant from the phone number
	AllTenants bool `json:"-" form:"-"`
}

func NewWhatsAppPhoneNumberFilter() *WhatsAppPhoneNumberFilter {
	return &WhatsAppPhoneNumberFilter{QueryFilter: NewNoLimitQueryFilter()}
}

func (f *WhatsAppPhoneNumberFilter) Validate() error {
	if f == nil {
		return nil
	}
	return f.QueryFilter.Validate()
}

type WhatsAppTemplateFilter struct {
	*QueryFilter
	PhoneNumberID string `json:"phone_number_id,omitempty" form:"phone_number_id"`
	Name          string `json:"name,omitempty" form:"name"`
}

func NewWhatsAppTemplateFilter() *WhatsAppTemplateFilter {
	return &WhatsAppTemplateFilter{QueryFilter: NewDefaultQueryFilter()}
}

func (f *WhatsAppTemplateFilter) Validate() error {
	if f == nil {
		return nil
	}
	return f.QueryFilter.Validate()
}

type WhatsAppMessageFilter struct {
	*QueryFilter
	*TimeRangeFilter
	PhoneNumberID string                    `json:"phone_number_id,omitempty" form:"phone_number_id"`
	Contact       string                    `json:"contact,omitempty" form:"contact"`
	Direction     *WhatsAppMessageDirection `json:"direction,omitempty" form:"direction"`
	AllTenants    bool                      `json:"-" form:"-"`
}

func NewWhatsAppMessageFilter() *WhatsAppMessageFilter {
	return &WhatsAppMessageFilter{QueryFilter: NewDefaultQueryFilter()}
}

func (f *WhatsAppMessageFilter) Validate() error {
	if f == nil {
		return nil
	}
	if err := f.QueryFilter.Validate(); err != nil {
		return err
	}
	return f.TimeRangeFilter.Validate()
}
