package dto

import (
	domainWhatsApp "github.com/socialdesk/socialdesk/internal/domain/whatsapp"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
	"github.com/socialdesk/socialdesk/internal/types"
	"github.com/socialdesk/socialdesk/internal/validator"
	"github.com/socialdesk/socialdesk/internal/whatsapp"
)

type RegisterPhoneNumberRequest struct {
	WorkspaceID        string `json:"workspace_id" binding:"required" validate:"required"`
	PhoneNumberID      string `json:"phone_number_id" binding:"required" validate:"required"`
	DisplayPhoneNumber string `json:"display_phone_number" validate:"omitempty,max=32"`
	BusinessAccountID  string `json:"business_account_id" binding:"required" validate:"required"`
	AccessToken        string `json:"access_token" binding:"required" validate:"required"`
	VerifiedName       string `json:"verified_name" validate:"omitempty,max=255"`
}

func (r *RegisterPhoneNumberRequest) Validate() error {
	return validator.ValidateRequest(r)
}

type PhoneNumberResponse struct {
	*domainWhatsApp.PhoneNumber
}

// SendWhatsAppMessageRequest sends one message from a registered number
type SendWhatsAppMessageRequest struct {
	To         string                       `json:"to" binding:"required" validate:"required,e164|numeric"`
	Type       types.WhatsAppMessageType    `json:"type" binding:"required" validate:"required"`
	Text       string                       `json:"text,omitempty" validate:"omitempty,max=4096"`
	Template   string                       `json:"template,omitempty"`
	Language   string                       `json:"language,omitempty"`
	Components []whatsapp.TemplateComponent `json:"components,omitempty"`
	MediaID    string                       `json:"media_id,omitempty"`
	Caption    string                       `json:"caption,omitempty" validate:"omitempty,max=1024"`
}

func (r *SendWhatsAppMessageRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if err := r.Type.Validate(); err != nil {
		return err
	}

	var missing string
	switch {
	case r.Type == types.WhatsAppMessageTypeText && r.Text == "":
		missing = "text"
	case r.Type == types.WhatsAppMessageTypeTemplate && r.Template == "":
		missing = "template"
	case r.Type.IsMedia() && r.MediaID == "":
		missing = "media_id"
	}
	if missing != "" {
		return ierr.NewErrorf("%s is required for %s messages", missing, r.Type).
			WithHintf("%s is required for %s messages", missing, r.Type).
			WithReportableDetails(map[string]any{missing: "is required"}).
			Mark(ierr.ErrValidation)
	}

	if r.Type == types.WhatsAppMessageTypeTemplate && r.Language == "" {
		r.Language = "en_US"
	}
	return nil
}

type WhatsAppMessageResponse struct {
	*domainWhatsApp.Message
}

type ListWhatsAppMessagesResponse = types.ListResponse[*WhatsAppMessageResponse]

type WhatsAppTemplateResponse struct {
	*domainWhatsApp.Template
}

type ListWhatsAppTemplatesResponse = types.ListResponse[*WhatsAppTemplateResponse]

type SyncTemplatesResponse struct {
	Synced  int   `json:"synced"`
	Removed int64 `json:"removed"`
}

type UploadMediaResponse struct {
	MediaID  string `json:"media_id"`
	MimeType string `json:"mime_type"`
}
