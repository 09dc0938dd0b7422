package whatsapp

import (
	"encoding/json"
)

// Credentials identify the number a call is made for
type Credentials struct {
	PhoneNumberID     string
	BusinessAccountID string
	AccessToken       string
}

const messagingProduct = "whatsapp"

type sendMessageRequest struct {
	MessagingProduct string          `json:"messaging_product"`
	RecipientType    string          `json:"recipient_type,omitempty"`
	To               string          `json:"to,omitempty"`
	Type             string          `json:"type,omitempty"`
	Text             *textObject     `json:"text,omitempty"`
	Template         *templateObject `json:"template,omitempty"`
	Image            *mediaObject    `json:"image,omitempty"`
	Document         *mediaObject    `json:"document,omitempty"`
	Audio            *mediaObject    `json:"audio,omitempty"`
	Video            *mediaObject    `json:"video,omitempty"`
	Status           string          `json:"status,omitempty"`
	MessageID        string          `json:"message_id,omitempty"`
	Context          *messageContext `json:"context,omitempty"`
}

type textObject struct {
	PreviewURL bool   `json:"preview_url"`
	Body       string `json:"body"`
}

type templateObject struct {
	Name       string              `json:"name"`
	Language   templateLanguage    `json:"language"`
	Components []TemplateComponent `json:"components,omitempty"`
}

type templateLanguage struct {
	Code string `json:"code"`
}

// TemplateComponent fills the variables of a template's header, body or buttons
type TemplateComponent struct {
	Type       string              `json:"type"`
	SubType    string              `json:"sub_type,omitempty"`
	Index      string              `json:"index,omitempty"`
	Parameters []TemplateParameter `json:"parameters,omitempty"`
}

type TemplateParameter struct {
	Type  string          `json:"type"`
	Text  string          `json:"text,omitempty"`
	Image *mediaReference `json:"image,omitempty"`
}

type mediaReference struct {
	ID   string `json:"id,omitempty"`
	Link string `json:"link,omitempty"`
}

type mediaObject struct {
	ID       string `json:"id,omitempty"`
	Link     string `json:"link,omitempty"`
	Caption  string `json:"caption,omitempty"`
	Filename string `json:"filename,omitempty"`
}

type messageContext struct {
	MessageID string `json:"message_id"`
}

// SendMessageResponse is returned by the messages endpoint
type SendMessageResponse struct {
	MessagingProduct string `json:"messaging_product"`
	Contacts         []struct {
		Input string `json:"input"`
		WaID  string `json:"wa_id"`
	} `json:"contacts"`
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

// MessageID returns the wamid assigned to the sent message
func (r *SendMessageResponse) MessageID() string {
	if r == nil || len(r.Messages) == 0 {
		return ""
	}
	return r.Messages[0].ID
}

type successResponse struct {
	Success bool `json:"success"`
}

// UploadMediaResponse carries the media id usable in SendMedia
type UploadMediaResponse struct {
	ID       string `json:"id"`
	MimeType string `json:"-"`
}

// TemplateInfo is a message template as listed by the business account
type TemplateInfo struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Language   string          `json:"language"`
	Status     string          `json:"status"`
	Category   string          `json:"category"`
	Components json.RawMessage `json:"components"`
}

type listTemplatesResponse struct {
	Data   []*TemplateInfo `json:"data"`
	Paging struct {
		Cursors struct {
			After string `json:"after"`
		} `json:"cursors"`
		Next string `json:"next"`
	} `json:"paging"`
}
