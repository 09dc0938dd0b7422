package whatsapp

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

const (
	// SignatureHeader carries the app secret HMAC of the raw body
	SignatureHeader = "X-Hub-Signature-256"
	signaturePrefix = "sha256="

	webhookFieldMessages = "messages"
)

// WebhookPayload is the envelope Meta posts for the whatsapp_business_account object
type WebhookPayload struct {
	Object string         `json:"object"`
	Entry  []WebhookEntry `json:"entry"`
}

type WebhookEntry struct {
	ID      string          `json:"id"`
	Changes []WebhookChange `json:"changes"`
}

type WebhookChange struct {
	Field string       `json:"field"`
	Value WebhookValue `json:"value"`
}

type WebhookValue struct {
	MessagingProduct string            `json:"messaging_product"`
	Metadata         WebhookMetadata   `json:"metadata"`
	Contacts         []WebhookContact  `json:"contacts,omitempty"`
	Messages         []InboundMessage  `json:"messages,omitempty"`
	Statuses         []MessageStatus   `json:"statuses,omitempty"`
	Errors           []json.RawMessage `json:"errors,omitempty"`
}

type WebhookMetadata struct {
	DisplayPhoneNumber string `json:"display_phone_number"`
	PhoneNumberID      string `json:"phone_number_id"`
}

type WebhookContact struct {
	WaID    string `json:"wa_id"`
	Profile struct {
		Name string `json:"name"`
	} `json:"profile"`
}

type InboundMessage struct {
	ID        string        `json:"id"`
	From      string        `json:"from"`
	Timestamp string        `json:"timestamp"`
	Type      string        `json:"type"`
	Text      *InboundText  `json:"text,omitempty"`
	Image     *InboundMedia `json:"image,omitempty"`
	Document  *InboundMedia `json:"document,omitempty"`
	Audio     *InboundMedia `json:"audio,omitempty"`
	Video     *InboundMedia `json:"video,omitempty"`
}

type InboundText struct {
	Body string `json:"body"`
}

type InboundMedia struct {
	ID       string `json:"id"`
	MimeType string `json:"mime_type"`
	Caption  string `json:"caption,omitempty"`
	Filename string `json:"filename,omitempty"`
}

// Body returns the text or caption of the message
func (m *InboundMessage) Body() string {
	if m.Text != nil {
		return m.Text.Body
	}
	if media := m.Media(); media != nil {
		return media.Caption
	}
	return ""
}

// Media returns the attached media object, if any
func (m *InboundMessage) Media() *InboundMedia {
	switch {
	case m.Image != nil:
		return m.Image
	case m.Document != nil:
		return m.Document
	case m.Audio != nil:
		return m.Audio
	case m.Video != nil:
		return m.Video
	}
	return nil
}

// SentAt parses the unix seconds timestamp, falling back to now
func (m *InboundMessage) SentAt() time.Time {
	return parseUnix(m.Timestamp)
}

// MessageStatus reports the delivery state of an outbound message
type MessageStatus struct {
	ID          string            `json:"id"`
	Status      string            `json:"status"`
	Timestamp   string            `json:"timestamp"`
	RecipientID string            `json:"recipient_id"`
	Errors      []json.RawMessage `json:"errors,omitempty"`
}

func (s *MessageStatus) At() time.Time {
	return parseUnix(s.Timestamp)
}

// MessageChanges returns the values of all message changes in the payload
func (p *WebhookPayload) MessageChanges() []WebhookValue {
	var values []WebhookValue
	for _, entry := range p.Entry {
		for _, change := range entry.Changes {
			if change.Field == webhookFieldMessages {
				values = append(values, change.Value)
			}
		}
	}
	return values
}

// VerifySignature checks a "sha256=<hex>" header against the raw body
func VerifySignature(payload []byte, header, appSecret string) bool {
	if appSecret == "" || !strings.HasPrefix(header, signaturePrefix) {
		return false
	}

	got, err := hex.DecodeString(strings.TrimPrefix(header, signaturePrefix))
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(appSecret))
	mac.Write(payload)
	return hmac.Equal(got, mac.Sum(nil))
}

func parseUnix(ts string) time.Time {
	secs, err := strconv.ParseInt(ts, 10, 64)
	if err != nil || secs <= 0 {
		return time.Now().UTC()
	}
	return time.Unix(secs, 0).UTC()
}
