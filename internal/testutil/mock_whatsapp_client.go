package testutil

import (
	"context"

	"github.com/socialdesk/socialdesk/internal/types"
	"github.com/socialdesk/socialdesk/internal/whatsapp"
	"github.com/stretchr/testify/mock"
)

var _ whatsapp.Client = (*MockWhatsAppClient)(nil)

type MockWhatsAppClient struct {
	mock.Mock
}

func NewMockWhatsAppClient() *MockWhatsAppClient {
	return &MockWhatsAppClient{}
}

func sendResult(args mock.Arguments) (*whatsapp.SendMessageResponse, error) {
	if resp, ok := args.Get(0).(*whatsapp.SendMessageResponse); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockWhatsAppClient) SendText(ctx context.Context, creds whatsapp.Credentials, to, body string) (*whatsapp.SendMessageResponse, error) {
	return sendResult(m.Called(ctx, creds, to, body))
}

func (m *MockWhatsAppClient) SendTemplate(ctx context.Context, creds whatsapp.Credentials, to, name, language string, components []whatsapp.TemplateComponent) (*whatsapp.SendMessageResponse, error) {
	return sendResult(m.Called(ctx, creds, to, name, language, components))
}

func (m *MockWhatsAppClient) SendMedia(ctx context.Context, creds whatsapp.Credentials, to string, mediaType types.WhatsAppMessageType, mediaID, caption string) (*whatsapp.SendMessageResponse, error) {
	return sendResult(m.Called(ctx, creds, to, mediaType, mediaID, caption))
}

func (m *MockWhatsAppClient) UploadMedia(ctx context.Context, creds whatsapp.Credentials, data []byte, filename string) (*whatsapp.UploadMediaResponse, error) {
	args := m.Called(ctx, creds, data, filename)
	if resp, ok := args.Get(0).(*whatsapp.UploadMediaResponse); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockWhatsAppClient) ListTemplates(ctx context.Context, creds whatsapp.Credentials) ([]*whatsapp.TemplateInfo, error) {
	args := m.Called(ctx, creds)
	if resp, ok := args.Get(0).([]*whatsapp.TemplateInfo); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockWhatsAppClient) MarkRead(ctx context.Context, creds whatsapp.Credentials, waMessageID string) error {
	return m.Called(ctx, creds, waMessageID).Error(0)
}

// SentMessage builds a send response carrying one message id
func SentMessage(waMessageID string) *whatsapp.SendMessageResponse {
	resp := &whatsapp.SendMessageResponse{MessagingProduct: "whatsapp"}
	resp.Messages = append(resp.Messages, struct {
		ID string `json:"id"`
	}{ID: waMessageID})
	return resp
}
