package email

import (
	"context"
	"strings"
	"testing"

	"github.com/socialdesk/socialdesk/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSender struct {
	mock.Mock
	enabled bool
}

func (m *mockSender) IsEnabled() bool        { return m.enabled }
func (m *mockSender) GetFromAddress() string { return "billing@socialdesk.test" }

func (m *mockSender) SendEmail(ctx context.Context, from, to, subject, htmlContent, textContent string) (string, error) {
	args := m.Called(from, to, subject, htmlContent, textContent)
	return args.String(0), args.Error(1)
}

func TestRenderTemplate(t *testing.T) {
	html, err := RenderTemplate(TemplateInvoiceIssued, map[string]interface{}{
		"tenant_name":    "Acme",
		"invoice_number": "INV-123",
		"total":          "118.00",
		"currency":       "INR",
		"due_date":       "2026-01-07",
		"download_url":   "https://example.com/inv.pdf",
	})
	require.NoError(t, err)
	assert.Contains(t, html, "INV-123")
	assert.Contains(t, html, "118.00 INR")
	assert.NotContains(t, html, "{{")

	_, err = RenderTemplate("missing.html", nil)
	assert.Error(t, err)
}

func TestSendEmailWithTemplate(t *testing.T) {
	sender := &mockSender{enabled: true}
	sender.On("SendEmail", "billing@socialdesk.test", "owner@acme.test", "Welcome", mock.MatchedBy(func(html string) bool {
		return strings.Contains(html, "Hi owner")
	}), "").Return("msg_1", nil)

	svc := NewEmailWithSender(sender, logger.NewNoopLogger())
	resp, err := svc.SendEmailWithTemplate(context.Background(), SendEmailWithTemplateRequest{
		ToAddress: "owner@acme.test",
		Subject:   "Welcome",
		Template:  TemplateUserInvited,
		Data:      map[string]interface{}{"user_name": "owner"},
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "msg_1", resp.MessageID)
	sender.AssertExpectations(t)
}

func TestSendEmailDisabled(t *testing.T) {
	sender := &mockSender{enabled: false}
	svc := NewEmailWithSender(sender, logger.NewNoopLogger())

	resp, err := svc.SendEmail(context.Background(), SendEmailRequest{ToAddress: "a@b.test", Subject: "s", Text: "t"})
	require.NoError(t, err)
	assert.False(t, resp.Success)
	sender.AssertNotCalled(t, "SendEmail")
}

func TestExtractNameFromEmail(t *testing.T) {
	assert.Equal(t, "john.doe", ExtractNameFromEmail("john.doe@example.com"))
	assert.Equal(t, "there", ExtractNameFromEmail("@example.com"))
}
