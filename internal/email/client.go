package email

import (
	"context"

	"github.com/resend/resend-go/v2"
	"github.com/socialdesk/socialdesk/internal/config"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
)

// Sender is the transport used by Email, satisfied by EmailClient
type Sender interface {
	IsEnabled() bool
	GetFromAddress() string
	SendEmail(ctx context.Context, from, to, subject, htmlContent, textContent string) (string, error)
}

// EmailClient represents an email client wrapper
type EmailClient struct {
	client      *resend.Client
	enabled     bool
	fromAddress string
	replyTo     string
}

// NewEmailClient creates a new email client; it stays disabled without an api key
func NewEmailClient(cfg *config.Configuration) *EmailClient {
	if !cfg.Email.Enabled || cfg.Email.APIKey == "" {
		return &EmailClient{
			enabled:     false,
			fromAddress: cfg.Email.FromAddress,
		}
	}

	return &EmailClient{
		client:      resend.NewClient(cfg.Email.APIKey),
		enabled:     true,
		fromAddress: cfg.Email.FromAddress,
		replyTo:     cfg.Email.ReplyTo,
	}
}

// IsEnabled returns whether the email client is enabled
func (c *EmailClient) IsEnabled() bool {
	return c.enabled
}

// GetFromAddress returns the default from address
func (c *EmailClient) GetFromAddress() string {
	return c.fromAddress
}

// SendEmail sends a plain text or HTML email
func (c *EmailClient) SendEmail(ctx context.Context, from, to, subject, htmlContent, textContent string) (string, error) {
	if !c.enabled {
		return "", ierr.NewError("email client is disabled").
			WithHint("Email delivery is not configured").
			Mark(ierr.ErrInvalidOperation)
	}

	params := &resend.SendEmailRequest{
		From:    from,
		To:      []string{to},
		Subject: subject,
		Html:    htmlContent,
		Text:    textContent,
	}

	if c.replyTo != "" {
		params.ReplyTo = c.replyTo
	}

	sent, err := c.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return "", ierr.WithError(err).
			WithHint("Failed to send email").
			Mark(ierr.ErrHTTPClient)
	}

	return sent.Id, nil
}
