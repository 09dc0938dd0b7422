package email

import (
	"context"
	"embed"
	"fmt"
	"strings"

	ierr "github.com/socialdesk/socialdesk/internal/errors"
	"github.com/socialdesk/socialdesk/internal/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

// Email handles email operations
type Email struct {
	client Sender
	logger *logger.Logger
}

// NewEmail creates a new email service
func NewEmail(client *EmailClient, logger *logger.Logger) *Email {
	return NewEmailWithSender(client, logger)
}

// NewEmailWithSender lets callers provide their own transport
func NewEmailWithSender(client Sender, logger *logger.Logger) *Email {
	return &Email{
		client: client,
		logger: logger,
	}
}

// SendEmail sends a plain text email
func (s *Email) SendEmail(ctx context.Context, req SendEmailRequest) (*SendEmailResponse, error) {
	if !s.client.IsEnabled() {
		s.logger.Warnw("email client is disabled, skipping email send",
			"to", req.ToAddress,
			"subject", req.Subject,
		)
		return &SendEmailResponse{
			Success: false,
			Error:   "email client is disabled",
		}, nil
	}

	fromAddress := req.FromAddress
	if fromAddress == "" {
		fromAddress = s.client.GetFromAddress()
	}

	messageID, err := s.client.SendEmail(ctx, fromAddress, req.ToAddress, req.Subject, "", req.Text)
	if err != nil {
		s.logger.Errorw("failed to send email",
			"error", err,
			"to", req.ToAddress,
			"subject", req.Subject,
		)
		return &SendEmailResponse{
			Success: false,
			Error:   err.Error(),
		}, err
	}

	s.logger.Infow("email sent successfully",
		"message_id", messageID,
		"to", req.ToAddress,
		"subject", req.Subject,
	)

	return &SendEmailResponse{
		MessageID: messageID,
		Success:   true,
	}, nil
}

// SendEmailWithTemplate sends an email using one of the embedded HTML templates
func (s *Email) SendEmailWithTemplate(ctx context.Context, req SendEmailWithTemplateRequest) (*SendEmailWithTemplateResponse, error) {
	if !s.client.IsEnabled() {
		s.logger.Warnw("email client is disabled, skipping email send",
			"to", req.ToAddress,
			"subject", req.Subject,
			"template", req.Template,
		)
		return &SendEmailWithTemplateResponse{
			Success: false,
			Error:   "email client is disabled",
		}, nil
	}

	fromAddress := req.FromAddress
	if fromAddress == "" {
		fromAddress = s.client.GetFromAddress()
	}

	htmlContent, err := RenderTemplate(req.Template, req.Data)
	if err != nil {
		s.logger.Errorw("failed to read email template",
			"error", err,
			"template", req.Template,
		)
		return &SendEmailWithTemplateResponse{
			Success: false,
			Error:   err.Error(),
		}, err
	}

	messageID, err := s.client.SendEmail(ctx, fromAddress, req.ToAddress, req.Subject, htmlContent, "")
	if err != nil {
		s.logger.Errorw("failed to send templated email",
			"error", err,
			"to", req.ToAddress,
			"subject", req.Subject,
			"template", req.Template,
		)
		return &SendEmailWithTemplateResponse{
			Success: false,
			Error:   err.Error(),
		}, err
	}

	s.logger.Infow("templated email sent successfully",
		"message_id", messageID,
		"to", req.ToAddress,
		"template", req.Template,
	)

	return &SendEmailWithTemplateResponse{
		MessageID: messageID,
		Success:   true,
	}, nil
}

// RenderTemplate loads an embedded template and fills its {{key}} placeholders
func RenderTemplate(name string, data map[string]interface{}) (string, error) {
	content, err := templateFS.ReadFile("templates/" + name)
	if err != nil {
		return "", ierr.WithError(err).
			WithHintf("Unknown email template %s", name).
			Mark(ierr.ErrSystem)
	}
	return replacePlaceholders(string(content), data), nil
}

func replacePlaceholders(template string, data map[string]interface{}) string {
	result := template
	for key, value := range data {
		placeholder := fmt.Sprintf("{{%s}}", key)
		result = strings.ReplaceAll(result, placeholder, fmt.Sprintf("%v", value))
	}
	return result
}

// ExtractNameFromEmail extracts the name part from an email address
// e.g., "john.doe@example.com" -> "john.doe"
func ExtractNameFromEmail(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "there"
}
