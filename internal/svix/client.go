package svix

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/socialdesk/socialdesk/internal/config"
	svix "github.com/svix/svix-webhooks/go"
	"github.com/svix/svix-webhooks/go/models"
)

// Client wraps the Svix SDK client
type Client struct {
	client  *svix.Svix
	baseURL string
	enabled bool
}

// NewClient creates a new Svix client
func NewClient(config *config.Configuration) (*Client, error) {
	if !config.Svix.Enabled {
		return &Client{
			enabled: false,
		}, nil
	}

	opts := &svix.SvixOptions{}
	if config.Svix.BaseURL != "" {
		serverURL, err := url.Parse(config.Svix.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid base URL: %w", err)
		}
		opts.ServerUrl = serverURL
	}

	svixClient, err := svix.New(config.Svix.AuthToken, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create svix client: %w", err)
	}

	return &Client{
		client:  svixClient,
		baseURL: config.Svix.BaseURL,
		enabled: true,
	}, nil
}

func (c *Client) IsEnabled() bool {
	return c.enabled && c.client != nil
}

// GetOrCreateApplication gets or creates the Svix application of a tenant
func (c *Client) GetOrCreateApplication(ctx context.Context, tenantID string) (string, error) {
	if !c.IsEnabled() {
		return "", nil
	}

	appID := tenantID

	if _, err := c.client.Application.Get(ctx, appID); err == nil {
		return appID, nil
	}

	app, err := c.client.Application.Create(ctx, models.ApplicationIn{
		Name: appID,
		Uid:  &appID,
	}, &svix.ApplicationCreateOptions{})
	if err != nil {
		return "", fmt.Errorf("failed to create application: %w", err)
	}

	return app.Id, nil
}

// GetDashboardURL returns the app portal link where tenants manage their endpoints
func (c *Client) GetDashboardURL(ctx context.Context, applicationID string) (string, error) {
	if !c.IsEnabled() {
		return "", nil
	}

	dashboard, err := c.client.Authentication.AppPortalAccess(ctx, applicationID, models.AppPortalAccessIn{}, &svix.AuthenticationAppPortalAccessOptions{})
	if err != nil {
		return "", fmt.Errorf("failed to get dashboard access: %w", err)
	}

	return dashboard.Url, nil
}

// SendMessage sends a webhook message to the given application
func (c *Client) SendMessage(ctx context.Context, applicationID string, eventType string, payload json.RawMessage) error {
	if !c.IsEnabled() {
		return nil
	}

	var payloadMap map[string]interface{}
	if err := json.Unmarshal(payload, &payloadMap); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	_, err := c.client.Message.Create(ctx, applicationID, models.MessageIn{
		EventType: eventType,
		Payload:   payloadMap,
	}, &svix.MessageCreateOptions{})
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}
