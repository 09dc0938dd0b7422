package handler

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/socialdesk/socialdesk/internal/logger"
	"github.com/socialdesk/socialdesk/internal/pubsub"
	pubsubRouter "github.com/socialdesk/socialdesk/internal/pubsub/router"
	"github.com/socialdesk/socialdesk/internal/svix"
	"github.com/socialdesk/socialdesk/internal/types"
)

// Handler forwards system events to tenants' webhook endpoints
type Handler interface {
	RegisterHandler(router *pubsubRouter.Router)
}

// Forwarder delivers an event to a tenant, satisfied by *svix.Client
type Forwarder interface {
	IsEnabled() bool
	GetOrCreateApplication(ctx context.Context, tenantID string) (string, error)
	SendMessage(ctx context.Context, applicationID string, eventType string, payload json.RawMessage) error
}

var _ Forwarder = (*svix.Client)(nil)

type handler struct {
	pubSub    pubsub.PubSub
	forwarder Forwarder
	logger    *logger.Logger
}

func NewHandler(pubSub pubsub.PubSub, svixClient *svix.Client, logger *logger.Logger) Handler {
	return NewHandlerWithForwarder(pubSub, svixClient, logger)
}

func NewHandlerWithForwarder(pubSub pubsub.PubSub, forwarder Forwarder, logger *logger.Logger) Handler {
	return &handler{
		pubSub:    pubSub,
		forwarder: forwarder,
		logger:    logger,
	}
}

func (h *handler) RegisterHandler(router *pubsubRouter.Router) {
	router.AddNoPublishHandler(
		"system_event_webhook_handler",
		types.TopicSystemEvents,
		h.pubSub,
		h.processMessage,
	)
}

func (h *handler) processMessage(msg *message.Message) error {
	var event types.SystemEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		h.logger.Errorw("failed to unmarshal system event",
			"error", err,
			"message_uuid", msg.UUID,
		)
		return nil
	}

	ctx := types.SetTenantID(msg.Context(), event.TenantID)
	ctx = types.SetUserID(ctx, event.UserID)

	if !h.forwarder.IsEnabled() {
		h.logger.Debugw("webhook delivery disabled, dropping event",
			"event_name", event.EventName,
			"tenant_id", event.TenantID,
		)
		return nil
	}

	return h.forward(ctx, &event, msg.UUID)
}

func (h *handler) forward(ctx context.Context, event *types.SystemEvent, messageUUID string) error {
	appID, err := h.forwarder.GetOrCreateApplication(ctx, event.TenantID)
	if err != nil {
		return err
	}

	body, err := json.Marshal(map[string]interface{}{
		"id":         event.ID,
		"event_type": event.EventName,
		"tenant_id":  event.TenantID,
		"timestamp":  event.Timestamp,
		"data":       event.Payload,
	})
	if err != nil {
		return err
	}

	if err := h.forwarder.SendMessage(ctx, appID, string(event.EventName), body); err != nil {
		h.logger.Errorw("failed to send webhook via Svix",
			"error", err,
			"message_uuid", messageUUID,
			"tenant_id", event.TenantID,
			"event", event.EventName,
		)
		return err
	}

	h.logger.Infow("webhook sent successfully via Svix",
		"message_uuid", messageUUID,
		"tenant_id", event.TenantID,
		"event", event.EventName,
	)
	return nil
}
