package publisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
	"github.com/socialdesk/socialdesk/internal/logger"
	"github.com/socialdesk/socialdesk/internal/pubsub"
	"github.com/socialdesk/socialdesk/internal/types"
)

// EventPublisher publishes system events for asynchronous fan out
type EventPublisher interface {
	Publish(ctx context.Context, name types.SystemEventName, payload interface{}) error
}

type eventPublisher struct {
	pubSub pubsub.Publisher
	logger *logger.Logger
}

func NewPublisher(pubSub pubsub.PubSub, logger *logger.Logger) EventPublisher {
	return &eventPublisher{
		pubSub: pubSub,
		logger: logger,
	}
}

func (p *eventPublisher) Publish(ctx context.Context, name types.SystemEventName, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return ierr.WithError(err).
			WithHint("failed to marshal event payload").
			Mark(ierr.ErrSystem)
	}

	event := &types.SystemEvent{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SYSTEM_EVENT),
		EventName: name,
		TenantID:  types.GetTenantID(ctx),
		UserID:    types.GetUserID(ctx),
		Payload:   data,
		Timestamp: time.Now().UTC(),
	}

	body, err := json.Marshal(event)
	if err != nil {
		return ierr.WithError(err).
			WithHint("failed to marshal system event").
			Mark(ierr.ErrSystem)
	}

	msg := message.NewMessage(event.ID, body)
	msg.Metadata.Set("tenant_id", event.TenantID)
	msg.Metadata.Set("event_name", string(event.EventName))

	// handlers must not inherit the request's cancellation
	if err := p.pubSub.Publish(context.WithoutCancel(ctx), types.TopicSystemEvents, msg); err != nil {
		p.logger.Errorw("failed to publish system event",
			"error", err,
			"event_id", event.ID,
			"event_name", event.EventName,
			"tenant_id", event.TenantID,
		)
		return err
	}

	p.logger.Debugw("published system event",
		"event_id", event.ID,
		"event_name", event.EventName,
		"tenant_id", event.TenantID,
	)
	return nil
}
