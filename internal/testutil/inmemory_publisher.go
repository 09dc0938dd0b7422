package testutil

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/socialdesk/socialdesk/internal/types"
	"github.com/socialdesk/socialdesk/internal/webhook/publisher"
)

var _ publisher.EventPublisher = (*InMemoryEventPublisher)(nil)

// InMemoryEventPublisher records published system events
type InMemoryEventPublisher struct {
	mu     sync.RWMutex
	events []*types.SystemEvent
}

func NewInMemoryEventPublisher() *InMemoryEventPublisher {
	return &InMemoryEventPublisher{}
}

func (p *InMemoryEventPublisher) Publish(ctx context.Context, name types.SystemEventName, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, &types.SystemEvent{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SYSTEM_EVENT),
		EventName: name,
		TenantID:  types.GetTenantID(ctx),
		UserID:    types.GetUserID(ctx),
		Payload:   data,
		Timestamp: time.Now().UTC(),
	})
	return nil
}

// GetEvents returns all published events
func (p *InMemoryEventPublisher) GetEvents() []*types.SystemEvent {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]*types.SystemEvent(nil), p.events...)
}

// HasEvent reports whether an event named name was published
func (p *InMemoryEventPublisher) HasEvent(name types.SystemEventName) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, e := range p.events {
		if e.EventName == name {
			return true
		}
	}
	return false
}

// Clear removes all published events
func (p *InMemoryEventPublisher) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = nil
}
