package handler

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/socialdesk/socialdesk/internal/logger"
	"github.com/socialdesk/socialdesk/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockForwarder struct {
	mock.Mock
	enabled bool
}

func (m *mockForwarder) IsEnabled() bool { return m.enabled }

func (m *mockForwarder) GetOrCreateApplication(ctx context.Context, tenantID string) (string, error) {
	args := m.Called(tenantID)
	return args.String(0), args.Error(1)
}

func (m *mockForwarder) SendMessage(ctx context.Context, applicationID string, eventType string, payload json.RawMessage) error {
	args := m.Called(applicationID, eventType, payload)
	return args.Error(0)
}

func newMessage(t *testing.T, event types.SystemEvent) *message.Message {
	body, err := json.Marshal(event)
	require.NoError(t, err)
	return message.NewMessage(event.ID, body)
}

func TestProcessMessageForwardsToTenantApplication(t *testing.T) {
	fwd := &mockForwarder{enabled: true}
	fwd.On("GetOrCreateApplication", "tenant_1").Return("tenant_1", nil)
	fwd.On("SendMessage", "tenant_1", "invoice.paid", mock.Anything).Return(nil)

	h := NewHandlerWithForwarder(nil, fwd, logger.NewNoopLogger()).(*handler)
	err := h.processMessage(newMessage(t, types.SystemEvent{
		ID:        "sysevt_1",
		EventName: types.SystemEventInvoicePaid,
		TenantID:  "tenant_1",
		Payload:   json.RawMessage(`{"invoice_id":"inv_1"}`),
		Timestamp: time.Now(),
	}))

	require.NoError(t, err)
	fwd.AssertExpectations(t)
}

func TestProcessMessageDisabledForwarder(t *testing.T) {
	fwd := &mockForwarder{enabled: false}
	h := NewHandlerWithForwarder(nil, fwd, logger.NewNoopLogger()).(*handler)

	err := h.processMessage(newMessage(t, types.SystemEvent{ID: "sysevt_2", TenantID: "tenant_1"}))
	require.NoError(t, err)
	fwd.AssertNotCalled(t, "GetOrCreateApplication", mock.Anything)
}

func TestProcessMessageInvalidPayloadIsAcked(t *testing.T) {
	fwd := &mockForwarder{enabled: true}
	h := NewHandlerWithForwarder(nil, fwd, logger.NewNoopLogger()).(*handler)

	err := h.processMessage(message.NewMessage("bad", []byte("not-json")))
	assert.NoError(t, err)
}

func TestProcessMessageSendFailureIsReturned(t *testing.T) {
	fwd := &mockForwarder{enabled: true}
	fwd.On("GetOrCreateApplication", "tenant_1").Return("tenant_1", nil)
	fwd.On("SendMessage", "tenant_1", "subscription.cancelled", mock.Anything).Return(errors.New("boom"))

	h := NewHandlerWithForwarder(nil, fwd, logger.NewNoopLogger()).(*handler)
	err := h.processMessage(newMessage(t, types.SystemEvent{
		ID:        "sysevt_3",
		EventName: types.SystemEventSubscriptionCancelled,
		TenantID:  "tenant_1",
		Payload:   json.RawMessage(`{}`),
	}))
	assert.Error(t, err)
}
