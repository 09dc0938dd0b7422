package whatsapp

import (
	"testing"
	"time"

	"github.com/socialdesk/socialdesk/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestApplyStatus(t *testing.T) {
	ts := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	msg := &Message{Direction: types.WhatsAppMessageOutbound, MessageStatus: types.WhatsAppMessageStatusSent}

	assert.True(t, msg.ApplyStatus(types.WhatsAppMessageStatusDelivered, ts, ""))
	assert.Equal(t, types.WhatsAppMessageStatusDelivered, msg.MessageStatus)
	assert.Equal(t, ts, *msg.DeliveredAt)

	assert.False(t, msg.ApplyStatus(types.WhatsAppMessageStatusSent, ts.Add(time.Minute), ""))
	assert.False(t, msg.ApplyStatus(types.WhatsAppMessageStatusDelivered, ts.Add(time.Minute), ""))
	assert.Equal(t, ts, *msg.DeliveredAt)

	assert.True(t, msg.ApplyStatus(types.WhatsAppMessageStatusRead, ts.Add(time.Hour), ""))
	assert.True(t, msg.ApplyStatus(types.WhatsAppMessageStatusFailed, ts.Add(2*time.Hour), "131026"))
	assert.Equal(t, "131026", msg.ErrorMessage)
	assert.False(t, msg.ApplyStatus(types.WhatsAppMessageStatusRead, ts.Add(3*time.Hour), ""))
}

func TestContact(t *testing.T) {
	in := &Message{Direction: types.WhatsAppMessageInbound, From: "1650", To: "1555"}
	out := &Message{Direction: types.WhatsAppMessageOutbound, From: "1555", To: "1650"}
	assert.Equal(t, "1650", in.Contact())
	assert.Equal(t, "1650", out.Contact())
}
