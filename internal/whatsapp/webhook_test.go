package whatsapp

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePayload = `{
  "object": "whatsapp_business_account",
  "entry": [{
    "id": "102290129340398",
    "changes": [
      {
        "field": "messages",
        "value": {
          "messaging_product": "whatsapp",
          "metadata": {"display_phone_number": "15550783881", "phone_number_id": "106540352242922"},
          "contacts": [{"profile": {"name": "Sheena Nelson"}, "wa_id": "16505551234"}],
          "messages": [{
            "from": "16505551234",
            "id": "wamid.HBgLMTY1MDM4Nzk0MzkVAgASGBQzQTRBNjU5OUFFRTAzODEwMTQ0RgA=",
            "timestamp": "1749416383",
            "type": "image",
            "image": {"caption": "front door", "mime_type": "image/jpeg", "id": "1003383421387256"}
          }]
        }
      },
      {"field": "account_update", "value": {}}
    ]
  }]
}`

func sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignatureRejectsTamperedBody(t *testing.T) {
	body := []byte(samplePayload)
	header := sign(body, "app-secret")

	assert.True(t, VerifySignature(body, header, "app-secret"))
	assert.False(t, VerifySignature(append(body, ' '), header, "app-secret"))
}

func TestMediaMessageSkipsOtherFields(t *testing.T) {
	var payload WebhookPayload
	require.NoError(t, json.Unmarshal([]byte(samplePayload), &payload))

	values := payload.MessageChanges()
	require.Len(t, values, 1)
	assert.Equal(t, "106540352242922", values[0].Metadata.PhoneNumberID)
	assert.Equal(t, "Sheena Nelson", values[0].Contacts[0].Profile.Name)

	require.Len(t, values[0].Messages, 1)
	msg := values[0].Messages[0]
	assert.Equal(t, "front door", msg.Body())
	require.NotNil(t, msg.Media())
	assert.Equal(t, "1003383421387256", msg.Media().ID)
	assert.Equal(t, time.Unix(1749416383, 0).UTC(), msg.SentAt())
}

func TestSentAtFallsBackToNow(t *testing.T) {
	msg := InboundMessage{Timestamp: "garbage"}
	assert.WithinDuration(t, time.Now().UTC(), msg.SentAt(), time.Minute)
}
