package razorpay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/socialdesk/socialdesk/internal/config"
	"github.com/socialdesk/socialdesk/internal/logger"
	"github.com/stretchr/testify/assert"
)

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"event":"subscription.activated","payload":{}}`)
	secret := "whsec_test"

	tests := []struct {
		name      string
		signature string
		want      bool
	}{
		{name: "valid signature", signature: sign(secret, body), want: true},
		{name: "signed with another secret", signature: sign("other", body), want: false},
		{name: "tampered body", signature: sign(secret, append([]byte{' '}, body...)), want: false},
		{name: "empty signature", signature: "", want: false},
		{name: "uppercase hex is rejected", signature: "ABC", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, VerifySignature(body, tt.signature, secret))
		})
	}
}

func TestClientVerifyWebhookSignature(t *testing.T) {
	log := logger.NewNoopLogger()
	body := []byte(`{"event":"payment.failed"}`)

	cfg := config.GetDefaultConfig()
	cfg.Razorpay.WebhookSecret = "secret"
	c := NewClient(cfg, log)
	assert.True(t, c.VerifyWebhookSignature(body, sign("secret", body)))
	assert.False(t, c.VerifyWebhookSignature(body, sign("nope", body)))

	cfg = config.GetDefaultConfig()
	unconfigured := NewClient(cfg, log)
	assert.False(t, unconfigured.VerifyWebhookSignature(body, sign("", body)))
}
