package whatsapp

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/socialdesk/socialdesk/internal/config"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
	"github.com/socialdesk/socialdesk/internal/httpclient"
	"github.com/socialdesk/socialdesk/internal/logger"
	"github.com/socialdesk/socialdesk/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubHTTPClient struct {
	requests []*httpclient.Request
	status   int
	body     string
	err      error
}

func (s *stubHTTPClient) Send(ctx context.Context, req *httpclient.Request) (*httpclient.Response, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return nil, s.err
	}
	if s.status >= 400 {
		return nil, httpclient.NewError(s.status, []byte(s.body), nil)
	}
	return &httpclient.Response{StatusCode: s.status, Body: []byte(s.body)}, nil
}

type stubCounter struct {
	mu     sync.Mutex
	counts map[string]int64
	keys   []string
}

func (c *stubCounter) Increment(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.counts == nil {
		c.counts = make(map[string]int64)
	}
	c.counts[key]++
	c.keys = append(c.keys, key)
	return c.counts[key], nil
}

var testCreds = Credentials{
	PhoneNumberID:     "1055",
	BusinessAccountID: "waba_1",
	AccessToken:       "token",
}

func newTestClient(t *testing.T, httpClient httpclient.Client, counter *stubCounter, limit int64) *client {
	t.Helper()
	cfg := config.GetDefaultConfig()
	cfg.WhatsApp.BaseURL = "https://graph.test/"
	cfg.WhatsApp.APIVersion = "v19.0"
	cfg.WhatsApp.RateLimit = limit
	cfg.WhatsApp.RateWindow = time.Minute
	c := NewClientWithHTTP(cfg, httpClient, counter, logger.NewNoopLogger()).(*client)
	c.now = func() time.Time { return time.Date(2026, 3, 1, 10, 0, 30, 0, time.UTC) }
	return c
}

func TestSendText(t *testing.T) {
	stub := &stubHTTPClient{status: http.StatusOK, body: `{"messaging_product":"whatsapp","messages":[{"id":"wamid.1"}]}`}
	c := newTestClient(t, stub, &stubCounter{}, 10)

	resp, err := c.SendText(context.Background(), testCreds, "919999999999", "hello")
	require.NoError(t, err)
	assert.Equal(t, "wamid.1", resp.MessageID())

	require.Len(t, stub.requests, 1)
	req := stub.requests[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "https://graph.test/v19.0/1055/messages", req.URL)
	assert.Equal(t, "Bearer token", req.Headers["Authorization"])

	var sent map[string]interface{}
	require.NoError(t, json.Unmarshal(req.Body, &sent))
	assert.Equal(t, "whatsapp", sent["messaging_product"])
	assert.Equal(t, "text", sent["type"])
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		kind    ErrorKind
		checker func(error) bool
	}{
		{"unauthorized", http.StatusUnauthorized, `{}`, ErrorKindAuth, ierr.IsPermissionDenied},
		{"forbidden", http.StatusForbidden, `{}`, ErrorKindAuth, ierr.IsPermissionDenied},
		{"bad request", http.StatusBadRequest, `{"error":{"message":"Invalid parameter","code":100}}`, ErrorKindValidation, ierr.IsValidation},
		{"not found", http.StatusNotFound, ``, ErrorKindValidation, ierr.IsValidation},
		{"too many requests", http.StatusTooManyRequests, `{}`, ErrorKindRateLimit, ierr.IsRateLimited},
		{"throttle code on 400", http.StatusBadRequest, `{"error":{"message":"rate","code":130429}}`, ErrorKindRateLimit, ierr.IsRateLimited},
		{"expired token on 400", http.StatusBadRequest, `{"error":{"message":"expired","code":190}}`, ErrorKindAuth, ierr.IsPermissionDenied},
		{"server error", http.StatusInternalServerError, `{}`, ErrorKindServer, ierr.IsHTTPClient},
		{"bad gateway", http.StatusBadGateway, ``, ErrorKindServer, ierr.IsHTTPClient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, &stubHTTPClient{status: tt.status, body: tt.body}, &stubCounter{}, 0)

			_, err := c.SendText(context.Background(), testCreds, "919999999999", "hi")
			require.Error(t, err)

			apiErr, ok := AsAPIError(err)
			require.True(t, ok)
			assert.Equal(t, tt.kind, apiErr.Kind)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.True(t, tt.checker(err))
		})
	}
}

func TestGraphErrorBodyParsed(t *testing.T) {
	body := `{"error":{"message":"Recipient not in allowed list","type":"OAuthException","code":131030,"fbtrace_id":"AbC"}}`
	c := newTestClient(t, &stubHTTPClient{status: http.StatusBadRequest, body: body}, &stubCounter{}, 0)

	_, err := c.SendText(context.Background(), testCreds, "919999999999", "hi")
	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "Recipient not in allowed list", apiErr.Message)
	assert.Equal(t, 131030, apiErr.Code)
	assert.Equal(t, "AbC", apiErr.FBTraceID)
	assert.True(t, IsValidationError(err))
}

func TestLocalRateLimit(t *testing.T) {
	stub := &stubHTTPClient{status: http.StatusOK, body: `{"messages":[{"id":"wamid.1"}]}`}
	counter := &stubCounter{}
	c := newTestClient(t, stub, counter, 2)

	for i := 0; i < 2; i++ {
		_, err := c.SendText(context.Background(), testCreds, "919999999999", "hi")
		require.NoError(t, err)
	}

	_, err := c.SendText(context.Background(), testCreds, "919999999999", "hi")
	require.Error(t, err)
	assert.True(t, IsRateLimitError(err))
	assert.True(t, ierr.IsRateLimited(err))

	// the third call never reached upstream
	assert.Len(t, stub.requests, 2)

	windowStart := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC).Unix()
	for _, key := range counter.keys {
		assert.Equal(t, "whatsapp:rate:1055:"+strconv.FormatInt(windowStart, 10), key)
	}
}

func TestRateLimitIsPerPhoneNumber(t *testing.T) {
	stub := &stubHTTPClient{status: http.StatusOK, body: `{"messages":[{"id":"wamid.1"}]}`}
	c := newTestClient(t, stub, &stubCounter{}, 1)

	_, err := c.SendText(context.Background(), testCreds, "919999999999", "hi")
	require.NoError(t, err)

	other := testCreds
	other.PhoneNumberID = "2066"
	_, err = c.SendText(context.Background(), other, "919999999999", "hi")
	require.NoError(t, err)
}

func TestSendMediaRejectsText(t *testing.T) {
	c := newTestClient(t, &stubHTTPClient{status: http.StatusOK}, &stubCounter{}, 0)

	_, err := c.SendMedia(context.Background(), testCreds, "91999", types.WhatsAppMessageTypeText, "m1", "")
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
}

func TestUploadMedia(t *testing.T) {
	stub := &stubHTTPClient{status: http.StatusOK, body: `{"id":"media_1"}`}
	c := newTestClient(t, stub, &stubCounter{}, 0)

	png := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00, 0x00, 0x0D}
	resp, err := c.UploadMedia(context.Background(), testCreds, png, "logo.png")
	require.NoError(t, err)
	assert.Equal(t, "media_1", resp.ID)
	assert.Equal(t, "image/png", resp.MimeType)

	require.Len(t, stub.requests, 1)
	assert.Equal(t, "https://graph.test/v19.0/1055/media", stub.requests[0].URL)
	assert.True(t, strings.HasPrefix(stub.requests[0].Headers["Content-Type"], "multipart/form-data"))

	_, err = c.UploadMedia(context.Background(), testCreds, []byte("plain text body"), "notes.txt")
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
}

func TestListTemplatesFollowsPaging(t *testing.T) {
	pages := []string{
		`{"data":[{"id":"1","name":"welcome","language":"en","status":"APPROVED"}],"paging":{"next":"https://graph.test/next"}}`,
		`{"data":[{"id":"2","name":"receipt","language":"en","status":"PENDING"}],"paging":{}}`,
	}
	stub := &pagedHTTPClient{pages: pages}
	c := newTestClient(t, stub, &stubCounter{}, 0)

	templates, err := c.ListTemplates(context.Background(), testCreds)
	require.NoError(t, err)
	require.Len(t, templates, 2)
	assert.Equal(t, "welcome", templates[0].Name)
	assert.Equal(t, "receipt", templates[1].Name)
	assert.Equal(t, "https://graph.test/next", stub.urls[1])
	assert.True(t, strings.HasPrefix(stub.urls[0], "https://graph.test/v19.0/waba_1/message_templates?"))
}

type pagedHTTPClient struct {
	pages []string
	urls  []string
}

func (p *pagedHTTPClient) Send(ctx context.Context, req *httpclient.Request) (*httpclient.Response, error) {
	body := p.pages[len(p.urls)]
	p.urls = append(p.urls, req.URL)
	return &httpclient.Response{StatusCode: http.StatusOK, Body: []byte(body)}, nil
}

func TestVerifySignature(t *testing.T) {
	payload := []byte(`{"object":"whatsapp_business_account"}`)
	secret := "app-secret"

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	valid := "sha256=" + hex.EncodeToString(mac.Sum(nil))

	tests := []struct {
		name   string
		header string
		secret string
		want   bool
	}{
		{"valid", valid, secret, true},
		{"wrong secret", valid, "other", false},
		{"missing prefix", strings.TrimPrefix(valid, "sha256="), secret, false},
		{"not hex", "sha256=zz", secret, false},
		{"empty secret", valid, "", false},
		{"empty header", "", secret, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, VerifySignature(payload, tt.header, tt.secret))
		})
	}
}

func TestWebhookPayload(t *testing.T) {
	raw := `{
		"object": "whatsapp_business_account",
		"entry": [{
			"id": "waba_1",
			"changes": [{
				"field": "messages",
				"value": {
					"messaging_product": "whatsapp",
					"metadata": {"display_phone_number": "15550001", "phone_number_id": "1055"},
					"contacts": [{"wa_id": "919999999999", "profile": {"name": "Asha"}}],
					"messages": [{"id": "wamid.in", "from": "919999999999", "timestamp": "1767225600", "type": "text", "text": {"body": "hi there"}}],
					"statuses": [{"id": "wamid.out", "status": "delivered", "timestamp": "1767225601", "recipient_id": "919999999999"}]
				}
			}]
		}]
	}`

	var payload WebhookPayload
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))

	values := payload.MessageChanges()
	require.Len(t, values, 1)
	assert.Equal(t, "1055", values[0].Metadata.PhoneNumberID)
	require.Len(t, values[0].Messages, 1)
	assert.Equal(t, "hi there", values[0].Messages[0].Body())
	assert.Equal(t, time.Unix(1767225600, 0).UTC(), values[0].Messages[0].SentAt())
	require.Len(t, values[0].Statuses, 1)
	assert.Equal(t, "delivered", values[0].Statuses[0].Status)
}
