package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/h2non/filetype"
	"github.com/samber/lo"
	"github.com/socialdesk/socialdesk/internal/cache"
	"github.com/socialdesk/socialdesk/internal/config"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
	"github.com/socialdesk/socialdesk/internal/httpclient"
	"github.com/socialdesk/socialdesk/internal/logger"
	"github.com/socialdesk/socialdesk/internal/types"
)

// Client talks to the WhatsApp Business Cloud API
type Client interface {
	SendText(ctx context.Context, creds Credentials, to, body string) (*SendMessageResponse, error)
	SendTemplate(ctx context.Context, creds Credentials, to, name, language string, components []TemplateComponent) (*SendMessageResponse, error)
	SendMedia(ctx context.Context, creds Credentials, to string, mediaType types.WhatsAppMessageType, mediaID, caption string) (*SendMessageResponse, error)
	UploadMedia(ctx context.Context, creds Credentials, data []byte, filename string) (*UploadMediaResponse, error)
	ListTemplates(ctx context.Context, creds Credentials) ([]*TemplateInfo, error)
	MarkRead(ctx context.Context, creds Credentials, waMessageID string) error
}

// media types accepted by the Cloud API for upload
var supportedMediaTypes = []string{
	"image/jpeg",
	"image/png",
	"image/webp",
	"application/pdf",
	"audio/mpeg",
	"audio/ogg",
	"audio/aac",
	"audio/amr",
	"video/mp4",
	"video/3gpp",
}

// maxTemplatePages bounds pagination when listing templates
const maxTemplatePages = 50

type client struct {
	baseURL    string
	apiVersion string
	rateLimit  int64
	rateWindow time.Duration
	http       httpclient.Client
	counter    cache.Counter
	logger     *logger.Logger
	now        func() time.Time
}

// NewClient creates a client with its own http timeout from configuration
func NewClient(cfg *config.Configuration, counter cache.Counter, logger *logger.Logger) Client {
	timeout := cfg.WhatsApp.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return NewClientWithHTTP(cfg, httpclient.NewClient(timeout), counter, logger)
}

func NewClientWithHTTP(cfg *config.Configuration, httpClient httpclient.Client, counter cache.Counter, logger *logger.Logger) Client {
	return &client{
		baseURL:    strings.TrimRight(cfg.WhatsApp.BaseURL, "/"),
		apiVersion: cfg.WhatsApp.APIVersion,
		rateLimit:  cfg.WhatsApp.RateLimit,
		rateWindow: cfg.WhatsApp.RateWindow,
		http:       httpClient,
		counter:    counter,
		logger:     logger,
		now:        time.Now,
	}
}

func (c *client) SendText(ctx context.Context, creds Credentials, to, body string) (*SendMessageResponse, error) {
	return c.sendMessage(ctx, creds, &sendMessageRequest{
		MessagingProduct: messagingProduct,
		RecipientType:    "individual",
		To:               to,
		Type:             string(types.WhatsAppMessageTypeText),
		Text: &textObject{
			PreviewURL: strings.Contains(body, "http://") || strings.Contains(body, "https://"),
			Body:       body,
		},
	})
}

func (c *client) SendTemplate(ctx context.Context, creds Credentials, to, name, language string, components []TemplateComponent) (*SendMessageResponse, error) {
	return c.sendMessage(ctx, creds, &sendMessageRequest{
		MessagingProduct: messagingProduct,
		RecipientType:    "individual",
		To:               to,
		Type:             string(types.WhatsAppMessageTypeTemplate),
		Template: &templateObject{
			Name:       name,
			Language:   templateLanguage{Code: language},
			Components: components,
		},
	})
}

func (c *client) SendMedia(ctx context.Context, creds Credentials, to string, mediaType types.WhatsAppMessageType, mediaID, caption string) (*SendMessageResponse, error) {
	if !mediaType.IsMedia() {
		return nil, ierr.NewErrorf("%s is not a media message type", mediaType).
			WithHint("Unsupported media type").
			Mark(ierr.ErrValidation)
	}

	media := &mediaObject{ID: mediaID}
	// audio messages cannot carry a caption
	if mediaType != types.WhatsAppMessageTypeAudio {
		media.Caption = caption
	}

	req := &sendMessageRequest{
		MessagingProduct: messagingProduct,
		RecipientType:    "individual",
		To:               to,
		Type:             string(mediaType),
	}
	switch mediaType {
	case types.WhatsAppMessageTypeImage:
		req.Image = media
	case types.WhatsAppMessageTypeDocument:
		req.Document = media
	case types.WhatsAppMessageTypeAudio:
		req.Audio = media
	case types.WhatsAppMessageTypeVideo:
		req.Video = media
	}
	return c.sendMessage(ctx, creds, req)
}

func (c *client) MarkRead(ctx context.Context, creds Credentials, waMessageID string) error {
	body, err := json.Marshal(&sendMessageRequest{
		MessagingProduct: messagingProduct,
		Status:           "read",
		MessageID:        waMessageID,
	})
	if err != nil {
		return ierr.WithError(err).Mark(ierr.ErrSystem)
	}

	var resp successResponse
	if err := c.do(ctx, creds, http.MethodPost, c.endpoint(creds.PhoneNumberID, "messages"), body, nil, &resp); err != nil {
		return err
	}
	return nil
}

// UploadMedia sniffs the content type and uploads the file for later use in SendMedia
func (c *client) UploadMedia(ctx context.Context, creds Credentials, data []byte, filename string) (*UploadMediaResponse, error) {
	if len(data) == 0 {
		return nil, ierr.NewError("empty media file").
			WithHint("The uploaded file is empty").
			Mark(ierr.ErrValidation)
	}

	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown {
		return nil, ierr.NewError("unknown media type").
			WithHint("The uploaded file type could not be recognised").
			Mark(ierr.ErrValidation)
	}
	mimeType := kind.MIME.Value
	if !lo.Contains(supportedMediaTypes, mimeType) {
		return nil, ierr.NewErrorf("unsupported media type %s", mimeType).
			WithHint("This file type cannot be sent over WhatsApp").
			WithReportableDetails(map[string]any{
				"mime_type": mimeType,
				"allowed":   supportedMediaTypes,
			}).
			Mark(ierr.ErrValidation)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	_ = writer.WriteField("messaging_product", messagingProduct)
	_ = writer.WriteField("type", mimeType)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	header.Set("Content-Type", mimeType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, ierr.WithError(err).Mark(ierr.ErrSystem)
	}
	if _, err := part.Write(data); err != nil {
		return nil, ierr.WithError(err).Mark(ierr.ErrSystem)
	}
	if err := writer.Close(); err != nil {
		return nil, ierr.WithError(err).Mark(ierr.ErrSystem)
	}

	var resp UploadMediaResponse
	headers := map[string]string{"Content-Type": writer.FormDataContentType()}
	if err := c.do(ctx, creds, http.MethodPost, c.endpoint(creds.PhoneNumberID, "media"), buf.Bytes(), headers, &resp); err != nil {
		return nil, err
	}
	resp.MimeType = mimeType
	return &resp, nil
}

// ListTemplates follows paging until every template of the business account is read
func (c *client) ListTemplates(ctx context.Context, creds Credentials) ([]*TemplateInfo, error) {
	if creds.BusinessAccountID == "" {
		return nil, ierr.NewError("business account id is required").
			WithHint("The phone number has no business account").
			Mark(ierr.ErrValidation)
	}

	query := url.Values{}
	query.Set("limit", "100")
	query.Set("fields", "id,name,language,status,category,components")
	next := c.endpoint(creds.BusinessAccountID, "message_templates") + "?" + query.Encode()

	var templates []*TemplateInfo
	for page := 0; next != "" && page < maxTemplatePages; page++ {
		var resp listTemplatesResponse
		if err := c.do(ctx, creds, http.MethodGet, next, nil, nil, &resp); err != nil {
			return nil, err
		}
		templates = append(templates, resp.Data...)
		next = resp.Paging.Next
	}

	return templates, nil
}

func (c *client) sendMessage(ctx context.Context, creds Credentials, req *sendMessageRequest) (*SendMessageResponse, error) {
	if req.To == "" {
		return nil, ierr.NewError("recipient is required").
			WithHint("Recipient phone number is required").
			Mark(ierr.ErrValidation)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, ierr.WithError(err).Mark(ierr.ErrSystem)
	}

	var resp SendMessageResponse
	if err := c.do(ctx, creds, http.MethodPost, c.endpoint(creds.PhoneNumberID, "messages"), body, nil, &resp); err != nil {
		return nil, err
	}

	c.logger.Debugw("sent whatsapp message",
		"phone_number_id", creds.PhoneNumberID,
		"type", req.Type,
		"wa_message_id", resp.MessageID())
	return &resp, nil
}

func (c *client) endpoint(node, edge string) string {
	return fmt.Sprintf("%s/%s/%s/%s", c.baseURL, c.apiVersion, node, edge)
}

// rateKey buckets requests of a phone number into fixed windows
func (c *client) rateKey(phoneNumberID string) string {
	windowStart := c.now().Truncate(c.rateWindow).Unix()
	return fmt.Sprintf("whatsapp:rate:%s:%d", phoneNumberID, windowStart)
}

// checkRate counts the call and rejects it locally once the window is full
func (c *client) checkRate(ctx context.Context, phoneNumberID string) error {
	if c.counter == nil || c.rateLimit <= 0 || c.rateWindow <= 0 {
		return nil
	}

	n, err := c.counter.Increment(ctx, c.rateKey(phoneNumberID), c.rateWindow)
	if err != nil {
		// a broken counter must not block messaging
		c.logger.Warnw("whatsapp rate counter unavailable", "error", err, "phone_number_id", phoneNumberID)
		return nil
	}
	if n > c.rateLimit {
		c.logger.Warnw("whatsapp local rate limit reached",
			"phone_number_id", phoneNumberID,
			"count", n,
			"limit", c.rateLimit)
		return newLocalRateLimitError(phoneNumberID, c.rateLimit)
	}
	return nil
}

func (c *client) do(ctx context.Context, creds Credentials, method, url string, body []byte, headers map[string]string, out interface{}) error {
	if creds.AccessToken == "" {
		return ierr.NewError("access token is required").
			WithHint("The phone number has no access token").
			Mark(ierr.ErrValidation)
	}

	if err := c.checkRate(ctx, creds.PhoneNumberID); err != nil {
		return err
	}

	reqHeaders := map[string]string{
		"Authorization": "Bearer " + creds.AccessToken,
	}
	for k, v := range headers {
		reqHeaders[k] = v
	}

	resp, err := c.http.Send(ctx, &httpclient.Request{
		Method:  method,
		URL:     url,
		Headers: reqHeaders,
		Body:    body,
	})
	if err != nil {
		if httpErr, ok := httpclient.IsHTTPError(err); ok {
			apiErr := newAPIError(httpErr.StatusCode, httpErr.Response)
			c.logger.Errorw("whatsapp api call failed",
				"error", apiErr,
				"method", method,
				"phone_number_id", creds.PhoneNumberID,
				"status_code", httpErr.StatusCode)
			return apiErr
		}
		// transport failures are treated like upstream outages
		return markAPIError(&APIError{
			Kind:       ErrorKindServer,
			StatusCode: http.StatusBadGateway,
			Message:    err.Error(),
		})
	}

	if out == nil || len(resp.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return ierr.WithError(err).
			WithHint("Unexpected response from WhatsApp").
			Mark(ierr.ErrHTTPClient)
	}
	return nil
}
