package v1

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/socialdesk/socialdesk/internal/config"
	"github.com/socialdesk/socialdesk/internal/integration"
	razorpayWebhook "github.com/socialdesk/socialdesk/internal/integration/razorpay/webhook"
	stripeClient "github.com/socialdesk/socialdesk/internal/integration/stripe"
	"github.com/socialdesk/socialdesk/internal/logger"
	"github.com/socialdesk/socialdesk/internal/service"
	"github.com/socialdesk/socialdesk/internal/svix"
	"github.com/socialdesk/socialdesk/internal/types"
	"github.com/socialdesk/socialdesk/internal/whatsapp"
	"github.com/stripe/stripe-go/v82"
)

// maxWebhookBody bounds what is read from a provider before signature checks
const maxWebhookBody = 1 << 20

// WebhookHandler receives provider callbacks. Provider routes are unauthenticated and
// trust only the request signature.
type WebhookHandler struct {
	whatsAppService       service.WhatsAppService
	billingWebhookService service.BillingWebhookService
	integrationFactory    *integration.Factory
	svixClient            *svix.Client
	appSecret             string
	logger                *logger.Logger
}

func NewWebhookHandler(
	whatsAppService service.WhatsAppService,
	billingWebhookService service.BillingWebhookService,
	integrationFactory *integration.Factory,
	svixClient *svix.Client,
	cfg *config.Configuration,
	logger *logger.Logger,
) *WebhookHandler {
	return &WebhookHandler{
		whatsAppService:       whatsAppService,
		billingWebhookService: billingWebhookService,
		integrationFactory:    integrationFactory,
		svixClient:            svixClient,
		appSecret:             cfg.WhatsApp.AppSecret,
		logger:                logger,
	}
}

func readBody(c *gin.Context) ([]byte, bool) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return nil, false
	}
	return body, true
}

// @Summary Verify WhatsApp webhook
// @Description Echo hub.challenge when hub.verify_token matches the configured token
// @Tags Webhooks
// @Produce plain
// @Param hub.mode query string true "Mode"
// @Param hub.verify_token query string true "Verify token"
// @Param hub.challenge query string true "Challenge"
// @Success 200 {string} string "challenge"
// @Failure 403 {object} ierr.ErrorResponse
// @Router /webhooks/whatsapp [get]
func (h *WebhookHandler) VerifyWhatsAppWebhook(c *gin.Context) {
	challenge, err := h.whatsAppService.VerifyWebhookSubscription(
		c.Query("hub.mode"),
		c.Query("hub.verify_token"),
		c.Query("hub.challenge"),
	)
	if err != nil {
		c.Error(err)
		return
	}
	c.String(http.StatusOK, challenge)
}

// @Summary Handle WhatsApp webhook
// @Description Ingest inbound messages and delivery statuses from the Cloud API
// @Tags Webhooks
// @Accept json
// @Param X-Hub-Signature-256 header string true "sha256=<hex hmac>"
// @Success 200
// @Failure 401 {object} map[string]interface{}
// @Router /webhooks/whatsapp [post]
func (h *WebhookHandler) HandleWhatsAppWebhook(c *gin.Context) {
	body, ok := readBody(c)
	if !ok {
		return
	}

	if !whatsapp.VerifySignature(body, c.GetHeader(types.HeaderWhatsAppSignature), h.appSecret) {
		h.logger.Warnw("rejected whatsapp webhook with bad signature", "payload_length", len(body))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
		return
	}

	var payload whatsapp.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		h.logger.Errorw("failed to parse whatsapp webhook", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	if err := h.whatsAppService.HandleWebhook(c.Request.Context(), &payload); err != nil {
		// a non 2xx makes Meta retry the delivery, ingestion is idempotent
		h.logger.Errorw("failed to handle whatsapp webhook", "error", err)
		c.Error(err)
		return
	}
	c.Status(http.StatusOK)
}

// @Summary Handle Razorpay webhook
// @Description Apply subscription and payment events reported by Razorpay
// @Tags Webhooks
// @Accept json
// @Produce json
// @Param X-Razorpay-Signature header string true "hex hmac of the body"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /webhooks/razorpay [post]
func (h *WebhookHandler) HandleRazorpayWebhook(c *gin.Context) {
	body, ok := readBody(c)
	if !ok {
		return
	}

	signature := c.GetHeader(razorpayWebhook.SignatureHeader)
	if signature == "" || !h.integrationFactory.GetRazorpayClient().VerifyWebhookSignature(body, signature) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
		return
	}

	var event razorpayWebhook.RazorpayWebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		h.logger.Errorw("failed to parse razorpay webhook", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	h.logger.Infow("received razorpay webhook", "event", event.Event, "account_id", event.AccountID)
	if err := h.billingWebhookService.HandleRazorpayEvent(c.Request.Context(), &event); err != nil {
		h.logger.Errorw("failed to handle razorpay webhook", "error", err, "event", event.Event)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

// @Summary Handle Stripe webhook
// @Description Drop payment methods detached at Stripe
// @Tags Webhooks
// @Accept json
// @Produce json
// @Param Stripe-Signature header string true "Stripe webhook signature"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /webhooks/stripe [post]
func (h *WebhookHandler) HandleStripeWebhook(c *gin.Context) {
	body, ok := readBody(c)
	if !ok {
		return
	}

	event, err := h.integrationFactory.GetStripeClient().ParseWebhookEvent(body, c.GetHeader(types.HeaderStripeSignature))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
		return
	}

	if event.Type != stripe.EventTypePaymentMethodDetached {
		h.logger.Debugw("ignoring stripe event", "type", event.Type)
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	pm, err := stripeClient.PaymentMethodFromEvent(event)
	if err != nil {
		c.Error(err)
		return
	}

	// detached methods carry no customer, it is only in previous_attributes
	customerID := ""
	if pm.Customer != nil {
		customerID = pm.Customer.ID
	} else if prev, ok := event.Data.PreviousAttributes["customer"].(string); ok {
		customerID = prev
	}

	if err := h.billingWebhookService.HandlePaymentMethodDetached(c.Request.Context(), customerID, pm.ID); err != nil {
		h.logger.Errorw("failed to handle stripe webhook", "error", err, "payment_method_id", pm.ID)
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}

// @Summary Get webhook dashboard URL
// @Description Link to the svix portal where the tenant manages its endpoints
// @Tags Webhooks
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /webhooks/dashboard [get]
func (h *WebhookHandler) GetDashboardURL(c *gin.Context) {
	if h.svixClient == nil || !h.svixClient.IsEnabled() {
		c.JSON(http.StatusOK, gin.H{
			"url":          "",
			"svix_enabled": false,
		})
		return
	}

	tenantID := types.GetTenantID(c.Request.Context())
	appID, err := h.svixClient.GetOrCreateApplication(c.Request.Context(), tenantID)
	if err != nil {
		h.logger.Errorw("failed to get or create svix application", "error", err, "tenant_id", tenantID)
		c.Error(err)
		return
	}

	url, err := h.svixClient.GetDashboardURL(c.Request.Context(), appID)
	if err != nil {
		h.logger.Errorw("failed to get svix dashboard url", "error", err, "tenant_id", tenantID, "app_id", appID)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":          url,
		"svix_enabled": true,
	})
}
