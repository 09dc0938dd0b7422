package razorpay

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/socialdesk/socialdesk/internal/config"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
	"github.com/socialdesk/socialdesk/internal/integration/base"
	"github.com/socialdesk/socialdesk/internal/logger"
	"github.com/socialdesk/socialdesk/internal/types"
	"github.com/socialdesk/socialdesk/internal/utils"
)

// defaultTotalCount is the number of billing cycles razorpay schedules when none is given
const defaultTotalCount = 120

// Client wraps the razorpay SDK for customers, subscriptions and webhook verification
type Client struct {
	config *config.RazorpayConfig
	sdk    *razorpay.Client
	logger *logger.Logger
}

var _ base.SubscriptionGateway = (*Client)(nil)

// NewClient creates a new Razorpay client
func NewClient(cfg *config.Configuration, logger *logger.Logger) *Client {
	return &Client{
		config: &cfg.Razorpay,
		sdk:    razorpay.NewClient(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret),
		logger: logger,
	}
}

func (c *Client) Name() types.PaymentGatewayType {
	return types.PaymentGatewayTypeRazorpay
}

func (c *Client) ensureConfigured() error {
	if c.config.KeyID == "" || c.config.KeySecret == "" {
		return ierr.NewError("razorpay is not configured").
			WithHint("Razorpay credentials are missing").
			Mark(ierr.ErrInvalidOperation)
	}
	return nil
}

// CreateCustomer creates a customer in Razorpay, reusing an existing one with the same email
func (c *Client) CreateCustomer(ctx context.Context, req *base.CustomerRequest) (string, error) {
	if err := c.ensureConfigured(); err != nil {
		return "", err
	}

	customerData := map[string]interface{}{
		"name":          req.Name,
		"email":         req.Email,
		"fail_existing": "0",
		"notes": map[string]interface{}{
			"tenant_id": req.TenantID,
		},
	}

	razorpayCustomer, err := c.sdk.Customer.Create(customerData, nil)
	if err != nil {
		c.logger.Errorw("failed to create customer in Razorpay", "error", err, "tenant_id", req.TenantID)
		return "", ierr.WithError(err).
			WithHint("Unable to create customer in Razorpay").
			WithReportableDetails(map[string]interface{}{
				"error": err.Error(),
			}).
			Mark(ierr.ErrHTTPClient)
	}

	customer, err := utils.ToStruct[customerEntity](razorpayCustomer)
	if err != nil {
		return "", err
	}

	c.logger.Infow("successfully created customer in Razorpay", "customer_id", customer.ID, "tenant_id", req.TenantID)
	return customer.ID, nil
}

// CreateSubscription creates a subscription against a razorpay plan
func (c *Client) CreateSubscription(ctx context.Context, req *base.SubscriptionRequest) (*base.GatewaySubscription, error) {
	if err := c.ensureConfigured(); err != nil {
		return nil, err
	}
	if req.GatewayPlanID == "" {
		return nil, ierr.NewError("plan has no razorpay plan id").
			WithHint("This plan cannot be purchased yet").
			Mark(ierr.ErrValidation)
	}

	totalCount := req.TotalCount
	if totalCount <= 0 {
		totalCount = defaultTotalCount
	}

	subscriptionData := map[string]interface{}{
		"plan_id":         req.GatewayPlanID,
		"customer_id":     req.CustomerID,
		"quantity":        req.Quantity,
		"total_count":     totalCount,
		"customer_notify": 1,
		"notes": map[string]interface{}{
			"tenant_id":       req.TenantID,
			"subscription_id": req.SubscriptionID,
		},
	}
	if req.TrialEnd != nil {
		subscriptionData["start_at"] = req.TrialEnd.Unix()
	}

	razorpaySubscription, err := c.sdk.Subscription.Create(subscriptionData, nil)
	if err != nil {
		c.logger.Errorw("failed to create subscription in Razorpay",
			"error", err,
			"tenant_id", req.TenantID,
			"plan_id", req.GatewayPlanID)
		return nil, ierr.WithError(err).
			WithHint("Unable to create subscription in Razorpay").
			WithReportableDetails(map[string]interface{}{
				"plan_id": req.GatewayPlanID,
				"error":   err.Error(),
			}).
			Mark(ierr.ErrHTTPClient)
	}

	entity, err := utils.ToStruct[subscriptionEntity](razorpaySubscription)
	if err != nil {
		return nil, err
	}

	sub := &base.GatewaySubscription{
		ID:         entity.ID,
		CustomerID: req.CustomerID,
		Status:     entity.Status,
		ShortURL:   entity.ShortURL,
	}

	c.logger.Infow("successfully created subscription in Razorpay",
		"gateway_subscription_id", sub.ID,
		"status", sub.Status)
	return sub, nil
}

// CancelSubscription cancels a razorpay subscription, optionally at the end of the current cycle
func (c *Client) CancelSubscription(ctx context.Context, gatewaySubscriptionID string, atPeriodEnd bool) error {
	if err := c.ensureConfigured(); err != nil {
		return err
	}

	data := map[string]interface{}{}
	if atPeriodEnd {
		data["cancel_at_cycle_end"] = 1
	}

	if _, err := c.sdk.Subscription.Cancel(gatewaySubscriptionID, data, nil); err != nil {
		c.logger.Errorw("failed to cancel subscription in Razorpay",
			"error", err,
			"gateway_subscription_id", gatewaySubscriptionID)
		return ierr.WithError(err).
			WithHint("Unable to cancel subscription in Razorpay").
			WithReportableDetails(map[string]interface{}{
				"gateway_subscription_id": gatewaySubscriptionID,
				"error":                   err.Error(),
			}).
			Mark(ierr.ErrHTTPClient)
	}

	c.logger.Infow("cancelled subscription in Razorpay",
		"gateway_subscription_id", gatewaySubscriptionID,
		"at_period_end", atPeriodEnd)
	return nil
}

// VerifyWebhookSignature reports whether signature is the hex HMAC-SHA256 of payload
// under the configured webhook secret
func (c *Client) VerifyWebhookSignature(payload []byte, signature string) bool {
	if c.config.WebhookSecret == "" {
		c.logger.Warnw("razorpay webhook secret not configured, rejecting webhook")
		return false
	}
	ok := VerifySignature(payload, signature, c.config.WebhookSecret)
	if !ok {
		c.logger.Warnw("razorpay webhook signature mismatch",
			"received_signature_length", len(signature),
			"payload_length", len(payload))
	}
	return ok
}

// VerifySignature compares signature to hex(HMAC-SHA256(secret, payload)) in constant time
func VerifySignature(payload []byte, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

type customerEntity struct {
	ID string `json:"id"`
}

type subscriptionEntity struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	ShortURL string `json:"short_url"`
}
