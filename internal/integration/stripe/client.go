package stripe

import (
	"context"
	"encoding/json"

	"github.com/samber/lo"
	"github.com/socialdesk/socialdesk/internal/config"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
	"github.com/socialdesk/socialdesk/internal/integration/base"
	"github.com/socialdesk/socialdesk/internal/logger"
	"github.com/socialdesk/socialdesk/internal/types"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

// SignatureHeader carries stripe's timestamped signature
const SignatureHeader = "Stripe-Signature"

const (
	EventPaymentMethodAttached stripe.EventType = "payment_method.attached"
	EventPaymentMethodDetached stripe.EventType = "payment_method.detached"
	EventPaymentMethodUpdated  stripe.EventType = "payment_method.updated"
)

// Client handles Stripe customers, subscriptions, payment methods and webhooks
type Client struct {
	config *config.StripeConfig
	sdk    *stripe.Client
	logger *logger.Logger
}

var (
	_ base.SubscriptionGateway  = (*Client)(nil)
	_ base.PaymentMethodGateway = (*Client)(nil)
)

// NewClient creates a new Stripe client
func NewClient(cfg *config.Configuration, logger *logger.Logger) *Client {
	return &Client{
		config: &cfg.Stripe,
		sdk:    stripe.NewClient(cfg.Stripe.SecretKey, nil),
		logger: logger,
	}
}

func (c *Client) Name() types.PaymentGatewayType {
	return types.PaymentGatewayTypeStripe
}

func (c *Client) ensureConfigured() error {
	if c.config.SecretKey == "" {
		return ierr.NewError("stripe is not configured").
			WithHint("Stripe credentials are missing").
			Mark(ierr.ErrInvalidOperation)
	}
	return nil
}

func (c *Client) CreateCustomer(ctx context.Context, req *base.CustomerRequest) (string, error) {
	if err := c.ensureConfigured(); err != nil {
		return "", err
	}

	params := &stripe.CustomerCreateParams{
		Name:  stripe.String(req.Name),
		Email: stripe.String(req.Email),
		Metadata: map[string]string{
			"tenant_id": req.TenantID,
		},
	}
	if req.Country != "" {
		params.Address = &stripe.AddressParams{
			Country: stripe.String(req.Country),
		}
	}
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}

	stripeCustomer, err := c.sdk.V1Customers.Create(ctx, params)
	if err != nil {
		c.logger.Errorw("failed to create customer in Stripe", "error", err, "tenant_id", req.TenantID)
		return "", ierr.WithError(err).
			WithHint("Unable to create customer in Stripe").
			WithReportableDetails(map[string]interface{}{
				"error": err.Error(),
			}).
			Mark(ierr.ErrHTTPClient)
	}

	c.logger.Infow("successfully created customer in Stripe", "customer_id", stripeCustomer.ID, "tenant_id", req.TenantID)
	return stripeCustomer.ID, nil
}

func (c *Client) CreateSubscription(ctx context.Context, req *base.SubscriptionRequest) (*base.GatewaySubscription, error) {
	if err := c.ensureConfigured(); err != nil {
		return nil, err
	}
	if req.GatewayPlanID == "" {
		return nil, ierr.NewError("plan has no stripe price id").
			WithHint("This plan cannot be purchased yet").
			Mark(ierr.ErrValidation)
	}

	params := &stripe.SubscriptionCreateParams{
		Customer: stripe.String(req.CustomerID),
		Items: []*stripe.SubscriptionCreateItemParams{
			{
				Price:    stripe.String(req.GatewayPlanID),
				Quantity: stripe.Int64(int64(lo.Max([]int{req.Quantity, 1}))),
			},
		},
		Metadata: map[string]string{
			"tenant_id":       req.TenantID,
			"subscription_id": req.SubscriptionID,
		},
	}
	if req.TrialEnd != nil {
		params.TrialEnd = stripe.Int64(req.TrialEnd.Unix())
	}
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}

	stripeSub, err := c.sdk.V1Subscriptions.Create(ctx, params)
	if err != nil {
		c.logger.Errorw("failed to create subscription in Stripe",
			"error", err,
			"tenant_id", req.TenantID,
			"price_id", req.GatewayPlanID)
		return nil, ierr.WithError(err).
			WithHint("Unable to create subscription in Stripe").
			WithReportableDetails(map[string]interface{}{
				"price_id": req.GatewayPlanID,
				"error":    err.Error(),
			}).
			Mark(ierr.ErrHTTPClient)
	}

	return &base.GatewaySubscription{
		ID:         stripeSub.ID,
		CustomerID: req.CustomerID,
		Status:     string(stripeSub.Status),
	}, nil
}

func (c *Client) CancelSubscription(ctx context.Context, gatewaySubscriptionID string, atPeriodEnd bool) error {
	if err := c.ensureConfigured(); err != nil {
		return err
	}

	var err error
	if atPeriodEnd {
		_, err = c.sdk.V1Subscriptions.Update(ctx, gatewaySubscriptionID, &stripe.SubscriptionUpdateParams{
			CancelAtPeriodEnd: stripe.Bool(true),
		})
	} else {
		_, err = c.sdk.V1Subscriptions.Cancel(ctx, gatewaySubscriptionID, &stripe.SubscriptionCancelParams{})
	}
	if err != nil {
		c.logger.Errorw("failed to cancel subscription in Stripe",
			"error", err,
			"gateway_subscription_id", gatewaySubscriptionID,
			"at_period_end", atPeriodEnd)
		return ierr.WithError(err).
			WithHint("Unable to cancel subscription in Stripe").
			WithReportableDetails(map[string]interface{}{
				"gateway_subscription_id": gatewaySubscriptionID,
				"error":                   err.Error(),
			}).
			Mark(ierr.ErrHTTPClient)
	}
	return nil
}

// AttachPaymentMethod attaches a payment method collected by stripe.js to the customer
func (c *Client) AttachPaymentMethod(ctx context.Context, customerID, paymentMethodID string) (*base.GatewayPaymentMethod, error) {
	if err := c.ensureConfigured(); err != nil {
		return nil, err
	}

	pm, err := c.sdk.V1PaymentMethods.Attach(ctx, paymentMethodID, &stripe.PaymentMethodAttachParams{
		Customer: stripe.String(customerID),
	})
	if err != nil {
		c.logger.Errorw("failed to attach payment method in Stripe",
			"error", err,
			"payment_method_id", paymentMethodID,
			"customer_id", customerID)
		return nil, ierr.WithError(err).
			WithHint("Unable to save the payment method").
			WithReportableDetails(map[string]interface{}{
				"payment_method_id": paymentMethodID,
				"error":             err.Error(),
			}).
			Mark(ierr.ErrHTTPClient)
	}

	return ToGatewayPaymentMethod(pm), nil
}

func (c *Client) DetachPaymentMethod(ctx context.Context, paymentMethodID string) error {
	if err := c.ensureConfigured(); err != nil {
		return err
	}

	if _, err := c.sdk.V1PaymentMethods.Detach(ctx, paymentMethodID, &stripe.PaymentMethodDetachParams{}); err != nil {
		c.logger.Errorw("failed to detach payment method in Stripe",
			"error", err,
			"payment_method_id", paymentMethodID)
		return ierr.WithError(err).
			WithHint("Unable to remove the payment method at the gateway").
			WithReportableDetails(map[string]interface{}{
				"payment_method_id": paymentMethodID,
				"error":             err.Error(),
			}).
			Mark(ierr.ErrHTTPClient)
	}
	return nil
}

// ParseWebhookEvent parses a Stripe webhook event with signature verification
func (c *Client) ParseWebhookEvent(payload []byte, signature string) (*stripe.Event, error) {
	options := webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	}
	event, err := webhook.ConstructEventWithOptions(payload, signature, c.config.WebhookSecret, options)
	if err != nil {
		c.logger.Errorw("Stripe webhook verification failed", "error", err)
		return nil, ierr.NewError("failed to verify webhook signature").
			WithHint("Invalid webhook signature or payload").
			Mark(ierr.ErrInvalidOperation)
	}
	return &event, nil
}

// PaymentMethodFromEvent decodes the payment method carried by payment_method.* events
func PaymentMethodFromEvent(event *stripe.Event) (*stripe.PaymentMethod, error) {
	var pm stripe.PaymentMethod
	if err := json.Unmarshal(event.Data.Raw, &pm); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Invalid payment method payload").
			Mark(ierr.ErrValidation)
	}
	return &pm, nil
}

// ToGatewayPaymentMethod converts a stripe payment method into the gateway neutral form
func ToGatewayPaymentMethod(pm *stripe.PaymentMethod) *base.GatewayPaymentMethod {
	out := &base.GatewayPaymentMethod{
		ID:   pm.ID,
		Type: types.PaymentMethodTypeCard,
	}
	if pm.Customer != nil {
		out.CustomerID = pm.Customer.ID
	}
	switch pm.Type {
	case stripe.PaymentMethodTypeCard:
		if pm.Card != nil {
			out.Brand = string(pm.Card.Brand)
			out.Last4 = pm.Card.Last4
			out.ExpMonth = int(pm.Card.ExpMonth)
			out.ExpYear = int(pm.Card.ExpYear)
		}
	case stripe.PaymentMethodTypeUSBankAccount:
		out.Type = types.PaymentMethodTypeBankAccount
		if pm.USBankAccount != nil {
			out.Brand = pm.USBankAccount.BankName
			out.Last4 = pm.USBankAccount.Last4
		}
	}
	return out
}
