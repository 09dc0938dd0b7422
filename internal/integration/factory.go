package integration

import (
	"github.com/socialdesk/socialdesk/internal/config"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
	"github.com/socialdesk/socialdesk/internal/integration/base"
	"github.com/socialdesk/socialdesk/internal/integration/razorpay"
	"github.com/socialdesk/socialdesk/internal/integration/stripe"
	"github.com/socialdesk/socialdesk/internal/logger"
	"github.com/socialdesk/socialdesk/internal/types"
)

// Factory hands out the payment gateway clients selected by configuration
type Factory struct {
	config   *config.Configuration
	logger   *logger.Logger
	razorpay *razorpay.Client
	stripe   *stripe.Client
}

// NewFactory creates a new integration factory
func NewFactory(config *config.Configuration, logger *logger.Logger) *Factory {
	return &Factory{
		config:   config,
		logger:   logger,
		razorpay: razorpay.NewClient(config, logger),
		stripe:   stripe.NewClient(config, logger),
	}
}

// GetSubscriptionGateway returns the gateway that bills subscriptions
func (f *Factory) GetSubscriptionGateway() (base.SubscriptionGateway, error) {
	switch f.config.Billing.Gateway {
	case types.PaymentGatewayTypeRazorpay:
		return f.razorpay, nil
	case types.PaymentGatewayTypeStripe:
		return f.stripe, nil
	default:
		return nil, ierr.NewErrorf("unsupported billing gateway: %s", f.config.Billing.Gateway).
			WithHint("Billing gateway is not configured").
			Mark(ierr.ErrSystem)
	}
}

// GetPaymentMethodGateway returns the gateway that stores card payment methods
func (f *Factory) GetPaymentMethodGateway() (base.PaymentMethodGateway, error) {
	return f.stripe, nil
}

// GetRazorpayClient is used by webhook handlers to verify signatures
func (f *Factory) GetRazorpayClient() *razorpay.Client {
	return f.razorpay
}

func (f *Factory) GetStripeClient() *stripe.Client {
	return f.stripe
}
