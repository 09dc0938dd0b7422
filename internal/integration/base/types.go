package base

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/socialdesk/socialdesk/internal/types"
)

// Common statuses reported by gateways
const (
	StatusActive    = "active"
	StatusCreated   = "created"
	StatusPending   = "pending"
	StatusCancelled = "cancelled"
)

// CustomerRequest describes the billing party created at the gateway for a tenant
type CustomerRequest struct {
	TenantID       string
	Name           string
	Email          string
	Country        string
	IdempotencyKey string
}

// SubscriptionRequest starts a recurring charge for a plan
type SubscriptionRequest struct {
	TenantID       string
	CustomerID     string
	GatewayPlanID  string
	Quantity       int
	TotalCount     int
	TrialEnd       *time.Time
	Amount         decimal.Decimal
	Currency       string
	SubscriptionID string
	// IdempotencyKey makes a retried create return the first result
	IdempotencyKey string
}

// GatewaySubscription is the gateway's view of a subscription after creation
type GatewaySubscription struct {
	ID         string
	CustomerID string
	Status     string
	// ShortURL is the hosted page where the customer authorises the mandate, if any
	ShortURL string
}

// GatewayPaymentMethod is a saved instrument as reported by the gateway
type GatewayPaymentMethod struct {
	ID         string
	CustomerID string
	Type       types.PaymentMethodType
	Brand      string
	Last4      string
	ExpMonth   int
	ExpYear    int
}

// SubscriptionGateway manages customers and recurring subscriptions
type SubscriptionGateway interface {
	Name() types.PaymentGatewayType
	CreateCustomer(ctx context.Context, req *CustomerRequest) (string, error)
	CreateSubscription(ctx context.Context, req *SubscriptionRequest) (*GatewaySubscription, error)
	// CancelSubscription cancels immediately, or at the end of the paid period when atPeriodEnd is set
	CancelSubscription(ctx context.Context, gatewaySubscriptionID string, atPeriodEnd bool) error
}

// PaymentMethodGateway manages saved payment instruments
type PaymentMethodGateway interface {
	Name() types.PaymentGatewayType
	CreateCustomer(ctx context.Context, req *CustomerRequest) (string, error)
	AttachPaymentMethod(ctx context.Context, customerID, paymentMethodID string) (*GatewayPaymentMethod, error)
	DetachPaymentMethod(ctx context.Context, paymentMethodID string) error
}
