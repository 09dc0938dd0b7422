package testutil

import (
	"context"

	"github.com/socialdesk/socialdesk/internal/integration/base"
	"github.com/socialdesk/socialdesk/internal/types"
	"github.com/stretchr/testify/mock"
)

var (
	_ base.SubscriptionGateway  = (*MockGateway)(nil)
	_ base.PaymentMethodGateway = (*MockGateway)(nil)
)

// MockGateway stands in for both gateway roles
type MockGateway struct {
	mock.Mock
	GatewayName types.PaymentGatewayType
}

func NewMockGateway(name types.PaymentGatewayType) *MockGateway {
	return &MockGateway{GatewayName: name}
}

func (m *MockGateway) Name() types.PaymentGatewayType {
	return m.GatewayName
}

func (m *MockGateway) CreateCustomer(ctx context.Context, req *base.CustomerRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockGateway) CreateSubscription(ctx context.Context, req *base.SubscriptionRequest) (*base.GatewaySubscription, error) {
	args := m.Called(ctx, req)
	if sub, ok := args.Get(0).(*base.GatewaySubscription); ok {
		return sub, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGateway) CancelSubscription(ctx context.Context, gatewaySubscriptionID string, atPeriodEnd bool) error {
	return m.Called(ctx, gatewaySubscriptionID, atPeriodEnd).Error(0)
}

func (m *MockGateway) AttachPaymentMethod(ctx context.Context, customerID, paymentMethodID string) (*base.GatewayPaymentMethod, error) {
	args := m.Called(ctx, customerID, paymentMethodID)
	if pm, ok := args.Get(0).(*base.GatewayPaymentMethod); ok {
		return pm, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGateway) DetachPaymentMethod(ctx context.Context, paymentMethodID string) error {
	return m.Called(ctx, paymentMethodID).Error(0)
}

// MockGatewayProvider returns fixed gateways
type MockGatewayProvider struct {
	Subscription  base.SubscriptionGateway
	PaymentMethod base.PaymentMethodGateway
}

func (p *MockGatewayProvider) GetSubscriptionGateway() (base.SubscriptionGateway, error) {
	return p.Subscription, nil
}

func (p *MockGatewayProvider) GetPaymentMethodGateway() (base.PaymentMethodGateway, error) {
	return p.PaymentMethod, nil
}
