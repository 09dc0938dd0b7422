package service

import (
	"context"
	"testing"
	"time"

	"github.com/socialdesk/socialdesk/internal/domain/invoice"
	"github.com/socialdesk/socialdesk/internal/domain/paymentmethod"
	"github.com/socialdesk/socialdesk/internal/domain/subscription"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
	razorpayWebhook "github.com/socialdesk/socialdesk/internal/integration/razorpay/webhook"
	"github.com/socialdesk/socialdesk/internal/testutil"
	"github.com/socialdesk/socialdesk/internal/types"
	"github.com/stretchr/testify/suite"
)

type BillingWebhookServiceSuite struct {
	testutil.BaseServiceTestSuite
	params  ServiceParams
	service BillingWebhookService
	sub     *subscription.Subscription
}

func TestBillingWebhookService(t *testing.T) {
	suite.Run(t, new(BillingWebhookServiceSuite))
}

func (s *BillingWebhookServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.params = newTestParams(&s.BaseServiceTestSuite)
	s.service = NewBillingWebhookService(s.params)

	s.SeedTenant()
	s.SeedPlan("pro", "49", nil)

	now := s.GetNow()
	s.sub = &subscription.Subscription{
		ID:                    types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SUBSCRIPTION),
		PlanCode:              "pro",
		Gateway:               string(types.PaymentGatewayTypeRazorpay),
		GatewaySubscriptionID: "sub_rzp_1",
		SubscriptionStatus:    types.SubscriptionStatusCreated,
		Quantity:              1,
		Currency:              "USD",
		CurrentPeriodStart:    now,
		CurrentPeriodEnd:      now.AddDate(0, 1, 0),
		BaseModel:             types.GetDefaultBaseModel(s.GetContext()),
	}
	s.Require().NoError(s.GetStores().SubRepo.Create(s.GetContext(), s.sub))
}

func (s *BillingWebhookServiceSuite) event(name razorpayWebhook.RazorpayEventType, paymentID string) *razorpayWebhook.RazorpayWebhookEvent {
	start := s.GetNow().Truncate(time.Second)
	e := &razorpayWebhook.RazorpayWebhookEvent{
		Entity:    "event",
		Event:     name,
		CreatedAt: start.Unix(),
		Payload: razorpayWebhook.RazorpayWebhookPayload{
			Subscription: &razorpayWebhook.PayloadSubscription{Entity: razorpayWebhook.Subscription{
				ID:           "sub_rzp_1",
				Status:       "active",
				CurrentStart: start.Unix(),
				CurrentEnd:   start.AddDate(0, 1, 0).Unix(),
			}},
		},
	}
	if paymentID != "" {
		e.Payload.Payment = &razorpayWebhook.PayloadPayment{Entity: razorpayWebhook.Payment{
			ID:        paymentID,
			Status:    "captured",
			CreatedAt: start.Unix(),
		}}
	}
	return e
}

func (s *BillingWebhookServiceSuite) reload() *subscription.Subscription {
	sub, err := s.GetStores().SubRepo.Get(s.GetContext(), s.sub.ID)
	s.Require().NoError(err)
	return sub
}

func (s *BillingWebhookServiceSuite) invoiceCount() int {
	filter := types.NewInvoiceFilter()
	filter.SubscriptionID = s.sub.ID
	n, err := s.GetStores().InvoiceRepo.Count(s.GetContext(), filter)
	s.Require().NoError(err)
	return n
}

func (s *BillingWebhookServiceSuite) TestChargedIsIdempotent() {
	// gateway webhooks arrive without a tenant
	ctx := context.Background()
	event := s.event(razorpayWebhook.EventSubscriptionCharged, "pay_1")

	s.NoError(s.service.HandleRazorpayEvent(ctx, event))
	s.NoError(s.service.HandleRazorpayEvent(ctx, event))

	s.Equal(types.SubscriptionStatusActive, s.reload().SubscriptionStatus)
	s.Equal(1, s.invoiceCount())

	filter := types.NewInvoiceFilter()
	filter.GatewayPaymentID = "pay_1"
	invoices, err := s.GetStores().InvoiceRepo.List(s.GetContext(), filter)
	s.Require().NoError(err)
	s.Require().Len(invoices, 1)
	s.Equal(types.InvoiceStatusPaid, invoices[0].InvoiceStatus)

	// the next renewal is a new payment
	s.NoError(s.service.HandleRazorpayEvent(ctx, s.event(razorpayWebhook.EventSubscriptionCharged, "pay_2")))
	s.Equal(2, s.invoiceCount())
}

// failingInvoiceStore fails the next failUpdates updates
type failingInvoiceStore struct {
	*testutil.InMemoryInvoiceStore
	failUpdates int
}

func (s *failingInvoiceStore) Update(ctx context.Context, inv *invoice.Invoice) error {
	if s.failUpdates > 0 {
		s.failUpdates--
		return ierr.NewError("connection reset").Mark(ierr.ErrDatabase)
	}
	return s.InMemoryInvoiceStore.Update(ctx, inv)
}

func (s *BillingWebhookServiceSuite) TestChargedRedeliveryAfterFailedMarkPaid() {
	store := &failingInvoiceStore{InMemoryInvoiceStore: s.GetStores().InvoiceRepo, failUpdates: 1}
	params := s.params
	params.InvoiceRepo = store
	svc := NewBillingWebhookService(params)

	ctx := context.Background()
	event := s.event(razorpayWebhook.EventSubscriptionCharged, "pay_1")

	err := svc.HandleRazorpayEvent(ctx, event)
	s.Error(err)
	s.True(ierr.IsDatabase(err))
	s.Equal(1, s.invoiceCount())

	s.NoError(svc.HandleRazorpayEvent(ctx, event))
	s.NoError(svc.HandleRazorpayEvent(ctx, event))

	filter := types.NewInvoiceFilter()
	filter.SubscriptionID = s.sub.ID
	invoices, err := s.GetStores().InvoiceRepo.List(s.GetContext(), filter)
	s.Require().NoError(err)
	s.Require().Len(invoices, 1, "one invoice per gateway payment")
	s.Equal(types.InvoiceStatusPaid, invoices[0].InvoiceStatus)
	s.Equal("pay_1", invoices[0].GatewayPaymentID)
}

func (s *BillingWebhookServiceSuite) TestStatusEvents() {
	tests := []struct {
		event razorpayWebhook.RazorpayEventType
		want  types.SubscriptionStatus
	}{
		{razorpayWebhook.EventSubscriptionAuthenticated, types.SubscriptionStatusAuthenticated},
		{razorpayWebhook.EventSubscriptionActivated, types.SubscriptionStatusActive},
		{razorpayWebhook.EventSubscriptionHalted, types.SubscriptionStatusPending},
		{razorpayWebhook.EventSubscriptionCancelled, types.SubscriptionStatusCancelled},
		// ended subscriptions ignore late events
		{razorpayWebhook.EventSubscriptionPending, types.SubscriptionStatusCancelled},
	}

	for _, tt := range tests {
		s.NoError(s.service.HandleRazorpayEvent(context.Background(), s.event(tt.event, "")), tt.event)
		s.Equal(tt.want, s.reload().SubscriptionStatus, tt.event)
	}
	s.Zero(s.invoiceCount())
}

func (s *BillingWebhookServiceSuite) TestUnknownSubscriptionIgnored() {
	event := s.event(razorpayWebhook.EventSubscriptionActivated, "")
	event.Payload.Subscription.Entity.ID = "sub_elsewhere"

	s.NoError(s.service.HandleRazorpayEvent(context.Background(), event))
	s.Equal(types.SubscriptionStatusCreated, s.reload().SubscriptionStatus)
}

func (s *BillingWebhookServiceSuite) TestPaymentFailedIsLoggedOnly() {
	event := s.event(razorpayWebhook.EventPaymentFailed, "pay_failed")
	s.NoError(s.service.HandleRazorpayEvent(context.Background(), event))
	s.Equal(types.SubscriptionStatusCreated, s.reload().SubscriptionStatus)
}

func (s *BillingWebhookServiceSuite) TestPaymentMethodDetached() {
	ctx := s.GetContext()
	t, err := s.GetStores().TenantRepo.GetByID(ctx, types.DefaultTenantID)
	s.Require().NoError(err)
	t.GatewayCustomerID = "cus_123"
	s.Require().NoError(s.GetStores().TenantRepo.Update(ctx, t))

	pm := &paymentmethod.PaymentMethod{
		ID:                     types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAYMENT_METHOD),
		Gateway:                types.PaymentGatewayTypeStripe,
		GatewayPaymentMethodID: "pm_1",
		MethodType:             types.PaymentMethodTypeCard,
		IsDefault:              true,
		BaseModel:              types.GetDefaultBaseModel(ctx),
	}
	s.Require().NoError(s.GetStores().PaymentMethodRepo.Create(ctx, pm))

	s.NoError(s.service.HandlePaymentMethodDetached(context.Background(), "cus_unknown", "pm_1"))
	_, err = s.GetStores().PaymentMethodRepo.Get(ctx, pm.ID)
	s.NoError(err)

	s.NoError(s.service.HandlePaymentMethodDetached(context.Background(), "cus_123", "pm_1"))
	_, err = s.GetStores().PaymentMethodRepo.Get(ctx, pm.ID)
	s.Error(err)
}
