package service

import (
	"context"
	"time"

	"github.com/socialdesk/socialdesk/internal/api/dto"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
	razorpayWebhook "github.com/socialdesk/socialdesk/internal/integration/razorpay/webhook"
	"github.com/socialdesk/socialdesk/internal/types"
)

// BillingWebhookService applies verified gateway webhook events to local billing state
type BillingWebhookService interface {
	HandleRazorpayEvent(ctx context.Context, event *razorpayWebhook.RazorpayWebhookEvent) error
	// HandlePaymentMethodDetached removes the local copy of a payment method detached at the gateway
	HandlePaymentMethodDetached(ctx context.Context, gatewayCustomerID, gatewayPaymentMethodID string) error
}

type billingWebhookService struct {
	ServiceParams
}

func NewBillingWebhookService(params ServiceParams) BillingWebhookService {
	return &billingWebhookService{ServiceParams: params}
}

func (s *billingWebhookService) HandleRazorpayEvent(ctx context.Context, event *razorpayWebhook.RazorpayWebhookEvent) error {
	if event == nil {
		return ierr.NewError("webhook event is required").
			WithHint("Webhook event is required").
			Mark(ierr.ErrValidation)
	}

	s.Logger.Infow("processing razorpay webhook", "event", event.Event, "account_id", event.AccountID)

	if event.Event == razorpayWebhook.EventPaymentFailed {
		if event.Payload.Payment != nil {
			p := event.Payload.Payment.Entity
			s.Logger.Warnw("razorpay payment failed",
				"payment_id", p.ID,
				"error_code", p.ErrorCode,
				"error_description", p.ErrorDescription,
				"tenant_id", p.Notes.Get("tenant_id"),
			)
		}
		return nil
	}

	if event.Payload.Subscription == nil {
		s.Logger.Debugw("ignoring razorpay event without subscription", "event", event.Event)
		return nil
	}
	gs := event.Payload.Subscription.Entity

	sub, err := s.SubRepo.GetByGatewayID(ctx, gs.ID)
	if err != nil {
		if ierr.IsNotFound(err) {
			// subscriptions created outside this system are not ours to track
			s.Logger.Warnw("razorpay subscription not found", "gateway_subscription_id", gs.ID, "event", event.Event)
			return nil
		}
		return err
	}

	ctx = types.SetTenantID(ctx, sub.TenantID)
	subs := NewSubscriptionService(s.ServiceParams)
	periodStart, periodEnd := gs.CurrentPeriod()

	var eventAt time.Time
	if event.CreatedAt > 0 {
		eventAt = time.Unix(event.CreatedAt, 0).UTC()
	}

	switch event.Event {
	case razorpayWebhook.EventSubscriptionAuthenticated:
		_, err = subs.UpdateStatus(ctx, sub.ID, types.SubscriptionStatusAuthenticated, eventAt)
	case razorpayWebhook.EventSubscriptionActivated:
		_, err = subs.ActivateSubscription(ctx, sub.ID, periodStart, periodEnd)
	case razorpayWebhook.EventSubscriptionCharged:
		err = s.handleCharged(ctx, sub.ID, periodStart, periodEnd, event.Payload.Payment)
	case razorpayWebhook.EventSubscriptionPending, razorpayWebhook.EventSubscriptionHalted:
		_, err = subs.UpdateStatus(ctx, sub.ID, types.SubscriptionStatusPending, eventAt)
	case razorpayWebhook.EventSubscriptionCancelled:
		_, err = subs.UpdateStatus(ctx, sub.ID, types.SubscriptionStatusCancelled, eventAt)
	case razorpayWebhook.EventSubscriptionCompleted:
		_, err = subs.UpdateStatus(ctx, sub.ID, types.SubscriptionStatusCompleted, eventAt)
	case razorpayWebhook.EventSubscriptionExpired:
		_, err = subs.UpdateStatus(ctx, sub.ID, types.SubscriptionStatusExpired, eventAt)
	default:
		s.Logger.Debugw("ignoring unhandled razorpay event", "event", event.Event)
	}
	return err
}

// handleCharged activates the paid period and records a paid invoice for the payment, once per payment
func (s *billingWebhookService) handleCharged(ctx context.Context, subscriptionID string, periodStart, periodEnd time.Time, payment *razorpayWebhook.PayloadPayment) error {
	resp, err := NewSubscriptionService(s.ServiceParams).ActivateSubscription(ctx, subscriptionID, periodStart, periodEnd)
	if err != nil {
		return err
	}

	invoices := &invoiceService{ServiceParams: s.ServiceParams}
	req := dto.MarkInvoicePaidRequest{}
	if payment != nil {
		req.GatewayPaymentID = payment.Entity.ID
		if payment.Entity.CreatedAt > 0 {
			paidAt := time.Unix(payment.Entity.CreatedAt, 0).UTC()
			req.PaidAt = &paidAt
		}
	}

	if req.GatewayPaymentID != "" {
		filter := types.NewInvoiceFilter()
		filter.SubscriptionID = subscriptionID
		filter.GatewayPaymentID = req.GatewayPaymentID
		existing, err := s.InvoiceRepo.List(ctx, filter)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			inv := existing[0]
			if !inv.IsPayable() {
				s.Logger.Infow("invoice already recorded for payment",
					"payment_id", req.GatewayPaymentID,
					"subscription_id", subscriptionID,
					"invoice_status", inv.InvoiceStatus,
				)
				return nil
			}
			// issued by an earlier delivery that failed before marking it paid
			_, err = invoices.MarkPaid(ctx, inv.ID, req)
			return err
		}
	}

	inv, err := invoices.generate(ctx, resp.Subscription, req.GatewayPaymentID)
	if err != nil {
		return err
	}
	_, err = invoices.MarkPaid(ctx, inv.ID, req)
	return err
}

func (s *billingWebhookService) HandlePaymentMethodDetached(ctx context.Context, gatewayCustomerID, gatewayPaymentMethodID string) error {
	if gatewayCustomerID == "" {
		s.Logger.Debugw("detached payment method has no customer", "gateway_payment_method_id", gatewayPaymentMethodID)
		return nil
	}

	filter := types.NewTenantFilter()
	filter.GatewayCustomerID = gatewayCustomerID
	tenants, err := s.TenantRepo.List(ctx, filter)
	if err != nil {
		return err
	}
	if len(tenants) == 0 {
		s.Logger.Warnw("no tenant for gateway customer", "gateway_customer_id", gatewayCustomerID)
		return nil
	}

	ctx = types.SetTenantID(ctx, tenants[0].ID)
	return NewPaymentMethodService(s.ServiceParams).RemoveDetached(ctx, gatewayPaymentMethodID)
}
