package service

import (
	"context"
	"time"

	"github.com/samber/lo"
	"github.com/socialdesk/socialdesk/internal/api/dto"
	"github.com/socialdesk/socialdesk/internal/domain/subscription"
	"github.com/socialdesk/socialdesk/internal/domain/tenant"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
	"github.com/socialdesk/socialdesk/internal/idempotency"
	"github.com/socialdesk/socialdesk/internal/integration/base"
	"github.com/socialdesk/socialdesk/internal/types"
)

type SubscriptionService interface {
	CreateSubscription(ctx context.Context, req dto.CreateSubscriptionRequest) (*dto.SubscriptionResponse, error)
	GetSubscription(ctx context.Context, id string) (*dto.SubscriptionResponse, error)
	GetCurrentSubscription(ctx context.Context) (*dto.SubscriptionResponse, error)
	ListSubscriptions(ctx context.Context, filter *types.SubscriptionFilter) (*dto.ListSubscriptionsResponse, error)
	// ActivateSubscription moves a subscription to active for the given period; zero times keep the stored period
	ActivateSubscription(ctx context.Context, id string, periodStart, periodEnd time.Time) (*dto.SubscriptionResponse, error)
	CancelSubscription(ctx context.Context, id string, req dto.CancelSubscriptionRequest) (*dto.SubscriptionResponse, error)
	ReactivateSubscription(ctx context.Context, id string) (*dto.SubscriptionResponse, error)
	ChangePlan(ctx context.Context, id string, req dto.ChangePlanRequest) (*dto.SubscriptionResponse, error)
	// ExpireDueSubscriptions ends every deferred cancellation whose period is over at now, across tenants
	ExpireDueSubscriptions(ctx context.Context, now time.Time) (*dto.ExpireSubscriptionsResponse, error)
	// UpdateStatus applies a status reported by the gateway
	UpdateStatus(ctx context.Context, id string, status types.SubscriptionStatus, at time.Time) (*dto.SubscriptionResponse, error)
}

type subscriptionService struct {
	ServiceParams
	now func() time.Time
}

func NewSubscriptionService(params ServiceParams) SubscriptionService {
	return &subscriptionService{
		ServiceParams: params,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (s *subscriptionService) CreateSubscription(ctx context.Context, req dto.CreateSubscriptionRequest) (*dto.SubscriptionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// rejected here with a readable error, the partial unique index catches concurrent creates
	existing, err := s.SubRepo.GetCurrent(ctx)
	if err != nil && !ierr.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, ierr.NewError("tenant already has a current subscription").
			WithHint("Cancel the current subscription before starting a new one").
			WithReportableDetails(map[string]any{
				"subscription_id":     existing.ID,
				"subscription_status": existing.SubscriptionStatus,
			}).
			Mark(ierr.ErrValidation)
	}

	p, err := (&planService{ServiceParams: s.ServiceParams}).getPlan(ctx, req.PlanCode)
	if err != nil {
		return nil, err
	}

	t, err := s.TenantRepo.GetByID(ctx, types.GetTenantID(ctx))
	if err != nil {
		return nil, err
	}

	now := s.now()
	currency := lo.Ternary(p.Currency != "", p.Currency, s.Config.Billing.Currency)
	sub := &subscription.Subscription{
		ID:                 types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SUBSCRIPTION),
		PlanCode:           p.Code,
		SubscriptionStatus: types.SubscriptionStatusCreated,
		Quantity:           req.Quantity,
		Currency:           currency,
		CurrentPeriodStart: now,
		CurrentPeriodEnd:   types.NextBillingDate(now, p.BillingInterval),
		BaseModel:          types.GetDefaultBaseModel(ctx),
	}

	if p.TrialDays > 0 {
		trialEnd := now.AddDate(0, 0, p.TrialDays)
		sub.TrialStart = lo.ToPtr(now)
		sub.TrialEnd = &trialEnd
		sub.CurrentPeriodEnd = trialEnd
		sub.SubscriptionStatus = types.SubscriptionStatusActive
	}

	var (
		checkoutURL    string
		gateway        base.SubscriptionGateway
		tenantCustomer bool
		gatewayCreated bool
	)

	if p.IsFree() {
		sub.SubscriptionStatus = types.SubscriptionStatusActive
	} else {
		gateway, err = s.Gateways.GetSubscriptionGateway()
		if err != nil {
			return nil, err
		}
		sub.Gateway = string(gateway.Name())

		customerID := t.GatewayCustomerID
		if customerID == "" {
			customerID, err = gateway.CreateCustomer(ctx, newCustomerRequest(t, gateway.Name()))
			if err != nil {
				return nil, err
			}
			t.GatewayCustomerID = customerID
			tenantCustomer = true
		}
		sub.GatewayCustomerID = customerID

		gs, err := gateway.CreateSubscription(ctx, &base.SubscriptionRequest{
			TenantID:       t.ID,
			CustomerID:     customerID,
			GatewayPlanID:  p.GatewayPlanID,
			Quantity:       sub.Quantity,
			TrialEnd:       sub.TrialEnd,
			Amount:         p.Price,
			Currency:       currency,
			SubscriptionID: sub.ID,
			IdempotencyKey: idempotency.NewGenerator().GenerateKey(idempotency.ScopeGatewaySubscription, map[string]interface{}{
				"tenant_id":       t.ID,
				"subscription_id": sub.ID,
				"plan_code":       p.Code,
			}),
		})
		if err != nil {
			return nil, err
		}
		gatewayCreated = true
		sub.GatewaySubscriptionID = gs.ID
		checkoutURL = gs.ShortURL
		if sub.TrialEnd == nil && gs.Status == base.StatusActive {
			sub.SubscriptionStatus = types.SubscriptionStatusActive
		}
	}

	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		if tenantCustomer {
			if err := s.TenantRepo.Update(ctx, t); err != nil {
				return err
			}
		}
		return s.SubRepo.Create(ctx, sub)
	})
	if err != nil {
		if gatewayCreated {
			if cancelErr := gateway.CancelSubscription(ctx, sub.GatewaySubscriptionID, false); cancelErr != nil {
				s.Logger.Errorw("failed to cancel orphaned gateway subscription",
					"error", cancelErr,
					"gateway_subscription_id", sub.GatewaySubscriptionID,
				)
			}
		}
		return nil, err
	}

	s.Logger.Infow("subscription created",
		"subscription_id", sub.ID,
		"tenant_id", sub.TenantID,
		"plan_code", sub.PlanCode,
		"subscription_status", sub.SubscriptionStatus,
	)

	recordAudit(ctx, s.ServiceParams, types.AuditActionSubscriptionCreated, "subscription", sub.ID, map[string]interface{}{
		"plan_code": sub.PlanCode,
		"status":    sub.SubscriptionStatus,
	})
	publishEvent(ctx, s.ServiceParams, types.SystemEventSubscriptionCreated, sub)

	resp := s.toResponse(ctx, sub)
	resp.CheckoutURL = checkoutURL
	return resp, nil
}

func (s *subscriptionService) GetSubscription(ctx context.Context, id string) (*dto.SubscriptionResponse, error) {
	sub, err := s.SubRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, sub), nil
}

func (s *subscriptionService) GetCurrentSubscription(ctx context.Context) (*dto.SubscriptionResponse, error) {
	sub, err := s.SubRepo.GetCurrent(ctx)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, sub), nil
}

func (s *subscriptionService) ListSubscriptions(ctx context.Context, filter *types.SubscriptionFilter) (*dto.ListSubscriptionsResponse, error) {
	if filter == nil {
		filter = types.NewSubscriptionFilter()
	}
	if filter.QueryFilter == nil {
		filter.QueryFilter = types.NewDefaultQueryFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	subs, err := s.SubRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	count, err := s.SubRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.SubscriptionResponse, len(subs))
	for i, sub := range subs {
		items[i] = &dto.SubscriptionResponse{Subscription: sub}
	}
	resp := types.NewListResponse(items, count, filter.GetLimit(), filter.GetOffset())
	return &resp, nil
}

func (s *subscriptionService) ActivateSubscription(ctx context.Context, id string, periodStart, periodEnd time.Time) (*dto.SubscriptionResponse, error) {
	sub, err := s.SubRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub.SubscriptionStatus.IsTerminal() {
		return nil, ierr.NewError("subscription has ended").
			WithHint("An ended subscription cannot be activated").
			WithReportableDetails(map[string]any{
				"subscription_id":     sub.ID,
				"subscription_status": sub.SubscriptionStatus,
			}).
			Mark(ierr.ErrValidation)
	}

	wasActive := sub.SubscriptionStatus == types.SubscriptionStatusActive
	sub.SubscriptionStatus = types.SubscriptionStatusActive
	if !periodStart.IsZero() {
		sub.CurrentPeriodStart = periodStart
	}
	if !periodEnd.IsZero() {
		sub.CurrentPeriodEnd = periodEnd
	}

	if err := s.SubRepo.Update(ctx, sub); err != nil {
		return nil, err
	}

	if !wasActive {
		recordAudit(ctx, s.ServiceParams, types.AuditActionSubscriptionActivated, "subscription", sub.ID, map[string]interface{}{
			"current_period_start": sub.CurrentPeriodStart,
			"current_period_end":   sub.CurrentPeriodEnd,
		})
		publishEvent(ctx, s.ServiceParams, types.SystemEventSubscriptionActivated, sub)
	}
	return s.toResponse(ctx, sub), nil
}

func (s *subscriptionService) CancelSubscription(ctx context.Context, id string, req dto.CancelSubscriptionRequest) (*dto.SubscriptionResponse, error) {
	sub, err := s.SubRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sub.IsCurrent() {
		return nil, ierr.NewError("subscription is not cancellable").
			WithHintf("A %s subscription cannot be cancelled", sub.SubscriptionStatus).
			WithReportableDetails(map[string]any{
				"subscription_id":     sub.ID,
				"subscription_status": sub.SubscriptionStatus,
			}).
			Mark(ierr.ErrValidation)
	}

	// only a paid period can be run out, anything not yet active ends now
	atPeriodEnd := req.AtPeriodEnd && sub.SubscriptionStatus == types.SubscriptionStatusActive

	if sub.GatewaySubscriptionID != "" {
		gateway, err := s.Gateways.GetSubscriptionGateway()
		if err != nil {
			return nil, err
		}
		if err := gateway.CancelSubscription(ctx, sub.GatewaySubscriptionID, atPeriodEnd); err != nil {
			return nil, err
		}
	}

	now := s.now()
	if atPeriodEnd {
		sub.CancelAtPeriodEnd = true
	} else {
		sub.SubscriptionStatus = types.SubscriptionStatusCancelled
		sub.CancelAtPeriodEnd = false
		sub.CancelledAt = &now
		sub.EndedAt = &now
	}

	if err := s.SubRepo.Update(ctx, sub); err != nil {
		return nil, err
	}

	s.Logger.Infow("subscription cancelled",
		"subscription_id", sub.ID,
		"tenant_id", sub.TenantID,
		"at_period_end", atPeriodEnd,
	)

	recordAudit(ctx, s.ServiceParams, types.AuditActionSubscriptionCancelled, "subscription", sub.ID, map[string]interface{}{
		"at_period_end": atPeriodEnd,
	})
	publishEvent(ctx, s.ServiceParams, types.SystemEventSubscriptionCancelled, sub)

	return s.toResponse(ctx, sub), nil
}

func (s *subscriptionService) ReactivateSubscription(ctx context.Context, id string) (*dto.SubscriptionResponse, error) {
	sub, err := s.SubRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !sub.CanReactivate(s.now()) {
		return nil, ierr.NewError("subscription cannot be reactivated").
			WithHint("Only an active subscription scheduled to cancel at period end can be reactivated before the period ends").
			WithReportableDetails(map[string]any{
				"subscription_id":      sub.ID,
				"subscription_status":  sub.SubscriptionStatus,
				"cancel_at_period_end": sub.CancelAtPeriodEnd,
				"current_period_end":   sub.CurrentPeriodEnd,
			}).
			Mark(ierr.ErrValidation)
	}

	sub.CancelAtPeriodEnd = false
	if err := s.SubRepo.Update(ctx, sub); err != nil {
		return nil, err
	}

	recordAudit(ctx, s.ServiceParams, types.AuditActionSubscriptionReactivated, "subscription", sub.ID, nil)
	publishEvent(ctx, s.ServiceParams, types.SystemEventSubscriptionReactivated, sub)

	return s.toResponse(ctx, sub), nil
}

func (s *subscriptionService) ChangePlan(ctx context.Context, id string, req dto.ChangePlanRequest) (*dto.SubscriptionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	sub, err := s.SubRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub.SubscriptionStatus != types.SubscriptionStatusActive {
		return nil, ierr.NewError("only active subscriptions can change plan").
			WithHint("Only an active subscription can change plan").
			WithReportableDetails(map[string]any{
				"subscription_id":     sub.ID,
				"subscription_status": sub.SubscriptionStatus,
			}).
			Mark(ierr.ErrValidation)
	}
	if sub.PlanCode == req.PlanCode {
		return s.toResponse(ctx, sub), nil
	}

	if _, err := (&planService{ServiceParams: s.ServiceParams}).getPlan(ctx, req.PlanCode); err != nil {
		return nil, err
	}

	previous := sub.PlanCode
	sub.PlanCode = req.PlanCode
	if err := s.SubRepo.Update(ctx, sub); err != nil {
		return nil, err
	}

	recordAudit(ctx, s.ServiceParams, types.AuditActionSubscriptionPlanChanged, "subscription", sub.ID, map[string]interface{}{
		"from_plan": previous,
		"to_plan":   sub.PlanCode,
	})
	publishEvent(ctx, s.ServiceParams, types.SystemEventSubscriptionUpdated, sub)

	return s.toResponse(ctx, sub), nil
}

func (s *subscriptionService) ExpireDueSubscriptions(ctx context.Context, now time.Time) (*dto.ExpireSubscriptionsResponse, error) {
	if now.IsZero() {
		now = s.now()
	}

	filter := types.NewNoLimitSubscriptionFilter()
	filter.AllTenants = true
	filter.SubscriptionStatuses = []types.SubscriptionStatus{types.SubscriptionStatusActive}
	filter.CancelAtPeriodEnd = lo.ToPtr(true)
	filter.PeriodEndBefore = &now

	due, err := s.SubRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := &dto.ExpireSubscriptionsResponse{Expired: make([]string, 0, len(due))}
	for _, sub := range due {
		if sub.CurrentPeriodEnd.After(now) {
			continue
		}

		tenantCtx := types.SetTenantID(ctx, sub.TenantID)
		endedAt := sub.CurrentPeriodEnd
		sub.SubscriptionStatus = types.SubscriptionStatusCancelled
		sub.EndedAt = &endedAt
		if sub.CancelledAt == nil {
			sub.CancelledAt = lo.ToPtr(now)
		}

		if err := s.SubRepo.Update(tenantCtx, sub); err != nil {
			s.Logger.Errorw("failed to expire subscription",
				"error", err,
				"subscription_id", sub.ID,
				"tenant_id", sub.TenantID,
			)
			continue
		}

		recordAudit(tenantCtx, s.ServiceParams, types.AuditActionSubscriptionCancelled, "subscription", sub.ID, map[string]interface{}{
			"reason": "period_ended",
		})
		publishEvent(tenantCtx, s.ServiceParams, types.SystemEventSubscriptionCancelled, sub)
		resp.Expired = append(resp.Expired, sub.ID)
	}

	s.Logger.Infow("expired due subscriptions", "count", len(resp.Expired), "now", now)
	return resp, nil
}

func (s *subscriptionService) UpdateStatus(ctx context.Context, id string, status types.SubscriptionStatus, at time.Time) (*dto.SubscriptionResponse, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}

	sub, err := s.SubRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub.SubscriptionStatus == status {
		return s.toResponse(ctx, sub), nil
	}
	if sub.SubscriptionStatus.IsTerminal() {
		s.Logger.Warnw("ignoring status change of ended subscription",
			"subscription_id", sub.ID,
			"subscription_status", sub.SubscriptionStatus,
			"requested_status", status,
		)
		return s.toResponse(ctx, sub), nil
	}

	if at.IsZero() {
		at = s.now()
	}
	sub.SubscriptionStatus = status
	if status.IsTerminal() {
		sub.EndedAt = &at
		if status == types.SubscriptionStatusCancelled && sub.CancelledAt == nil {
			sub.CancelledAt = &at
		}
	}

	if err := s.SubRepo.Update(ctx, sub); err != nil {
		return nil, err
	}

	if status.IsTerminal() {
		recordAudit(ctx, s.ServiceParams, types.AuditActionSubscriptionCancelled, "subscription", sub.ID, map[string]interface{}{
			"status": status,
		})
		publishEvent(ctx, s.ServiceParams, types.SystemEventSubscriptionCancelled, sub)
	} else {
		publishEvent(ctx, s.ServiceParams, types.SystemEventSubscriptionUpdated, sub)
	}
	return s.toResponse(ctx, sub), nil
}

func (s *subscriptionService) toResponse(ctx context.Context, sub *subscription.Subscription) *dto.SubscriptionResponse {
	resp := &dto.SubscriptionResponse{Subscription: sub}
	if p, err := (&planService{ServiceParams: s.ServiceParams}).getPlan(ctx, sub.PlanCode); err == nil {
		resp.Plan = &dto.PlanResponse{Plan: p}
	}
	return resp
}

// newCustomerRequest keys customer creation by tenant so concurrent first purchases share one customer
func newCustomerRequest(t *tenant.Tenant, gateway types.PaymentGatewayType) *base.CustomerRequest {
	return &base.CustomerRequest{
		TenantID: t.ID,
		Name:     t.Name,
		Email:    t.BillingEmail,
		Country:  t.Country,
		IdempotencyKey: idempotency.NewGenerator().GenerateKey(idempotency.ScopeGatewayCustomer, map[string]interface{}{
			"tenant_id": t.ID,
			"gateway":   gateway,
		}),
	}
}
