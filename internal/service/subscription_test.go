package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/socialdesk/socialdesk/internal/api/dto"
	"github.com/socialdesk/socialdesk/internal/domain/subscription"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
	"github.com/socialdesk/socialdesk/internal/integration/base"
	"github.com/socialdesk/socialdesk/internal/testutil"
	"github.com/socialdesk/socialdesk/internal/types"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type SubscriptionServiceSuite struct {
	testutil.BaseServiceTestSuite
	params  ServiceParams
	service *subscriptionService
	gateway *testutil.MockGateway
}

func TestSubscriptionService(t *testing.T) {
	suite.Run(t, new(SubscriptionServiceSuite))
}

func (s *SubscriptionServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.gateway = testutil.NewMockGateway(types.PaymentGatewayTypeStripe)
	s.params = newTestParams(&s.BaseServiceTestSuite)
	s.params.Gateways = &testutil.MockGatewayProvider{Subscription: s.gateway, PaymentMethod: s.gateway}
	s.service = NewSubscriptionService(s.params).(*subscriptionService)

	s.SeedTenant()
	s.SeedPlan("free", "0", map[types.PlanLimitKey]int64{types.PlanLimitWorkspaces: 1})
	s.SeedPlan("pro", "49", map[types.PlanLimitKey]int64{types.PlanLimitWorkspaces: 10})
}

func (s *SubscriptionServiceSuite) expectGatewaySubscription(status string) {
	s.gateway.On("CreateCustomer", mock.Anything, mock.MatchedBy(func(req *base.CustomerRequest) bool {
		return req.TenantID == types.DefaultTenantID && req.IdempotencyKey != ""
	})).Return("cus_123", nil).Once()
	s.gateway.On("CreateSubscription", mock.Anything, mock.MatchedBy(func(req *base.SubscriptionRequest) bool {
		return req.CustomerID == "cus_123" && strings.HasPrefix(req.IdempotencyKey, "gateway_subscription-")
	})).Return(&base.GatewaySubscription{
		ID:       "sub_gw_" + types.GenerateShortIDWithPrefix("t"),
		Status:   status,
		ShortURL: "https://pay.test/checkout",
	}, nil).Once()
}

func (s *SubscriptionServiceSuite) seedSubscription(ctx context.Context, status types.SubscriptionStatus, periodEnd time.Time) *subscription.Subscription {
	sub := &subscription.Subscription{
		ID:                 types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SUBSCRIPTION),
		PlanCode:           "pro",
		SubscriptionStatus: status,
		Quantity:           1,
		Currency:           "USD",
		CurrentPeriodStart: periodEnd.AddDate(0, -1, 0),
		CurrentPeriodEnd:   periodEnd,
		BaseModel:          types.GetDefaultBaseModel(ctx),
	}
	s.Require().NoError(s.GetStores().SubRepo.Create(ctx, sub))
	return sub
}

func (s *SubscriptionServiceSuite) TestCreateFreeSubscription() {
	resp, err := s.service.CreateSubscription(s.GetContext(), dto.CreateSubscriptionRequest{PlanCode: "free"})
	s.NoError(err)
	s.Equal(types.SubscriptionStatusActive, resp.SubscriptionStatus)
	s.Equal(1, resp.Quantity)
	s.Empty(resp.CheckoutURL)
	s.NotNil(resp.Plan)
	s.gateway.AssertNotCalled(s.T(), "CreateSubscription", mock.Anything, mock.Anything)
	s.True(s.GetPublisher().HasEvent(types.SystemEventSubscriptionCreated))
	s.Contains(auditActions(&s.BaseServiceTestSuite, s.params), types.AuditActionSubscriptionCreated)
}

func (s *SubscriptionServiceSuite) TestCreatePaidSubscription() {
	s.expectGatewaySubscription(base.StatusCreated)

	resp, err := s.service.CreateSubscription(s.GetContext(), dto.CreateSubscriptionRequest{PlanCode: "pro", Quantity: 3})
	s.NoError(err)
	s.Equal(types.SubscriptionStatusCreated, resp.SubscriptionStatus)
	s.Equal("https://pay.test/checkout", resp.CheckoutURL)
	s.Equal("cus_123", resp.GatewayCustomerID)
	s.Equal(3, resp.Quantity)

	t, err := s.GetStores().TenantRepo.GetByID(s.GetContext(), types.DefaultTenantID)
	s.NoError(err)
	s.Equal("cus_123", t.GatewayCustomerID)
	s.gateway.AssertExpectations(s.T())
}

func (s *SubscriptionServiceSuite) TestSingleCurrentSubscription() {
	_, err := s.service.CreateSubscription(s.GetContext(), dto.CreateSubscriptionRequest{PlanCode: "free"})
	s.Require().NoError(err)

	_, err = s.service.CreateSubscription(s.GetContext(), dto.CreateSubscriptionRequest{PlanCode: "free"})
	s.Error(err)
	s.True(ierr.IsValidation(err))

	subs, err := s.service.ListSubscriptions(s.GetContext(), nil)
	s.NoError(err)
	s.Equal(1, subs.Pagination.Total)
}

func (s *SubscriptionServiceSuite) TestCreateAfterCancellation() {
	first, err := s.service.CreateSubscription(s.GetContext(), dto.CreateSubscriptionRequest{PlanCode: "free"})
	s.Require().NoError(err)

	_, err = s.service.CancelSubscription(s.GetContext(), first.ID, dto.CancelSubscriptionRequest{})
	s.Require().NoError(err)

	second, err := s.service.CreateSubscription(s.GetContext(), dto.CreateSubscriptionRequest{PlanCode: "free"})
	s.NoError(err)
	s.NotEqual(first.ID, second.ID)

	current, err := s.service.GetCurrentSubscription(s.GetContext())
	s.NoError(err)
	s.Equal(second.ID, current.ID)
}

func (s *SubscriptionServiceSuite) TestCreateUnknownPlan() {
	_, err := s.service.CreateSubscription(s.GetContext(), dto.CreateSubscriptionRequest{PlanCode: "enterprise"})
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *SubscriptionServiceSuite) TestCancel() {
	tests := []struct {
		name            string
		status          types.SubscriptionStatus
		atPeriodEnd     bool
		wantStatus      types.SubscriptionStatus
		wantCancelLater bool
	}{
		{
			name:        "immediately",
			status:      types.SubscriptionStatusActive,
			atPeriodEnd: false,
			wantStatus:  types.SubscriptionStatusCancelled,
		},
		{
			name:            "at period end",
			status:          types.SubscriptionStatusActive,
			atPeriodEnd:     true,
			wantStatus:      types.SubscriptionStatusActive,
			wantCancelLater: true,
		},
		{
			name:        "at period end before activation ends now",
			status:      types.SubscriptionStatusCreated,
			atPeriodEnd: true,
			wantStatus:  types.SubscriptionStatusCancelled,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.GetStores().SubRepo.Clear()
			sub := s.seedSubscription(s.GetContext(), tt.status, s.GetNow().AddDate(0, 0, 10))

			resp, err := s.service.CancelSubscription(s.GetContext(), sub.ID, dto.CancelSubscriptionRequest{AtPeriodEnd: tt.atPeriodEnd})
			s.NoError(err)
			s.Equal(tt.wantStatus, resp.SubscriptionStatus)
			s.Equal(tt.wantCancelLater, resp.CancelAtPeriodEnd)
			if tt.wantStatus == types.SubscriptionStatusCancelled {
				s.NotNil(resp.EndedAt)
				s.NotNil(resp.CancelledAt)
			} else {
				s.Nil(resp.EndedAt)
			}
		})
	}
}

func (s *SubscriptionServiceSuite) TestCancelCallsGateway() {
	sub := s.seedSubscription(s.GetContext(), types.SubscriptionStatusActive, s.GetNow().AddDate(0, 0, 10))
	sub.GatewaySubscriptionID = "sub_gw_1"
	s.gateway.On("CancelSubscription", mock.Anything, "sub_gw_1", true).Return(nil).Once()

	_, err := s.service.CancelSubscription(s.GetContext(), sub.ID, dto.CancelSubscriptionRequest{AtPeriodEnd: true})
	s.NoError(err)
	s.gateway.AssertExpectations(s.T())
}

func (s *SubscriptionServiceSuite) TestCancelEndedSubscription() {
	sub := s.seedSubscription(s.GetContext(), types.SubscriptionStatusExpired, s.GetNow())

	_, err := s.service.CancelSubscription(s.GetContext(), sub.ID, dto.CancelSubscriptionRequest{})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *SubscriptionServiceSuite) TestReactivate() {
	sub := s.seedSubscription(s.GetContext(), types.SubscriptionStatusActive, s.GetNow().AddDate(0, 0, 10))

	_, err := s.service.CancelSubscription(s.GetContext(), sub.ID, dto.CancelSubscriptionRequest{AtPeriodEnd: true})
	s.Require().NoError(err)

	resp, err := s.service.ReactivateSubscription(s.GetContext(), sub.ID)
	s.NoError(err)
	s.False(resp.CancelAtPeriodEnd)
	s.Equal(types.SubscriptionStatusActive, resp.SubscriptionStatus)
	s.True(s.GetPublisher().HasEvent(types.SystemEventSubscriptionReactivated))
}

func (s *SubscriptionServiceSuite) TestReactivateGuards() {
	s.Run("not scheduled to cancel", func() {
		s.GetStores().SubRepo.Clear()
		sub := s.seedSubscription(s.GetContext(), types.SubscriptionStatusActive, s.GetNow().AddDate(0, 0, 10))

		_, err := s.service.ReactivateSubscription(s.GetContext(), sub.ID)
		s.True(ierr.IsValidation(err))
	})

	s.Run("already cancelled", func() {
		s.GetStores().SubRepo.Clear()
		sub := s.seedSubscription(s.GetContext(), types.SubscriptionStatusActive, s.GetNow().AddDate(0, 0, 10))
		_, err := s.service.CancelSubscription(s.GetContext(), sub.ID, dto.CancelSubscriptionRequest{})
		s.Require().NoError(err)

		_, err = s.service.ReactivateSubscription(s.GetContext(), sub.ID)
		s.True(ierr.IsValidation(err))
	})

	s.Run("period already over", func() {
		s.GetStores().SubRepo.Clear()
		sub := s.seedSubscription(s.GetContext(), types.SubscriptionStatusActive, s.GetNow().AddDate(0, 0, 10))
		_, err := s.service.CancelSubscription(s.GetContext(), sub.ID, dto.CancelSubscriptionRequest{AtPeriodEnd: true})
		s.Require().NoError(err)

		svc := NewSubscriptionService(s.params).(*subscriptionService)
		svc.now = func() time.Time { return sub.CurrentPeriodEnd.Add(time.Second) }
		_, err = svc.ReactivateSubscription(s.GetContext(), sub.ID)
		s.True(ierr.IsValidation(err))
	})
}

func (s *SubscriptionServiceSuite) TestExpireDueSubscriptions() {
	now := s.GetNow()
	otherCtx := types.SetTenantID(s.GetContext(), "tenant_other")

	due := s.seedSubscription(s.GetContext(), types.SubscriptionStatusActive, now.Add(-time.Hour))
	due.CancelAtPeriodEnd = true
	otherDue := s.seedSubscription(otherCtx, types.SubscriptionStatusActive, now.Add(-time.Minute))
	otherDue.CancelAtPeriodEnd = true

	resp, err := s.service.ExpireDueSubscriptions(s.GetContext(), now)
	s.NoError(err)
	s.ElementsMatch([]string{due.ID, otherDue.ID}, resp.Expired)

	got, err := s.GetStores().SubRepo.Get(s.GetContext(), due.ID)
	s.NoError(err)
	s.Equal(types.SubscriptionStatusCancelled, got.SubscriptionStatus)
	s.Require().NotNil(got.EndedAt)
	s.True(got.EndedAt.Equal(due.CurrentPeriodEnd))
}

func (s *SubscriptionServiceSuite) TestExpireSkipsRunningPeriods() {
	now := s.GetNow()
	running := s.seedSubscription(s.GetContext(), types.SubscriptionStatusActive, now.Add(time.Hour))
	running.CancelAtPeriodEnd = true

	resp, err := s.service.ExpireDueSubscriptions(s.GetContext(), now)
	s.NoError(err)
	s.Empty(resp.Expired)

	got, err := s.GetStores().SubRepo.Get(s.GetContext(), running.ID)
	s.NoError(err)
	s.Equal(types.SubscriptionStatusActive, got.SubscriptionStatus)
}

func (s *SubscriptionServiceSuite) TestChangePlan() {
	sub := s.seedSubscription(s.GetContext(), types.SubscriptionStatusActive, s.GetNow().AddDate(0, 0, 10))

	resp, err := s.service.ChangePlan(s.GetContext(), sub.ID, dto.ChangePlanRequest{PlanCode: "free"})
	s.NoError(err)
	s.Equal("free", resp.PlanCode)

	_, err = s.service.ChangePlan(s.GetContext(), sub.ID, dto.ChangePlanRequest{PlanCode: "missing"})
	s.True(ierr.IsNotFound(err))
}

func (s *SubscriptionServiceSuite) TestUpdateStatusIgnoresEnded() {
	sub := s.seedSubscription(s.GetContext(), types.SubscriptionStatusCancelled, s.GetNow())

	resp, err := s.service.UpdateStatus(s.GetContext(), sub.ID, types.SubscriptionStatusActive, time.Time{})
	s.NoError(err)
	s.Equal(types.SubscriptionStatusCancelled, resp.SubscriptionStatus)
}
