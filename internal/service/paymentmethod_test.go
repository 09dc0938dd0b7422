package service

import (
	"context"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/socialdesk/socialdesk/internal/api/dto"
	"github.com/socialdesk/socialdesk/internal/config"
	"github.com/socialdesk/socialdesk/internal/domain/auditlog"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
	"github.com/socialdesk/socialdesk/internal/integration/base"
	"github.com/socialdesk/socialdesk/internal/testutil"
	"github.com/socialdesk/socialdesk/internal/types"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type PaymentMethodServiceSuite struct {
	testutil.BaseServiceTestSuite
	params  ServiceParams
	service PaymentMethodService
	gateway *testutil.MockGateway
}

func TestPaymentMethodService(t *testing.T) {
	suite.Run(t, new(PaymentMethodServiceSuite))
}

func (s *PaymentMethodServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.gateway = testutil.NewMockGateway(types.PaymentGatewayTypeStripe)
	s.gateway.On("CreateCustomer", mock.Anything, mock.Anything).Return("cus_123", nil).Maybe()
	s.gateway.On("DetachPaymentMethod", mock.Anything, mock.Anything).Return(nil).Maybe()

	s.params = newTestParams(&s.BaseServiceTestSuite)
	s.params.Gateways = &testutil.MockGatewayProvider{Subscription: s.gateway, PaymentMethod: s.gateway}
	s.service = NewPaymentMethodService(s.params)
	s.SeedTenant()
}

// add attaches a card and backdates it by age so promotion order is deterministic
func (s *PaymentMethodServiceSuite) add(gatewayID string, isDefault bool, age time.Duration) *dto.PaymentMethodResponse {
	s.gateway.On("AttachPaymentMethod", mock.Anything, "cus_123", gatewayID).Return(&base.GatewayPaymentMethod{
		ID:       gatewayID,
		Type:     types.PaymentMethodTypeCard,
		Brand:    "visa",
		Last4:    "4242",
		ExpMonth: 12,
		ExpYear:  2030,
	}, nil).Once()

	resp, err := s.service.AddPaymentMethod(s.GetContext(), dto.AddPaymentMethodRequest{
		GatewayPaymentMethodID: gatewayID,
		IsDefault:              isDefault,
	})
	s.Require().NoError(err)

	stored, err := s.GetStores().PaymentMethodRepo.Get(s.GetContext(), resp.ID)
	s.Require().NoError(err)
	stored.CreatedAt = s.GetNow().Add(-age)
	s.Require().NoError(s.GetStores().PaymentMethodRepo.Update(s.GetContext(), stored))
	resp.CreatedAt = stored.CreatedAt
	return resp
}

func (s *PaymentMethodServiceSuite) defaultID() string {
	methods, err := s.service.ListPaymentMethods(s.GetContext())
	s.Require().NoError(err)

	var ids []string
	for _, m := range methods {
		if m.IsDefault {
			ids = append(ids, m.ID)
		}
	}
	s.Require().Len(ids, 1, "exactly one default payment method")
	return ids[0]
}

func (s *PaymentMethodServiceSuite) TestFirstMethodBecomesDefault() {
	first := s.add("pm_1", false, 3*time.Hour)
	s.True(first.IsDefault)

	second := s.add("pm_2", false, 2*time.Hour)
	s.False(second.IsDefault)
	s.Equal(first.ID, s.defaultID())

	third := s.add("pm_3", true, time.Hour)
	s.True(third.IsDefault)
	s.Equal(third.ID, s.defaultID())

	t, err := s.GetStores().TenantRepo.GetByID(s.GetContext(), types.DefaultTenantID)
	s.NoError(err)
	s.Equal("cus_123", t.GatewayCustomerID)
}

func (s *PaymentMethodServiceSuite) TestSetDefault() {
	s.add("pm_1", false, 2*time.Hour)
	second := s.add("pm_2", false, time.Hour)

	resp, err := s.service.SetDefault(s.GetContext(), second.ID)
	s.NoError(err)
	s.True(resp.IsDefault)
	s.Equal(second.ID, s.defaultID())
	s.Contains(auditActions(&s.BaseServiceTestSuite, s.params), types.AuditActionPaymentMethodDefaultChanged)
}

func (s *PaymentMethodServiceSuite) TestRemoveOnlyMethod() {
	only := s.add("pm_1", false, time.Hour)

	err := s.service.RemovePaymentMethod(s.GetContext(), only.ID)
	s.Error(err)
	s.True(ierr.IsValidation(err))
	s.gateway.AssertNotCalled(s.T(), "DetachPaymentMethod", mock.Anything, mock.Anything)

	methods, err := s.service.ListPaymentMethods(s.GetContext())
	s.NoError(err)
	s.Len(methods, 1)
}

func (s *PaymentMethodServiceSuite) TestRemoveDefaultPromotesNewest() {
	def := s.add("pm_1", false, 3*time.Hour)
	s.add("pm_2", false, 2*time.Hour)
	newest := s.add("pm_3", false, time.Hour)

	s.NoError(s.service.RemovePaymentMethod(s.GetContext(), def.ID))
	s.gateway.AssertCalled(s.T(), "DetachPaymentMethod", mock.Anything, "pm_1")

	methods, err := s.service.ListPaymentMethods(s.GetContext())
	s.NoError(err)
	s.Len(methods, 2)
	s.Equal(newest.ID, s.defaultID())
}

func (s *PaymentMethodServiceSuite) TestRemoveDefaultOfTwo() {
	def := s.add("pm_1", false, 2*time.Hour)
	other := s.add("pm_2", false, time.Hour)
	s.True(def.IsDefault)

	s.NoError(s.service.RemovePaymentMethod(s.GetContext(), def.ID))

	s.Equal(1, s.GetStores().PaymentMethodRepo.DefaultCount(s.GetContext()))
	s.Equal(other.ID, s.defaultID())

	flushAuditLogs(&s.BaseServiceTestSuite, s.params)
	filter := types.NewAuditLogFilter()
	filter.QueryFilter = types.NewNoLimitQueryFilter()
	logs, err := s.GetStores().AuditLogRepo.List(s.GetContext(), filter)
	s.Require().NoError(err)
	removed, ok := lo.Find(logs, func(l *auditlog.AuditLog) bool {
		return l.Action == types.AuditActionPaymentMethodRemoved
	})
	s.Require().True(ok)
	s.Equal(true, removed.Metadata["was_default"])
}

// failingPaymentMethodStore fails every delete
type failingPaymentMethodStore struct {
	*testutil.InMemoryPaymentMethodStore
}

func (s *failingPaymentMethodStore) Delete(ctx context.Context, id string) error {
	return ierr.NewError("connection reset").Mark(ierr.ErrDatabase)
}

func (s *PaymentMethodServiceSuite) TestRemoveKeepsCardAttachedWhenDeleteFails() {
	def := s.add("pm_1", false, 2*time.Hour)
	s.add("pm_2", false, time.Hour)

	params := s.params
	params.PaymentMethodRepo = &failingPaymentMethodStore{InMemoryPaymentMethodStore: s.GetStores().PaymentMethodRepo}

	err := NewPaymentMethodService(params).RemovePaymentMethod(s.GetContext(), def.ID)
	s.Error(err)
	s.True(ierr.IsDatabase(err))
	s.gateway.AssertNotCalled(s.T(), "DetachPaymentMethod", mock.Anything, mock.Anything)
	s.Equal(def.ID, s.defaultID())
}

func (s *PaymentMethodServiceSuite) TestRemoveSucceedsWhenDetachFails() {
	s.gateway = testutil.NewMockGateway(types.PaymentGatewayTypeStripe)
	s.gateway.On("CreateCustomer", mock.Anything, mock.Anything).Return("cus_123", nil).Maybe()
	s.gateway.On("DetachPaymentMethod", mock.Anything, "pm_1").Return(ierr.NewError("stripe unavailable").Mark(ierr.ErrHTTPClient)).Once()
	s.params.Gateways = &testutil.MockGatewayProvider{Subscription: s.gateway, PaymentMethod: s.gateway}
	s.service = NewPaymentMethodService(s.params)

	def := s.add("pm_1", false, 2*time.Hour)
	other := s.add("pm_2", false, time.Hour)

	s.NoError(s.service.RemovePaymentMethod(s.GetContext(), def.ID))
	s.gateway.AssertExpectations(s.T())

	methods, err := s.service.ListPaymentMethods(s.GetContext())
	s.NoError(err)
	s.Len(methods, 1)
	s.Equal(other.ID, s.defaultID())
}

func (s *PaymentMethodServiceSuite) TestRemoveNonDefaultKeepsDefault() {
	def := s.add("pm_1", false, 2*time.Hour)
	other := s.add("pm_2", false, time.Hour)

	s.NoError(s.service.RemovePaymentMethod(s.GetContext(), other.ID))
	s.Equal(def.ID, s.defaultID())
}

func (s *PaymentMethodServiceSuite) TestRemoveDetachedRemovesLastMethod() {
	s.add("pm_1", false, time.Hour)

	s.NoError(s.service.RemoveDetached(s.GetContext(), "pm_1"))

	methods, err := s.service.ListPaymentMethods(s.GetContext())
	s.NoError(err)
	s.Empty(methods)

	// unknown ids are ignored
	s.NoError(s.service.RemoveDetached(s.GetContext(), "pm_missing"))
}

func (s *PaymentMethodServiceSuite) TestRejectedWhenBillingUsesOtherGateway() {
	cfg := *s.GetConfig()
	cfg.Billing = config.BillingConfig{
		Gateway:      types.PaymentGatewayTypeRazorpay,
		Currency:     "INR",
		FreePlanCode: "free",
	}
	params := s.params
	params.Config = &cfg

	_, err := NewPaymentMethodService(params).AddPaymentMethod(s.GetContext(), dto.AddPaymentMethodRequest{
		GatewayPaymentMethodID: "pm_1",
	})
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
	s.gateway.AssertNotCalled(s.T(), "AttachPaymentMethod", mock.Anything, mock.Anything, mock.Anything)
}
