package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/socialdesk/socialdesk/internal/domain/invoice"
	"github.com/socialdesk/socialdesk/internal/domain/subscription"
	"github.com/socialdesk/socialdesk/internal/domain/tenant"
	"github.com/socialdesk/socialdesk/internal/testutil"
	"github.com/socialdesk/socialdesk/internal/types"
	"github.com/stretchr/testify/suite"
)

type AdminServiceSuite struct {
	testutil.BaseServiceTestSuite
	service AdminService
}

func TestAdminService(t *testing.T) {
	suite.Run(t, new(AdminServiceSuite))
}

func (s *AdminServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewAdminService(newTestParams(&s.BaseServiceTestSuite))

	s.SeedTenant()
	s.SeedPlan("free", "0", nil)
	s.SeedPlan("pro", "49", nil)

	annual := s.SeedPlan("annual", "120", nil)
	annual.BillingInterval = types.BillingIntervalYearly
	s.Require().NoError(s.GetStores().PlanRepo.Update(s.GetContext(), annual))

	euro := s.SeedPlan("pro-eu", "45", nil)
	euro.Currency = "EUR"
	s.Require().NoError(s.GetStores().PlanRepo.Update(s.GetContext(), euro))
}

func (s *AdminServiceSuite) addTenant(id string, status types.TenantStatus) context.Context {
	now := s.GetNow()
	s.Require().NoError(s.GetStores().TenantRepo.Create(s.GetContext(), &tenant.Tenant{
		ID:           id,
		Name:         id,
		Slug:         id,
		TenantStatus: status,
		Status:       types.StatusPublished,
		CreatedAt:    now,
		UpdatedAt:    now,
	}))
	return types.SetTenantID(s.GetContext(), id)
}

func (s *AdminServiceSuite) subscribe(ctx context.Context, planCode string, quantity int, status types.SubscriptionStatus) {
	now := s.GetNow()
	s.Require().NoError(s.GetStores().SubRepo.Create(ctx, &subscription.Subscription{
		ID:                 types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SUBSCRIPTION),
		PlanCode:           planCode,
		SubscriptionStatus: status,
		Quantity:           quantity,
		Currency:           "USD",
		CurrentPeriodStart: now,
		CurrentPeriodEnd:   now.AddDate(0, 1, 0),
		BaseModel:          types.GetDefaultBaseModel(ctx),
	}))
}

func (s *AdminServiceSuite) issue(ctx context.Context, status types.InvoiceStatus) {
	s.Require().NoError(s.GetStores().InvoiceRepo.Create(ctx, &invoice.Invoice{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE),
		InvoiceNumber: types.GenerateShortIDWithPrefix(types.SHORT_ID_PREFIX_INVOICE),
		InvoiceStatus: status,
		Currency:      "USD",
		Total:         decimal.NewFromInt(10),
		BaseModel:     types.GetDefaultBaseModel(ctx),
	}))
}

func (s *AdminServiceSuite) TestDashboardStats() {
	acme := s.GetContext()
	globex := s.addTenant("tenant_globex", types.TenantStatusActive)
	initech := s.addTenant("tenant_initech", types.TenantStatusSuspended)

	s.subscribe(acme, "pro", 2, types.SubscriptionStatusActive)
	s.subscribe(acme, "pro", 5, types.SubscriptionStatusCancelled)
	s.subscribe(globex, "annual", 1, types.SubscriptionStatusActive)
	s.subscribe(initech, "pro-eu", 1, types.SubscriptionStatusActive)

	s.issue(acme, types.InvoiceStatusIssued)
	s.issue(globex, types.InvoiceStatusIssued)
	s.issue(globex, types.InvoiceStatusPaid)

	stats, err := s.service.GetDashboardStats(s.GetContext())
	s.Require().NoError(err)
	s.Equal(3, stats.TenantCount)
	s.Equal(1, stats.SuspendedTenantCount)
	s.Equal(3, stats.ActiveSubscriptionCount)
	// 2 x 49 monthly plus 120 / 12 yearly, the EUR plan is left out
	s.True(decimal.NewFromInt(108).Equal(stats.MRR), stats.MRR.String())
	s.Equal("USD", stats.Currency)
	s.Equal(2, stats.OpenInvoiceCount)
	s.Zero(stats.WhatsAppMessagesThisMonth)
}

func (s *AdminServiceSuite) TestListsSpanTenants() {
	globex := s.addTenant("tenant_globex", types.TenantStatusActive)
	s.subscribe(s.GetContext(), "pro", 1, types.SubscriptionStatusActive)
	s.subscribe(globex, "pro", 1, types.SubscriptionStatusActive)
	s.issue(s.GetContext(), types.InvoiceStatusIssued)
	s.issue(globex, types.InvoiceStatusIssued)

	subs, err := s.service.ListSubscriptions(s.GetContext(), nil)
	s.Require().NoError(err)
	s.Equal(2, subs.Pagination.Total)

	invoices, err := s.service.ListInvoices(s.GetContext(), nil)
	s.Require().NoError(err)
	s.Len(invoices.Items, 2)
}

func (s *AdminServiceSuite) TestMonthBoundsUseInjectedClock() {
	svc := s.service.(*adminService)
	svc.now = func() time.Time { return time.Date(2031, time.January, 15, 0, 0, 0, 0, time.UTC) }

	stats, err := svc.GetDashboardStats(s.GetContext())
	s.NoError(err)
	s.Equal(1, stats.TenantCount)
}
