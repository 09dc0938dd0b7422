package service

import (
	"context"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/socialdesk/socialdesk/internal/api/dto"
	"github.com/socialdesk/socialdesk/internal/domain/plan"
	"github.com/socialdesk/socialdesk/internal/types"
	"github.com/sourcegraph/conc/pool"
)

// AdminService serves the super-admin back office. Every read here spans all tenants.
type AdminService interface {
	GetDashboardStats(ctx context.Context) (*dto.DashboardStatsResponse, error)
	ListSubscriptions(ctx context.Context, filter *types.SubscriptionFilter) (*dto.ListSubscriptionsResponse, error)
	ListInvoices(ctx context.Context, filter *types.InvoiceFilter) (*dto.ListInvoicesResponse, error)
	ListAuditLogs(ctx context.Context, filter *types.AuditLogFilter) (*dto.ListAuditLogsResponse, error)
}

type adminService struct {
	ServiceParams
	now func() time.Time
}

func NewAdminService(params ServiceParams) AdminService {
	return &adminService{
		ServiceParams: params,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (s *adminService) GetDashboardStats(ctx context.Context) (*dto.DashboardStatsResponse, error) {
	resp := &dto.DashboardStatsResponse{
		MRR:      decimal.Zero,
		Currency: s.Config.Billing.Currency,
	}
	monthStart, _ := monthBounds(s.now())

	p := pool.New().WithContext(ctx).WithCancelOnError()

	p.Go(func(ctx context.Context) error {
		filter := types.NewTenantFilter()
		filter.QueryFilter = types.NewNoLimitQueryFilter()
		count, err := s.TenantRepo.Count(ctx, filter)
		resp.TenantCount = count
		return err
	})

	p.Go(func(ctx context.Context) error {
		filter := types.NewTenantFilter()
		filter.QueryFilter = types.NewNoLimitQueryFilter()
		filter.TenantStatus = lo.ToPtr(types.TenantStatusSuspended)
		count, err := s.TenantRepo.Count(ctx, filter)
		resp.SuspendedTenantCount = count
		return err
	})

	p.Go(func(ctx context.Context) error {
		count, mrr, err := s.recurringRevenue(ctx)
		resp.ActiveSubscriptionCount = count
		resp.MRR = mrr
		return err
	})

	p.Go(func(ctx context.Context) error {
		filter := types.NewWhatsAppMessageFilter()
		filter.QueryFilter = types.NewNoLimitQueryFilter()
		filter.AllTenants = true
		filter.Direction = lo.ToPtr(types.WhatsAppMessageOutbound)
		filter.TimeRangeFilter = &types.TimeRangeFilter{StartTime: &monthStart}
		count, err := s.WAMessageRepo.Count(ctx, filter)
		resp.WhatsAppMessagesThisMonth = count
		return err
	})

	p.Go(func(ctx context.Context) error {
		filter := types.NewInvoiceFilter()
		filter.QueryFilter = types.NewNoLimitQueryFilter()
		filter.AllTenants = true
		filter.InvoiceStatuses = []types.InvoiceStatus{types.InvoiceStatusIssued}
		count, err := s.InvoiceRepo.Count(ctx, filter)
		resp.OpenInvoiceCount = count
		return err
	})

	if err := p.Wait(); err != nil {
		s.Logger.Errorw("failed to compute dashboard stats", "error", err)
		return nil, err
	}
	return resp, nil
}

// recurringRevenue counts active subscriptions and sums their monthly price in the billing currency.
// Yearly plans contribute a twelfth of their price.
func (s *adminService) recurringRevenue(ctx context.Context) (int, decimal.Decimal, error) {
	filter := types.NewSubscriptionFilter()
	filter.QueryFilter = types.NewNoLimitQueryFilter()
	filter.AllTenants = true
	filter.SubscriptionStatuses = []types.SubscriptionStatus{types.SubscriptionStatusActive}

	subs, err := s.SubRepo.List(ctx, filter)
	if err != nil {
		return 0, decimal.Zero, err
	}

	plans, err := s.PlanRepo.List(ctx, types.NewPlanFilter())
	if err != nil {
		return 0, decimal.Zero, err
	}
	byCode := lo.SliceToMap(plans, func(p *plan.Plan) (string, *plan.Plan) {
		return p.Code, p
	})

	mrr := decimal.Zero
	for _, sub := range subs {
		p, ok := byCode[sub.PlanCode]
		if !ok || p.IsFree() {
			continue
		}
		if p.Currency != "" && p.Currency != s.Config.Billing.Currency {
			s.Logger.Debugw("skipping subscription in foreign currency for mrr",
				"subscription_id", sub.ID,
				"currency", p.Currency,
			)
			continue
		}
		amount := p.Price.Mul(decimal.NewFromInt(int64(max(sub.Quantity, 1))))
		if p.BillingInterval == types.BillingIntervalYearly {
			amount = amount.Div(decimal.NewFromInt(12))
		}
		mrr = mrr.Add(amount)
	}
	return len(subs), mrr.Round(2), nil
}

func (s *adminService) ListSubscriptions(ctx context.Context, filter *types.SubscriptionFilter) (*dto.ListSubscriptionsResponse, error) {
	if filter == nil {
		filter = types.NewSubscriptionFilter()
	}
	filter.AllTenants = true
	return NewSubscriptionService(s.ServiceParams).ListSubscriptions(ctx, filter)
}

func (s *adminService) ListInvoices(ctx context.Context, filter *types.InvoiceFilter) (*dto.ListInvoicesResponse, error) {
	if filter == nil {
		filter = types.NewInvoiceFilter()
	}
	filter.AllTenants = true
	return NewInvoiceService(s.ServiceParams).ListInvoices(ctx, filter)
}

func (s *adminService) ListAuditLogs(ctx context.Context, filter *types.AuditLogFilter) (*dto.ListAuditLogsResponse, error) {
	if filter == nil {
		filter = types.NewAuditLogFilter()
	}
	filter.AllTenants = true
	return NewAuditService(s.ServiceParams).List(ctx, filter)
}
