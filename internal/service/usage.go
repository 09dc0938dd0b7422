package service

import (
	"context"
	"time"

	"github.com/socialdesk/socialdesk/internal/api/dto"
	"github.com/socialdesk/socialdesk/internal/domain/plan"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
	"github.com/socialdesk/socialdesk/internal/types"
)

// UsageService enforces plan limits against what the tenant currently uses
type UsageService interface {
	GetUsage(ctx context.Context) (*dto.UsageResponse, error)
	// CheckLimit fails with a permission denied error when adding increment would exceed the quota
	CheckLimit(ctx context.Context, key types.PlanLimitKey, increment int64) error
	// CheckLimitAt is CheckLimit for monthly quotas counted in the month of at
	CheckLimitAt(ctx context.Context, key types.PlanLimitKey, increment int64, at time.Time) error
	// EffectivePlan is the plan of the current subscription, or the free plan without one
	EffectivePlan(ctx context.Context) (*plan.Plan, error)
}

type usageService struct {
	ServiceParams
}

func NewUsageService(params ServiceParams) UsageService {
	return &usageService{ServiceParams: params}
}

func (s *usageService) EffectivePlan(ctx context.Context) (*plan.Plan, error) {
	code := s.Config.Billing.FreePlanCode

	sub, err := s.SubRepo.GetCurrent(ctx)
	if err != nil && !ierr.IsNotFound(err) {
		return nil, err
	}
	if sub != nil {
		code = sub.PlanCode
	}

	return (&planService{ServiceParams: s.ServiceParams}).getPlan(ctx, code)
}

func (s *usageService) GetUsage(ctx context.Context) (*dto.UsageResponse, error) {
	p, err := s.EffectivePlan(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	resp := &dto.UsageResponse{
		PlanCode: p.Code,
		Limits:   make([]*dto.LimitUsage, 0, len(types.AllPlanLimitKeys)),
	}

	for _, key := range types.AllPlanLimitKeys {
		used, err := s.used(ctx, key, now)
		if err != nil {
			return nil, err
		}

		limit := p.GetLimit(key)
		usage := &dto.LimitUsage{
			LimitKey:  key,
			Limit:     limit,
			Used:      used,
			Unlimited: limit == types.UnlimitedQuota,
		}
		if !usage.Unlimited {
			usage.Remaining = max(limit-used, 0)
		}
		resp.Limits = append(resp.Limits, usage)
	}

	return resp, nil
}

func (s *usageService) CheckLimit(ctx context.Context, key types.PlanLimitKey, increment int64) error {
	return s.CheckLimitAt(ctx, key, increment, time.Now().UTC())
}

func (s *usageService) CheckLimitAt(ctx context.Context, key types.PlanLimitKey, increment int64, at time.Time) error {
	p, err := s.EffectivePlan(ctx)
	if err != nil {
		return err
	}

	limit := p.GetLimit(key)
	if limit == types.UnlimitedQuota {
		return nil
	}

	used, err := s.used(ctx, key, at)
	if err != nil {
		return err
	}

	if !plan.Allows(limit, used, increment) {
		s.Logger.Infow("plan limit reached",
			"tenant_id", types.GetTenantID(ctx),
			"plan_code", p.Code,
			"limit_key", key,
			"limit", limit,
			"used", used,
		)
		return ierr.NewError("plan limit reached").
			WithHintf("Your plan allows %d %s, upgrade to add more", limit, key).
			WithReportableDetails(map[string]any{
				"limit_key": key,
				"limit":     limit,
				"used":      used,
			}).
			Mark(ierr.ErrPermissionDenied)
	}
	return nil
}

// used counts the tenant's consumption of key; monthly quotas use the UTC month containing at
func (s *usageService) used(ctx context.Context, key types.PlanLimitKey, at time.Time) (int64, error) {
	monthStart, monthEnd := monthBounds(at)

	var (
		count int
		err   error
	)
	switch key {
	case types.PlanLimitWorkspaces:
		count, err = s.WorkspaceRepo.Count(ctx, types.NewNoLimitWorkspaceFilter())
	case types.PlanLimitSocialAccounts:
		filter := types.NewSocialAccountFilter()
		filter.QueryFilter = types.NewNoLimitQueryFilter()
		count, err = s.SocialAccountRepo.Count(ctx, filter)
	case types.PlanLimitTeamMembers:
		filter := types.NewUserFilter()
		filter.QueryFilter = types.NewNoLimitQueryFilter()
		count, err = s.UserRepo.Count(ctx, filter)
	case types.PlanLimitScheduledPostsPerMonth:
		filter := types.NewPostFilter()
		filter.QueryFilter = types.NewNoLimitQueryFilter()
		filter.PostStatuses = []types.PostStatus{types.PostStatusScheduled, types.PostStatusPublished}
		filter.ScheduledFrom = &monthStart
		filter.ScheduledTo = &monthEnd
		count, err = s.PostRepo.Count(ctx, filter)
	case types.PlanLimitWhatsAppMessagesPerMonth:
		count, err = s.WAMessageRepo.CountOutboundSince(ctx, monthStart)
	case types.PlanLimitWhatsAppNumbers:
		count, err = s.PhoneNumberRepo.Count(ctx, types.NewWhatsAppPhoneNumberFilter())
	default:
		return 0, key.Validate()
	}
	if err != nil {
		return 0, err
	}
	return int64(count), nil
}

// monthBounds returns the first instant of the UTC month of t and of the following month
func monthBounds(t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
