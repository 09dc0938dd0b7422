package service

import (
	"context"
	"time"

	"github.com/samber/lo"
	"github.com/socialdesk/socialdesk/internal/api/dto"
	"github.com/socialdesk/socialdesk/internal/cache"
	"github.com/socialdesk/socialdesk/internal/domain/plan"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
	"github.com/socialdesk/socialdesk/internal/types"
)

type PlanService interface {
	ListPlans(ctx context.Context, publicOnly bool) (*dto.ListPlansResponse, error)
	GetPlan(ctx context.Context, code string) (*dto.PlanResponse, error)
	UpsertPlan(ctx context.Context, req dto.UpsertPlanRequest) (*dto.PlanResponse, error)
	SetLimit(ctx context.Context, code string, req dto.SetPlanLimitRequest) (*dto.PlanResponse, error)
}

type planService struct {
	ServiceParams
}

func NewPlanService(params ServiceParams) PlanService {
	return &planService{ServiceParams: params}
}

func (s *planService) ListPlans(ctx context.Context, publicOnly bool) (*dto.ListPlansResponse, error) {
	key := cache.GenerateKey(cache.PrefixPlanCatalog, publicOnly)
	if s.Cache != nil {
		if cached, ok := s.Cache.Get(ctx, key); ok {
			if resp, ok := cached.(*dto.ListPlansResponse); ok {
				return resp, nil
			}
		}
	}

	filter := types.NewPlanFilter()
	filter.PublicOnly = publicOnly
	filter.Sort = lo.ToPtr("sort_order")
	filter.Order = lo.ToPtr(types.OrderAsc)

	plans, err := s.PlanRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if err := s.attachLimits(ctx, plans); err != nil {
		return nil, err
	}

	items := make([]*dto.PlanResponse, len(plans))
	for i, p := range plans {
		items[i] = &dto.PlanResponse{Plan: p}
	}
	resp := types.NewListResponse(items, len(items), len(items), 0)

	if s.Cache != nil {
		s.Cache.Set(ctx, key, &resp, 0)
	}
	return &resp, nil
}

func (s *planService) GetPlan(ctx context.Context, code string) (*dto.PlanResponse, error) {
	p, err := s.getPlan(ctx, code)
	if err != nil {
		return nil, err
	}
	return &dto.PlanResponse{Plan: p}, nil
}

// getPlan returns the plan with its limits, served from the cache when possible
func (s *planService) getPlan(ctx context.Context, code string) (*plan.Plan, error) {
	if code == "" {
		return nil, ierr.NewError("plan code is required").
			WithHint("Plan code is required").
			Mark(ierr.ErrValidation)
	}

	key := cache.GenerateKey(cache.PrefixPlan, code)
	if s.Cache != nil {
		if cached, ok := s.Cache.Get(ctx, key); ok {
			if p, ok := cached.(*plan.Plan); ok {
				return p, nil
			}
		}
	}

	p, err := s.PlanRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := s.attachLimits(ctx, []*plan.Plan{p}); err != nil {
		return nil, err
	}

	if s.Cache != nil {
		s.Cache.Set(ctx, key, p, 0)
	}
	return p, nil
}

func (s *planService) attachLimits(ctx context.Context, plans []*plan.Plan) error {
	if len(plans) == 0 {
		return nil
	}

	codes := make([]string, len(plans))
	byCode := make(map[string]*plan.Plan, len(plans))
	for i, p := range plans {
		codes[i] = p.Code
		p.Limits = make(map[types.PlanLimitKey]int64)
		byCode[p.Code] = p
	}

	limits, err := s.PlanRepo.ListLimits(ctx, codes)
	if err != nil {
		return err
	}
	for _, l := range limits {
		if p, ok := byCode[l.PlanCode]; ok {
			p.Limits[l.LimitKey] = l.LimitValue
		}
	}
	return nil
}

func (s *planService) UpsertPlan(ctx context.Context, req dto.UpsertPlanRequest) (*dto.PlanResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	currency := req.Currency
	if currency == "" {
		currency = s.Config.Billing.Currency
	}

	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		existing, err := s.PlanRepo.GetByCode(ctx, req.Code)
		switch {
		case err == nil:
			existing.Name = req.Name
			existing.Description = req.Description
			existing.Price = req.Price
			existing.Currency = currency
			existing.BillingInterval = req.BillingInterval
			existing.TrialDays = req.TrialDays
			existing.GatewayPlanID = req.GatewayPlanID
			existing.SortOrder = req.SortOrder
			existing.IsPublic = req.IsPublic
			if err := s.PlanRepo.Update(ctx, existing); err != nil {
				return err
			}
		case ierr.IsNotFound(err):
			now := time.Now().UTC()
			p := &plan.Plan{
				ID:              types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PLAN),
				Code:            req.Code,
				Name:            req.Name,
				Description:     req.Description,
				Price:           req.Price,
				Currency:        currency,
				BillingInterval: req.BillingInterval,
				TrialDays:       req.TrialDays,
				GatewayPlanID:   req.GatewayPlanID,
				SortOrder:       req.SortOrder,
				IsPublic:        req.IsPublic,
				Status:          types.StatusPublished,
				CreatedAt:       now,
				UpdatedAt:       now,
				CreatedBy:       types.GetUserID(ctx),
				UpdatedBy:       types.GetUserID(ctx),
			}
			if err := s.PlanRepo.Create(ctx, p); err != nil {
				return err
			}
		default:
			return err
		}

		for key, value := range req.Limits {
			if err := s.PlanRepo.UpsertLimit(ctx, &plan.Limit{
				PlanCode:   req.Code,
				LimitKey:   key,
				LimitValue: value,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, req.Code)
	recordAudit(ctx, s.ServiceParams, types.AuditActionPlanChanged, "plan", req.Code, map[string]interface{}{
		"price":  req.Price.String(),
		"limits": req.Limits,
	})

	return s.GetPlan(ctx, req.Code)
}

func (s *planService) SetLimit(ctx context.Context, code string, req dto.SetPlanLimitRequest) (*dto.PlanResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.PlanRepo.GetByCode(ctx, code); err != nil {
		return nil, err
	}

	if err := s.PlanRepo.UpsertLimit(ctx, &plan.Limit{
		PlanCode:   code,
		LimitKey:   req.LimitKey,
		LimitValue: req.LimitValue,
	}); err != nil {
		return nil, err
	}

	s.invalidate(ctx, code)
	recordAudit(ctx, s.ServiceParams, types.AuditActionPlanChanged, "plan", code, map[string]interface{}{
		"limit_key":   req.LimitKey,
		"limit_value": req.LimitValue,
	})

	return s.GetPlan(ctx, code)
}

func (s *planService) invalidate(ctx context.Context, code string) {
	if s.Cache == nil {
		return
	}
	s.Cache.Delete(ctx, cache.GenerateKey(cache.PrefixPlan, code))
	s.Cache.DeleteByPrefix(ctx, cache.PrefixPlanCatalog)
}
