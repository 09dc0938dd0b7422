package service

import (
	"context"
	"time"

	"github.com/samber/lo"
	"github.com/socialdesk/socialdesk/internal/api/dto"
	"github.com/socialdesk/socialdesk/internal/cache"
	"github.com/socialdesk/socialdesk/internal/domain/featureflag"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
	"github.com/socialdesk/socialdesk/internal/types"
)

const featureFlagCacheTTL = 5 * time.Minute

type FeatureFlagService interface {
	// IsEnabled resolves key for the tenant in ctx; unknown keys are off
	IsEnabled(ctx context.Context, key string) (bool, error)
	// Evaluate resolves every flag for the tenant in ctx
	Evaluate(ctx context.Context) (*dto.EvaluateFeatureFlagsResponse, error)

	CreateFeatureFlag(ctx context.Context, req dto.CreateFeatureFlagRequest) (*dto.FeatureFlagResponse, error)
	GetFeatureFlag(ctx context.Context, id string) (*dto.FeatureFlagResponse, error)
	ListFeatureFlags(ctx context.Context) ([]*dto.FeatureFlagResponse, error)
	UpdateFeatureFlag(ctx context.Context, id string, req dto.UpdateFeatureFlagRequest) (*dto.FeatureFlagResponse, error)
	DeleteFeatureFlag(ctx context.Context, id string) error
}

type featureFlagService struct {
	ServiceParams
}

func NewFeatureFlagService(params ServiceParams) FeatureFlagService {
	return &featureFlagService{ServiceParams: params}
}

func (s *featureFlagService) IsEnabled(ctx context.Context, key string) (bool, error) {
	flags, err := s.allFlags(ctx)
	if err != nil {
		return false, err
	}

	flag, ok := lo.Find(flags, func(f *featureflag.FeatureFlag) bool { return f.Key == key })
	if !ok || !flag.Enabled {
		return false, nil
	}

	planCode, err := s.planCode(ctx)
	if err != nil {
		return false, err
	}
	return flag.IsEnabledFor(types.GetTenantID(ctx), planCode), nil
}

func (s *featureFlagService) Evaluate(ctx context.Context) (*dto.EvaluateFeatureFlagsResponse, error) {
	flags, err := s.allFlags(ctx)
	if err != nil {
		return nil, err
	}

	planCode, err := s.planCode(ctx)
	if err != nil {
		return nil, err
	}

	tenantID := types.GetTenantID(ctx)
	resp := &dto.EvaluateFeatureFlagsResponse{Flags: make(map[string]bool, len(flags))}
	for _, f := range flags {
		resp.Flags[f.Key] = f.IsEnabledFor(tenantID, planCode)
	}
	return resp, nil
}

// planCode is the code of the tenant's effective plan, empty when no plan resolves
func (s *featureFlagService) planCode(ctx context.Context) (string, error) {
	p, err := NewUsageService(s.ServiceParams).EffectivePlan(ctx)
	if err != nil {
		if ierr.IsNotFound(err) {
			return "", nil
		}
		return "", err
	}
	return p.Code, nil
}

func (s *featureFlagService) allFlags(ctx context.Context) ([]*featureflag.FeatureFlag, error) {
	key := cache.GenerateKey(cache.PrefixFeatureFlag, "all")
	if s.Cache != nil {
		if cached, ok := s.Cache.Get(ctx, key); ok {
			if flags, ok := cached.([]*featureflag.FeatureFlag); ok {
				return flags, nil
			}
		}
	}

	flags, err := s.FeatureFlagRepo.List(ctx, types.NewFeatureFlagFilter())
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		s.Cache.Set(ctx, key, flags, featureFlagCacheTTL)
	}
	return flags, nil
}

func (s *featureFlagService) CreateFeatureFlag(ctx context.Context, req dto.CreateFeatureFlagRequest) (*dto.FeatureFlagResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	flag := &featureflag.FeatureFlag{
		ID:                types.GenerateUUIDWithPrefix(types.UUID_PREFIX_FEATURE_FLAG),
		Key:               req.Key,
		Description:       req.Description,
		Enabled:           req.Enabled,
		RolloutPercentage: req.RolloutPercentage,
		AllowedTenantIDs:  lo.Uniq(req.AllowedTenantIDs),
		AllowedPlanCodes:  lo.Uniq(req.AllowedPlanCodes),
		Status:            types.StatusPublished,
		CreatedAt:         now,
		UpdatedAt:         now,
		CreatedBy:         types.GetUserID(ctx),
		UpdatedBy:         types.GetUserID(ctx),
	}

	if err := s.FeatureFlagRepo.Create(ctx, flag); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	recordAudit(ctx, s.ServiceParams, types.AuditActionFeatureFlagChanged, "feature_flag", flag.ID, map[string]interface{}{
		"key":                flag.Key,
		"enabled":            flag.Enabled,
		"rollout_percentage": flag.RolloutPercentage,
	})

	return &dto.FeatureFlagResponse{FeatureFlag: flag}, nil
}

func (s *featureFlagService) GetFeatureFlag(ctx context.Context, id string) (*dto.FeatureFlagResponse, error) {
	flag, err := s.FeatureFlagRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.FeatureFlagResponse{FeatureFlag: flag}, nil
}

func (s *featureFlagService) ListFeatureFlags(ctx context.Context) ([]*dto.FeatureFlagResponse, error) {
	flags, err := s.FeatureFlagRepo.List(ctx, types.NewFeatureFlagFilter())
	if err != nil {
		return nil, err
	}
	return lo.Map(flags, func(f *featureflag.FeatureFlag, _ int) *dto.FeatureFlagResponse {
		return &dto.FeatureFlagResponse{FeatureFlag: f}
	}), nil
}

func (s *featureFlagService) UpdateFeatureFlag(ctx context.Context, id string, req dto.UpdateFeatureFlagRequest) (*dto.FeatureFlagResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	flag, err := s.FeatureFlagRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Description != nil {
		flag.Description = *req.Description
	}
	if req.Enabled != nil {
		flag.Enabled = *req.Enabled
	}
	if req.RolloutPercentage != nil {
		flag.RolloutPercentage = *req.RolloutPercentage
	}
	if req.AllowedTenantIDs != nil {
		flag.AllowedTenantIDs = lo.Uniq(req.AllowedTenantIDs)
	}
	if req.AllowedPlanCodes != nil {
		flag.AllowedPlanCodes = lo.Uniq(req.AllowedPlanCodes)
	}

	if err := s.FeatureFlagRepo.Update(ctx, flag); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	recordAudit(ctx, s.ServiceParams, types.AuditActionFeatureFlagChanged, "feature_flag", flag.ID, map[string]interface{}{
		"key":                flag.Key,
		"enabled":            flag.Enabled,
		"rollout_percentage": flag.RolloutPercentage,
	})

	return &dto.FeatureFlagResponse{FeatureFlag: flag}, nil
}

func (s *featureFlagService) DeleteFeatureFlag(ctx context.Context, id string) error {
	flag, err := s.FeatureFlagRepo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.FeatureFlagRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx)
	recordAudit(ctx, s.ServiceParams, types.AuditActionFeatureFlagChanged, "feature_flag", flag.ID, map[string]interface{}{
		"key":     flag.Key,
		"deleted": true,
	})
	return nil
}

func (s *featureFlagService) invalidate(ctx context.Context) {
	if s.Cache == nil {
		return
	}
	s.Cache.DeleteByPrefix(ctx, cache.PrefixFeatureFlag)
}
