package service

import (
	"context"

	"github.com/samber/lo"
	"github.com/socialdesk/socialdesk/internal/api/dto"
	"github.com/socialdesk/socialdesk/internal/domain/socialaccount"
	"github.com/socialdesk/socialdesk/internal/types"
)

type SocialAccountService interface {
	// ConnectSocialAccount links a profile to a workspace, counted against the social_accounts limit
	ConnectSocialAccount(ctx context.Context, workspaceID string, req dto.ConnectSocialAccountRequest) (*dto.SocialAccountResponse, error)
	ListSocialAccounts(ctx context.Context, filter *types.SocialAccountFilter) (*dto.ListSocialAccountsResponse, error)
	DisconnectSocialAccount(ctx context.Context, id string) error
}

type socialAccountService struct {
	ServiceParams
}

func NewSocialAccountService(params ServiceParams) SocialAccountService {
	return &socialAccountService{ServiceParams: params}
}

func (s *socialAccountService) ConnectSocialAccount(ctx context.Context, workspaceID string, req dto.ConnectSocialAccountRequest) (*dto.SocialAccountResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.WorkspaceRepo.Get(ctx, workspaceID); err != nil {
		return nil, err
	}

	if err := NewUsageService(s.ServiceParams).CheckLimit(ctx, types.PlanLimitSocialAccounts, 1); err != nil {
		return nil, err
	}

	account := &socialaccount.SocialAccount{
		ID:               types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SOCIAL_ACCOUNT),
		WorkspaceID:      workspaceID,
		Platform:         req.Platform,
		ExternalID:       req.ExternalID,
		Handle:           req.Handle,
		DisplayName:      lo.Ternary(req.DisplayName != "", req.DisplayName, req.Handle),
		ConnectionStatus: types.SocialAccountConnected,
		BaseModel:        types.GetDefaultBaseModel(ctx),
	}
	if err := s.SocialAccountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	s.Logger.Infow("social account connected",
		"tenant_id", account.TenantID,
		"workspace_id", workspaceID,
		"platform", account.Platform,
	)
	trackEvent(ctx, s.ServiceParams, types.AnalyticsEventKindAction, "social_account_connected", map[string]interface{}{
		"platform": account.Platform,
	})
	return &dto.SocialAccountResponse{SocialAccount: account}, nil
}

func (s *socialAccountService) ListSocialAccounts(ctx context.Context, filter *types.SocialAccountFilter) (*dto.ListSocialAccountsResponse, error) {
	if filter == nil {
		filter = types.NewSocialAccountFilter()
	}
	if filter.QueryFilter == nil {
		filter.QueryFilter = types.NewDefaultQueryFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	items, err := s.SocialAccountRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	count, err := s.SocialAccountRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := types.NewListResponse(lo.Map(items, func(a *socialaccount.SocialAccount, _ int) *dto.SocialAccountResponse {
		return &dto.SocialAccountResponse{SocialAccount: a}
	}), count, filter.GetLimit(), filter.GetOffset())
	return &resp, nil
}

// DisconnectSocialAccount marks the account disconnected and archives it, freeing its slot
func (s *socialAccountService) DisconnectSocialAccount(ctx context.Context, id string) error {
	account, err := s.SocialAccountRepo.Get(ctx, id)
	if err != nil {
		return err
	}

	return s.DB.WithTx(ctx, func(ctx context.Context) error {
		account.ConnectionStatus = types.SocialAccountDisconnected
		if err := s.SocialAccountRepo.Update(ctx, account); err != nil {
			return err
		}
		return s.SocialAccountRepo.Delete(ctx, account.ID)
	})
}
