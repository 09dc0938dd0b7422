package service

import (
	"context"

	"github.com/socialdesk/socialdesk/internal/api/dto"
	"github.com/socialdesk/socialdesk/internal/cache"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
	"github.com/socialdesk/socialdesk/internal/types"
)

type TenantService interface {
	GetTenant(ctx context.Context) (*dto.TenantResponse, error)
	UpdateTenant(ctx context.Context, req dto.UpdateTenantRequest) (*dto.TenantResponse, error)

	// back office
	GetTenantByID(ctx context.Context, id string) (*dto.TenantResponse, error)
	ListTenants(ctx context.Context, filter *types.TenantFilter) (*dto.ListTenantsResponse, error)
	SuspendTenant(ctx context.Context, id string, req dto.SuspendTenantRequest) (*dto.TenantResponse, error)
	ReactivateTenant(ctx context.Context, id string) (*dto.TenantResponse, error)
}

type tenantService struct {
	ServiceParams
}

func NewTenantService(params ServiceParams) TenantService {
	return &tenantService{ServiceParams: params}
}

func (s *tenantService) GetTenant(ctx context.Context) (*dto.TenantResponse, error) {
	return s.GetTenantByID(ctx, types.GetTenantID(ctx))
}

func (s *tenantService) GetTenantByID(ctx context.Context, id string) (*dto.TenantResponse, error) {
	t, err := s.TenantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewTenantResponse(t), nil
}

func (s *tenantService) UpdateTenant(ctx context.Context, req dto.UpdateTenantRequest) (*dto.TenantResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	t, err := s.TenantRepo.GetByID(ctx, types.GetTenantID(ctx))
	if err != nil {
		return nil, err
	}

	req.Apply(t)
	if err := s.TenantRepo.Update(ctx, t); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	recordAudit(ctx, s.ServiceParams, types.AuditActionTenantUpdated, "tenant", t.ID, nil)
	return dto.NewTenantResponse(t), nil
}

func (s *tenantService) ListTenants(ctx context.Context, filter *types.TenantFilter) (*dto.ListTenantsResponse, error) {
	if filter == nil {
		filter = types.NewTenantFilter()
	}
	if filter.QueryFilter == nil {
		filter.QueryFilter = types.NewDefaultQueryFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	tenants, err := s.TenantRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	count, err := s.TenantRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.TenantResponse, len(tenants))
	for i, t := range tenants {
		items[i] = dto.NewTenantResponse(t)
	}
	resp := types.NewListResponse(items, count, filter.GetLimit(), filter.GetOffset())
	return &resp, nil
}

func (s *tenantService) SuspendTenant(ctx context.Context, id string, req dto.SuspendTenantRequest) (*dto.TenantResponse, error) {
	return s.setStatus(ctx, id, types.TenantStatusSuspended, types.AuditActionTenantSuspended, map[string]interface{}{
		"reason": req.Reason,
	})
}

func (s *tenantService) ReactivateTenant(ctx context.Context, id string) (*dto.TenantResponse, error) {
	return s.setStatus(ctx, id, types.TenantStatusActive, types.AuditActionTenantReactivated, nil)
}

func (s *tenantService) setStatus(ctx context.Context, id string, status types.TenantStatus, action types.AuditAction, metadata map[string]interface{}) (*dto.TenantResponse, error) {
	t, err := s.TenantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.TenantStatus == status {
		return nil, ierr.NewErrorf("tenant is already %s", status).
			WithHintf("Tenant is already %s", status).
			WithReportableDetails(map[string]any{"tenant_id": t.ID}).
			Mark(ierr.ErrInvalidOperation)
	}

	t.TenantStatus = status
	if err := s.TenantRepo.Update(ctx, t); err != nil {
		return nil, err
	}

	s.Logger.Infow("tenant status changed", "tenant_id", t.ID, "tenant_status", status)
	s.invalidate(ctx)

	// recorded under the affected tenant so its own audit trail shows the change
	recordAudit(types.SetTenantID(ctx, t.ID), s.ServiceParams, action, "tenant", t.ID, metadata)
	return dto.NewTenantResponse(t), nil
}

// invalidate drops cached principals, which embed the tenant
func (s *tenantService) invalidate(ctx context.Context) {
	if s.Cache == nil {
		return
	}
	s.Cache.DeleteByPrefix(ctx, cache.PrefixSession)
	s.Cache.DeleteByPrefix(ctx, cache.PrefixTenant)
}
