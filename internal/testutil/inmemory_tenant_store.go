package testutil

import (
	"context"
	"strings"
	"time"

	"github.com/socialdesk/socialdesk/internal/domain/tenant"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
	"github.com/socialdesk/socialdesk/internal/types"
)

// InMemoryTenantStore implements tenant.Repository. Tenants are not tenant scoped.
type InMemoryTenantStore struct {
	*InMemoryStore[*tenant.Tenant]
}

func NewInMemoryTenantStore() *InMemoryTenantStore {
	return &InMemoryTenantStore{
		InMemoryStore: NewInMemoryStore[*tenant.Tenant](),
	}
}

func tenantFilterFn(ctx context.Context, t *tenant.Tenant, filter interface{}) bool {
	if t == nil {
		return false
	}

	f, ok := filter.(*types.TenantFilter)
	if !ok {
		return true
	}

	if !CheckStatusFilter(f.QueryFilter, t.Status) {
		return false
	}
	if f.TenantStatus != nil && t.TenantStatus != *f.TenantStatus {
		return false
	}
	if f.GatewayCustomerID != "" && t.GatewayCustomerID != f.GatewayCustomerID {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(t.Name), q) && !strings.Contains(strings.ToLower(t.Slug), q) {
			return false
		}
	}
	return true
}

func tenantSortFn(i, j *tenant.Tenant) bool {
	return i.CreatedAt.After(j.CreatedAt)
}

func (s *InMemoryTenantStore) Create(ctx context.Context, t *tenant.Tenant) error {
	if t == nil {
		return ierr.NewError("tenant cannot be nil").Mark(ierr.ErrValidation)
	}
	if _, err := s.GetBySlug(ctx, t.Slug); err == nil {
		return ierr.NewError("tenant slug already exists").Mark(ierr.ErrAlreadyExists)
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
		t.UpdatedAt = t.CreatedAt
	}
	if t.Status == "" {
		t.Status = types.StatusPublished
	}
	return s.InMemoryStore.Create(ctx, t.ID, t)
}

func (s *InMemoryTenantStore) GetByID(ctx context.Context, id string) (*tenant.Tenant, error) {
	return s.InMemoryStore.Get(ctx, id)
}

func (s *InMemoryTenantStore) GetBySlug(ctx context.Context, slug string) (*tenant.Tenant, error) {
	t, ok := s.Find(func(t *tenant.Tenant) bool { return t.Slug == slug })
	if !ok {
		return nil, notFound(slug)
	}
	return t, nil
}

func (s *InMemoryTenantStore) List(ctx context.Context, filter *types.TenantFilter) ([]*tenant.Tenant, error) {
	return s.InMemoryStore.List(ctx, filter, tenantFilterFn, tenantSortFn)
}

func (s *InMemoryTenantStore) Count(ctx context.Context, filter *types.TenantFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, tenantFilterFn)
}

func (s *InMemoryTenantStore) Update(ctx context.Context, t *tenant.Tenant) error {
	t.UpdatedAt = time.Now().UTC()
	return s.InMemoryStore.Update(ctx, t.ID, t)
}
