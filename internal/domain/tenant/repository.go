package tenant

import (
	"context"

	"github.com/socialdesk/socialdesk/internal/types"
)

type Repository interface {
	Create(ctx context.Context, tenant *Tenant) error
	GetByID(ctx context.Context, id string) (*Tenant, error)
	GetBySlug(ctx context.Context, slug string) (*Tenant, error)
	List(ctx context.Context, filter *types.TenantFilter) ([]*Tenant, error)
	Count(ctx context.Context, filter *types.TenantFilter) (int, error)
	Update(ctx context.Context, tenant *Tenant) error
}
