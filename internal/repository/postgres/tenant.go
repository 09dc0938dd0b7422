package postgres

import (
	"context"
	"time"

	"github.com/socialdesk/socialdesk/internal/domain/tenant"
	"github.com/socialdesk/socialdesk/internal/logger"
	"github.com/socialdesk/socialdesk/internal/postgres"
	"github.com/socialdesk/socialdesk/internal/types"
)

type tenantRepository struct {
	db  *postgres.DB
	log *logger.Logger
}

func NewTenantRepository(db *postgres.DB, log *logger.Logger) tenant.Repository {
	return &tenantRepository{db: db, log: log}
}

var tenantSortFields = withDefaults(map[string]string{"name": "name"})

func (r *tenantRepository) Create(ctx context.Context, t *tenant.Tenant) error {
	r.log.Debugw("creating tenant", "tenant_id", t.ID, "slug", t.Slug)

	query := `
		INSERT INTO tenants (
			id, name, slug, billing_email, billing_address, country, tenant_status,
			gateway_customer_id, status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :name, :slug, :billing_email, :billing_address, :country, :tenant_status,
			:gateway_customer_id, :status, :created_at, :updated_at, :created_by, :updated_by
		)`

	if _, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, t); err != nil {
		return wrapWriteError(err, "Tenant", map[string]any{"slug": t.Slug})
	}
	return nil
}

func (r *tenantRepository) GetByID(ctx context.Context, id string) (*tenant.Tenant, error) {
	var t tenant.Tenant
	err := r.db.GetQuerier(ctx).GetContext(ctx, &t,
		`SELECT * FROM tenants WHERE id = $1 AND status = $2`, id, types.StatusPublished)
	if err != nil {
		return nil, wrapGetError(err, "Tenant", map[string]any{"tenant_id": id})
	}
	return &t, nil
}

func (r *tenantRepository) GetBySlug(ctx context.Context, slug string) (*tenant.Tenant, error) {
	var t tenant.Tenant
	err := r.db.GetQuerier(ctx).GetContext(ctx, &t,
		`SELECT * FROM tenants WHERE slug = $1 AND status = $2`, slug, types.StatusPublished)
	if err != nil {
		return nil, wrapGetError(err, "Tenant", map[string]any{"slug": slug})
	}
	return &t, nil
}

func (r *tenantRepository) applyFilter(q *listQuery, filter *types.TenantFilter) *listQuery {
	q = q.ApplyStatusFilter(filter.GetStatus())
	if filter.TenantStatus != nil {
		q = q.Where("tenant_status = ?", string(*filter.TenantStatus))
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("(name ILIKE ? OR slug ILIKE ? OR billing_email ILIKE ?)", like, like, like)
	}
	if filter.GatewayCustomerID != "" {
		q = q.Where("gateway_customer_id = ?", filter.GatewayCustomerID)
	}
	return q
}

func (r *tenantRepository) List(ctx context.Context, filter *types.TenantFilter) ([]*tenant.Tenant, error) {
	if filter == nil {
		filter = types.NewTenantFilter()
	}
	q := r.applyFilter(newListQuery("tenants"), filter)
	q = ApplyQueryOptions(q, filter.QueryFilter, tenantSortFields)

	query, args := q.Select("*")
	var tenants []*tenant.Tenant
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &tenants, query, args...); err != nil {
		return nil, wrapListError(err, "tenants")
	}
	return tenants, nil
}

func (r *tenantRepository) Count(ctx context.Context, filter *types.TenantFilter) (int, error) {
	if filter == nil {
		filter = types.NewTenantFilter()
	}
	query, args := r.applyFilter(newListQuery("tenants"), filter).Count()
	var count int
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &count, query, args...); err != nil {
		return 0, wrapListError(err, "tenants")
	}
	return count, nil
}

func (r *tenantRepository) Update(ctx context.Context, t *tenant.Tenant) error {
	r.log.Debugw("updating tenant", "tenant_id", t.ID)

	t.UpdatedAt = time.Now().UTC()
	t.UpdatedBy = types.GetUserID(ctx)

	query := `
		UPDATE tenants SET
			name = :name,
			billing_email = :billing_email,
			billing_address = :billing_address,
			country = :country,
			tenant_status = :tenant_status,
			gateway_customer_id = :gateway_customer_id,
			status = :status,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id`

	result, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, t)
	if err != nil {
		return wrapWriteError(err, "Tenant", map[string]any{"tenant_id": t.ID})
	}
	return checkAffected(result, "Tenant", map[string]any{"tenant_id": t.ID})
}
