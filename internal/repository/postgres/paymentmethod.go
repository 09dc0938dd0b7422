package postgres

import (
	"context"
	"time"

	"github.com/socialdesk/socialdesk/internal/domain/paymentmethod"
	"github.com/socialdesk/socialdesk/internal/logger"
	"github.com/socialdesk/socialdesk/internal/postgres"
	"github.com/socialdesk/socialdesk/internal/types"
)

type paymentMethodRepository struct {
	db  *postgres.DB
	log *logger.Logger
}

func NewPaymentMethodRepository(db *postgres.DB, log *logger.Logger) paymentmethod.Repository {
	return &paymentMethodRepository{db: db, log: log}
}

func (r *paymentMethodRepository) Create(ctx context.Context, pm *paymentmethod.PaymentMethod) error {
	r.log.Debugw("creating payment method", "payment_method_id", pm.ID, "tenant_id", pm.TenantID, "is_default", pm.IsDefault)

	query := `
		INSERT INTO payment_methods (
			id, tenant_id, gateway, gateway_payment_method_id, method_type, brand, last4,
			exp_month, exp_year, is_default, status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :tenant_id, :gateway, :gateway_payment_method_id, :method_type, :brand, :last4,
			:exp_month, :exp_year, :is_default, :status, :created_at, :updated_at, :created_by, :updated_by
		)`

	if _, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, pm); err != nil {
		return wrapWriteError(err, "Payment method", map[string]any{"gateway_payment_method_id": pm.GatewayPaymentMethodID})
	}
	return nil
}

func (r *paymentMethodRepository) Get(ctx context.Context, id string) (*paymentmethod.PaymentMethod, error) {
	var pm paymentmethod.PaymentMethod
	err := r.db.GetQuerier(ctx).GetContext(ctx, &pm,
		`SELECT * FROM payment_methods WHERE id = $1 AND tenant_id = $2 AND status = $3`,
		id, types.GetTenantID(ctx), types.StatusPublished)
	if err != nil {
		return nil, wrapGetError(err, "Payment method", map[string]any{"payment_method_id": id})
	}
	return &pm, nil
}

func (r *paymentMethodRepository) applyFilter(ctx context.Context, q *listQuery, filter *types.PaymentMethodFilter) *listQuery {
	q = ApplyBaseFilters(ctx, q, filter.QueryFilter)
	q = q.WhereIn("id", filter.PaymentMethodIDs)
	if filter.IsDefault != nil {
		q = q.Where("is_default = ?", *filter.IsDefault)
	}
	if filter.GatewayPaymentMethodID != "" {
		q = q.Where("gateway_payment_method_id = ?", filter.GatewayPaymentMethodID)
	}
	return q
}

func (r *paymentMethodRepository) List(ctx context.Context, filter *types.PaymentMethodFilter) ([]*paymentmethod.PaymentMethod, error) {
	if filter == nil {
		filter = types.NewPaymentMethodFilter()
	}
	q := r.applyFilter(ctx, newListQuery("payment_methods"), filter)
	q = ApplyQueryOptions(q, filter.QueryFilter, defaultSortFields)

	query, args := q.Select("*")
	var methods []*paymentmethod.PaymentMethod
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &methods, query, args...); err != nil {
		return nil, wrapListError(err, "payment methods")
	}
	return methods, nil
}

func (r *paymentMethodRepository) Count(ctx context.Context, filter *types.PaymentMethodFilter) (int, error) {
	if filter == nil {
		filter = types.NewPaymentMethodFilter()
	}
	query, args := r.applyFilter(ctx, newListQuery("payment_methods"), filter).Count()
	var count int
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &count, query, args...); err != nil {
		return 0, wrapListError(err, "payment methods")
	}
	return count, nil
}

func (r *paymentMethodRepository) Update(ctx context.Context, pm *paymentmethod.PaymentMethod) error {
	pm.UpdatedAt = time.Now().UTC()
	pm.UpdatedBy = types.GetUserID(ctx)

	result, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, `
		UPDATE payment_methods SET
			brand = :brand,
			last4 = :last4,
			exp_month = :exp_month,
			exp_year = :exp_year,
			is_default = :is_default,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id AND tenant_id = :tenant_id AND status = 'published'`, pm)
	if err != nil {
		return wrapWriteError(err, "Payment method", map[string]any{"payment_method_id": pm.ID})
	}
	return checkAffected(result, "Payment method", map[string]any{"payment_method_id": pm.ID})
}

func (r *paymentMethodRepository) Delete(ctx context.Context, id string) error {
	return softDelete(ctx, r.db, "payment_methods", "Payment method", id)
}

func (r *paymentMethodRepository) UnsetDefault(ctx context.Context) error {
	_, err := r.db.GetQuerier(ctx).ExecContext(ctx,
		`UPDATE payment_methods SET is_default = FALSE, updated_at = $1, updated_by = $2
		 WHERE tenant_id = $3 AND status = $4 AND is_default`,
		time.Now().UTC(), types.GetUserID(ctx), types.GetTenantID(ctx), types.StatusPublished)
	if err != nil {
		return wrapWriteError(err, "Payment method", nil)
	}
	return nil
}
