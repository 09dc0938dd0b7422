package postgres

import (
	"context"
	"time"

	"github.com/lib/pq"
	"github.com/socialdesk/socialdesk/internal/domain/plan"
	"github.com/socialdesk/socialdesk/internal/logger"
	"github.com/socialdesk/socialdesk/internal/postgres"
	"github.com/socialdesk/socialdesk/internal/types"
)

type planRepository struct {
	db  *postgres.DB
	log *logger.Logger
}

func NewPlanRepository(db *postgres.DB, log *logger.Logger) plan.Repository {
	return &planRepository{db: db, log: log}
}

var planSortFields = withDefaults(map[string]string{"sort_order": "sort_order", "price": "price", "code": "code"})

func (r *planRepository) Create(ctx context.Context, p *plan.Plan) error {
	r.log.Debugw("creating plan", "plan_id", p.ID, "code", p.Code)

	query := `
		INSERT INTO plans (
			id, code, name, description, price, currency, billing_interval, trial_days,
			gateway_plan_id, sort_order, is_public, status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :code, :name, :description, :price, :currency, :billing_interval, :trial_days,
			:gateway_plan_id, :sort_order, :is_public, :status, :created_at, :updated_at, :created_by, :updated_by
		)`

	if _, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, p); err != nil {
		return wrapWriteError(err, "Plan", map[string]any{"code": p.Code})
	}
	return nil
}

func (r *planRepository) GetByCode(ctx context.Context, code string) (*plan.Plan, error) {
	var p plan.Plan
	err := r.db.GetQuerier(ctx).GetContext(ctx, &p,
		`SELECT * FROM plans WHERE code = $1 AND status = $2`, code, types.StatusPublished)
	if err != nil {
		return nil, wrapGetError(err, "Plan", map[string]any{"code": code})
	}
	return &p, nil
}

func (r *planRepository) List(ctx context.Context, filter *types.PlanFilter) ([]*plan.Plan, error) {
	if filter == nil {
		filter = types.NewPlanFilter()
	}
	q := newListQuery("plans").ApplyStatusFilter(filter.GetStatus())
	q = q.WhereIn("code", filter.Codes)
	if filter.PublicOnly {
		q = q.Where("is_public = ?", true)
	}
	if filter.Sort == nil {
		q = q.ApplySortFilter("sort_order", types.OrderAsc)
		q = ApplyPagination(q, filter.QueryFilter)
	} else {
		q = ApplyQueryOptions(q, filter.QueryFilter, planSortFields)
	}

	query, args := q.Select("*")
	var plans []*plan.Plan
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &plans, query, args...); err != nil {
		return nil, wrapListError(err, "plans")
	}
	return plans, nil
}

func (r *planRepository) Update(ctx context.Context, p *plan.Plan) error {
	p.UpdatedAt = time.Now().UTC()
	p.UpdatedBy = types.GetUserID(ctx)

	result, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, `
		UPDATE plans SET
			name = :name,
			description = :description,
			price = :price,
			currency = :currency,
			billing_interval = :billing_interval,
			trial_days = :trial_days,
			gateway_plan_id = :gateway_plan_id,
			sort_order = :sort_order,
			is_public = :is_public,
			status = :status,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id`, p)
	if err != nil {
		return wrapWriteError(err, "Plan", map[string]any{"code": p.Code})
	}
	return checkAffected(result, "Plan", map[string]any{"code": p.Code})
}

func (r *planRepository) ListLimits(ctx context.Context, planCodes []string) ([]*plan.Limit, error) {
	var limits []*plan.Limit
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &limits,
		`SELECT * FROM plan_limits WHERE plan_code = ANY($1) ORDER BY plan_code, limit_key`,
		pq.Array(planCodes))
	if err != nil {
		return nil, wrapListError(err, "plan limits")
	}
	return limits, nil
}

func (r *planRepository) UpsertLimit(ctx context.Context, l *plan.Limit) error {
	now := time.Now().UTC()
	if l.ID == "" {
		l.ID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PLAN_LIMIT)
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = now
	}
	l.UpdatedAt = now

	_, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, `
		INSERT INTO plan_limits (id, plan_code, limit_key, limit_value, created_at, updated_at)
		VALUES (:id, :plan_code, :limit_key, :limit_value, :created_at, :updated_at)
		ON CONFLICT (plan_code, limit_key)
		DO UPDATE SET limit_value = EXCLUDED.limit_value, updated_at = EXCLUDED.updated_at`, l)
	if err != nil {
		return wrapWriteError(err, "Plan limit", map[string]any{"plan_code": l.PlanCode, "limit_key": l.LimitKey})
	}
	return nil
}
