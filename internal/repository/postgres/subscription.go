package postgres

import (
	"context"
	"time"

	"github.com/samber/lo"
	"github.com/socialdesk/socialdesk/internal/domain/subscription"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
	"github.com/socialdesk/socialdesk/internal/logger"
	"github.com/socialdesk/socialdesk/internal/postgres"
	"github.com/socialdesk/socialdesk/internal/types"
)

const currentSubscriptionIndex = "idx_subscriptions_one_current_per_tenant"

type subscriptionRepository struct {
	db  *postgres.DB
	log *logger.Logger
}

func NewSubscriptionRepository(db *postgres.DB, log *logger.Logger) subscription.Repository {
	return &subscriptionRepository{db: db, log: log}
}

var subscriptionSortFields = withDefaults(map[string]string{
	"current_period_end": "current_period_end",
	"plan_code":          "plan_code",
})

func statusStrings(statuses []types.SubscriptionStatus) []string {
	return lo.Map(statuses, func(s types.SubscriptionStatus, _ int) string { return string(s) })
}

func (r *subscriptionRepository) Create(ctx context.Context, s *subscription.Subscription) error {
	r.log.Debugw("creating subscription",
		"subscription_id", s.ID,
		"tenant_id", s.TenantID,
		"plan_code", s.PlanCode,
	)

	query := `
		INSERT INTO subscriptions (
			id, tenant_id, plan_code, subscription_status, quantity, currency,
			current_period_start, current_period_end, trial_start, trial_end,
			cancel_at_period_end, cancelled_at, ended_at,
			gateway, gateway_subscription_id, gateway_customer_id,
			status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :tenant_id, :plan_code, :subscription_status, :quantity, :currency,
			:current_period_start, :current_period_end, :trial_start, :trial_end,
			:cancel_at_period_end, :cancelled_at, :ended_at,
			:gateway, :gateway_subscription_id, :gateway_customer_id,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)`

	if _, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, s); err != nil {
		if postgres.IsUniqueViolation(err) && postgres.ConstraintName(err) == currentSubscriptionIndex {
			return ierr.WithError(err).
				WithHint("Tenant already has a current subscription").
				WithReportableDetails(map[string]any{"tenant_id": s.TenantID}).
				Mark(ierr.ErrAlreadyExists)
		}
		return wrapWriteError(err, "Subscription", map[string]any{"tenant_id": s.TenantID})
	}
	return nil
}

func (r *subscriptionRepository) Get(ctx context.Context, id string) (*subscription.Subscription, error) {
	var s subscription.Subscription
	err := r.db.GetQuerier(ctx).GetContext(ctx, &s,
		`SELECT * FROM subscriptions WHERE id = $1 AND tenant_id = $2 AND status = $3`,
		id, types.GetTenantID(ctx), types.StatusPublished)
	if err != nil {
		return nil, wrapGetError(err, "Subscription", map[string]any{"subscription_id": id})
	}
	return &s, nil
}

func (r *subscriptionRepository) GetCurrent(ctx context.Context) (*subscription.Subscription, error) {
	var s subscription.Subscription
	err := r.db.GetQuerier(ctx).GetContext(ctx, &s, `
		SELECT * FROM subscriptions
		WHERE tenant_id = $1 AND status = $2 AND subscription_status = ANY($3)
		ORDER BY created_at DESC LIMIT 1`,
		types.GetTenantID(ctx), types.StatusPublished, pqStrings(statusStrings(types.CurrentSubscriptionStatuses)))
	if err != nil {
		return nil, wrapGetError(err, "Subscription", map[string]any{"tenant_id": types.GetTenantID(ctx)})
	}
	return &s, nil
}

func (r *subscriptionRepository) GetByGatewayID(ctx context.Context, gatewaySubscriptionID string) (*subscription.Subscription, error) {
	var s subscription.Subscription
	err := r.db.GetQuerier(ctx).GetContext(ctx, &s,
		`SELECT * FROM subscriptions WHERE gateway_subscription_id = $1 AND status = $2`,
		gatewaySubscriptionID, types.StatusPublished)
	if err != nil {
		return nil, wrapGetError(err, "Subscription", map[string]any{"gateway_subscription_id": gatewaySubscriptionID})
	}
	return &s, nil
}

func (r *subscriptionRepository) applyFilter(ctx context.Context, q *listQuery, filter *types.SubscriptionFilter) *listQuery {
	if filter.AllTenants {
		q = q.ApplyStatusFilter(filter.GetStatus())
	} else {
		q = ApplyBaseFilters(ctx, q, filter.QueryFilter)
	}
	q = q.WhereIn("id", filter.SubscriptionIDs)
	q = q.WhereIn("subscription_status", statusStrings(filter.SubscriptionStatuses))
	if filter.PlanCode != "" {
		q = q.Where("plan_code = ?", filter.PlanCode)
	}
	if filter.GatewaySubscriptionID != "" {
		q = q.Where("gateway_subscription_id = ?", filter.GatewaySubscriptionID)
	}
	if filter.CancelAtPeriodEnd != nil {
		q = q.Where("cancel_at_period_end = ?", *filter.CancelAtPeriodEnd)
	}
	if filter.PeriodEndBefore != nil {
		q = q.Where("current_period_end <= ?", *filter.PeriodEndBefore)
	}
	return q.ApplyTimeRange("created_at", filter.TimeRangeFilter)
}

func (r *subscriptionRepository) List(ctx context.Context, filter *types.SubscriptionFilter) ([]*subscription.Subscription, error) {
	if filter == nil {
		filter = types.NewSubscriptionFilter()
	}
	q := r.applyFilter(ctx, newListQuery("subscriptions"), filter)
	q = ApplyQueryOptions(q, filter.QueryFilter, subscriptionSortFields)

	query, args := q.Select("*")
	var subs []*subscription.Subscription
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &subs, query, args...); err != nil {
		return nil, wrapListError(err, "subscriptions")
	}
	return subs, nil
}

func (r *subscriptionRepository) Count(ctx context.Context, filter *types.SubscriptionFilter) (int, error) {
	if filter == nil {
		filter = types.NewSubscriptionFilter()
	}
	query, args := r.applyFilter(ctx, newListQuery("subscriptions"), filter).Count()
	var count int
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &count, query, args...); err != nil {
		return 0, wrapListError(err, "subscriptions")
	}
	return count, nil
}

func (r *subscriptionRepository) Update(ctx context.Context, s *subscription.Subscription) error {
	r.log.Debugw("updating subscription",
		"subscription_id", s.ID,
		"subscription_status", s.SubscriptionStatus,
	)

	s.UpdatedAt = time.Now().UTC()
	if by := types.GetUserID(ctx); by != "" {
		s.UpdatedBy = by
	}

	result, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, `
		UPDATE subscriptions SET
			plan_code = :plan_code,
			subscription_status = :subscription_status,
			quantity = :quantity,
			current_period_start = :current_period_start,
			current_period_end = :current_period_end,
			trial_start = :trial_start,
			trial_end = :trial_end,
			cancel_at_period_end = :cancel_at_period_end,
			cancelled_at = :cancelled_at,
			ended_at = :ended_at,
			gateway_subscription_id = :gateway_subscription_id,
			gateway_customer_id = :gateway_customer_id,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id AND tenant_id = :tenant_id AND status = 'published'`, s)
	if err != nil {
		return wrapWriteError(err, "Subscription", map[string]any{"subscription_id": s.ID})
	}
	return checkAffected(result, "Subscription", map[string]any{"subscription_id": s.ID})
}
