package postgres

import (
	"context"
	"time"

	"github.com/socialdesk/socialdesk/internal/domain/featureflag"
	"github.com/socialdesk/socialdesk/internal/logger"
	"github.com/socialdesk/socialdesk/internal/postgres"
	"github.com/socialdesk/socialdesk/internal/types"
)

type featureFlagRepository struct {
	db  *postgres.DB
	log *logger.Logger
}

func NewFeatureFlagRepository(db *postgres.DB, log *logger.Logger) featureflag.Repository {
	return &featureFlagRepository{db: db, log: log}
}

var featureFlagSortFields = withDefaults(map[string]string{"key": "flag_key"})

func (r *featureFlagRepository) Create(ctx context.Context, f *featureflag.FeatureFlag) error {
	query := `
		INSERT INTO feature_flags (
			id, flag_key, description, enabled, rollout_percentage, allowed_tenant_ids, allowed_plan_codes,
			status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :flag_key, :description, :enabled, :rollout_percentage, :allowed_tenant_ids, :allowed_plan_codes,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)`

	if _, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, f); err != nil {
		return wrapWriteError(err, "Feature flag", map[string]any{"key": f.Key})
	}
	return nil
}

func (r *featureFlagRepository) Get(ctx context.Context, id string) (*featureflag.FeatureFlag, error) {
	var f featureflag.FeatureFlag
	err := r.db.GetQuerier(ctx).GetContext(ctx, &f,
		`SELECT * FROM feature_flags WHERE id = $1 AND status = $2`, id, types.StatusPublished)
	if err != nil {
		return nil, wrapGetError(err, "Feature flag", map[string]any{"flag_id": id})
	}
	return &f, nil
}

func (r *featureFlagRepository) GetByKey(ctx context.Context, key string) (*featureflag.FeatureFlag, error) {
	var f featureflag.FeatureFlag
	err := r.db.GetQuerier(ctx).GetContext(ctx, &f,
		`SELECT * FROM feature_flags WHERE flag_key = $1 AND status = $2`, key, types.StatusPublished)
	if err != nil {
		return nil, wrapGetError(err, "Feature flag", map[string]any{"key": key})
	}
	return &f, nil
}

func (r *featureFlagRepository) List(ctx context.Context, filter *types.FeatureFlagFilter) ([]*featureflag.FeatureFlag, error) {
	if filter == nil {
		filter = types.NewFeatureFlagFilter()
	}
	q := newListQuery("feature_flags").ApplyStatusFilter(filter.GetStatus())
	q = q.WhereIn("flag_key", filter.Keys)
	q = ApplyQueryOptions(q, filter.QueryFilter, featureFlagSortFields)

	query, args := q.Select("*")
	var flags []*featureflag.FeatureFlag
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &flags, query, args...); err != nil {
		return nil, wrapListError(err, "feature flags")
	}
	return flags, nil
}

func (r *featureFlagRepository) Update(ctx context.Context, f *featureflag.FeatureFlag) error {
	f.UpdatedAt = time.Now().UTC()
	f.UpdatedBy = types.GetUserID(ctx)

	result, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, `
		UPDATE feature_flags SET
			description = :description,
			enabled = :enabled,
			rollout_percentage = :rollout_percentage,
			allowed_tenant_ids = :allowed_tenant_ids,
			allowed_plan_codes = :allowed_plan_codes,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id AND status = 'published'`, f)
	if err != nil {
		return wrapWriteError(err, "Feature flag", map[string]any{"key": f.Key})
	}
	return checkAffected(result, "Feature flag", map[string]any{"key": f.Key})
}

func (r *featureFlagRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.GetQuerier(ctx).ExecContext(ctx,
		`UPDATE feature_flags SET status = $1, updated_at = $2, updated_by = $3 WHERE id = $4 AND status = $5`,
		types.StatusDeleted, time.Now().UTC(), types.GetUserID(ctx), id, types.StatusPublished)
	if err != nil {
		return wrapWriteError(err, "Feature flag", map[string]any{"flag_id": id})
	}
	return checkAffected(result, "Feature flag", map[string]any{"flag_id": id})
}
