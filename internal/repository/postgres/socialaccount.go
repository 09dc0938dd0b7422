package postgres

import (
	"context"
	"time"

	"github.com/samber/lo"
	"github.com/socialdesk/socialdesk/internal/domain/socialaccount"
	"github.com/socialdesk/socialdesk/internal/logger"
	"github.com/socialdesk/socialdesk/internal/postgres"
	"github.com/socialdesk/socialdesk/internal/types"
)

type socialAccountRepository struct {
	db  *postgres.DB
	log *logger.Logger
}

func NewSocialAccountRepository(db *postgres.DB, log *logger.Logger) socialaccount.Repository {
	return &socialAccountRepository{db: db, log: log}
}

var socialAccountSortFields = withDefaults(map[string]string{"platform": "platform", "handle": "handle"})

func (r *socialAccountRepository) Create(ctx context.Context, a *socialaccount.SocialAccount) error {
	query := `
		INSERT INTO social_accounts (
			id, tenant_id, workspace_id, platform, external_id, handle, display_name, connection_status,
			status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :tenant_id, :workspace_id, :platform, :external_id, :handle, :display_name, :connection_status,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)`

	if _, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, a); err != nil {
		return wrapWriteError(err, "Social account", map[string]any{
			"platform":    a.Platform,
			"external_id": a.ExternalID,
		})
	}
	return nil
}

func (r *socialAccountRepository) Get(ctx context.Context, id string) (*socialaccount.SocialAccount, error) {
	var a socialaccount.SocialAccount
	err := r.db.GetQuerier(ctx).GetContext(ctx, &a,
		`SELECT * FROM social_accounts WHERE id = $1 AND tenant_id = $2 AND status = $3`,
		id, types.GetTenantID(ctx), types.StatusPublished)
	if err != nil {
		return nil, wrapGetError(err, "Social account", map[string]any{"social_account_id": id})
	}
	return &a, nil
}

func (r *socialAccountRepository) applyFilter(ctx context.Context, q *listQuery, filter *types.SocialAccountFilter) *listQuery {
	q = ApplyBaseFilters(ctx, q, filter.QueryFilter)
	if filter.WorkspaceID != "" {
		q = q.Where("workspace_id = ?", filter.WorkspaceID)
	}
	q = q.WhereIn("platform", lo.Map(filter.Platforms, func(p types.SocialPlatform, _ int) string { return string(p) }))
	return q
}

func (r *socialAccountRepository) List(ctx context.Context, filter *types.SocialAccountFilter) ([]*socialaccount.SocialAccount, error) {
	if filter == nil {
		filter = types.NewSocialAccountFilter()
	}
	q := r.applyFilter(ctx, newListQuery("social_accounts"), filter)
	q = ApplyQueryOptions(q, filter.QueryFilter, socialAccountSortFields)

	query, args := q.Select("*")
	var accounts []*socialaccount.SocialAccount
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &accounts, query, args...); err != nil {
		return nil, wrapListError(err, "social accounts")
	}
	return accounts, nil
}

func (r *socialAccountRepository) Count(ctx context.Context, filter *types.SocialAccountFilter) (int, error) {
	if filter == nil {
		filter = types.NewSocialAccountFilter()
	}
	query, args := r.applyFilter(ctx, newListQuery("social_accounts"), filter).Count()
	var count int
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &count, query, args...); err != nil {
		return 0, wrapListError(err, "social accounts")
	}
	return count, nil
}

func (r *socialAccountRepository) Update(ctx context.Context, a *socialaccount.SocialAccount) error {
	a.UpdatedAt = time.Now().UTC()
	a.UpdatedBy = types.GetUserID(ctx)

	result, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, `
		UPDATE social_accounts SET
			handle = :handle,
			display_name = :display_name,
			connection_status = :connection_status,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id AND tenant_id = :tenant_id AND status = 'published'`, a)
	if err != nil {
		return wrapWriteError(err, "Social account", map[string]any{"social_account_id": a.ID})
	}
	return checkAffected(result, "Social account", map[string]any{"social_account_id": a.ID})
}

func (r *socialAccountRepository) Delete(ctx context.Context, id string) error {
	return softDelete(ctx, r.db, "social_accounts", "Social account", id)
}
