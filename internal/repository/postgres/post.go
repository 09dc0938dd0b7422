package postgres

import (
	"context"
	"time"

	"github.com/samber/lo"
	"github.com/socialdesk/socialdesk/internal/domain/post"
	"github.com/socialdesk/socialdesk/internal/logger"
	"github.com/socialdesk/socialdesk/internal/postgres"
	"github.com/socialdesk/socialdesk/internal/types"
)

type postRepository struct {
	db  *postgres.DB
	log *logger.Logger
}

func NewPostRepository(db *postgres.DB, log *logger.Logger) post.Repository {
	return &postRepository{db: db, log: log}
}

var postSortFields = withDefaults(map[string]string{"scheduled_at": "scheduled_at", "published_at": "published_at"})

func (r *postRepository) Create(ctx context.Context, p *post.Post) error {
	query := `
		INSERT INTO posts (
			id, tenant_id, workspace_id, social_account_ids, content, media_urls, post_status,
			scheduled_at, published_at, status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :tenant_id, :workspace_id, :social_account_ids, :content, :media_urls, :post_status,
			:scheduled_at, :published_at, :status, :created_at, :updated_at, :created_by, :updated_by
		)`

	if _, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, p); err != nil {
		return wrapWriteError(err, "Post", map[string]any{"workspace_id": p.WorkspaceID})
	}
	return nil
}

func (r *postRepository) Get(ctx context.Context, id string) (*post.Post, error) {
	var p post.Post
	err := r.db.GetQuerier(ctx).GetContext(ctx, &p,
		`SELECT * FROM posts WHERE id = $1 AND tenant_id = $2 AND status = $3`,
		id, types.GetTenantID(ctx), types.StatusPublished)
	if err != nil {
		return nil, wrapGetError(err, "Post", map[string]any{"post_id": id})
	}
	return &p, nil
}

func (r *postRepository) applyFilter(ctx context.Context, q *listQuery, filter *types.PostFilter) *listQuery {
	q = ApplyBaseFilters(ctx, q, filter.QueryFilter)
	if filter.WorkspaceID != "" {
		q = q.Where("workspace_id = ?", filter.WorkspaceID)
	}
	q = q.WhereIn("post_status", lo.Map(filter.PostStatuses, func(s types.PostStatus, _ int) string { return string(s) }))
	if filter.ScheduledFrom != nil {
		q = q.Where("scheduled_at >= ?", *filter.ScheduledFrom)
	}
	if filter.ScheduledTo != nil {
		q = q.Where("scheduled_at < ?", *filter.ScheduledTo)
	}
	return q.ApplyTimeRange("created_at", filter.TimeRangeFilter)
}

func (r *postRepository) List(ctx context.Context, filter *types.PostFilter) ([]*post.Post, error) {
	if filter == nil {
		filter = types.NewPostFilter()
	}
	q := r.applyFilter(ctx, newListQuery("posts"), filter)
	q = ApplyQueryOptions(q, filter.QueryFilter, postSortFields)

	query, args := q.Select("*")
	var posts []*post.Post
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &posts, query, args...); err != nil {
		return nil, wrapListError(err, "posts")
	}
	return posts, nil
}

func (r *postRepository) Count(ctx context.Context, filter *types.PostFilter) (int, error) {
	if filter == nil {
		filter = types.NewPostFilter()
	}
	query, args := r.applyFilter(ctx, newListQuery("posts"), filter).Count()
	var count int
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &count, query, args...); err != nil {
		return 0, wrapListError(err, "posts")
	}
	return count, nil
}

func (r *postRepository) Update(ctx context.Context, p *post.Post) error {
	p.UpdatedAt = time.Now().UTC()
	p.UpdatedBy = types.GetUserID(ctx)

	result, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, `
		UPDATE posts SET
			social_account_ids = :social_account_ids,
			content = :content,
			media_urls = :media_urls,
			post_status = :post_status,
			scheduled_at = :scheduled_at,
			published_at = :published_at,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id AND tenant_id = :tenant_id AND status = 'published'`, p)
	if err != nil {
		return wrapWriteError(err, "Post", map[string]any{"post_id": p.ID})
	}
	return checkAffected(result, "Post", map[string]any{"post_id": p.ID})
}
