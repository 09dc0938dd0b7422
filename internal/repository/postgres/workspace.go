package postgres

import (
	"context"
	"time"

	"github.com/socialdesk/socialdesk/internal/domain/workspace"
	"github.com/socialdesk/socialdesk/internal/logger"
	"github.com/socialdesk/socialdesk/internal/postgres"
	"github.com/socialdesk/socialdesk/internal/types"
)

type workspaceRepository struct {
	db  *postgres.DB
	log *logger.Logger
}

func NewWorkspaceRepository(db *postgres.DB, log *logger.Logger) workspace.Repository {
	return &workspaceRepository{db: db, log: log}
}

var workspaceSortFields = withDefaults(map[string]string{"name": "name"})

func (r *workspaceRepository) Create(ctx context.Context, w *workspace.Workspace) error {
	r.log.Debugw("creating workspace", "workspace_id", w.ID, "tenant_id", w.TenantID)

	query := `
		INSERT INTO workspaces (
			id, tenant_id, name, slug, description, timezone,
			status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :tenant_id, :name, :slug, :description, :timezone,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)`

	if _, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, w); err != nil {
		return wrapWriteError(err, "Workspace", map[string]any{"slug": w.Slug})
	}
	return nil
}

func (r *workspaceRepository) Get(ctx context.Context, id string) (*workspace.Workspace, error) {
	var w workspace.Workspace
	err := r.db.GetQuerier(ctx).GetContext(ctx, &w,
		`SELECT * FROM workspaces WHERE id = $1 AND tenant_id = $2 AND status = $3`,
		id, types.GetTenantID(ctx), types.StatusPublished)
	if err != nil {
		return nil, wrapGetError(err, "Workspace", map[string]any{"workspace_id": id})
	}
	return &w, nil
}

func (r *workspaceRepository) applyFilter(ctx context.Context, q *listQuery, filter *types.WorkspaceFilter) *listQuery {
	q = ApplyBaseFilters(ctx, q, filter.QueryFilter)
	q = q.WhereIn("id", filter.WorkspaceIDs)
	if filter.Slug != "" {
		q = q.Where("slug = ?", filter.Slug)
	}
	return q
}

func (r *workspaceRepository) List(ctx context.Context, filter *types.WorkspaceFilter) ([]*workspace.Workspace, error) {
	if filter == nil {
		filter = types.NewWorkspaceFilter()
	}
	q := r.applyFilter(ctx, newListQuery("workspaces"), filter)
	q = ApplyQueryOptions(q, filter.QueryFilter, workspaceSortFields)

	query, args := q.Select("*")
	var workspaces []*workspace.Workspace
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &workspaces, query, args...); err != nil {
		return nil, wrapListError(err, "workspaces")
	}
	return workspaces, nil
}

func (r *workspaceRepository) Count(ctx context.Context, filter *types.WorkspaceFilter) (int, error) {
	if filter == nil {
		filter = types.NewWorkspaceFilter()
	}
	query, args := r.applyFilter(ctx, newListQuery("workspaces"), filter).Count()
	var count int
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &count, query, args...); err != nil {
		return 0, wrapListError(err, "workspaces")
	}
	return count, nil
}

func (r *workspaceRepository) Update(ctx context.Context, w *workspace.Workspace) error {
	w.UpdatedAt = time.Now().UTC()
	w.UpdatedBy = types.GetUserID(ctx)

	query := `
		UPDATE workspaces SET
			name = :name,
			slug = :slug,
			description = :description,
			timezone = :timezone,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id AND tenant_id = :tenant_id AND status = 'published'`

	result, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, w)
	if err != nil {
		return wrapWriteError(err, "Workspace", map[string]any{"workspace_id": w.ID})
	}
	return checkAffected(result, "Workspace", map[string]any{"workspace_id": w.ID})
}

func (r *workspaceRepository) Delete(ctx context.Context, id string) error {
	r.log.Debugw("deleting workspace", "workspace_id", id, "tenant_id", types.GetTenantID(ctx))
	return softDelete(ctx, r.db, "workspaces", "Workspace", id)
}

type teamRepository struct {
	db  *postgres.DB
	log *logger.Logger
}

func NewTeamRepository(db *postgres.DB, log *logger.Logger) workspace.TeamRepository {
	return &teamRepository{db: db, log: log}
}

func (r *teamRepository) Create(ctx context.Context, t *workspace.Team) error {
	query := `
		INSERT INTO teams (
			id, tenant_id, workspace_id, name, description,
			status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :tenant_id, :workspace_id, :name, :description,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)`

	if _, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, t); err != nil {
		return wrapWriteError(err, "Team", map[string]any{"workspace_id": t.WorkspaceID})
	}
	return nil
}

func (r *teamRepository) Get(ctx context.Context, id string) (*workspace.Team, error) {
	var t workspace.Team
	err := r.db.GetQuerier(ctx).GetContext(ctx, &t,
		`SELECT * FROM teams WHERE id = $1 AND tenant_id = $2 AND status = $3`,
		id, types.GetTenantID(ctx), types.StatusPublished)
	if err != nil {
		return nil, wrapGetError(err, "Team", map[string]any{"team_id": id})
	}
	return &t, nil
}

func (r *teamRepository) ListByWorkspace(ctx context.Context, workspaceID string) ([]*workspace.Team, error) {
	var teams []*workspace.Team
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &teams,
		`SELECT * FROM teams WHERE tenant_id = $1 AND workspace_id = $2 AND status = $3 ORDER BY created_at`,
		types.GetTenantID(ctx), workspaceID, types.StatusPublished)
	if err != nil {
		return nil, wrapListError(err, "teams")
	}
	return teams, nil
}

func (r *teamRepository) Update(ctx context.Context, t *workspace.Team) error {
	t.UpdatedAt = time.Now().UTC()
	t.UpdatedBy = types.GetUserID(ctx)

	result, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, `
		UPDATE teams SET name = :name, description = :description, updated_at = :updated_at, updated_by = :updated_by
		WHERE id = :id AND tenant_id = :tenant_id AND status = 'published'`, t)
	if err != nil {
		return wrapWriteError(err, "Team", map[string]any{"team_id": t.ID})
	}
	return checkAffected(result, "Team", map[string]any{"team_id": t.ID})
}

func (r *teamRepository) Delete(ctx context.Context, id string) error {
	return softDelete(ctx, r.db, "teams", "Team", id)
}

type teamMemberRepository struct {
	db  *postgres.DB
	log *logger.Logger
}

func NewTeamMemberRepository(db *postgres.DB, log *logger.Logger) workspace.TeamMemberRepository {
	return &teamMemberRepository{db: db, log: log}
}

func (r *teamMemberRepository) Create(ctx context.Context, m *workspace.TeamMember) error {
	query := `
		INSERT INTO team_members (
			id, tenant_id, team_id, user_id, role,
			status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :tenant_id, :team_id, :user_id, :role,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)`

	if _, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, m); err != nil {
		return wrapWriteError(err, "Team member", map[string]any{"team_id": m.TeamID, "user_id": m.UserID})
	}
	return nil
}

func (r *teamMemberRepository) Get(ctx context.Context, id string) (*workspace.TeamMember, error) {
	var m workspace.TeamMember
	err := r.db.GetQuerier(ctx).GetContext(ctx, &m,
		`SELECT * FROM team_members WHERE id = $1 AND tenant_id = $2 AND status = $3`,
		id, types.GetTenantID(ctx), types.StatusPublished)
	if err != nil {
		return nil, wrapGetError(err, "Team member", map[string]any{"member_id": id})
	}
	return &m, nil
}

func (r *teamMemberRepository) GetByTeamAndUser(ctx context.Context, teamID, userID string) (*workspace.TeamMember, error) {
	var m workspace.TeamMember
	err := r.db.GetQuerier(ctx).GetContext(ctx, &m,
		`SELECT * FROM team_members WHERE team_id = $1 AND user_id = $2 AND tenant_id = $3 AND status = $4`,
		teamID, userID, types.GetTenantID(ctx), types.StatusPublished)
	if err != nil {
		return nil, wrapGetError(err, "Team member", map[string]any{"team_id": teamID, "user_id": userID})
	}
	return &m, nil
}

func (r *teamMemberRepository) ListByTeam(ctx context.Context, teamID string) ([]*workspace.TeamMember, error) {
	var members []*workspace.TeamMember
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &members,
		`SELECT * FROM team_members WHERE tenant_id = $1 AND team_id = $2 AND status = $3 ORDER BY created_at`,
		types.GetTenantID(ctx), teamID, types.StatusPublished)
	if err != nil {
		return nil, wrapListError(err, "team members")
	}
	return members, nil
}

func (r *teamMemberRepository) Update(ctx context.Context, m *workspace.TeamMember) error {
	m.UpdatedAt = time.Now().UTC()
	m.UpdatedBy = types.GetUserID(ctx)

	result, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, `
		UPDATE team_members SET role = :role, updated_at = :updated_at, updated_by = :updated_by
		WHERE id = :id AND tenant_id = :tenant_id AND status = 'published'`, m)
	if err != nil {
		return wrapWriteError(err, "Team member", map[string]any{"member_id": m.ID})
	}
	return checkAffected(result, "Team member", map[string]any{"member_id": m.ID})
}

func (r *teamMemberRepository) Delete(ctx context.Context, id string) error {
	return softDelete(ctx, r.db, "team_members", "Team member", id)
}

func (r *teamMemberRepository) DeleteByUser(ctx context.Context, userID string) error {
	_, err := r.db.GetQuerier(ctx).ExecContext(ctx,
		`UPDATE team_members SET status = $1, updated_at = $2, updated_by = $3 WHERE user_id = $4 AND tenant_id = $5 AND status = $6`,
		types.StatusDeleted, time.Now().UTC(), types.GetUserID(ctx), userID, types.GetTenantID(ctx), types.StatusPublished)
	if err != nil {
		return wrapWriteError(err, "Team member", map[string]any{"user_id": userID})
	}
	return nil
}

// softDelete marks a tenant owned row deleted
func softDelete(ctx context.Context, db *postgres.DB, table, entity, id string) error {
	result, err := db.GetQuerier(ctx).ExecContext(ctx,
		`UPDATE `+table+` SET status = $1, updated_at = $2, updated_by = $3 WHERE id = $4 AND tenant_id = $5 AND status = $6`,
		types.StatusDeleted, time.Now().UTC(), types.GetUserID(ctx), id, types.GetTenantID(ctx), types.StatusPublished)
	if err != nil {
		return wrapWriteError(err, entity, map[string]any{"id": id})
	}
	return checkAffected(result, entity, map[string]any{"id": id})
}
