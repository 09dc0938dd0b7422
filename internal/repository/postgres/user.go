package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/socialdesk/socialdesk/internal/domain/user"
	"github.com/socialdesk/socialdesk/internal/logger"
	"github.com/socialdesk/socialdesk/internal/postgres"
	"github.com/socialdesk/socialdesk/internal/types"
)

type userRepository struct {
	db  *postgres.DB
	log *logger.Logger
}

func NewUserRepository(db *postgres.DB, log *logger.Logger) user.Repository {
	return &userRepository{db: db, log: log}
}

var userSortFields = withDefaults(map[string]string{"email": "email", "name": "name"})

func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	r.log.Debugw("creating user", "user_id", u.ID, "tenant_id", u.TenantID)

	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	query := `
		INSERT INTO users (
			id, tenant_id, email, name, password_hash, role, is_super_admin, last_login_at,
			status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :tenant_id, :email, :name, :password_hash, :role, :is_super_admin, :last_login_at,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)`

	if _, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, u); err != nil {
		return wrapWriteError(err, "User", map[string]any{"email": u.Email})
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	var u user.User
	err := r.db.GetQuerier(ctx).GetContext(ctx, &u,
		`SELECT * FROM users WHERE id = $1 AND tenant_id = $2 AND status = $3`,
		id, types.GetTenantID(ctx), types.StatusPublished)
	if err != nil {
		return nil, wrapGetError(err, "User", map[string]any{"user_id": id})
	}
	return &u, nil
}

func (r *userRepository) GetByIDUnscoped(ctx context.Context, id string) (*user.User, error) {
	var u user.User
	err := r.db.GetQuerier(ctx).GetContext(ctx, &u,
		`SELECT * FROM users WHERE id = $1 AND status = $2`, id, types.StatusPublished)
	if err != nil {
		return nil, wrapGetError(err, "User", map[string]any{"user_id": id})
	}
	return &u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var u user.User
	err := r.db.GetQuerier(ctx).GetContext(ctx, &u,
		`SELECT * FROM users WHERE LOWER(email) = $1 AND status = $2`,
		strings.ToLower(strings.TrimSpace(email)), types.StatusPublished)
	if err != nil {
		return nil, wrapGetError(err, "User", nil)
	}
	return &u, nil
}

func (r *userRepository) applyFilter(ctx context.Context, q *listQuery, filter *types.UserFilter) *listQuery {
	q = ApplyBaseFilters(ctx, q, filter.QueryFilter)
	q = q.WhereIn("id", filter.UserIDs)
	if filter.Email != "" {
		q = q.Where("LOWER(email) = ?", strings.ToLower(filter.Email))
	}
	return q
}

func (r *userRepository) List(ctx context.Context, filter *types.UserFilter) ([]*user.User, error) {
	if filter == nil {
		filter = types.NewUserFilter()
	}
	q := r.applyFilter(ctx, newListQuery("users"), filter)
	q = ApplyQueryOptions(q, filter.QueryFilter, userSortFields)

	query, args := q.Select("*")
	var users []*user.User
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &users, query, args...); err != nil {
		return nil, wrapListError(err, "users")
	}
	return users, nil
}

func (r *userRepository) Count(ctx context.Context, filter *types.UserFilter) (int, error) {
	if filter == nil {
		filter = types.NewUserFilter()
	}
	query, args := r.applyFilter(ctx, newListQuery("users"), filter).Count()
	var count int
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &count, query, args...); err != nil {
		return 0, wrapListError(err, "users")
	}
	return count, nil
}

func (r *userRepository) Update(ctx context.Context, u *user.User) error {
	u.UpdatedAt = time.Now().UTC()
	if by := types.GetUserID(ctx); by != "" {
		u.UpdatedBy = by
	}

	query := `
		UPDATE users SET
			name = :name,
			password_hash = :password_hash,
			role = :role,
			is_super_admin = :is_super_admin,
			last_login_at = :last_login_at,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id AND tenant_id = :tenant_id`

	result, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, u)
	if err != nil {
		return wrapWriteError(err, "User", map[string]any{"user_id": u.ID})
	}
	return checkAffected(result, "User", map[string]any{"user_id": u.ID})
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	r.log.Debugw("deleting user", "user_id", id, "tenant_id", types.GetTenantID(ctx))

	result, err := r.db.GetQuerier(ctx).ExecContext(ctx,
		`UPDATE users SET status = $1, updated_at = $2, updated_by = $3 WHERE id = $4 AND tenant_id = $5 AND status = $6`,
		types.StatusDeleted, time.Now().UTC(), types.GetUserID(ctx), id, types.GetTenantID(ctx), types.StatusPublished)
	if err != nil {
		return wrapWriteError(err, "User", map[string]any{"user_id": id})
	}
	return checkAffected(result, "User", map[string]any{"user_id": id})
}

type sessionRepository struct {
	db  *postgres.DB
	log *logger.Logger
}

func NewSessionRepository(db *postgres.DB, log *logger.Logger) user.SessionRepository {
	return &sessionRepository{db: db, log: log}
}

func (r *sessionRepository) Create(ctx context.Context, s *user.Session) error {
	query := `
		INSERT INTO sessions (id, tenant_id, user_id, ip_address, user_agent, expires_at, revoked_at, created_at)
		VALUES (:id, :tenant_id, :user_id, :ip_address, :user_agent, :expires_at, :revoked_at, :created_at)`

	if _, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, s); err != nil {
		return wrapWriteError(err, "Session", nil)
	}
	return nil
}

func (r *sessionRepository) Get(ctx context.Context, id string) (*user.Session, error) {
	var s user.Session
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &s, `SELECT * FROM sessions WHERE id = $1`, id); err != nil {
		return nil, wrapGetError(err, "Session", map[string]any{"session_id": id})
	}
	return &s, nil
}

func (r *sessionRepository) Update(ctx context.Context, s *user.Session) error {
	result, err := r.db.GetQuerier(ctx).NamedExecContext(ctx,
		`UPDATE sessions SET expires_at = :expires_at, revoked_at = :revoked_at WHERE id = :id`, s)
	if err != nil {
		return wrapWriteError(err, "Session", nil)
	}
	return checkAffected(result, "Session", map[string]any{"session_id": s.ID})
}

func (r *sessionRepository) RevokeAllForUser(ctx context.Context, userID string) error {
	_, err := r.db.GetQuerier(ctx).ExecContext(ctx,
		`UPDATE sessions SET revoked_at = $1 WHERE user_id = $2 AND revoked_at IS NULL`,
		time.Now().UTC(), userID)
	if err != nil {
		return wrapWriteError(err, "Session", map[string]any{"user_id": userID})
	}
	return nil
}
