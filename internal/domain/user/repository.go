package user

import (
	"context"

	"github.com/socialdesk/socialdesk/internal/types"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	// GetByID is tenant scoped
	GetByID(ctx context.Context, id string) (*User, error)
	// GetByIDUnscoped is used by authentication before a tenant is known
	GetByIDUnscoped(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, filter *types.UserFilter) ([]*User, error)
	Count(ctx context.Context, filter *types.UserFilter) (int, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id string) error
}

type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Update(ctx context.Context, session *Session) error
	RevokeAllForUser(ctx context.Context, userID string) error
}
