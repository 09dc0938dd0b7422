package testutil

import (
	"context"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/socialdesk/socialdesk/internal/domain/user"
	"github.com/socialdesk/socialdesk/internal/types"
)

// InMemoryUserStore implements user.Repository
type InMemoryUserStore struct {
	*InMemoryStore[*user.User]
}

func NewInMemoryUserStore() *InMemoryUserStore {
	return &InMemoryUserStore{
		InMemoryStore: NewInMemoryStore[*user.User](),
	}
}

func userFilterFn(ctx context.Context, u *user.User, filter interface{}) bool {
	if u == nil || !CheckTenantFilter(ctx, u.TenantID) {
		return false
	}

	f, ok := filter.(*types.UserFilter)
	if !ok {
		return u.Status == types.StatusPublished
	}
	if !CheckStatusFilter(f.QueryFilter, u.Status) {
		return false
	}
	if len(f.UserIDs) > 0 && !lo.Contains(f.UserIDs, u.ID) {
		return false
	}
	if f.Email != "" && !strings.EqualFold(u.Email, f.Email) {
		return false
	}
	return true
}

func userSortFn(i, j *user.User) bool {
	return i.CreatedAt.After(j.CreatedAt)
}

func (s *InMemoryUserStore) Create(ctx context.Context, u *user.User) error {
	if _, ok := s.Find(func(existing *user.User) bool {
		return existing.Status == types.StatusPublished && strings.EqualFold(existing.Email, u.Email)
	}); ok {
		return alreadyExists("user", u.Email)
	}
	return s.InMemoryStore.Create(ctx, u.ID, u)
}

func (s *InMemoryUserStore) GetByID(ctx context.Context, id string) (*user.User, error) {
	u, err := s.InMemoryStore.Get(ctx, id)
	if err != nil || !CheckTenantFilter(ctx, u.TenantID) || u.Status != types.StatusPublished {
		return nil, notFound(id)
	}
	return u, nil
}

func (s *InMemoryUserStore) GetByIDUnscoped(ctx context.Context, id string) (*user.User, error) {
	u, err := s.InMemoryStore.Get(ctx, id)
	if err != nil || u.Status != types.StatusPublished {
		return nil, notFound(id)
	}
	return u, nil
}

// GetByEmail spans tenants, emails are globally unique
func (s *InMemoryUserStore) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	u, ok := s.Find(func(u *user.User) bool {
		return u.Status == types.StatusPublished && strings.EqualFold(u.Email, email)
	})
	if !ok {
		return nil, notFound(email)
	}
	return u, nil
}

func (s *InMemoryUserStore) List(ctx context.Context, filter *types.UserFilter) ([]*user.User, error) {
	return s.InMemoryStore.List(ctx, filter, userFilterFn, userSortFn)
}

func (s *InMemoryUserStore) Count(ctx context.Context, filter *types.UserFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, userFilterFn)
}

func (s *InMemoryUserStore) Update(ctx context.Context, u *user.User) error {
	u.UpdatedAt = time.Now().UTC()
	return s.InMemoryStore.Update(ctx, u.ID, u)
}

func (s *InMemoryUserStore) Delete(ctx context.Context, id string) error {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	u.Status = types.StatusDeleted
	return nil
}

// InMemorySessionStore implements user.SessionRepository
type InMemorySessionStore struct {
	*InMemoryStore[*user.Session]
}

func NewInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{
		InMemoryStore: NewInMemoryStore[*user.Session](),
	}
}

func (s *InMemorySessionStore) Create(ctx context.Context, session *user.Session) error {
	return s.InMemoryStore.Create(ctx, session.ID, session)
}

func (s *InMemorySessionStore) Get(ctx context.Context, id string) (*user.Session, error) {
	return s.InMemoryStore.Get(ctx, id)
}

func (s *InMemorySessionStore) Update(ctx context.Context, session *user.Session) error {
	return s.InMemoryStore.Update(ctx, session.ID, session)
}

func (s *InMemorySessionStore) RevokeAllForUser(ctx context.Context, userID string) error {
	now := time.Now().UTC()
	s.Each(func(session *user.Session) {
		if session.UserID == userID && session.RevokedAt == nil {
			session.RevokedAt = &now
		}
	})
	return nil
}
