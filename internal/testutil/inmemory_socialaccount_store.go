package testutil

import (
	"context"
	"time"

	"github.com/samber/lo"
	"github.com/socialdesk/socialdesk/internal/domain/socialaccount"
	"github.com/socialdesk/socialdesk/internal/types"
)

// InMemorySocialAccountStore implements socialaccount.Repository
type InMemorySocialAccountStore struct {
	*InMemoryStore[*socialaccount.SocialAccount]
}

func NewInMemorySocialAccountStore() *InMemorySocialAccountStore {
	return &InMemorySocialAccountStore{
		InMemoryStore: NewInMemoryStore[*socialaccount.SocialAccount](),
	}
}

func socialAccountFilterFn(ctx context.Context, a *socialaccount.SocialAccount, filter interface{}) bool {
	if a == nil || !CheckTenantFilter(ctx, a.TenantID) {
		return false
	}

	f, ok := filter.(*types.SocialAccountFilter)
	if !ok {
		return a.Status == types.StatusPublished
	}
	if !CheckStatusFilter(f.QueryFilter, a.Status) {
		return false
	}
	if f.WorkspaceID != "" && a.WorkspaceID != f.WorkspaceID {
		return false
	}
	if len(f.Platforms) > 0 && !lo.Contains(f.Platforms, a.Platform) {
		return false
	}
	return true
}

func (s *InMemorySocialAccountStore) Create(ctx context.Context, a *socialaccount.SocialAccount) error {
	if _, ok := s.Find(func(existing *socialaccount.SocialAccount) bool {
		return existing.TenantID == a.TenantID &&
			existing.Status == types.StatusPublished &&
			existing.WorkspaceID == a.WorkspaceID &&
			existing.Platform == a.Platform &&
			existing.ExternalID == a.ExternalID
	}); ok {
		return alreadyExists("social account", a.ExternalID)
	}
	return s.InMemoryStore.Create(ctx, a.ID, a)
}

func (s *InMemorySocialAccountStore) Get(ctx context.Context, id string) (*socialaccount.SocialAccount, error) {
	a, err := s.InMemoryStore.Get(ctx, id)
	if err != nil || !CheckTenantFilter(ctx, a.TenantID) || a.Status != types.StatusPublished {
		return nil, notFound(id)
	}
	return a, nil
}

func (s *InMemorySocialAccountStore) List(ctx context.Context, filter *types.SocialAccountFilter) ([]*socialaccount.SocialAccount, error) {
	return s.InMemoryStore.List(ctx, filter, socialAccountFilterFn, func(i, j *socialaccount.SocialAccount) bool {
		return i.CreatedAt.After(j.CreatedAt)
	})
}

func (s *InMemorySocialAccountStore) Count(ctx context.Context, filter *types.SocialAccountFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, socialAccountFilterFn)
}

func (s *InMemorySocialAccountStore) Update(ctx context.Context, a *socialaccount.SocialAccount) error {
	a.UpdatedAt = time.Now().UTC()
	return s.InMemoryStore.Update(ctx, a.ID, a)
}

func (s *InMemorySocialAccountStore) Delete(ctx context.Context, id string) error {
	a, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	a.Status = types.StatusDeleted
	return nil
}
