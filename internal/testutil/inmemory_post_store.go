package testutil

import (
	"context"
	"time"

	"github.com/samber/lo"
	"github.com/socialdesk/socialdesk/internal/domain/post"
	"github.com/socialdesk/socialdesk/internal/types"
)

// InMemoryPostStore implements post.Repository
type InMemoryPostStore struct {
	*InMemoryStore[*post.Post]
}

func NewInMemoryPostStore() *InMemoryPostStore {
	return &InMemoryPostStore{
		InMemoryStore: NewInMemoryStore[*post.Post](),
	}
}

func postFilterFn(ctx context.Context, p *post.Post, filter interface{}) bool {
	if p == nil || !CheckTenantFilter(ctx, p.TenantID) {
		return false
	}

	f, ok := filter.(*types.PostFilter)
	if !ok {
		return p.Status == types.StatusPublished
	}
	if !CheckStatusFilter(f.QueryFilter, p.Status) {
		return false
	}
	if f.WorkspaceID != "" && p.WorkspaceID != f.WorkspaceID {
		return false
	}
	if len(f.PostStatuses) > 0 && !lo.Contains(f.PostStatuses, p.PostStatus) {
		return false
	}
	if f.ScheduledFrom != nil && (p.ScheduledAt == nil || p.ScheduledAt.Before(*f.ScheduledFrom)) {
		return false
	}
	if f.ScheduledTo != nil && (p.ScheduledAt == nil || !p.ScheduledAt.Before(*f.ScheduledTo)) {
		return false
	}
	if f.TimeRangeFilter != nil {
		if f.StartTime != nil && p.CreatedAt.Before(*f.StartTime) {
			return false
		}
		if f.EndTime != nil && p.CreatedAt.After(*f.EndTime) {
			return false
		}
	}
	return true
}

func (s *InMemoryPostStore) Create(ctx context.Context, p *post.Post) error {
	return s.InMemoryStore.Create(ctx, p.ID, p)
}

func (s *InMemoryPostStore) Get(ctx context.Context, id string) (*post.Post, error) {
	p, err := s.InMemoryStore.Get(ctx, id)
	if err != nil || !CheckTenantFilter(ctx, p.TenantID) || p.Status != types.StatusPublished {
		return nil, notFound(id)
	}
	return p, nil
}

func (s *InMemoryPostStore) List(ctx context.Context, filter *types.PostFilter) ([]*post.Post, error) {
	return s.InMemoryStore.List(ctx, filter, postFilterFn, func(i, j *post.Post) bool {
		return i.CreatedAt.After(j.CreatedAt)
	})
}

func (s *InMemoryPostStore) Count(ctx context.Context, filter *types.PostFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, postFilterFn)
}

func (s *InMemoryPostStore) Update(ctx context.Context, p *post.Post) error {
	p.UpdatedAt = time.Now().UTC()
	return s.InMemoryStore.Update(ctx, p.ID, p)
}
