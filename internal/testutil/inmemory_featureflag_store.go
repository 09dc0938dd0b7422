package testutil

import (
	"context"
	"time"

	"github.com/samber/lo"
	"github.com/socialdesk/socialdesk/internal/domain/featureflag"
	"github.com/socialdesk/socialdesk/internal/types"
)

// InMemoryFeatureFlagStore implements featureflag.Repository. Flags are global.
type InMemoryFeatureFlagStore struct {
	*InMemoryStore[*featureflag.FeatureFlag]
}

func NewInMemoryFeatureFlagStore() *InMemoryFeatureFlagStore {
	return &InMemoryFeatureFlagStore{
		InMemoryStore: NewInMemoryStore[*featureflag.FeatureFlag](),
	}
}

func featureFlagFilterFn(ctx context.Context, f *featureflag.FeatureFlag, filter interface{}) bool {
	if f == nil {
		return false
	}
	ff, ok := filter.(*types.FeatureFlagFilter)
	if !ok {
		return f.Status == types.StatusPublished
	}
	if !CheckStatusFilter(ff.QueryFilter, f.Status) {
		return false
	}
	return len(ff.Keys) == 0 || lo.Contains(ff.Keys, f.Key)
}

func (s *InMemoryFeatureFlagStore) Create(ctx context.Context, f *featureflag.FeatureFlag) error {
	if _, err := s.GetByKey(ctx, f.Key); err == nil {
		return alreadyExists("feature flag", f.Key)
	}
	return s.InMemoryStore.Create(ctx, f.ID, f)
}

func (s *InMemoryFeatureFlagStore) Get(ctx context.Context, id string) (*featureflag.FeatureFlag, error) {
	f, err := s.InMemoryStore.Get(ctx, id)
	if err != nil || f.Status != types.StatusPublished {
		return nil, notFound(id)
	}
	return f, nil
}

func (s *InMemoryFeatureFlagStore) GetByKey(ctx context.Context, key string) (*featureflag.FeatureFlag, error) {
	f, ok := s.Find(func(f *featureflag.FeatureFlag) bool {
		return f.Key == key && f.Status == types.StatusPublished
	})
	if !ok {
		return nil, notFound(key)
	}
	return f, nil
}

func (s *InMemoryFeatureFlagStore) List(ctx context.Context, filter *types.FeatureFlagFilter) ([]*featureflag.FeatureFlag, error) {
	return s.InMemoryStore.List(ctx, filter, featureFlagFilterFn, func(i, j *featureflag.FeatureFlag) bool {
		return i.Key < j.Key
	})
}

func (s *InMemoryFeatureFlagStore) Update(ctx context.Context, f *featureflag.FeatureFlag) error {
	f.UpdatedAt = time.Now().UTC()
	return s.InMemoryStore.Update(ctx, f.ID, f)
}

func (s *InMemoryFeatureFlagStore) Delete(ctx context.Context, id string) error {
	f, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	f.Status = types.StatusDeleted
	return nil
}
