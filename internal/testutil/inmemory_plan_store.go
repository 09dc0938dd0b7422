package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/socialdesk/socialdesk/internal/domain/plan"
	"github.com/socialdesk/socialdesk/internal/types"
)

// InMemoryPlanStore implements plan.Repository. Plans are global and keyed by code.
type InMemoryPlanStore struct {
	*InMemoryStore[*plan.Plan]

	mu     sync.RWMutex
	limits map[string]*plan.Limit
}

func NewInMemoryPlanStore() *InMemoryPlanStore {
	return &InMemoryPlanStore{
		InMemoryStore: NewInMemoryStore[*plan.Plan](),
		limits:        make(map[string]*plan.Limit),
	}
}

func planFilterFn(ctx context.Context, p *plan.Plan, filter interface{}) bool {
	if p == nil {
		return false
	}

	f, ok := filter.(*types.PlanFilter)
	if !ok {
		return true
	}
	if !CheckStatusFilter(f.QueryFilter, p.Status) {
		return false
	}
	if len(f.Codes) > 0 && !lo.Contains(f.Codes, p.Code) {
		return false
	}
	if f.PublicOnly && !p.IsPublic {
		return false
	}
	return true
}

func planSortFn(i, j *plan.Plan) bool {
	if i.SortOrder != j.SortOrder {
		return i.SortOrder < j.SortOrder
	}
	return i.Code < j.Code
}

func (s *InMemoryPlanStore) Create(ctx context.Context, p *plan.Plan) error {
	if p.Status == "" {
		p.Status = types.StatusPublished
	}
	return s.InMemoryStore.Create(ctx, p.Code, p)
}

func (s *InMemoryPlanStore) GetByCode(ctx context.Context, code string) (*plan.Plan, error) {
	p, err := s.InMemoryStore.Get(ctx, code)
	if err != nil || p.Status != types.StatusPublished {
		return nil, notFound(code)
	}
	return p, nil
}

func (s *InMemoryPlanStore) List(ctx context.Context, filter *types.PlanFilter) ([]*plan.Plan, error) {
	return s.InMemoryStore.List(ctx, filter, planFilterFn, planSortFn)
}

func (s *InMemoryPlanStore) Update(ctx context.Context, p *plan.Plan) error {
	p.UpdatedAt = time.Now().UTC()
	return s.InMemoryStore.Update(ctx, p.Code, p)
}

func (s *InMemoryPlanStore) ListLimits(ctx context.Context, planCodes []string) ([]*plan.Limit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*plan.Limit
	for _, l := range s.limits {
		if lo.Contains(planCodes, l.PlanCode) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *InMemoryPlanStore) UpsertLimit(ctx context.Context, l *plan.Limit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.limits[l.PlanCode+":"+string(l.LimitKey)] = l
	return nil
}

// Clear removes plans and limits
func (s *InMemoryPlanStore) Clear() {
	s.InMemoryStore.Clear()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.limits = make(map[string]*plan.Limit)
}
