package testutil

import (
	"context"
	"time"

	"github.com/samber/lo"
	"github.com/socialdesk/socialdesk/internal/domain/subscription"
	"github.com/socialdesk/socialdesk/internal/types"
)

// InMemorySubscriptionStore implements subscription.Repository
type InMemorySubscriptionStore struct {
	*InMemoryStore[*subscription.Subscription]
}

func NewInMemorySubscriptionStore() *InMemorySubscriptionStore {
	return &InMemorySubscriptionStore{
		InMemoryStore: NewInMemoryStore[*subscription.Subscription](),
	}
}

func subscriptionFilterFn(ctx context.Context, sub *subscription.Subscription, filter interface{}) bool {
	if sub == nil {
		return false
	}

	f, ok := filter.(*types.SubscriptionFilter)
	if !ok {
		return CheckTenantFilter(ctx, sub.TenantID) && sub.Status == types.StatusPublished
	}
	if !f.AllTenants && !CheckTenantFilter(ctx, sub.TenantID) {
		return false
	}
	if !CheckStatusFilter(f.QueryFilter, sub.Status) {
		return false
	}
	if len(f.SubscriptionIDs) > 0 && !lo.Contains(f.SubscriptionIDs, sub.ID) {
		return false
	}
	if len(f.SubscriptionStatuses) > 0 && !lo.Contains(f.SubscriptionStatuses, sub.SubscriptionStatus) {
		return false
	}
	if f.PlanCode != "" && sub.PlanCode != f.PlanCode {
		return false
	}
	if f.GatewaySubscriptionID != "" && sub.GatewaySubscriptionID != f.GatewaySubscriptionID {
		return false
	}
	if f.CancelAtPeriodEnd != nil && sub.CancelAtPeriodEnd != *f.CancelAtPeriodEnd {
		return false
	}
	if f.PeriodEndBefore != nil && sub.CurrentPeriodEnd.After(*f.PeriodEndBefore) {
		return false
	}
	return true
}

func subscriptionSortFn(i, j *subscription.Subscription) bool {
	return i.CreatedAt.After(j.CreatedAt)
}

// Create enforces the single current subscription per tenant like the partial unique index
func (s *InMemorySubscriptionStore) Create(ctx context.Context, sub *subscription.Subscription) error {
	if sub.IsCurrent() {
		if _, ok := s.Find(func(existing *subscription.Subscription) bool {
			return existing.TenantID == sub.TenantID &&
				existing.Status == types.StatusPublished &&
				existing.IsCurrent()
		}); ok {
			return alreadyExists("current subscription", sub.TenantID)
		}
	}
	return s.InMemoryStore.Create(ctx, sub.ID, sub)
}

func (s *InMemorySubscriptionStore) Get(ctx context.Context, id string) (*subscription.Subscription, error) {
	sub, err := s.InMemoryStore.Get(ctx, id)
	if err != nil || !CheckTenantFilter(ctx, sub.TenantID) || sub.Status != types.StatusPublished {
		return nil, notFound(id)
	}
	return sub, nil
}

func (s *InMemorySubscriptionStore) GetCurrent(ctx context.Context) (*subscription.Subscription, error) {
	tenantID := types.GetTenantID(ctx)
	current, err := s.InMemoryStore.List(ctx, nil, func(ctx context.Context, sub *subscription.Subscription, _ interface{}) bool {
		return sub.TenantID == tenantID && sub.Status == types.StatusPublished && sub.IsCurrent()
	}, subscriptionSortFn)
	if err != nil {
		return nil, err
	}
	if len(current) == 0 {
		return nil, notFound(tenantID)
	}
	return current[0], nil
}

func (s *InMemorySubscriptionStore) GetByGatewayID(ctx context.Context, gatewaySubscriptionID string) (*subscription.Subscription, error) {
	sub, ok := s.Find(func(sub *subscription.Subscription) bool {
		return sub.GatewaySubscriptionID == gatewaySubscriptionID && sub.Status == types.StatusPublished
	})
	if !ok {
		return nil, notFound(gatewaySubscriptionID)
	}
	return sub, nil
}

func (s *InMemorySubscriptionStore) List(ctx context.Context, filter *types.SubscriptionFilter) ([]*subscription.Subscription, error) {
	return s.InMemoryStore.List(ctx, filter, subscriptionFilterFn, subscriptionSortFn)
}

func (s *InMemorySubscriptionStore) Count(ctx context.Context, filter *types.SubscriptionFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, subscriptionFilterFn)
}

func (s *InMemorySubscriptionStore) Update(ctx context.Context, sub *subscription.Subscription) error {
	sub.UpdatedAt = time.Now().UTC()
	return s.InMemoryStore.Update(ctx, sub.ID, sub)
}
