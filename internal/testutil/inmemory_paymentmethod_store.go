package testutil

import (
	"context"
	"time"

	"github.com/samber/lo"
	"github.com/socialdesk/socialdesk/internal/domain/paymentmethod"
	"github.com/socialdesk/socialdesk/internal/types"
)

// InMemoryPaymentMethodStore implements paymentmethod.Repository
type InMemoryPaymentMethodStore struct {
	*InMemoryStore[*paymentmethod.PaymentMethod]
}

func NewInMemoryPaymentMethodStore() *InMemoryPaymentMethodStore {
	return &InMemoryPaymentMethodStore{
		InMemoryStore: NewInMemoryStore[*paymentmethod.PaymentMethod](),
	}
}

func paymentMethodFilterFn(ctx context.Context, pm *paymentmethod.PaymentMethod, filter interface{}) bool {
	if pm == nil || !CheckTenantFilter(ctx, pm.TenantID) {
		return false
	}

	f, ok := filter.(*types.PaymentMethodFilter)
	if !ok {
		return pm.Status == types.StatusPublished
	}
	if !CheckStatusFilter(f.QueryFilter, pm.Status) {
		return false
	}
	if len(f.PaymentMethodIDs) > 0 && !lo.Contains(f.PaymentMethodIDs, pm.ID) {
		return false
	}
	if f.IsDefault != nil && pm.IsDefault != *f.IsDefault {
		return false
	}
	if f.GatewayPaymentMethodID != "" && pm.GatewayPaymentMethodID != f.GatewayPaymentMethodID {
		return false
	}
	return true
}

// copyPaymentMethod detaches a stored row from the caller, the way a database read does
func copyPaymentMethod(pm *paymentmethod.PaymentMethod) *paymentmethod.PaymentMethod {
	c := *pm
	return &c
}

func (s *InMemoryPaymentMethodStore) Create(ctx context.Context, pm *paymentmethod.PaymentMethod) error {
	return s.InMemoryStore.Create(ctx, pm.ID, copyPaymentMethod(pm))
}

func (s *InMemoryPaymentMethodStore) Get(ctx context.Context, id string) (*paymentmethod.PaymentMethod, error) {
	pm, err := s.InMemoryStore.Get(ctx, id)
	if err != nil || !CheckTenantFilter(ctx, pm.TenantID) || pm.Status != types.StatusPublished {
		return nil, notFound(id)
	}
	return copyPaymentMethod(pm), nil
}

func (s *InMemoryPaymentMethodStore) List(ctx context.Context, filter *types.PaymentMethodFilter) ([]*paymentmethod.PaymentMethod, error) {
	methods, err := s.InMemoryStore.List(ctx, filter, paymentMethodFilterFn, func(i, j *paymentmethod.PaymentMethod) bool {
		return i.CreatedAt.After(j.CreatedAt)
	})
	if err != nil {
		return nil, err
	}
	return lo.Map(methods, func(pm *paymentmethod.PaymentMethod, _ int) *paymentmethod.PaymentMethod {
		return copyPaymentMethod(pm)
	}), nil
}

func (s *InMemoryPaymentMethodStore) Count(ctx context.Context, filter *types.PaymentMethodFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, paymentMethodFilterFn)
}

func (s *InMemoryPaymentMethodStore) Update(ctx context.Context, pm *paymentmethod.PaymentMethod) error {
	pm.UpdatedAt = time.Now().UTC()
	return s.InMemoryStore.Update(ctx, pm.ID, copyPaymentMethod(pm))
}

func (s *InMemoryPaymentMethodStore) Delete(ctx context.Context, id string) error {
	pm, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	pm.Status = types.StatusDeleted
	return s.InMemoryStore.Update(ctx, id, pm)
}

func (s *InMemoryPaymentMethodStore) UnsetDefault(ctx context.Context) error {
	tenantID := types.GetTenantID(ctx)
	s.Each(func(pm *paymentmethod.PaymentMethod) {
		if pm.TenantID == tenantID {
			pm.IsDefault = false
		}
	})
	return nil
}

// DefaultCount returns the number of default methods of the tenant in ctx
func (s *InMemoryPaymentMethodStore) DefaultCount(ctx context.Context) int {
	count, _ := s.Count(ctx, &types.PaymentMethodFilter{
		QueryFilter: types.NewNoLimitQueryFilter(),
		IsDefault:   lo.ToPtr(true),
	})
	return count
}
