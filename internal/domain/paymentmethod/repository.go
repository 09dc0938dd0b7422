package paymentmethod

import (
	"context"

	"github.com/socialdesk/socialdesk/internal/types"
)

type Repository interface {
	Create(ctx context.Context, pm *PaymentMethod) error
	Get(ctx context.Context, id string) (*PaymentMethod, error)
	List(ctx context.Context, filter *types.PaymentMethodFilter) ([]*PaymentMethod, error)
	Count(ctx context.Context, filter *types.PaymentMethodFilter) (int, error)
	Update(ctx context.Context, pm *PaymentMethod) error
	Delete(ctx context.Context, id string) error
	// UnsetDefault clears is_default on every method of the tenant
	UnsetDefault(ctx context.Context) error
}
