package subscription

import (
	"context"

	"github.com/socialdesk/socialdesk/internal/types"
)

type Repository interface {
	Create(ctx context.Context, sub *Subscription) error
	Get(ctx context.Context, id string) (*Subscription, error)
	// GetCurrent returns the tenant's subscription in a current status or a not found error
	GetCurrent(ctx context.Context) (*Subscription, error)
	GetByGatewayID(ctx context.Context, gatewaySubscriptionID string) (*Subscription, error)
	List(ctx context.Context, filter *types.SubscriptionFilter) ([]*Subscription, error)
	Count(ctx context.Context, filter *types.SubscriptionFilter) (int, error)
	Update(ctx context.Context, sub *Subscription) error
}
