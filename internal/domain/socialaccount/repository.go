package socialaccount

import (
	"context"

	"github.com/socialdesk/socialdesk/internal/types"
)

type Repository interface {
	Create(ctx context.Context, account *SocialAccount) error
	Get(ctx context.Context, id string) (*SocialAccount, error)
	List(ctx context.Context, filter *types.SocialAccountFilter) ([]*SocialAccount, error)
	Count(ctx context.Context, filter *types.SocialAccountFilter) (int, error)
	Update(ctx context.Context, account *SocialAccount) error
	Delete(ctx context.Context, id string) error
}
