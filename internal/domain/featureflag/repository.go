package featureflag

import (
	"context"

	"github.com/socialdesk/socialdesk/internal/types"
)

type Repository interface {
	Create(ctx context.Context, flag *FeatureFlag) error
	Get(ctx context.Context, id string) (*FeatureFlag, error)
	GetByKey(ctx context.Context, key string) (*FeatureFlag, error)
	List(ctx context.Context, filter *types.FeatureFlagFilter) ([]*FeatureFlag, error)
	Update(ctx context.Context, flag *FeatureFlag) error
	Delete(ctx context.Context, id string) error
}
