package post

import (
	"context"

	"github.com/socialdesk/socialdesk/internal/types"
)

type Repository interface {
	Create(ctx context.Context, post *Post) error
	Get(ctx context.Context, id string) (*Post, error)
	List(ctx context.Context, filter *types.PostFilter) ([]*Post, error)
	Count(ctx context.Context, filter *types.PostFilter) (int, error)
	Update(ctx context.Context, post *Post) error
}
