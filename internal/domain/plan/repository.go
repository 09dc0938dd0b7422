package plan

import (
	"context"

	"github.com/socialdesk/socialdesk/internal/types"
)

type Repository interface {
	Create(ctx context.Context, plan *Plan) error
	GetByCode(ctx context.Context, code string) (*Plan, error)
	List(ctx context.Context, filter *types.PlanFilter) ([]*Plan, error)
	Update(ctx context.Context, plan *Plan) error

	ListLimits(ctx context.Context, planCodes []string) ([]*Limit, error)
	// UpsertLimit inserts or replaces the limit for (plan_code, limit_key)
	UpsertLimit(ctx context.Context, limit *Limit) error
}
