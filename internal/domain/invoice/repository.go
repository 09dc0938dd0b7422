package invoice

import (
	"context"

	"github.com/socialdesk/socialdesk/internal/types"
)

type Repository interface {
	// Create stores the invoice together with its line items
	Create(ctx context.Context, inv *Invoice) error
	Get(ctx context.Context, id string) (*Invoice, error)
	List(ctx context.Context, filter *types.InvoiceFilter) ([]*Invoice, error)
	Count(ctx context.Context, filter *types.InvoiceFilter) (int, error)
	Update(ctx context.Context, inv *Invoice) error
}
