package testutil

import (
	"context"
	"time"

	"github.com/samber/lo"
	"github.com/socialdesk/socialdesk/internal/domain/invoice"
	"github.com/socialdesk/socialdesk/internal/types"
)

// InMemoryInvoiceStore implements invoice.Repository, line items are kept on the invoice
type InMemoryInvoiceStore struct {
	*InMemoryStore[*invoice.Invoice]
}

func NewInMemoryInvoiceStore() *InMemoryInvoiceStore {
	return &InMemoryInvoiceStore{
		InMemoryStore: NewInMemoryStore[*invoice.Invoice](),
	}
}

func invoiceFilterFn(ctx context.Context, inv *invoice.Invoice, filter interface{}) bool {
	if inv == nil {
		return false
	}

	f, ok := filter.(*types.InvoiceFilter)
	if !ok {
		return CheckTenantFilter(ctx, inv.TenantID) && inv.Status == types.StatusPublished
	}
	if !f.AllTenants && !CheckTenantFilter(ctx, inv.TenantID) {
		return false
	}
	if !CheckStatusFilter(f.QueryFilter, inv.Status) {
		return false
	}
	if len(f.InvoiceIDs) > 0 && !lo.Contains(f.InvoiceIDs, inv.ID) {
		return false
	}
	if f.SubscriptionID != "" && inv.SubscriptionID != f.SubscriptionID {
		return false
	}
	if len(f.InvoiceStatuses) > 0 && !lo.Contains(f.InvoiceStatuses, inv.InvoiceStatus) {
		return false
	}
	if f.GatewayPaymentID != "" && inv.GatewayPaymentID != f.GatewayPaymentID {
		return false
	}
	if f.TimeRangeFilter != nil {
		if f.StartTime != nil && inv.CreatedAt.Before(*f.StartTime) {
			return false
		}
		if f.EndTime != nil && inv.CreatedAt.After(*f.EndTime) {
			return false
		}
	}
	return true
}

// copyInvoice detaches a stored invoice from the caller, the way a database read does
func copyInvoice(inv *invoice.Invoice) *invoice.Invoice {
	c := *inv
	c.LineItems = lo.Map(inv.LineItems, func(li *invoice.LineItem, _ int) *invoice.LineItem {
		item := *li
		return &item
	})
	return &c
}

func (s *InMemoryInvoiceStore) Create(ctx context.Context, inv *invoice.Invoice) error {
	return s.InMemoryStore.Create(ctx, inv.ID, copyInvoice(inv))
}

func (s *InMemoryInvoiceStore) Get(ctx context.Context, id string) (*invoice.Invoice, error) {
	inv, err := s.InMemoryStore.Get(ctx, id)
	if err != nil || !CheckTenantFilter(ctx, inv.TenantID) || inv.Status != types.StatusPublished {
		return nil, notFound(id)
	}
	return copyInvoice(inv), nil
}

func (s *InMemoryInvoiceStore) List(ctx context.Context, filter *types.InvoiceFilter) ([]*invoice.Invoice, error) {
	invoices, err := s.InMemoryStore.List(ctx, filter, invoiceFilterFn, func(i, j *invoice.Invoice) bool {
		return i.CreatedAt.After(j.CreatedAt)
	})
	if err != nil {
		return nil, err
	}
	return lo.Map(invoices, func(inv *invoice.Invoice, _ int) *invoice.Invoice {
		return copyInvoice(inv)
	}), nil
}

func (s *InMemoryInvoiceStore) Count(ctx context.Context, filter *types.InvoiceFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, invoiceFilterFn)
}

func (s *InMemoryInvoiceStore) Update(ctx context.Context, inv *invoice.Invoice) error {
	inv.UpdatedAt = time.Now().UTC()
	return s.InMemoryStore.Update(ctx, inv.ID, copyInvoice(inv))
}
