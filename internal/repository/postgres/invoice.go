package postgres

import (
	"context"
	"time"

	"github.com/lib/pq"
	"github.com/samber/lo"
	"github.com/socialdesk/socialdesk/internal/domain/invoice"
	"github.com/socialdesk/socialdesk/internal/logger"
	"github.com/socialdesk/socialdesk/internal/postgres"
	"github.com/socialdesk/socialdesk/internal/types"
)

type invoiceRepository struct {
	db  *postgres.DB
	log *logger.Logger
}

func NewInvoiceRepository(db *postgres.DB, log *logger.Logger) invoice.Repository {
	return &invoiceRepository{db: db, log: log}
}

var invoiceSortFields = withDefaults(map[string]string{
	"issued_at": "issued_at",
	"due_at":    "due_at",
	"total":     "total",
})

func (r *invoiceRepository) Create(ctx context.Context, inv *invoice.Invoice) error {
	r.log.Debugw("creating invoice",
		"invoice_id", inv.ID,
		"tenant_id", inv.TenantID,
		"line_items", len(inv.LineItems),
	)

	return r.db.WithTx(ctx, func(ctx context.Context) error {
		query := `
			INSERT INTO invoices (
				id, tenant_id, subscription_id, invoice_number, invoice_status, currency,
				subtotal, tax_rate, tax_amount, total, period_start, period_end,
				issued_at, due_at, paid_at, voided_at, pdf_object_key, gateway_payment_id,
				status, created_at, updated_at, created_by, updated_by
			) VALUES (
				:id, :tenant_id, :subscription_id, :invoice_number, :invoice_status, :currency,
				:subtotal, :tax_rate, :tax_amount, :total, :period_start, :period_end,
				:issued_at, :due_at, :paid_at, :voided_at, :pdf_object_key, :gateway_payment_id,
				:status, :created_at, :updated_at, :created_by, :updated_by
			)`

		if _, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, inv); err != nil {
			return wrapWriteError(err, "Invoice", map[string]any{"invoice_number": inv.InvoiceNumber})
		}

		for _, item := range inv.LineItems {
			item.InvoiceID = inv.ID
			item.TenantID = inv.TenantID
			if item.ID == "" {
				item.ID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE_LINE_ITEM)
			}
			if item.CreatedAt.IsZero() {
				item.CreatedAt = inv.CreatedAt
			}
			_, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, `
				INSERT INTO invoice_line_items (id, tenant_id, invoice_id, description, quantity, unit_amount, amount, created_at)
				VALUES (:id, :tenant_id, :invoice_id, :description, :quantity, :unit_amount, :amount, :created_at)`, item)
			if err != nil {
				return wrapWriteError(err, "Invoice line item", map[string]any{"invoice_id": inv.ID})
			}
		}
		return nil
	})
}

func (r *invoiceRepository) Get(ctx context.Context, id string) (*invoice.Invoice, error) {
	var inv invoice.Invoice
	err := r.db.GetQuerier(ctx).GetContext(ctx, &inv,
		`SELECT * FROM invoices WHERE id = $1 AND tenant_id = $2 AND status = $3`,
		id, types.GetTenantID(ctx), types.StatusPublished)
	if err != nil {
		return nil, wrapGetError(err, "Invoice", map[string]any{"invoice_id": id})
	}

	if err := r.loadLineItems(ctx, []*invoice.Invoice{&inv}); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *invoiceRepository) loadLineItems(ctx context.Context, invoices []*invoice.Invoice) error {
	if len(invoices) == 0 {
		return nil
	}
	ids := lo.Map(invoices, func(inv *invoice.Invoice, _ int) string { return inv.ID })

	var items []*invoice.LineItem
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &items,
		`SELECT * FROM invoice_line_items WHERE invoice_id = ANY($1) ORDER BY created_at, id`, pq.Array(ids))
	if err != nil {
		return wrapListError(err, "invoice line items")
	}

	byInvoice := lo.GroupBy(items, func(item *invoice.LineItem) string { return item.InvoiceID })
	for _, inv := range invoices {
		inv.LineItems = byInvoice[inv.ID]
	}
	return nil
}

func (r *invoiceRepository) applyFilter(ctx context.Context, q *listQuery, filter *types.InvoiceFilter) *listQuery {
	if filter.AllTenants {
		q = q.ApplyStatusFilter(filter.GetStatus())
	} else {
		q = ApplyBaseFilters(ctx, q, filter.QueryFilter)
	}
	q = q.WhereIn("id", filter.InvoiceIDs)
	q = q.WhereIn("invoice_status", lo.Map(filter.InvoiceStatuses, func(s types.InvoiceStatus, _ int) string { return string(s) }))
	if filter.SubscriptionID != "" {
		q = q.Where("subscription_id = ?", filter.SubscriptionID)
	}
	if filter.GatewayPaymentID != "" {
		q = q.Where("gateway_payment_id = ?", filter.GatewayPaymentID)
	}
	return q.ApplyTimeRange("created_at", filter.TimeRangeFilter)
}

func (r *invoiceRepository) List(ctx context.Context, filter *types.InvoiceFilter) ([]*invoice.Invoice, error) {
	if filter == nil {
		filter = types.NewInvoiceFilter()
	}
	q := r.applyFilter(ctx, newListQuery("invoices"), filter)
	q = ApplyQueryOptions(q, filter.QueryFilter, invoiceSortFields)

	query, args := q.Select("*")
	var invoices []*invoice.Invoice
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &invoices, query, args...); err != nil {
		return nil, wrapListError(err, "invoices")
	}
	if err := r.loadLineItems(ctx, invoices); err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *invoiceRepository) Count(ctx context.Context, filter *types.InvoiceFilter) (int, error) {
	if filter == nil {
		filter = types.NewInvoiceFilter()
	}
	query, args := r.applyFilter(ctx, newListQuery("invoices"), filter).Count()
	var count int
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &count, query, args...); err != nil {
		return 0, wrapListError(err, "invoices")
	}
	return count, nil
}

func (r *invoiceRepository) Update(ctx context.Context, inv *invoice.Invoice) error {
	r.log.Debugw("updating invoice", "invoice_id", inv.ID, "invoice_status", inv.InvoiceStatus)

	inv.UpdatedAt = time.Now().UTC()
	if by := types.GetUserID(ctx); by != "" {
		inv.UpdatedBy = by
	}

	result, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, `
		UPDATE invoices SET
			invoice_status = :invoice_status,
			issued_at = :issued_at,
			due_at = :due_at,
			paid_at = :paid_at,
			voided_at = :voided_at,
			pdf_object_key = :pdf_object_key,
			gateway_payment_id = :gateway_payment_id,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id AND tenant_id = :tenant_id AND status = 'published'`, inv)
	if err != nil {
		return wrapWriteError(err, "Invoice", map[string]any{"invoice_id": inv.ID})
	}
	return checkAffected(result, "Invoice", map[string]any{"invoice_id": inv.ID})
}
