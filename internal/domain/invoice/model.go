package invoice

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/socialdesk/socialdesk/internal/types"
)

type Invoice struct {
	ID               string              `db:"id" json:"id"`
	SubscriptionID   string              `db:"subscription_id" json:"subscription_id"`
	InvoiceNumber    string              `db:"invoice_number" json:"invoice_number"`
	InvoiceStatus    types.InvoiceStatus `db:"invoice_status" json:"invoice_status"`
	Currency         string              `db:"currency" json:"currency"`
	Subtotal         decimal.Decimal     `db:"subtotal" json:"subtotal" swaggertype:"string"`
	TaxRate          decimal.Decimal     `db:"tax_rate" json:"tax_rate" swaggertype:"string"`
	TaxAmount        decimal.Decimal     `db:"tax_amount" json:"tax_amount" swaggertype:"string"`
	Total            decimal.Decimal     `db:"total" json:"total" swaggertype:"string"`
	PeriodStart      *time.Time          `db:"period_start" json:"period_start,omitempty"`
	PeriodEnd        *time.Time          `db:"period_end" json:"period_end,omitempty"`
	IssuedAt         *time.Time          `db:"issued_at" json:"issued_at,omitempty"`
	DueAt            *time.Time          `db:"due_at" json:"due_at,omitempty"`
	PaidAt           *time.Time          `db:"paid_at" json:"paid_at,omitempty"`
	VoidedAt         *time.Time          `db:"voided_at" json:"voided_at,omitempty"`
	PDFObjectKey     string              `db:"pdf_object_key" json:"-"`
	GatewayPaymentID string              `db:"gateway_payment_id" json:"gateway_payment_id,omitempty"`

	LineItems []*LineItem `db:"-" json:"line_items,omitempty"`
	types.BaseModel
}

type LineItem struct {
	ID          string          `db:"id" json:"id"`
	TenantID    string          `db:"tenant_id" json:"-"`
	InvoiceID   string          `db:"invoice_id" json:"invoice_id"`
	Description string          `db:"description" json:"description"`
	Quantity    decimal.Decimal `db:"quantity" json:"quantity" swaggertype:"string"`
	UnitAmount  decimal.Decimal `db:"unit_amount" json:"unit_amount" swaggertype:"string"`
	Amount      decimal.Decimal `db:"amount" json:"amount" swaggertype:"string"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

// Totals holds the computed money columns of an invoice
type Totals struct {
	Subtotal  decimal.Decimal
	TaxAmount decimal.Decimal
	Total     decimal.Decimal
}

// ComputeTotals sums the line items and applies taxRate, rounding each money
// value to two decimals half away from zero
func ComputeTotals(items []*LineItem, taxRate decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Amount)
	}
	subtotal = subtotal.Round(2)
	tax := subtotal.Mul(taxRate).Round(2)
	return Totals{
		Subtotal:  subtotal,
		TaxAmount: tax,
		Total:     subtotal.Add(tax),
	}
}

// ApplyTotals sets the money columns from the line items
func (i *Invoice) ApplyTotals(taxRate decimal.Decimal) {
	t := ComputeTotals(i.LineItems, taxRate)
	i.TaxRate = taxRate
	i.Subtotal = t.Subtotal
	i.TaxAmount = t.TaxAmount
	i.Total = t.Total
}

func (i *Invoice) IsPayable() bool {
	return i.InvoiceStatus == types.InvoiceStatusIssued
}
