package pdf

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceData represents the data model for invoice PDF generation
type InvoiceData struct {
	ID            string          `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	InvoiceStatus string          `json:"invoice_status"`
	Currency      string          `json:"currency"`
	IssuingDate   time.Time       `json:"issuing_date"`
	DueDate       time.Time       `json:"due_date"`
	PeriodStart   *time.Time      `json:"period_start,omitempty"`
	PeriodEnd     *time.Time      `json:"period_end,omitempty"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxRate       decimal.Decimal `json:"tax_rate"` // 0.18 = 18%
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	Total         decimal.Decimal `json:"total"`
	Notes         string          `json:"notes,omitempty"`

	Biller    *BillerInfo    `json:"biller"`
	Recipient *RecipientInfo `json:"recipient"`

	LineItems []LineItemData `json:"line_items"`
}

// BillerInfo contains company information for the invoice issuer
type BillerInfo struct {
	Name      string   `json:"name"`
	Email     string   `json:"email,omitempty"`
	Website   string   `json:"website,omitempty"`
	Address   []string `json:"address,omitempty"`
	TaxNumber string   `json:"tax_number,omitempty"`
}

// RecipientInfo contains customer information for the invoice recipient
type RecipientInfo struct {
	Name      string   `json:"name"`
	Email     string   `json:"email,omitempty"`
	Address   []string `json:"address,omitempty"`
	Country   string   `json:"country,omitempty"`
	TaxNumber string   `json:"tax_number,omitempty"`
}

// LineItemData represents an invoice line item for PDF generation
type LineItemData struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitAmount  decimal.Decimal `json:"unit_amount"`
	Amount      decimal.Decimal `json:"amount"`
}
