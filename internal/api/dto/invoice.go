package dto

import (
	"time"

	"github.com/socialdesk/socialdesk/internal/domain/invoice"
	"github.com/socialdesk/socialdesk/internal/types"
)

type InvoiceResponse struct {
	*invoice.Invoice
}

type ListInvoicesResponse = types.ListResponse[*InvoiceResponse]

type MarkInvoicePaidRequest struct {
	PaidAt           *time.Time `json:"paid_at,omitempty"`
	GatewayPaymentID string     `json:"gateway_payment_id,omitempty"`
}

type InvoiceURLResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}
