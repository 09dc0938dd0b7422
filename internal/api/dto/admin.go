package dto

import (
	"github.com/shopspring/decimal"
)

// DashboardStatsResponse is the super-admin overview
type DashboardStatsResponse struct {
	TenantCount               int             `json:"tenant_count"`
	SuspendedTenantCount      int             `json:"suspended_tenant_count"`
	ActiveSubscriptionCount   int             `json:"active_subscription_count"`
	MRR                       decimal.Decimal `json:"mrr" swaggertype:"string"`
	Currency                  string          `json:"currency"`
	WhatsAppMessagesThisMonth int             `json:"whatsapp_messages_this_month"`
	OpenInvoiceCount          int             `json:"open_invoice_count"`
}
