package tenant

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/socialdesk/socialdesk/internal/types"
)

// Tenant is the billing and organisational unit owning users, workspaces and a subscription
type Tenant struct {
	ID                string             `db:"id" json:"id"`
	Name              string             `db:"name" json:"name"`
	Slug              string             `db:"slug" json:"slug"`
	BillingEmail      string             `db:"billing_email" json:"billing_email"`
	BillingAddress    BillingAddress     `db:"billing_address" json:"billing_address"`
	Country           string             `db:"country" json:"country"`
	TenantStatus      types.TenantStatus `db:"tenant_status" json:"tenant_status"`
	GatewayCustomerID string             `db:"gateway_customer_id" json:"-"`
	Status            types.Status       `db:"status" json:"status"`
	CreatedAt         time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time          `db:"updated_at" json:"updated_at"`
	CreatedBy         string             `db:"created_by" json:"created_by"`
	UpdatedBy         string             `db:"updated_by" json:"updated_by"`
}

func (t *Tenant) IsSuspended() bool {
	return t.TenantStatus == types.TenantStatusSuspended
}

// BillingAddress is printed on invoices
type BillingAddress struct {
	Line1      string `json:"line1,omitempty"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	TaxID      string `json:"tax_id,omitempty"`
}

// Lines returns the non empty address lines in print order
func (a BillingAddress) Lines() []string {
	var lines []string
	for _, l := range []string{a.Line1, a.Line2, a.City, a.State, a.PostalCode} {
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

func (a *BillingAddress) Scan(value interface{}) error {
	if value == nil {
		*a = BillingAddress{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("failed to unmarshal billing address: %v", value)
	}
	return json.Unmarshal(bytes, a)
}

func (a BillingAddress) Value() (driver.Value, error) {
	return json.Marshal(a)
}
