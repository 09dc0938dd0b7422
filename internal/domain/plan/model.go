package plan

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/socialdesk/socialdesk/internal/types"
)

// Plan is a subscription tier of the catalog. Plans are global, not tenant owned.
type Plan struct {
	ID              string                `db:"id" json:"id"`
	Code            string                `db:"code" json:"code"`
	Name            string                `db:"name" json:"name"`
	Description     string                `db:"description" json:"description"`
	Price           decimal.Decimal       `db:"price" json:"price" swaggertype:"string"`
	Currency        string                `db:"currency" json:"currency"`
	BillingInterval types.BillingInterval `db:"billing_interval" json:"billing_interval"`
	TrialDays       int                   `db:"trial_days" json:"trial_days"`
	GatewayPlanID   string                `db:"gateway_plan_id" json:"-"`
	SortOrder       int                   `db:"sort_order" json:"sort_order"`
	IsPublic        bool                  `db:"is_public" json:"is_public"`
	Status          types.Status          `db:"status" json:"status"`
	CreatedAt       time.Time             `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time             `db:"updated_at" json:"updated_at"`
	CreatedBy       string                `db:"created_by" json:"created_by"`
	UpdatedBy       string                `db:"updated_by" json:"updated_by"`

	// Limits is loaded separately and is keyed by limit key
	Limits map[types.PlanLimitKey]int64 `db:"-" json:"limits,omitempty"`
}

func (p *Plan) IsFree() bool {
	return p.Price.IsZero()
}

// GetLimit returns the quota for key; a key missing from the plan means no allowance
func (p *Plan) GetLimit(key types.PlanLimitKey) int64 {
	if p.Limits == nil {
		return 0
	}
	return p.Limits[key]
}

// Limit is a per plan quota
type Limit struct {
	ID         string             `db:"id" json:"id"`
	PlanCode   string             `db:"plan_code" json:"plan_code"`
	LimitKey   types.PlanLimitKey `db:"limit_key" json:"limit_key"`
	LimitValue int64              `db:"limit_value" json:"limit_value"`
	CreatedAt  time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `db:"updated_at" json:"updated_at"`
}

func (l *Limit) IsUnlimited() bool {
	return l.LimitValue == types.UnlimitedQuota
}

// Allows reports whether used plus increment stays within the quota
func Allows(limit, used, increment int64) bool {
	if limit == types.UnlimitedQuota {
		return true
	}
	return used+increment <= limit
}
