package dto

import (
	"github.com/shopspring/decimal"
	"github.com/socialdesk/socialdesk/internal/domain/plan"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
	"github.com/socialdesk/socialdesk/internal/types"
	"github.com/socialdesk/socialdesk/internal/validator"
)

type PlanResponse struct {
	*plan.Plan
}

type ListPlansResponse = types.ListResponse[*PlanResponse]

// UpsertPlanRequest creates the plan when the code is new and updates it otherwise
type UpsertPlanRequest struct {
	Code            string                       `json:"code" binding:"required" validate:"required,max=50"`
	Name            string                       `json:"name" binding:"required" validate:"required,max=255"`
	Description     string                       `json:"description" validate:"omitempty,max=1000"`
	Price           decimal.Decimal              `json:"price" swaggertype:"string"`
	Currency        string                       `json:"currency" validate:"omitempty,len=3"`
	BillingInterval types.BillingInterval        `json:"billing_interval" validate:"omitempty"`
	TrialDays       int                          `json:"trial_days" validate:"gte=0,lte=365"`
	GatewayPlanID   string                       `json:"gateway_plan_id" validate:"omitempty,max=255"`
	SortOrder       int                          `json:"sort_order"`
	IsPublic        bool                         `json:"is_public"`
	Limits          map[types.PlanLimitKey]int64 `json:"limits,omitempty"`
}

func (r *UpsertPlanRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.Price.IsNegative() {
		return ierr.NewError("price must not be negative").
			WithHint("Price must not be negative").
			Mark(ierr.ErrValidation)
	}
	if r.BillingInterval == "" {
		r.BillingInterval = types.BillingIntervalMonthly
	}
	if err := r.BillingInterval.Validate(); err != nil {
		return err
	}
	for key, value := range r.Limits {
		if err := validateLimit(key, value); err != nil {
			return err
		}
	}
	return nil
}

type SetPlanLimitRequest struct {
	LimitKey   types.PlanLimitKey `json:"limit_key" binding:"required" validate:"required"`
	LimitValue int64              `json:"limit_value"`
}

func (r *SetPlanLimitRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	return validateLimit(r.LimitKey, r.LimitValue)
}

func validateLimit(key types.PlanLimitKey, value int64) error {
	if err := key.Validate(); err != nil {
		return err
	}
	if value < types.UnlimitedQuota {
		return ierr.NewError("limit value must be -1 or greater").
			WithHint("Use -1 for unlimited").
			WithReportableDetails(map[string]any{
				"limit_key":   key,
				"limit_value": value,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// LimitUsage is the consumption of one quota
type LimitUsage struct {
	LimitKey  types.PlanLimitKey `json:"limit_key"`
	Limit     int64              `json:"limit"`
	Used      int64              `json:"used"`
	Remaining int64              `json:"remaining"`
	Unlimited bool               `json:"unlimited"`
}

type UsageResponse struct {
	PlanCode string        `json:"plan_code"`
	Limits   []*LimitUsage `json:"limits"`
}
