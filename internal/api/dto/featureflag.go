package dto

import (
	"regexp"

	"github.com/socialdesk/socialdesk/internal/domain/featureflag"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
	"github.com/socialdesk/socialdesk/internal/validator"
)

var flagKeyPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_.-]*$`)

type CreateFeatureFlagRequest struct {
	Key               string   `json:"key" binding:"required" validate:"required,max=100"`
	Description       string   `json:"description" validate:"omitempty,max=1000"`
	Enabled           bool     `json:"enabled"`
	RolloutPercentage int      `json:"rollout_percentage" validate:"gte=0,lte=100"`
	AllowedTenantIDs  []string `json:"allowed_tenant_ids,omitempty"`
	AllowedPlanCodes  []string `json:"allowed_plan_codes,omitempty"`
}

func (r *CreateFeatureFlagRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if !flagKeyPattern.MatchString(r.Key) {
		return ierr.NewError("invalid feature flag key").
			WithHint("Keys use lower case letters, digits, dots, dashes and underscores").
			WithReportableDetails(map[string]any{"key": r.Key}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

type UpdateFeatureFlagRequest struct {
	Description       *string  `json:"description,omitempty" validate:"omitempty,max=1000"`
	Enabled           *bool    `json:"enabled,omitempty"`
	RolloutPercentage *int     `json:"rollout_percentage,omitempty" validate:"omitempty,gte=0,lte=100"`
	AllowedTenantIDs  []string `json:"allowed_tenant_ids,omitempty"`
	AllowedPlanCodes  []string `json:"allowed_plan_codes,omitempty"`
}

func (r *UpdateFeatureFlagRequest) Validate() error {
	return validator.ValidateRequest(r)
}

type FeatureFlagResponse struct {
	*featureflag.FeatureFlag
}

// EvaluateFeatureFlagsResponse maps every flag key to its value for the caller's tenant
type EvaluateFeatureFlagsResponse struct {
	Flags map[string]bool `json:"flags"`
}
