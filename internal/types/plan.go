package types

import (
	"github.com/samber/lo"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
)

// UnlimitedQuota marks a plan limit without an upper bound
const UnlimitedQuota int64 = -1

// BillingInterval is how often a plan is charged
type BillingInterval string

const (
	BillingIntervalMonthly BillingInterval = "monthly"
	BillingIntervalYearly  BillingInterval = "yearly"
)

func (b BillingInterval) Validate() error {
	allowed := []BillingInterval{BillingIntervalMonthly, BillingIntervalYearly}
	if !lo.Contains(allowed, b) {
		return ierr.NewError("invalid billing interval").
			WithHint("Invalid billing interval").
			WithReportableDetails(map[string]any{
				"billing_interval": b,
				"allowed":          allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// PlanLimitKey names a quota enforced per tenant
type PlanLimitKey string

const (
	PlanLimitWorkspaces               PlanLimitKey = "workspaces"
	PlanLimitSocialAccounts           PlanLimitKey = "social_accounts"
	PlanLimitTeamMembers              PlanLimitKey = "team_members"
	PlanLimitScheduledPostsPerMonth   PlanLimitKey = "scheduled_posts_per_month"
	PlanLimitWhatsAppMessagesPerMonth PlanLimitKey = "whatsapp_messages_per_month"
	PlanLimitWhatsAppNumbers          PlanLimitKey = "whatsapp_numbers"
)

// AllPlanLimitKeys lists every quota in display order
var AllPlanLimitKeys = []PlanLimitKey{
	PlanLimitWorkspaces,
	PlanLimitSocialAccounts,
	PlanLimitTeamMembers,
	PlanLimitScheduledPostsPerMonth,
	PlanLimitWhatsAppMessagesPerMonth,
	PlanLimitWhatsAppNumbers,
}

func (k PlanLimitKey) Validate() error {
	if !lo.Contains(AllPlanLimitKeys, k) {
		return ierr.NewError("invalid plan limit key").
			WithHint("Invalid plan limit key").
			WithReportableDetails(map[string]any{
				"key":     k,
				"allowed": AllPlanLimitKeys,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

type PlanFilter struct {
	*QueryFilter
	Codes      []string `json:"codes,omitempty" form:"codes"`
	PublicOnly bool     `json:"public_only,omitempty" form:"public_only"`
}

func NewPlanFilter() *PlanFilter {
	return &PlanFilter{QueryFilter: NewNoLimitQueryFilter()}
}

func (f *PlanFilter) Validate() error {
	if f == nil {
		return nil
	}
	return f.QueryFilter.Validate()
}
