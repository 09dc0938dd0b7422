package featureflag

import (
	"hash/crc32"
	"time"

	"github.com/samber/lo"
	"github.com/socialdesk/socialdesk/internal/types"
)

// FeatureFlag gates a feature globally, per tenant, per plan or by percentage rollout
type FeatureFlag struct {
	ID                string           `db:"id" json:"id"`
	Key               string           `db:"flag_key" json:"key"`
	Description       string           `db:"description" json:"description"`
	Enabled           bool             `db:"enabled" json:"enabled"`
	RolloutPercentage int              `db:"rollout_percentage" json:"rollout_percentage"`
	AllowedTenantIDs  types.StringList `db:"allowed_tenant_ids" json:"allowed_tenant_ids"`
	AllowedPlanCodes  types.StringList `db:"allowed_plan_codes" json:"allowed_plan_codes"`
	Status            types.Status     `db:"status" json:"status"`
	CreatedAt         time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time        `db:"updated_at" json:"updated_at"`
	CreatedBy         string           `db:"created_by" json:"created_by"`
	UpdatedBy         string           `db:"updated_by" json:"updated_by"`
}

// IsEnabledWithRollout places identifier in one of 100 buckets derived from
// the flag key and returns true when the bucket falls under the rollout
// percentage. The same key and identifier always land in the same bucket.
func (f *FeatureFlag) IsEnabledWithRollout(identifier string) bool {
	if !f.Enabled {
		return false
	}
	if f.RolloutPercentage >= 100 {
		return true
	}
	if f.RolloutPercentage <= 0 {
		return false
	}
	return Bucket(f.Key, identifier) < f.RolloutPercentage
}

// Bucket returns a value in [0, 100) for the pair
func Bucket(key, identifier string) int {
	return int(crc32.ChecksumIEEE([]byte(key+":"+identifier)) % 100)
}

// IsEnabledFor resolves the flag for a tenant on a plan. Allow-lists win over
// the rollout; a disabled flag is off for everyone.
func (f *FeatureFlag) IsEnabledFor(tenantID, planCode string) bool {
	if !f.Enabled {
		return false
	}
	if lo.Contains(f.AllowedTenantIDs, tenantID) {
		return true
	}
	if planCode != "" && lo.Contains(f.AllowedPlanCodes, planCode) {
		return true
	}
	return f.IsEnabledWithRollout(tenantID)
}
