package featureflag

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBucketIsStable(t *testing.T) {
	for i := 0; i < 50; i++ {
		id := fmt.Sprintf("tenant_%d", i)
		b := Bucket("new-composer", id)
		assert.Equal(t, b, Bucket("new-composer", id))
		assert.GreaterOrEqual(t, b, 0)
		assert.Less(t, b, 100)
	}
}

func TestIsEnabledWithRollout(t *testing.T) {
	tests := []struct {
		name    string
		enabled bool
		rollout int
		want    bool
	}{
		{name: "disabled flag", enabled: false, rollout: 100, want: false},
		{name: "full rollout", enabled: true, rollout: 100, want: true},
		{name: "no rollout", enabled: true, rollout: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &FeatureFlag{Key: "inbox", Enabled: tt.enabled, RolloutPercentage: tt.rollout}
			for i := 0; i < 20; i++ {
				assert.Equal(t, tt.want, f.IsEnabledWithRollout(fmt.Sprintf("tenant_%d", i)))
			}
		})
	}
}

func TestPartialRolloutMatchesBucket(t *testing.T) {
	f := &FeatureFlag{Key: "inbox", Enabled: true, RolloutPercentage: 30}

	on := 0
	for i := 0; i < 1000; i++ {
		id := fmt.Sprintf("tenant_%d", i)
		got := f.IsEnabledWithRollout(id)
		assert.Equal(t, Bucket(f.Key, id) < 30, got)
		if got {
			on++
		}
	}
	assert.InDelta(t, 300, on, 80)
}

func TestIsEnabledFor(t *testing.T) {
	f := &FeatureFlag{
		Key:              "whatsapp-inbox",
		Enabled:          true,
		AllowedTenantIDs: []string{"tenant_a"},
		AllowedPlanCodes: []string{"pro"},
	}

	assert.True(t, f.IsEnabledFor("tenant_a", "free"))
	assert.True(t, f.IsEnabledFor("tenant_b", "pro"))
	assert.False(t, f.IsEnabledFor("tenant_b", "free"))
	assert.False(t, f.IsEnabledFor("tenant_b", ""))

	f.Enabled = false
	assert.False(t, f.IsEnabledFor("tenant_a", "pro"))
}
