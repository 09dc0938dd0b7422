package plan

import (
	"testing"

	"github.com/socialdesk/socialdesk/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestAllows(t *testing.T) {
	tests := []struct {
		name      string
		limit     int64
		used      int64
		increment int64
		want      bool
	}{
		{name: "unlimited", limit: types.UnlimitedQuota, used: 1000, increment: 1, want: true},
		{name: "within quota", limit: 5, used: 3, increment: 1, want: true},
		{name: "reaches quota", limit: 5, used: 4, increment: 1, want: true},
		{name: "exceeds quota", limit: 5, used: 5, increment: 1, want: false},
		{name: "zero quota", limit: 0, used: 0, increment: 1, want: false},
		{name: "check without increment", limit: 0, used: 0, increment: 0, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Allows(tt.limit, tt.used, tt.increment))
		})
	}
}

func TestGetLimit(t *testing.T) {
	p := &Plan{}
	assert.Equal(t, int64(0), p.GetLimit(types.PlanLimitWorkspaces))

	p.Limits = map[types.PlanLimitKey]int64{types.PlanLimitWorkspaces: types.UnlimitedQuota}
	assert.Equal(t, types.UnlimitedQuota, p.GetLimit(types.PlanLimitWorkspaces))
	assert.Equal(t, int64(0), p.GetLimit(types.PlanLimitTeamMembers))
}
