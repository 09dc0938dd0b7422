package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRoles(t *testing.T) {
	svc, err := NewRBACService()
	require.NoError(t, err)

	assert.True(t, svc.HasPermission("owner", "billing", ActionWrite))
	assert.True(t, svc.HasPermission("admin", "user", ActionWrite))
	assert.True(t, svc.HasPermission("member", "post", ActionWrite))
	assert.False(t, svc.HasPermission("member", "billing", ActionWrite))
	assert.False(t, svc.HasPermission("member", "audit_log", ActionRead))
	assert.False(t, svc.HasPermission("ghost", "post", ActionRead))

	assert.True(t, svc.ValidateRole("member"))
	assert.False(t, svc.ValidateRole("ghost"))

	roles := svc.ListRoles()
	require.Len(t, roles, 3)
	assert.Equal(t, "admin", roles[0].ID)
}

func TestRolesFromJSON(t *testing.T) {
	_, err := NewRBACServiceFromJSON([]byte("{"))
	assert.Error(t, err)

	svc, err := NewRBACServiceFromJSON([]byte(`{"viewer":{"name":"Viewer","permissions":{"post":["read"]}}}`))
	require.NoError(t, err)
	role, ok := svc.GetRole("viewer")
	require.True(t, ok)
	assert.Equal(t, "viewer", role.ID)
	assert.True(t, svc.HasPermission("viewer", "post", ActionRead))
}
