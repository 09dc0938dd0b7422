package utils

import (
	"testing"

	ierr "github.com/socialdesk/socialdesk/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entity struct {
	ID       string            `json:"id"`
	Quantity int               `json:"quantity"`
	Notes    map[string]string `json:"notes"`
}

func TestToStruct(t *testing.T) {
	got, err := ToStruct[entity](map[string]interface{}{
		"id":       "sub_123",
		"quantity": 2,
		"notes":    map[string]interface{}{"tenant_id": "tenant_1"},
		"ignored":  true,
	})
	require.NoError(t, err)
	assert.Equal(t, entity{ID: "sub_123", Quantity: 2, Notes: map[string]string{"tenant_id": "tenant_1"}}, got)

	empty, err := ToStruct[entity](nil)
	require.NoError(t, err)
	assert.Equal(t, entity{}, empty)
}

func TestToStructTypeMismatch(t *testing.T) {
	_, err := ToStruct[entity](map[string]interface{}{"quantity": "two"})
	assert.True(t, ierr.IsValidation(err))
}

func TestToMap(t *testing.T) {
	m, err := ToMap(entity{ID: "sub_123", Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, "sub_123", m["id"])
	assert.Equal(t, float64(1), m["quantity"])
}
