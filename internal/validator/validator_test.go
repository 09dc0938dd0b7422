package validator

import (
	"net/http"
	"testing"

	"github.com/cockroachdb/errors"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type createWorkspace struct {
	Name     string `json:"name" validate:"required,max=10"`
	Email    string `json:"billing_email" validate:"omitempty,email"`
	Timezone string `json:"timezone"`
}

func TestValidateRequest(t *testing.T) {
	t.Run("valid request", func(t *testing.T) {
		assert.NoError(t, ValidateRequest(createWorkspace{Name: "Acme"}))
	})

	t.Run("field errors are keyed by json name", func(t *testing.T) {
		err := ValidateRequest(createWorkspace{Email: "not-an-email"})
		require.Error(t, err)
		assert.True(t, ierr.IsValidation(err))
		assert.Equal(t, http.StatusUnprocessableEntity, ierr.HTTPStatusFromErr(err))

		details := errors.GetAllSafeDetails(err)
		require.NotEmpty(t, details)

		var payloads []string
		for _, d := range details {
			payloads = append(payloads, d.SafeDetails...)
		}
		joined := ""
		for _, p := range payloads {
			joined += p
		}
		assert.Contains(t, joined, `"name":"is required"`)
		assert.Contains(t, joined, `"billing_email":"must be a valid email address"`)
	})
}
