package v1

import (
	"github.com/gin-gonic/gin"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
)

// bindJSON reports false after attaching a validation error when the body does not decode
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return false
	}
	return true
}

// bindQuery decodes query parameters into filter, keeping the defaults it already holds
func bindQuery(c *gin.Context, filter interface{}) bool {
	if err := c.ShouldBindQuery(filter); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid filter parameters").
			Mark(ierr.ErrValidation))
		return false
	}
	return true
}
