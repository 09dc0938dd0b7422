package middleware

import (
	"github.com/gin-gonic/gin"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
	"github.com/socialdesk/socialdesk/internal/logger"
	"github.com/socialdesk/socialdesk/internal/types"
)

// SuperAdminMiddleware admits only operators flagged as super admins. It must run after
// AuthenticateMiddleware.
func SuperAdminMiddleware(logger *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if types.IsSuperAdmin(ctx) {
			c.Next()
			return
		}

		logger.Warnw("back office access denied",
			"user_id", types.GetUserID(ctx),
			"tenant_id", types.GetTenantID(ctx),
			"path", c.Request.URL.Path,
		)
		abortWith(c, ierr.NewError("super admin required").
			WithHint("You do not have access to the back office").
			Mark(ierr.ErrPermissionDenied))
	}
}
