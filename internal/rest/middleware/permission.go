package middleware

import (
	"github.com/gin-gonic/gin"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
	"github.com/socialdesk/socialdesk/internal/logger"
	"github.com/socialdesk/socialdesk/internal/rbac"
	"github.com/socialdesk/socialdesk/internal/types"
)

// PermissionMiddleware handles RBAC permission checks
type PermissionMiddleware struct {
	rbacService *rbac.RBACService
	logger      *logger.Logger
}

// NewPermissionMiddleware creates a new permission middleware instance
func NewPermissionMiddleware(rbacService *rbac.RBACService, logger *logger.Logger) *PermissionMiddleware {
	return &PermissionMiddleware{
		rbacService: rbacService,
		logger:      logger,
	}
}

// RequirePermission checks the caller's tenant role against entity.action
func (pm *PermissionMiddleware) RequirePermission(entity string, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		role := types.GetUserRole(ctx)
		if role == "" {
			abortWith(c, ierr.NewError("no role in context").
				WithHint("Unauthorized").
				Mark(ierr.ErrUnauthenticated))
			return
		}

		if !pm.rbacService.HasPermission(string(role), entity, action) {
			pm.logger.Infow("permission denied",
				"user_id", types.GetUserID(ctx),
				"role", role,
				"entity", entity,
				"action", action,
				"path", c.Request.URL.Path,
			)
			abortWith(c, ierr.NewErrorf("role %s cannot %s %s", role, action, entity).
				WithHintf("Insufficient permissions to %s %s", action, entity).
				WithReportableDetails(map[string]any{
					"entity": entity,
					"action": action,
				}).
				Mark(ierr.ErrPermissionDenied))
			return
		}

		c.Next()
	}
}
