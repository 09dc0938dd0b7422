package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
	"github.com/socialdesk/socialdesk/internal/logger"
	"github.com/socialdesk/socialdesk/internal/service"
	"github.com/socialdesk/socialdesk/internal/types"
)

const principalKey = "principal"

// AuthenticateMiddleware resolves the bearer token to a session and sets the tenant,
// user, session, role and super admin flag in the request context
func AuthenticateMiddleware(authService service.AuthService, logger *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(types.HeaderAuthorization)
		if authHeader == "" {
			abortWith(c, ierr.NewError("missing authorization header").
				WithHint("Unauthorized").
				Mark(ierr.ErrUnauthenticated))
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			abortWith(c, ierr.NewError("malformed authorization header").
				WithHint("Invalid authorization header format").
				Mark(ierr.ErrUnauthenticated))
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		principal, err := authService.Authenticate(c.Request.Context(), token)
		if err != nil {
			logger.Debugw("authentication failed", "error", err, "path", c.Request.URL.Path)
			abortWith(c, err)
			return
		}

		ctx := c.Request.Context()
		ctx = types.SetTenantID(ctx, principal.Tenant.ID)
		ctx = types.SetUserID(ctx, principal.User.ID)
		ctx = types.SetSessionID(ctx, principal.SessionID)
		ctx = types.SetUserRole(ctx, principal.User.Role)
		ctx = types.SetSuperAdmin(ctx, principal.User.IsSuperAdmin)
		c.Request = c.Request.WithContext(ctx)
		c.Set(principalKey, principal)

		c.Next()
	}
}

// GetPrincipal returns the caller set by AuthenticateMiddleware
func GetPrincipal(c *gin.Context) (*service.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil, false
	}
	p, ok := v.(*service.Principal)
	return p, ok
}

// abortWith stops the chain and leaves the error for ErrorHandler to render
func abortWith(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
