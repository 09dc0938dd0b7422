package middleware

import (
	"time"

	sentrygo "github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/socialdesk/socialdesk/internal/config"
	"github.com/socialdesk/socialdesk/internal/types"
)

// SentryMiddleware captures panics and traces requests
func SentryMiddleware(cfg *config.Configuration) gin.HandlerFunc {
	if !cfg.Sentry.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return sentrygin.New(sentrygin.Options{
		Repanic:         true,
		WaitForDelivery: false,
		Timeout:         2 * time.Second,
	})
}

// SentryScopeMiddleware tags the request hub with the caller. It must run after
// AuthenticateMiddleware.
func SentryScopeMiddleware(cfg *config.Configuration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.Sentry.Enabled {
			c.Next()
			return
		}

		if hub := sentrygin.GetHubFromContext(c); hub != nil {
			ctx := c.Request.Context()
			hub.ConfigureScope(func(scope *sentrygo.Scope) {
				scope.SetUser(sentrygo.User{ID: types.GetUserID(ctx)})
				scope.SetTag("tenant_id", types.GetTenantID(ctx))
				scope.SetTag("request_id", types.GetRequestID(ctx))
			})
		}
		c.Next()
	}
}
