package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"
	"github.com/socialdesk/socialdesk/internal/config"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
	"github.com/socialdesk/socialdesk/internal/types"
)

// CronAuthMiddleware admits the external scheduler by shared secret. With no secret
// configured every call is rejected.
func CronAuthMiddleware(cfg *config.Configuration) gin.HandlerFunc {
	secret := []byte(cfg.Server.CronSecret)

	return func(c *gin.Context) {
		got := []byte(c.GetHeader(types.HeaderCronSecret))
		if len(secret) == 0 || subtle.ConstantTimeCompare(got, secret) != 1 {
			abortWith(c, ierr.NewError("invalid cron secret").
				WithHint("Unauthorized").
				Mark(ierr.ErrUnauthenticated))
			return
		}
		c.Next()
	}
}
