package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/grafana/pyroscope-go"
	"github.com/socialdesk/socialdesk/internal/config"
)

// PyroscopeMiddleware labels profiles with the route being served
func PyroscopeMiddleware(cfg *config.Configuration) gin.HandlerFunc {
	if !cfg.Pyroscope.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		// route templates only, raw ids would explode label cardinality
		labels := pyroscope.Labels(
			"method", c.Request.Method,
			"endpoint", route,
			"handler", c.Request.Method+" "+route,
		)
		pyroscope.TagWrapper(context.Background(), labels, func(context.Context) {
			c.Next()
		})
	}
}
