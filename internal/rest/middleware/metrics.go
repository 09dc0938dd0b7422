package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/socialdesk/socialdesk/internal/metrics"
)

// MetricsMiddleware records count and latency per route template
func MetricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	if !m.IsEnabled() {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.ObserveRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
