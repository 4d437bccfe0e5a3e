package middleware

import (
	"strconv"
	"time"

	"audslp/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// MetricsMiddleware records request durations per matched route.
func MetricsMiddleware(service string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RequestDuration.
			WithLabelValues(service, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
