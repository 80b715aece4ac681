package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/apper-apps/scholar-array-protocol/internal/service"
)

// unmatchedRoute labels requests that hit no registered route, keeping raw ids such as
// /students/12345 out of the path label.
const unmatchedRoute = "unmatched"

// Metrics records the duration and status of every API request. /health, /ready and /metrics
// are not counted.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		path := c.FullPath()
		switch path {
		case "/health", "/ready", "/metrics":
			return
		case "":
			path = unmatchedRoute
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
