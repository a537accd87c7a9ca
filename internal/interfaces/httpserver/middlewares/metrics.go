package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/janhq/ai-gateway/internal/infrastructure/metrics"
)

// ProviderKey is the gin context key handlers set to the provider type that
// served the request.
const ProviderKey = "provider"

// MetricsMiddleware records HTTP request metrics
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		metrics.RecordRequest(c.Request.Method, endpoint, c.Writer.Status(), time.Since(start))
	}
}
