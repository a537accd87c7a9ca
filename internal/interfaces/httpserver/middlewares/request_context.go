package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/janhq/ai-gateway/internal/utils/requestctx"
)

const requestIDKey = "request_id"

// RequestContext creates the per-request correlation object. The id is
// always generated here; a caller supplied X-Request-ID is only logged.
func RequestContext(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rc := requestctx.New()
		if upstream := c.GetHeader(requestctx.HeaderName); upstream != "" {
			logger.Debug().
				Str("request_id", rc.ID).
				Str("upstream_request_id", truncate(upstream, 128)).
				Msg("upstream request id received")
		}

		c.Request = c.Request.WithContext(requestctx.WithContext(c.Request.Context(), rc))
		c.Writer.Header().Set(requestctx.HeaderName, rc.ID)
		c.Set(requestIDKey, rc.ID)
		c.Next()
	}
}

// RequestIDFromContext returns the request id stored in the gin context.
func RequestIDFromContext(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
