package middlewares

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/janhq/ai-gateway/internal/utils/platformerrors"
)

// Recovery turns a panic into INTERNAL_ERROR. Once a stream has started the
// response can no longer change, so the connection is only aborted.
func Recovery(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			recovered := recover()
			if recovered == nil {
				return
			}
			err := platformerrors.NewErrorWithContext(c.Request.Context(), platformerrors.LayerRoute, platformerrors.ErrorTypeInternal,
				fmt.Sprintf("panic: %v", recovered), nil, "3f6e1c2a-8d4b-4e07-9a51-0c7b2e9d4f18",
				map[string]any{"stack": string(debug.Stack())})

			if c.Writer.Written() {
				platformerrors.LogError(logger, err, RequestIDFromContext(c))
				c.Abort()
				return
			}
			platformerrors.WriteError(c, err, logger)
		}()
		c.Next()
	}
}
