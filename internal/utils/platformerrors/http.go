package platformerrors

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/janhq/ai-gateway/internal/utils/requestctx"
)

// HTTPErrorResponse is the body of every non-streamed error.
type HTTPErrorResponse struct {
	Error SanitizedError `json:"error"`
}

// WriteError logs err with full detail, sanitizes it and writes the error
// body with the matching status and X-Request-ID header.
func WriteError(c *gin.Context, err error, log zerolog.Logger) {
	requestID := requestctx.ID(c.Request.Context())
	LogError(log, err, requestID)

	sanitized := Sanitize(err, requestID)
	if requestID != "" {
		c.Header(requestctx.HeaderName, requestID)
	}
	c.Error(err) //nolint:errcheck
	c.AbortWithStatusJSON(sanitized.HTTPStatus(), HTTPErrorResponse{Error: sanitized})
}
