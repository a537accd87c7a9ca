package httpclients

import (
	"context"
	"time"

	"resty.dev/v3"

	"github.com/janhq/ai-gateway/internal/infrastructure/logger"
	"github.com/janhq/ai-gateway/internal/utils/requestctx"
)

type HTTPClientStartsAt struct{}

// NewClient returns a resty client that logs every outbound call with the
// inbound request id. Bodies are never logged: they carry prompts and
// credentials. A zero timeout leaves the deadline to the request context.
func NewClient(clientName string, timeout time.Duration) *resty.Client {
	client := resty.New()
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	client.AddRequestMiddleware(func(c *resty.Client, r *resty.Request) error {
		ctx := context.WithValue(r.Context(), HTTPClientStartsAt{}, time.Now())
		r.SetContext(ctx)
		return nil
	})
	client.AddResponseMiddleware(func(c *resty.Client, r *resty.Response) error {
		log := logger.GetLogger()
		ctx := r.Request.Context()
		startTime, _ := ctx.Value(HTTPClientStartsAt{}).(time.Time)

		event := log.Debug()
		if r.IsError() {
			event = log.Warn()
		}
		method, path := r.Request.Method, ""
		if raw := r.Request.RawRequest; raw != nil {
			method = raw.Method
			path = raw.URL.Path
		}
		event.
			Str("request_id", requestctx.ID(ctx)).
			Str("client", clientName).
			Int("status", r.StatusCode()).
			Str("method", method).
			Str("path", path).
			Dur("latency", time.Since(startTime)).
			Msg("HTTP client request")
		return nil
	})
	return client
}
