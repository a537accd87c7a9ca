// Package requestctx carries the per-request correlation object through
// handlers, provider clients and log lines.
package requestctx

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// HeaderName is the response header that echoes the request id.
const HeaderName = "X-Request-ID"

// RequestContext is created at the boundary of every externally invoked
// operation and dropped once its response or final stream event is written.
type RequestContext struct {
	ID        string
	StartTime time.Time
}

type contextKey struct{}

// New returns a RequestContext with a fresh random (v4) identifier.
func New() RequestContext {
	return RequestContext{
		ID:        GenerateRequestID(),
		StartTime: time.Now(),
	}
}

// GenerateRequestID returns a random 122-bit identifier.
func GenerateRequestID() string {
	return uuid.NewString()
}

// Elapsed reports the time since the request started.
func (rc RequestContext) Elapsed() time.Duration {
	if rc.StartTime.IsZero() {
		return 0
	}
	return time.Since(rc.StartTime)
}

// WithContext stores rc in ctx.
func WithContext(ctx context.Context, rc RequestContext) context.Context {
	return context.WithValue(ctx, contextKey{}, rc)
}

// FromContext returns the RequestContext stored in ctx, if any.
func FromContext(ctx context.Context) (RequestContext, bool) {
	if ctx == nil {
		return RequestContext{}, false
	}
	rc, ok := ctx.Value(contextKey{}).(RequestContext)
	return rc, ok
}

// ID returns the request id stored in ctx or an empty string.
func ID(ctx context.Context) string {
	rc, _ := FromContext(ctx)
	return rc.ID
}
