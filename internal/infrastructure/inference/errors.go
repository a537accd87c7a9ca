package inference

import (
	"context"
	"errors"
	"io"
	"strings"

	"resty.dev/v3"

	"github.com/janhq/ai-gateway/internal/utils/platformerrors"
)

const maxErrorBody = 64 * 1024

// errorFromResponse turns a non-2xx provider response into a provider error.
// The body is kept as internal detail only.
func errorFromResponse(ctx context.Context, resp *resty.Response) error {
	status := resp.StatusCode()
	if resp.RawResponse == nil || resp.RawResponse.Body == nil {
		return platformerrors.NewProviderError(ctx, status, "", nil)
	}
	defer resp.RawResponse.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.RawResponse.Body, maxErrorBody))
	if err != nil {
		return platformerrors.NewProviderError(ctx, status, "", err)
	}
	return platformerrors.NewProviderError(ctx, status, strings.TrimSpace(string(body)), nil)
}

// transportError classifies a failure that produced no response. Context
// errors keep their type so the caller can tell cancellation from failure.
func transportError(ctx context.Context, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return platformerrors.AsError(ctx, platformerrors.LayerProvider, ctxErr, "provider call interrupted")
		}
	}
	return platformerrors.NewProviderError(ctx, 0, "", err)
}

// closeBody releases the provider connection of resp, which may be nil or
// carry no body.
func closeBody(resp *resty.Response) {
	if resp != nil && resp.RawResponse != nil && resp.RawResponse.Body != nil {
		_ = resp.RawResponse.Body.Close()
	}
}

func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
