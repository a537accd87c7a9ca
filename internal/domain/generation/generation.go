// Package generation implements the one-shot capabilities: image generation
// and speech synthesis.
package generation

import (
	"context"
	"time"

	"github.com/janhq/ai-gateway/internal/domain/provider"
	"github.com/janhq/ai-gateway/internal/domain/retry"
	"github.com/janhq/ai-gateway/internal/utils/platformerrors"
)

// Recorder observes each provider call attempt.
type Recorder interface {
	ProviderCall(capability provider.Capability, providerType provider.Type, code platformerrors.Code, duration time.Duration)
}

type NopRecorder struct{}

func (NopRecorder) ProviderCall(provider.Capability, provider.Type, platformerrors.Code, time.Duration) {
}

// Resolver yields client handles of one capability.
type Resolver[C any] interface {
	ResolveClient(ctx context.Context, requested string) (*provider.Handle[C], error)
}

// call runs fn against handle under the retry policy, holding a lease only
// while an attempt is in flight.
func call[C, R any](ctx context.Context, handle *provider.Handle[C], policy retry.Policy, recorder Recorder, fn func(ctx context.Context, client C) (R, error)) (R, error) {
	return retry.Do(ctx, policy, retry.IsTransient, func(ctx context.Context, attempt int) (R, error) {
		var zero R
		release, err := handle.Acquire(ctx)
		if err != nil {
			return zero, err
		}
		defer release()

		started := time.Now()
		result, err := fn(ctx, handle.Client)
		code := platformerrors.Code("")
		if err != nil {
			code = platformerrors.Classify(err)
		}
		recorder.ProviderCall(handle.Capability, handle.Type, code, time.Since(started))
		return result, err
	})
}
