// Package retry defines the backoff policy applied to non-streaming provider calls.
package retry

import (
	"context"
	"math"
	"math/rand"
	"net/http"
	"time"

	"github.com/janhq/ai-gateway/internal/utils/platformerrors"
)

// Policy defines a retry strategy.
type Policy struct {
	MaxRetries      int           `yaml:"max_retries"`
	InitialDelay    time.Duration `yaml:"initial_delay"`
	MaxDelay        time.Duration `yaml:"max_delay"`
	BackoffStrategy BackoffType   `yaml:"backoff_strategy"`
	JitterFactor    float64       `yaml:"jitter_factor"` // 0.0-1.0
}

// BackoffType identifies the backoff strategy.
type BackoffType string

const (
	BackoffFixed       BackoffType = "fixed"
	BackoffLinear      BackoffType = "linear"
	BackoffExponential BackoffType = "exponential"
)

// ProviderPolicy is applied to image and speech calls: three attempts in total.
func ProviderPolicy() Policy {
	return Policy{
		MaxRetries:      2,
		InitialDelay:    500 * time.Millisecond,
		MaxDelay:        5 * time.Second,
		BackoffStrategy: BackoffExponential,
		JitterFactor:    0.2,
	}
}

// NoRetryPolicy returns a policy that never retries.
func NoRetryPolicy() Policy {
	return Policy{}
}

// CalculateDelay calculates the delay before the given attempt (1-based).
func (p Policy) CalculateDelay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}

	var delay time.Duration
	switch p.BackoffStrategy {
	case BackoffLinear:
		delay = p.InitialDelay * time.Duration(attempt)
	case BackoffExponential:
		delay = p.InitialDelay * time.Duration(math.Pow(2, float64(attempt-1)))
	default:
		delay = p.InitialDelay
	}

	if p.MaxDelay > 0 && delay > p.MaxDelay {
		delay = p.MaxDelay
	}

	if p.JitterFactor > 0 {
		jitter := float64(delay) * p.JitterFactor * (rand.Float64()*2 - 1)
		delay = time.Duration(float64(delay) + jitter)
		if delay < 0 {
			delay = 0
		}
	}
	return delay
}

// IsTransient reports whether a provider failure may succeed on retry:
// upstream 5xx responses and transport failures without a response.
// 4xx responses are never transient.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeExternal) {
		return false
	}
	status, ok := platformerrors.ProviderStatus(err)
	if !ok {
		return true
	}
	return status >= http.StatusInternalServerError
}

// Do runs fn until it succeeds, fails with a non-retryable error, the policy
// is exhausted or ctx is done. The last error is returned.
func Do[T any](ctx context.Context, policy Policy, retryable func(error) bool, fn func(ctx context.Context, attempt int) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= policy.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return zero, lastErr
			}
			return zero, err
		}

		result, err := fn(ctx, attempt)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt >= policy.MaxRetries || !retryable(err) {
			break
		}

		if delay := policy.CalculateDelay(attempt + 1); delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return zero, lastErr
			case <-timer.C:
			}
		}
	}

	return zero, lastErr
}
