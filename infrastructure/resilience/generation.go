package resilience

import (
	"context"
	"time"

	"github.com/felixgeelhaar/fortify/retry"

	"github.com/vigil-agent/vigil/infrastructure/generation"
)

// Retrier wraps a generation client with bounded retries. Provider
// failures are retried up to the configured attempt count before the
// failure surfaces to the caller.
type Retrier struct {
	client generation.Client
	retry  retry.Retry[generation.Response]
}

// RetrierConfig configures generation retries.
type RetrierConfig struct {
	// MaxAttempts is the total number of attempts per request.
	MaxAttempts int

	// InitialDelay is the delay before the first retry.
	InitialDelay time.Duration

	// BackoffMultiplier is the exponential backoff multiplier.
	BackoffMultiplier float64
}

// DefaultRetrierConfig returns a configuration with sensible defaults.
func DefaultRetrierConfig() RetrierConfig {
	return RetrierConfig{
		MaxAttempts:       3,
		InitialDelay:      200 * time.Millisecond,
		BackoffMultiplier: 2.0,
	}
}

// NewRetrier wraps the given client.
func NewRetrier(client generation.Client, config RetrierConfig) *Retrier {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 1
	}
	return &Retrier{
		client: client,
		retry: retry.New[generation.Response](retry.Config{
			MaxAttempts:   config.MaxAttempts,
			InitialDelay:  config.InitialDelay,
			BackoffPolicy: retry.BackoffExponential,
			Multiplier:    config.BackoffMultiplier,
		}),
	}
}

// Complete implements generation.Client.
func (r *Retrier) Complete(ctx context.Context, req generation.Request) (generation.Response, error) {
	return r.retry.Do(ctx, func(ctx context.Context) (generation.Response, error) {
		return r.client.Complete(ctx, req)
	})
}

// Name returns the wrapped client's name.
func (r *Retrier) Name() string { return r.client.Name() }
