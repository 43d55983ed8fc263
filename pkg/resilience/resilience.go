package resilience

import (
	"context"
	"math/rand"
	"time"
)

type RetryConfig struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
	Jitter          time.Duration
}

func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts:     3,
		InitialInterval: 200 * time.Millisecond,
		MaxInterval:     30 * time.Second,
		Multiplier:      2.0,
		Jitter:          50 * time.Millisecond,
	}
}

// RetryWithExponentialBackoff runs fn with bounded exponential backoff.
// Errors the retryable classifier rejects propagate immediately without
// further attempts. Context cancellation aborts the loop.
func RetryWithExponentialBackoff(ctx context.Context, config *RetryConfig, retryable func(error) bool, fn func() error) error {
	var lastErr error
	interval := config.InitialInterval

	for attempt := 0; attempt < config.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if retryable != nil && !retryable(lastErr) {
			return lastErr
		}

		if attempt < config.MaxAttempts-1 {
			sleep := interval
			if config.Jitter > 0 {
				sleep += time.Duration(rand.Int63n(int64(2*config.Jitter))) - config.Jitter
			}
			if sleep < 0 {
				sleep = 0
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(sleep):
			}

			interval = time.Duration(float64(interval) * config.Multiplier)
			if interval > config.MaxInterval {
				interval = config.MaxInterval
			}
		}
	}

	return lastErr
}
