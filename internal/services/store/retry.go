// File: internal/services/store/retry.go
package store

import (
	"context"
	"time"
)

// RetryConfig defines simple retry behavior for cascade deletes.
type RetryConfig struct {
	MaxAttempts int
	Delay       time.Duration
}

// RetryWithBackoff executes a function with simple retry logic. Invalid
// input and not-found errors are never retried; the cascade treats an
// already-absent record as success at the call site, so only transient
// storage failures reach another attempt.
func RetryWithBackoff(ctx context.Context, config *RetryConfig, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt < config.MaxAttempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}

		lastErr = err

		if se, ok := err.(*StoreError); ok {
			if se.Type == ErrTypeInvalidInput || se.Type == ErrTypeNotFound {
				return err
			}
		}

		if attempt < config.MaxAttempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(config.Delay):
			}
		}
	}

	return lastErr
}
