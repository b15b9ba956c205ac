// File: internal/services/classifier/retry.go
package classifier

import (
	"context"
	"time"
)

// RetryConfig defines simple retry behavior.
type RetryConfig struct {
	MaxAttempts int
	Delay       time.Duration
}

// RetryWithBackoff executes fn until it succeeds, the attempts run out, or
// the error is not worth retrying.
func RetryWithBackoff(ctx context.Context, config *RetryConfig, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt < config.MaxAttempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		// Config and validation failures will not heal on retry.
		if cerr, ok := err.(*ClassifierError); ok {
			if cerr.Type == ErrTypeConfig || cerr.Type == ErrTypeValidation {
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
