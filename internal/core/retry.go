package core

import (
	"context"
	"time"
)

const defaultRetryAttempts = 3

// withRetry runs op up to attempts times with exponential backoff between
// tries. The context cancels the wait, not an in-flight call.
func withRetry(ctx context.Context, attempts int, op func() error) error {
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryDelay(attempt - 1)):
			}
		}
		if err = op(); err == nil {
			return nil
		}
	}
	return err
}

// retryDelay grows exponentially from 200ms, capped at 5s.
func retryDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	delay := 200 * time.Millisecond << uint(attempt)
	if delay > 5*time.Second {
		delay = 5 * time.Second
	}
	return delay
}
