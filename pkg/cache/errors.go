package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned when a key is absent from the cache.
var ErrCacheMiss = errors.New("cache miss")

// RetryableError marks a transient backend failure. Redis and Mongo wrap
// network errors with it so callers can retry; corrupt or missing entries
// are never retryable.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable wraps err as a RetryableError. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether err carries a RetryableError anywhere in
// its chain.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// retryAttempts bounds RetryWithBackoff. The delays are 1s then 2s, so a
// fully failing backend costs at most 3s of waiting.
const retryAttempts = 3

// RetryWithBackoff runs fn until it succeeds, returns a non-retryable
// error, or exhausts retryAttempts. The delay doubles between attempts
// and ctx cancellation aborts the wait.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	var lastErr error
	delay := time.Second

	for attempt := 0; attempt < retryAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil || !IsRetryable(lastErr) {
			return lastErr
		}
		if attempt == retryAttempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
	return lastErr
}
