package gotcat

import (
	"context"
	"errors"
	"io"
	"net"
	"time"

	"github.com/ZaguanLabs/gotcat/cache"
)

// RetryConfig holds configuration for retry behavior.
type RetryConfig struct {
	MaxRetries int           // Maximum number of retry attempts
	BaseDelay  time.Duration // Initial delay between retries
	MaxDelay   time.Duration // Maximum delay between retries
}

// DefaultRetryConfig returns sensible defaults for cache writes.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		BaseDelay:  50 * time.Millisecond,
		MaxDelay:   2 * time.Second,
	}
}

// RetryFunc is a function that can be retried.
type RetryFunc[T any] func() (T, error)

// WithRetry executes a function with exponential backoff retry.
func WithRetry[T any](ctx context.Context, cfg RetryConfig, fn RetryFunc[T]) (T, error) {
	var lastErr error
	var zero T

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		default:
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}

		lastErr = err

		if !IsRetryable(err) {
			return zero, err
		}

		// Don't sleep after the last attempt
		if attempt < cfg.MaxRetries {
			delay := cfg.BaseDelay * time.Duration(1<<attempt)
			if delay > cfg.MaxDelay {
				delay = cfg.MaxDelay
			}

			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return zero, lastErr
}

// IsRetryable checks if an error is retryable. A CacheError decides for
// itself; network failures and dropped connections are retryable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var cacheErr *CacheError
	if errors.As(err, &cacheErr) {
		return cacheErr.Retryable
	}

	// Context errors are not retryable
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}

// RetryableBackend wraps a Backend and retries failed writes.
type RetryableBackend struct {
	backend Backend
	config  RetryConfig
}

// NewRetryableBackend creates a backend that retries writes on transient errors.
func NewRetryableBackend(backend Backend, cfg RetryConfig) *RetryableBackend {
	return &RetryableBackend{
		backend: backend,
		config:  cfg,
	}
}

// Get is passed through; a failed read is already a miss.
func (b *RetryableBackend) Get(key string) (string, bool) {
	return b.backend.Get(key)
}

// Fetch retries transient read failures when the wrapped backend reports
// them. Other backends cannot fail a read, so a miss from Get is final.
func (b *RetryableBackend) Fetch(key string) (string, bool, error) {
	f, ok := b.backend.(cache.Fetcher)
	if !ok {
		value, found := b.backend.Get(key)
		return value, found, nil
	}

	type result struct {
		value string
		found bool
	}
	r, err := WithRetry(context.Background(), b.config, func() (result, error) {
		value, found, err := f.Fetch(key)
		return result{value, found}, err
	})
	return r.value, r.found, err
}

// Set implements Backend with retry logic.
func (b *RetryableBackend) Set(key string, value string) error {
	return b.retry(func() error { return b.backend.Set(key, value) })
}

// SetMany implements Backend with retry logic.
func (b *RetryableBackend) SetMany(values map[string]string) error {
	return b.retry(func() error { return b.backend.SetMany(values) })
}

// Clear implements Backend with retry logic.
func (b *RetryableBackend) Clear() error {
	return b.retry(b.backend.Clear)
}

func (b *RetryableBackend) retry(fn func() error) error {
	_, err := WithRetry(context.Background(), b.config, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// Verify RetryableBackend implements Backend and Fetcher
var (
	_ Backend       = (*RetryableBackend)(nil)
	_ cache.Fetcher = (*RetryableBackend)(nil)
)
