// Package resilience wraps calls to external services with exponential
// backoff and transient-vs-permanent error classification. Every outbound
// call in the pipeline (language model, ledger APIs) goes through here.
package resilience

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"net"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Default retry parameters. Attempts are numbered 0..MaxRetries inclusive,
// so the defaults allow up to 4 total attempts.
const (
	DefaultMaxRetries = 3
	DefaultBaseDelay  = 1 * time.Second
	DefaultMaxDelay   = 30 * time.Second

	// jitterFraction is the symmetric jitter applied to each backoff delay.
	jitterFraction = 0.25
)

// Options configures an Invoker. Zero values fall back to the defaults.
type Options struct {
	MaxRetries  int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	IsRetryable func(error) bool
}

// Invoker executes operations with retry and backoff. It holds no state
// across calls; distinct invocations are fully independent.
type Invoker struct {
	maxRetries  int
	baseDelay   time.Duration
	maxDelay    time.Duration
	isRetryable func(error) bool
	logger      *zap.Logger
}

// NewInvoker creates an Invoker, filling unset options with defaults.
func NewInvoker(opts Options, logger *zap.Logger) *Invoker {
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = DefaultMaxRetries
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = DefaultBaseDelay
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = DefaultMaxDelay
	}
	if opts.IsRetryable == nil {
		opts.IsRetryable = DefaultIsRetryable
	}
	return &Invoker{
		maxRetries:  opts.MaxRetries,
		baseDelay:   opts.BaseDelay,
		maxDelay:    opts.MaxDelay,
		isRetryable: opts.IsRetryable,
		logger:      logger,
	}
}

// Do executes op, retrying transient failures with exponential backoff.
// A non-retryable error aborts immediately and is returned as-is. When the
// final permitted attempt fails with a retryable error, the result is a
// RetriesExhaustedError wrapping that failure.
func (iv *Invoker) Do(ctx context.Context, name string, op func(context.Context) error) error {
	for attempt := 0; ; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}

		if !iv.isRetryable(err) {
			iv.logger.Warn("Operation failed with permanent error",
				zap.String("operation", name),
				zap.Int("attempt", attempt),
				zap.Error(err))
			return err
		}
		if attempt == iv.maxRetries {
			iv.logger.Error("Operation exhausted retries",
				zap.String("operation", name),
				zap.Int("attempts", attempt+1),
				zap.Error(err))
			return &RetriesExhaustedError{Operation: name, Attempts: attempt + 1, Err: err}
		}

		delay := iv.backoff(attempt)
		iv.logger.Warn("Operation failed, retrying",
			zap.String("operation", name),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Invoke runs op through the invoker and returns its result. Generic
// wrapper around Do for operations that produce a value.
func Invoke[T any](ctx context.Context, iv *Invoker, name string, op func(context.Context) (T, error)) (T, error) {
	var result T
	err := iv.Do(ctx, name, func(ctx context.Context) error {
		var opErr error
		result, opErr = op(ctx)
		return opErr
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}

// backoff computes the delay before the next attempt:
// min(baseDelay * 2^attempt, maxDelay) with ±25% uniform jitter.
func (iv *Invoker) backoff(attempt int) time.Duration {
	delay := time.Duration(float64(iv.baseDelay) * math.Pow(2, float64(attempt)))
	if delay > iv.maxDelay || delay <= 0 {
		delay = iv.maxDelay
	}

	jitter := (rand.Float64()*2 - 1) * jitterFraction * float64(delay)
	delay += time.Duration(jitter)
	if delay < 0 {
		delay = 0
	}
	return delay
}

// DefaultIsRetryable classifies transient network/connection/timeout
// failures, HTTP 429 and HTTP 5xx as retryable. Everything else is
// permanent and fails on first occurrence, so that bugs in request
// construction are not hidden behind retries.
func DefaultIsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return IsRetryableStatusCode(httpErr.StatusCode)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	errStr := err.Error()
	if strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "Timeout") ||
		strings.Contains(errStr, "connection") ||
		strings.Contains(errStr, "EOF") ||
		strings.Contains(errStr, "reset by peer") {
		return true
	}

	return false
}

// IsRetryableStatusCode reports whether an HTTP status warrants retry:
// 429 (rate limit) and 5xx. All other 4xx are permanent.
func IsRetryableStatusCode(statusCode int) bool {
	if statusCode >= 400 && statusCode < 500 {
		return statusCode == 429
	}
	return statusCode >= 500 && statusCode < 600
}
