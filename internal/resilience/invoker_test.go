package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testInvoker(maxRetries int) *Invoker {
	return NewInvoker(Options{
		MaxRetries: maxRetries,
		BaseDelay:  time.Millisecond,
		MaxDelay:   5 * time.Millisecond,
	}, zap.NewNop())
}

func TestDo_SucceedsAfterTransientFailures(t *testing.T) {
	iv := testInvoker(3)

	calls := 0
	result, err := Invoke(context.Background(), iv, "op", func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", &HTTPError{StatusCode: 503, Message: "service unavailable"}
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 3, calls, "operation should be invoked exactly 3 times")
}

func TestDo_NonRetryableFailsImmediately(t *testing.T) {
	iv := testInvoker(3)

	calls := 0
	badRequest := &HTTPError{StatusCode: 400, Message: "bad request"}
	_, err := Invoke(context.Background(), iv, "op", func(ctx context.Context) (int, error) {
		calls++
		return 0, badRequest
	})

	assert.Equal(t, 1, calls, "non-retryable error must abort on first attempt")
	assert.Equal(t, badRequest, err, "the original error must propagate unchanged")
}

func TestDo_ExhaustedRetriesWrapsLastError(t *testing.T) {
	iv := testInvoker(2)

	calls := 0
	_, err := Invoke(context.Background(), iv, "flaky", func(ctx context.Context) (int, error) {
		calls++
		return 0, &HTTPError{StatusCode: 500}
	})

	assert.Equal(t, 3, calls, "maxRetries=2 allows 3 total attempts")

	var exhausted *RetriesExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, "flaky", exhausted.Operation)
	assert.Equal(t, 3, exhausted.Attempts)

	var httpErr *HTTPError
	assert.ErrorAs(t, err, &httpErr, "the last underlying failure must stay reachable")
	assert.Equal(t, 500, httpErr.StatusCode)
}

func TestDo_ContextCancelledDuringBackoff(t *testing.T) {
	iv := NewInvoker(Options{
		MaxRetries: 3,
		BaseDelay:  time.Hour,
		MaxDelay:   time.Hour,
	}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	err := iv.Do(ctx, "op", func(ctx context.Context) error {
		calls++
		return &HTTPError{StatusCode: 503}
	})

	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBackoff_ExponentialWithCapAndJitter(t *testing.T) {
	iv := NewInvoker(Options{
		MaxRetries: 3,
		BaseDelay:  100 * time.Millisecond,
		MaxDelay:   300 * time.Millisecond,
	}, zap.NewNop())

	// Jitter is ±25%, so each delay stays within those bounds.
	for i := 0; i < 50; i++ {
		d0 := iv.backoff(0)
		assert.GreaterOrEqual(t, d0, 75*time.Millisecond)
		assert.LessOrEqual(t, d0, 125*time.Millisecond)

		// 100ms * 2^2 = 400ms, capped at 300ms before jitter.
		d2 := iv.backoff(2)
		assert.GreaterOrEqual(t, d2, 225*time.Millisecond)
		assert.LessOrEqual(t, d2, 375*time.Millisecond)
	}
}

func TestIsRetryableStatusCode(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		want       bool
	}{
		{"rate limited", 429, true},
		{"server error", 500, true},
		{"bad gateway", 502, true},
		{"service unavailable", 503, true},
		{"bad request", 400, false},
		{"unauthorized", 401, false},
		{"not found", 404, false},
		{"unprocessable", 422, false},
		{"ok", 200, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryableStatusCode(tt.statusCode))
		})
	}
}

func TestDefaultIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"http 503", &HTTPError{StatusCode: 503}, true},
		{"http 429", &HTTPError{StatusCode: 429}, true},
		{"http 400", &HTTPError{StatusCode: 400}, false},
		{"deadline exceeded", context.DeadlineExceeded, true},
		{"connection reset", errors.New("read tcp: connection reset by peer"), true},
		{"plain timeout text", errors.New("request timeout"), true},
		{"schema violation", errors.New("response violates expected shape"), false},
		{"generic failure", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultIsRetryable(tt.err))
		})
	}
}
