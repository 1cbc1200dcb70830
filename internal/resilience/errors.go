package resilience

import "fmt"

// HTTPError represents a failure response from an external HTTP service.
// Callers wrap provider SDK errors into this type so the default retry
// predicate can classify them by status code.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("http error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("http error: status %d: %s", e.StatusCode, e.Message)
}

// RetriesExhaustedError is returned when every permitted attempt of an
// operation failed with a retryable error. It wraps the last failure.
type RetriesExhaustedError struct {
	Operation string
	Attempts  int
	Err       error
}

func (e *RetriesExhaustedError) Error() string {
	return fmt.Sprintf("operation %q failed after %d attempts: %v", e.Operation, e.Attempts, e.Err)
}

func (e *RetriesExhaustedError) Unwrap() error {
	return e.Err
}
