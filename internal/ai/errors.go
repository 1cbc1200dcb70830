package ai

import (
	"errors"
	"fmt"
)

// ErrEmptyDocument is returned when extraction is attempted on empty text.
var ErrEmptyDocument = errors.New("document text is empty")

// SchemaError indicates the model response was not valid JSON or violated
// the expected output shape. It is a permanent client-side contract
// violation and is never retried. The raw response is retained for
// diagnostics, never silently coerced.
type SchemaError struct {
	Reason string
	Raw    string
	Err    error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("model response violates expected shape: %s", e.Reason)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}
