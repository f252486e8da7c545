package assessment

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an attempt, student or college does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnknownBank is returned when a request names a bank that is not loaded.
	ErrUnknownBank = errors.New("unknown question bank")
)

// ValidationError reports a submission field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
