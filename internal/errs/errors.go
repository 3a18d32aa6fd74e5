package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound: upstream melaporkan entity tidak ada (delete/lookup).
	ErrNotFound = errors.New("not found")

	// ErrIndexOutOfRange: index line item di luar draft.
	ErrIndexOutOfRange = errors.New("index out of range")
)

// ValidationError is raised locally, before anything reaches the upstream
// service. It blocks submission and is shown inline.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func Validation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ServiceError wraps an upstream failure. The message is surfaced to the
// operator verbatim; local state stays untouched.
type ServiceError struct {
	Op      string // e.g. "createOrder"
	Status  int    // HTTP status, 0 when transport failed
	Message string
}

func (e *ServiceError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("%s: upstream %d: %s", e.Op, e.Status, e.Message)
}

func IsService(err error) bool {
	var se *ServiceError
	return errors.As(err, &se)
}
