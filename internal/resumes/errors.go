package resumes

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("resume not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrForbidden        = errors.New("forbidden")
	ErrDuplicateShortID = errors.New("short id already taken")
)

// Validation failure reasons.
const (
	ReasonRequired        = "required"
	ReasonTooLong         = "too_long"
	ReasonEmpty           = "empty"
	ReasonFileTooLarge    = "file_too_large"
	ReasonUnsupportedType = "unsupported_type"
	ReasonInvalidName     = "invalid_name"
)

// ValidationError rejects an upload before anything is written.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Is lets callers match any validation failure with ErrInvalidInput.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// StoreError wraps a persistence or object storage failure.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	if e.Err == nil {
		return "resume store " + e.Op
	}
	return "resume store " + e.Op + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error { return e.Err }

func storeErr(op string, err error) error {
	if err == nil || errors.Is(err, ErrNotFound) {
		return err
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}
