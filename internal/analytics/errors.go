package analytics

import "errors"

var (
	ErrInvalidEvent = errors.New("invalid analytics event")
	// ErrLoadFailed is returned when any read behind a summary fails.
	ErrLoadFailed = errors.New("failed to load analytics")
)

type loadError struct {
	op  string
	err error
}

func (e *loadError) Error() string {
	return ErrLoadFailed.Error() + ": " + e.op + ": " + e.err.Error()
}

func (e *loadError) Is(target error) bool { return target == ErrLoadFailed }

func (e *loadError) Unwrap() error { return e.err }
