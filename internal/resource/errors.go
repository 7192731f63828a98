package resource

import "errors"

var (
	// ErrUnknownKind is a configuration fault: something asked for an
	// entity kind that was never registered. Surfaces at wiring time.
	ErrUnknownKind = errors.New("unknown entity kind")

	// ErrNotFound maps the store's no-rows signal for every kind.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks a uniqueness violation, whether caught by the
	// pre-check or by the database constraint itself.
	ErrConflict = errors.New("conflict")
)

// ConflictError carries the caller-facing message for a uniqueness
// violation and still matches errors.Is(err, ErrConflict).
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

func Conflict(message string) error {
	return &ConflictError{Message: message}
}
