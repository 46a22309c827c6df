package services

import (
	"errors"
	"fmt"
)

var (
	// ErrWorkspaceNotFound is returned when a workspace ID does not resolve.
	ErrWorkspaceNotFound = errors.New("workspace not found")

	// ErrExchangeBusy is returned when an exchange of the same kind is already
	// in flight for the workspace. Second triggers are rejected, not queued.
	ErrExchangeBusy = errors.New("an exchange of this kind is already in flight")

	// ErrNoReply is returned when the backend answered a direct chat without a
	// reply field. Nothing is appended to the log in that case.
	ErrNoReply = errors.New("no response from backend")

	// ErrNoSnapshot is returned when restoring a workspace that has no
	// persisted snapshot.
	ErrNoSnapshot = errors.New("no saved snapshot for workspace")
)

// ValidationError reports a user-input failure caught before any request was
// sent or any state mutated.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

// NewValidationError builds a ValidationError with a formatted message.
func NewValidationError(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err is a pre-flight validation failure.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
