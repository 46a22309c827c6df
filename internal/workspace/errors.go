package workspace

import "errors"

// Sentinel errors for workspace operations. Handlers map these onto HTTP
// status codes; services wrap them with %w so errors.Is keeps working.
var (
	// ErrInvalidName is returned when a persona name is empty after trimming.
	ErrInvalidName = errors.New("persona name must not be empty")

	// ErrDuplicateName is returned when a persona with the same name
	// (case-sensitive exact match) already exists in the registry.
	ErrDuplicateName = errors.New("persona name already exists")

	// ErrPersonaNotFound is returned when an operation targets a persona
	// that is not in the registry.
	ErrPersonaNotFound = errors.New("persona not found")

	// ErrAvatarTooLarge is returned when an avatar upload exceeds MaxAvatarBytes.
	ErrAvatarTooLarge = errors.New("avatar exceeds maximum size")

	// ErrMessageNotFound is returned when a 1-based message position does not
	// resolve to a live message.
	ErrMessageNotFound = errors.New("message not found")

	// ErrDeletePending is returned when a message that is awaiting delete
	// confirmation receives any operation other than confirm or cancel.
	ErrDeletePending = errors.New("message has a pending delete confirmation")

	// ErrNoDeletePending is returned by confirm/cancel when the target message
	// was never marked for deletion.
	ErrNoDeletePending = errors.New("message has no pending delete confirmation")

	// ErrEmptyContext is returned when committing an empty context draft.
	ErrEmptyContext = errors.New("context draft must not be empty")

	// ErrBadSnapshot is returned when a persisted snapshot fails validation.
	// Restore is all-or-nothing: on this error no workspace state has changed.
	ErrBadSnapshot = errors.New("snapshot is not valid")
)
