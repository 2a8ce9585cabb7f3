package pack

import "errors"

// Domain errors for pack operations.
var (
	// ErrInvalidPack is returned when a loader produces a nil or unnamed pack.
	ErrInvalidPack = errors.New("invalid pack")

	// ErrAborted is returned when the user declines a confirmation prompt.
	ErrAborted = errors.New("operation aborted")
)
