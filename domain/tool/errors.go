package tool

import "errors"

// Domain errors for the tool system.
var (
	// ErrEmptyName indicates a tool was created with an empty name.
	ErrEmptyName = errors.New("tool name cannot be empty")

	// ErrNameTooLong indicates a tool name exceeds MaxNameLength.
	ErrNameTooLong = errors.New("tool name too long")

	// ErrInvalidName indicates a tool name that cannot be typed on a command line.
	ErrInvalidName = errors.New("invalid tool name")

	// ErrNoHandler indicates a tool was created without a handler.
	ErrNoHandler = errors.New("tool has no handler")

	// ErrNilTool indicates a nil tool was passed to a registry.
	ErrNilTool = errors.New("tool is nil")

	// ErrToolExists indicates a tool with the same name already exists.
	ErrToolExists = errors.New("tool already exists")

	// ErrRegistrySealed indicates a registration after startup completed.
	ErrRegistrySealed = errors.New("registry is sealed")
)
