package command

import "errors"

// Domain errors for commands.
var (
	// ErrInvalidTransition indicates a state change that skips or reverses a stage.
	ErrInvalidTransition = errors.New("invalid command state transition")

	// ErrNotResolved indicates a command was executed without a bound tool.
	ErrNotResolved = errors.New("command is not resolved")
)
