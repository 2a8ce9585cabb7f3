// Package command provides the single-invocation model moved through dispatch.
package command

// State is a dispatch stage of a Command.
type State string

// Dispatch states.
const (
	StateUnresolved State = "unresolved" // Have a raw command line
	StateResolved   State = "resolved"   // Bound to a registered tool
	StateCompleted  State = "completed"  // Tool returned success
	StateFailed     State = "failed"     // Resolution or execution failed
)

// IsTerminal returns true if no further transition is possible.
func (s State) IsTerminal() bool {
	return s == StateCompleted || s == StateFailed
}

// IsValid returns true if the state is a known dispatch state.
func (s State) IsValid() bool {
	switch s {
	case StateUnresolved, StateResolved, StateCompleted, StateFailed:
		return true
	default:
		return false
	}
}

// String returns the string representation of the state.
func (s State) String() string {
	return string(s)
}

// CanTransition reports whether moving from s to next is allowed. No state is
// skipped: completion requires a resolved command, and failure may happen
// before or after resolution.
func (s State) CanTransition(next State) bool {
	switch s {
	case StateUnresolved:
		return next == StateResolved || next == StateFailed
	case StateResolved:
		return next == StateCompleted || next == StateFailed
	default:
		return false
	}
}

// AllStates returns all dispatch states.
func AllStates() []State {
	return []State{StateUnresolved, StateResolved, StateCompleted, StateFailed}
}
