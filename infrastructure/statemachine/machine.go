// Package statemachine provides the statekit chart that moves a command
// through dispatch.
package statemachine

import (
	"github.com/felixgeelhaar/statekit"

	"github.com/felixgeelhaar/devtools/domain/command"
	"github.com/felixgeelhaar/devtools/infrastructure/logging"
)

// Context carries the command being dispatched through the state machine.
type Context struct {
	Command *command.Command
	Logger  *logging.Logger
}

// NewContext creates a new machine context.
func NewContext(cmd *command.Command, logger *logging.Logger) *Context {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Context{
		Command: cmd,
		Logger:  logger,
	}
}

// State IDs as StateID type for statekit.
const (
	stateUnresolved statekit.StateID = statekit.StateID(command.StateUnresolved)
	stateResolved   statekit.StateID = statekit.StateID(command.StateResolved)
	stateCompleted  statekit.StateID = statekit.StateID(command.StateCompleted)
	stateFailed     statekit.StateID = statekit.StateID(command.StateFailed)
)

// Dispatch events.
const (
	EventResolve  = "RESOLVE"
	EventComplete = "COMPLETE"
	EventFail     = "FAIL"
)

// NewDispatchMachine creates the dispatch statechart. Resolution failure goes
// straight from unresolved to failed; completion is only reachable from resolved.
func NewDispatchMachine() (*statekit.MachineConfig[*Context], error) {
	return statekit.NewMachine[*Context]("dispatch").
		WithInitial(stateUnresolved).
		WithContext(&Context{}).
		// Register actions
		WithAction("logEntry", logStateEntry).
		WithAction("bindTool", bindTool).
		WithAction("recordCompletion", recordCompletion).
		WithAction("recordFailure", recordFailure).
		// Register guards
		WithGuard("canTransition", guardCanTransition).
		WithGuard("hasTool", guardHasTool).
		// Define states
		State(stateUnresolved).
			OnEntry("logEntry").
			On(EventResolve).Target(stateResolved).Guard("hasTool").Do("bindTool").
			On(EventFail).Target(stateFailed).Do("recordFailure").
			Done().
		State(stateResolved).
			OnEntry("logEntry").
			On(EventComplete).Target(stateCompleted).Guard("canTransition").Do("recordCompletion").
			On(EventFail).Target(stateFailed).Do("recordFailure").
			Done().
		State(stateCompleted).
			Final().
			OnEntry("logEntry").
			Done().
		State(stateFailed).
			Final().
			OnEntry("logEntry").
			Done().
		Build()
}

// EventForTransition returns the event type that moves a command into to.
func EventForTransition(to command.State) statekit.EventType {
	switch to {
	case command.StateResolved:
		return EventResolve
	case command.StateCompleted:
		return EventComplete
	case command.StateFailed:
		return EventFail
	default:
		return statekit.EventType(to)
	}
}

// StateFromMachine converts the machine state ID to a command State.
func StateFromMachine(stateID statekit.StateID) command.State {
	return command.State(stateID)
}
