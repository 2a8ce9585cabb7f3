package statemachine

import (
	"github.com/felixgeelhaar/statekit"

	"github.com/felixgeelhaar/devtools/domain/command"
)

// guardCanTransition checks the command allows the transition the event asks for.
// Guards receive the context by value. Since our context is *Context,
// the guard receives *Context directly.
func guardCanTransition(ctx *Context, event statekit.Event) bool {
	if ctx == nil || ctx.Command == nil {
		return false
	}
	return ctx.Command.State.CanTransition(stateFromEventType(event.Type))
}

// guardHasTool checks a resolve event carries a tool.
func guardHasTool(ctx *Context, event statekit.Event) bool {
	if !guardCanTransition(ctx, event) {
		return false
	}
	payload, ok := event.Payload.(ResolvePayload)
	return ok && payload.Tool != nil
}

// stateFromEventType derives the target state from an event type.
func stateFromEventType(eventType statekit.EventType) command.State {
	switch eventType {
	case EventResolve:
		return command.StateResolved
	case EventComplete:
		return command.StateCompleted
	case EventFail:
		return command.StateFailed
	default:
		return command.State(eventType)
	}
}
