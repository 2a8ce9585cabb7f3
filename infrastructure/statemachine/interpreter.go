package statemachine

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"

	"github.com/felixgeelhaar/devtools/domain/command"
	"github.com/felixgeelhaar/devtools/domain/tool"
)

// Interpreter wraps the statekit interpreter with dispatch-specific functionality.
type Interpreter struct {
	interp *statekit.Interpreter[*Context]
	ctx    *Context
}

// NewInterpreter creates a new interpreter for one command.
func NewInterpreter(machine *statekit.MachineConfig[*Context], ctx *Context) *Interpreter {
	interp := statekit.NewInterpreter(machine)
	// Update the context reference in the machine
	interp.UpdateContext(func(c **Context) {
		*c = ctx
	})
	return &Interpreter{
		interp: interp,
		ctx:    ctx,
	}
}

// Start initializes the interpreter and enters the unresolved state.
func (i *Interpreter) Start() {
	i.interp.Start()
}

// Stop stops the interpreter.
func (i *Interpreter) Stop() {
	i.interp.Stop()
}

// State returns the current state.
func (i *Interpreter) State() command.State {
	return StateFromMachine(i.interp.State().Value)
}

// Resolve binds the tool and moves the command to resolved.
func (i *Interpreter) Resolve(t tool.Tool, args []string) error {
	if t == nil {
		return fmt.Errorf("%w: resolve without a tool", command.ErrInvalidTransition)
	}
	return i.send(command.StateResolved, ResolvePayload{Tool: t, Args: args})
}

// Complete moves a resolved command to completed.
func (i *Interpreter) Complete() error {
	return i.send(command.StateCompleted, nil)
}

// Fail records err and moves the command to failed.
func (i *Interpreter) Fail(err error) error {
	return i.send(command.StateFailed, FailPayload{Err: err})
}

func (i *Interpreter) send(to command.State, payload any) error {
	from := i.State()
	if !i.CanTransition(to) {
		return fmt.Errorf("%w: %s -> %s", command.ErrInvalidTransition, from, to)
	}

	i.interp.Send(statekit.Event{
		Type:    EventForTransition(to),
		Payload: payload,
	})

	if got := i.State(); got != to || i.ctx.Command.State != to {
		return fmt.Errorf("%w: %s -> %s", command.ErrInvalidTransition, from, to)
	}
	return nil
}

// CanTransition checks if a transition to the target state is possible.
func (i *Interpreter) CanTransition(to command.State) bool {
	return i.ctx.Command != nil && i.ctx.Command.State.CanTransition(to)
}

// IsTerminal returns true if the interpreter is in a terminal state.
func (i *Interpreter) IsTerminal() bool {
	return i.interp.Done()
}

// Matches checks if the current state matches the given state.
func (i *Interpreter) Matches(state command.State) bool {
	return i.interp.Matches(statekit.StateID(state))
}

// Context returns the interpreter context.
func (i *Interpreter) Context() *Context {
	return i.ctx
}
