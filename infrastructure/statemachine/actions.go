package statemachine

import (
	"github.com/felixgeelhaar/statekit"

	"github.com/felixgeelhaar/devtools/domain/command"
	"github.com/felixgeelhaar/devtools/domain/failure"
	"github.com/felixgeelhaar/devtools/domain/tool"
	"github.com/felixgeelhaar/devtools/infrastructure/logging"
)

// ResolvePayload carries the resolved tool with a RESOLVE event.
type ResolvePayload struct {
	Tool tool.Tool
	Args []string
}

// FailPayload carries the failure with a FAIL event.
type FailPayload struct {
	Err error
}

// logStateEntry logs when entering a state.
// In statekit, actions receive a pointer to the context. Since our context is *Context,
// actions receive **Context.
func logStateEntry(ctx **Context, _ statekit.Event) {
	if ctx == nil || *ctx == nil || (*ctx).Command == nil {
		return
	}

	c := *ctx
	c.Logger.Trace().
		Add(logging.InvocationID(c.Command.ID)).
		Add(logging.State(c.Command.State)).
		Msg("entered state")
}

func bindTool(ctx **Context, event statekit.Event) {
	if ctx == nil || *ctx == nil || (*ctx).Command == nil {
		return
	}

	payload, ok := event.Payload.(ResolvePayload)
	if !ok {
		return
	}
	c := *ctx
	from := c.Command.State
	if err := c.Command.Bind(payload.Tool, payload.Args); err != nil {
		return
	}
	logTransition(c, from)
}

func recordCompletion(ctx **Context, _ statekit.Event) {
	if ctx == nil || *ctx == nil || (*ctx).Command == nil {
		return
	}

	c := *ctx
	from := c.Command.State
	if err := c.Command.Complete(); err != nil {
		return
	}
	logTransition(c, from)
}

func recordFailure(ctx **Context, event statekit.Event) {
	if ctx == nil || *ctx == nil || (*ctx).Command == nil {
		return
	}

	var err error
	if payload, ok := event.Payload.(FailPayload); ok {
		err = payload.Err
	}

	c := *ctx
	from := c.Command.State
	if terr := c.Command.Fail(err); terr != nil {
		return
	}
	logTransition(c, from)
}

func logTransition(c *Context, from command.State) {
	ev := c.Logger.Debug().
		Add(logging.InvocationID(c.Command.ID)).
		Add(logging.ToolName(c.Command.ToolName())).
		Add(logging.FromState(from)).
		Add(logging.ToState(c.Command.State))
	if c.Command.Err != nil {
		ev.Add(logging.Kind(failure.KindOf(c.Command.Err)))
	}
	ev.Msg("command transition")
}
