// Package application resolves command lines to tools and runs them.
package application

import (
	"context"
	"fmt"
	"slices"

	"github.com/felixgeelhaar/devtools/domain/command"
	"github.com/felixgeelhaar/devtools/domain/failure"
	"github.com/felixgeelhaar/devtools/domain/middleware"
	"github.com/felixgeelhaar/devtools/domain/tool"
	"github.com/felixgeelhaar/devtools/infrastructure/logging"
	"github.com/felixgeelhaar/devtools/infrastructure/statemachine"
)

// Dispatcher resolves a command line against a registry and invokes the
// selected tool. It never retries and never bounds the tool's run time.
type Dispatcher struct {
	registry   tool.Registry
	logger     *logging.Logger
	middleware *middleware.Registry
}

// NewDispatcher creates a dispatcher over registry.
func NewDispatcher(registry tool.Registry, opts ...Option) (*Dispatcher, error) {
	if registry == nil {
		return nil, failure.InvalidArgument("registry is required")
	}

	d := &Dispatcher{
		registry:   registry,
		logger:     logging.Nop(),
		middleware: middleware.NewRegistry(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Resolve treats the first token of line as the tool name and binds the rest
// as its arguments. Empty lines and unknown names fail with
// failure.KindInvalidArgument.
func (d *Dispatcher) Resolve(line []string) (*command.Command, error) {
	t, args, err := d.lookup(line)
	if err != nil {
		return nil, err
	}

	cmd := command.New(line)
	if err := cmd.Bind(t, args); err != nil {
		return nil, err
	}
	return cmd, nil
}

func (d *Dispatcher) lookup(line []string) (tool.Tool, []string, error) {
	if len(line) == 0 {
		return nil, nil, failure.InvalidArgument("no tool specified")
	}

	name := line[0]
	t, ok := d.registry.Lookup(name)
	if !ok {
		return nil, nil, failure.InvalidArgument("unknown tool: %s", name)
	}
	return t, slices.Clone(line[1:]), nil
}

// Execute runs a resolved command through the middleware chain. Errors the
// tool already classified keep their kind and message and are attributed to
// the tool. Anything else, including KindUnknown, becomes a classified error
// wrapping the cause.
func (d *Dispatcher) Execute(ctx context.Context, cmd *command.Command) error {
	if cmd == nil || cmd.Tool == nil {
		return failure.InvalidArgument("command is not resolved")
	}

	handler := d.middleware.Then(invoke)
	return handler(ctx, middleware.NewExecutionContext(cmd))
}

func invoke(ctx context.Context, execCtx *middleware.ExecutionContext) error {
	return normalize(execCtx.Tool, execCtx.Tool.Execute(ctx, execCtx.Args))
}

// normalize maps a tool result onto the failure model.
func normalize(t tool.Tool, err error) error {
	if err == nil {
		return nil
	}
	// Classify keeps the kind of a classified error, so only Unknown falls
	// through to PluginFailure.
	kind := failure.Classify(err)
	if _, ok := failure.As(err); ok && kind != failure.KindUnknown {
		return failure.WithTool(err, t.Name())
	}
	if kind == failure.KindUnknown {
		kind = failure.KindPluginFailure
	}

	msg := fmt.Sprintf("%s failed", t.Name())
	if desc := t.Description(); desc != "" {
		msg = fmt.Sprintf("%s (%s) failed", t.Name(), desc)
	}
	return &failure.Error{
		Kind:    kind,
		Message: msg,
		Tool:    t.Name(),
		Err:     err,
	}
}

// Dispatch resolves and executes line, driving the command through the
// dispatch state machine. The returned command is never nil and reports the
// terminal state reached, so callers can inspect it even when err is set.
func (d *Dispatcher) Dispatch(ctx context.Context, line []string) (*command.Command, error) {
	cmd := command.New(line)

	machine, err := statemachine.NewDispatchMachine()
	if err != nil {
		return cmd, fmt.Errorf("failed to create state machine: %w", err)
	}
	interp := statemachine.NewInterpreter(machine, statemachine.NewContext(cmd, d.logger))
	interp.Start()
	defer interp.Stop()

	t, args, err := d.lookup(line)
	if err != nil {
		d.logger.Debug().With(
			logging.InvocationID(cmd.ID),
			logging.Kind(failure.KindOf(err)),
			logging.ErrorField(err),
		).Msg("resolution failed")
		return cmd, d.fail(interp, err)
	}

	if err := interp.Resolve(t, args); err != nil {
		return cmd, err
	}

	if err := d.Execute(ctx, cmd); err != nil {
		return cmd, d.fail(interp, err)
	}

	if err := interp.Complete(); err != nil {
		return cmd, err
	}
	return cmd, nil
}

func (d *Dispatcher) fail(interp *statemachine.Interpreter, err error) error {
	if terr := interp.Fail(err); terr != nil {
		return fmt.Errorf("%w (while recording: %w)", err, terr)
	}
	return err
}

// Registry returns the registry the dispatcher resolves against.
func (d *Dispatcher) Registry() tool.Registry {
	return d.registry
}
