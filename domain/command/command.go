package command

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/devtools/domain/tool"
)

// Command is a single invocation of the program, from raw command line to
// final result.
type Command struct {
	// ID uniquely identifies this invocation.
	ID string

	// Line is the raw command line, tool name first.
	Line []string

	// Tool is the resolved tool. Nil until the command is resolved.
	Tool tool.Tool

	// Args are the tokens following the tool name.
	Args []string

	// State is the current dispatch stage.
	State State

	// Err holds the failure that ended the command, if any.
	Err error

	// StartTime is when the command was created.
	StartTime time.Time

	// EndTime is when the command reached a terminal state.
	EndTime time.Time
}

// New creates an unresolved command for a raw command line.
func New(line []string) *Command {
	return &Command{
		ID:        uuid.NewString(),
		Line:      slices.Clone(line),
		State:     StateUnresolved,
		StartTime: time.Now(),
	}
}

// ToolName returns the resolved tool name, or the first token of the line.
func (c *Command) ToolName() string {
	if c.Tool != nil {
		return c.Tool.Name()
	}
	if len(c.Line) > 0 {
		return c.Line[0]
	}
	return ""
}

// TransitionTo changes the current state if the transition is allowed.
func (c *Command) TransitionTo(next State) error {
	if !c.State.CanTransition(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, c.State, next)
	}
	c.State = next
	if next.IsTerminal() {
		c.EndTime = time.Now()
	}
	return nil
}

// Bind attaches the resolved tool and its arguments and marks the command resolved.
func (c *Command) Bind(t tool.Tool, args []string) error {
	if err := c.TransitionTo(StateResolved); err != nil {
		return err
	}
	c.Tool = t
	c.Args = slices.Clone(args)
	return nil
}

// Complete marks a resolved command as successful.
func (c *Command) Complete() error {
	return c.TransitionTo(StateCompleted)
}

// Fail records err and marks the command failed.
func (c *Command) Fail(err error) error {
	if terr := c.TransitionTo(StateFailed); terr != nil {
		return terr
	}
	c.Err = err
	return nil
}

// IsResolved returns true once a tool has been bound.
func (c *Command) IsResolved() bool {
	return c.Tool != nil
}

// IsTerminal returns true if the command has completed or failed.
func (c *Command) IsTerminal() bool {
	return c.State.IsTerminal()
}

// Duration returns the time from creation to the terminal state, or until now.
func (c *Command) Duration() time.Duration {
	if c.EndTime.IsZero() {
		return time.Since(c.StartTime)
	}
	return c.EndTime.Sub(c.StartTime)
}
