// Package middleware provides composable middleware around tool execution.
package middleware

import (
	"context"

	"github.com/felixgeelhaar/devtools/domain/command"
	"github.com/felixgeelhaar/devtools/domain/tool"
)

// ExecutionContext contains everything middleware may inspect about a call.
type ExecutionContext struct {
	// InvocationID is the unique identifier of the command.
	InvocationID string
	// Tool is the tool being executed.
	Tool tool.Tool
	// Args are the arguments passed to the tool.
	Args []string
	// Command is the command being dispatched.
	Command *command.Command
}

// NewExecutionContext builds an ExecutionContext for a resolved command.
func NewExecutionContext(cmd *command.Command) *ExecutionContext {
	return &ExecutionContext{
		InvocationID: cmd.ID,
		Tool:         cmd.Tool,
		Args:         cmd.Args,
		Command:      cmd,
	}
}

// Handler executes a tool and returns its normalized error.
type Handler func(ctx context.Context, execCtx *ExecutionContext) error

// Middleware wraps a Handler with additional behavior.
// Middleware can:
// - Execute code before the next handler
// - Execute code after the next handler
// - Short-circuit by not calling next
type Middleware func(next Handler) Handler

// Chain composes multiple middleware into a single middleware.
// Middleware are executed in the order provided, with each wrapping the next.
// For example, Chain(A, B, C) produces: A -> B -> C -> handler
func Chain(middlewares ...Middleware) Middleware {
	return func(final Handler) Handler {
		// Build chain from right to left so execution is left to right
		handler := final
		for i := len(middlewares) - 1; i >= 0; i-- {
			handler = middlewares[i](handler)
		}
		return handler
	}
}

// Noop returns a middleware that does nothing, just passes through.
func Noop() Middleware {
	return func(next Handler) Handler {
		return next
	}
}
