// Package api provides the public API for embedding the devtools dispatcher
// in other Go programs.
//
// # Quick Start
//
// Register the built-in tools plus one of your own and dispatch a command
// line:
//
//	greet := api.NewToolBuilder("greet").
//	    WithDescription("Say hello").
//	    WithHandler(func(ctx context.Context, args []string) error {
//	        fmt.Println("hello", strings.Join(args, " "))
//	        return nil
//	    }).
//	    MustBuild()
//
//	reg := api.NewToolRegistry()
//	report := api.NewRegistryBuilder(reg).
//	    Add(api.BuiltinTools(api.DefaultEnv())...).
//	    Add(greet).
//	    Build(ctx)
//
//	d, _ := api.NewDispatcher(reg)
//	cmd, err := d.Dispatch(ctx, []string{"greet", "world"})
//
// Errors returned by Dispatch carry a Kind; use errors.Is(err, api.KindNotFound)
// or api.KindOf(err) to inspect them.
package api

import (
	"github.com/felixgeelhaar/devtools/application"
	"github.com/felixgeelhaar/devtools/domain/command"
	"github.com/felixgeelhaar/devtools/domain/failure"
	"github.com/felixgeelhaar/devtools/domain/middleware"
	"github.com/felixgeelhaar/devtools/domain/pack"
	domaintool "github.com/felixgeelhaar/devtools/domain/tool"
	"github.com/felixgeelhaar/devtools/infrastructure/storage/memory"
	"github.com/felixgeelhaar/devtools/pack/builtin"
)

// Re-export core types for convenience.
type (
	// Tool is an invocable unit registered by name.
	Tool = domaintool.Tool

	// Handler is the body of a tool built with NewToolBuilder.
	Handler = domaintool.Handler

	// Registry stores tools in registration order.
	Registry = domaintool.Registry

	// Command is one dispatch from raw command line to result.
	Command = command.Command

	// State is a dispatch stage of a Command.
	State = command.State

	// Pack groups related tools.
	Pack = pack.Pack

	// Env is the I/O environment handed to tools.
	Env = pack.Env

	// Loader supplies packs after the built-in tools are registered.
	Loader = pack.Loader

	// Kind classifies a failure.
	Kind = failure.Kind

	// Error is a classified failure.
	Error = failure.Error

	// Middleware wraps tool execution.
	Middleware = middleware.Middleware

	// Dispatcher resolves and runs command lines.
	Dispatcher = application.Dispatcher

	// RegistryBuilder populates a registry at startup.
	RegistryBuilder = application.RegistryBuilder

	// Report summarizes a registry build.
	Report = application.Report

	// Option configures a Dispatcher.
	Option = application.Option
)

// Dispatch states.
const (
	StateUnresolved = command.StateUnresolved
	StateResolved   = command.StateResolved
	StateCompleted  = command.StateCompleted
	StateFailed     = command.StateFailed
)

// Failure kinds.
const (
	KindUnknown          = failure.KindUnknown
	KindInvalidArgument  = failure.KindInvalidArgument
	KindNotFound         = failure.KindNotFound
	KindPermissionDenied = failure.KindPermissionDenied
	KindOutOfMemory      = failure.KindOutOfMemory
	KindParseError       = failure.KindParseError
	KindNetwork          = failure.KindNetwork
	KindTimeout          = failure.KindTimeout
	KindPluginFailure    = failure.KindPluginFailure
)

// Dispatcher options.
var (
	WithLogger             = application.WithLogger
	WithMiddleware         = application.WithMiddleware
	WithMiddlewareRegistry = application.WithMiddlewareRegistry
)

// NewToolBuilder creates a new tool builder.
func NewToolBuilder(name string) *domaintool.Builder {
	return domaintool.NewBuilder(name)
}

// NewPackBuilder creates a new pack builder.
func NewPackBuilder(name string) *pack.Builder {
	return pack.NewBuilder(name)
}

// NewToolRegistry creates a new in-memory tool registry.
func NewToolRegistry() *memory.ToolRegistry {
	return memory.NewToolRegistry()
}

// NewRegistryBuilder creates a builder that fills registry.
func NewRegistryBuilder(registry Registry) *RegistryBuilder {
	return application.NewRegistryBuilder(registry)
}

// NewDispatcher creates a dispatcher over registry.
func NewDispatcher(registry Registry, opts ...Option) (*Dispatcher, error) {
	return application.NewDispatcher(registry, opts...)
}

// DefaultEnv returns an environment bound to the process stdio.
func DefaultEnv() Env {
	return pack.DefaultEnv()
}

// BuiltinTools returns the tools shipped with devtools, in registration order.
func BuiltinTools(env Env) []Tool {
	return builtin.Tools(env)
}

// KindOf returns the kind of err, or KindUnknown.
func KindOf(err error) Kind {
	return failure.KindOf(err)
}

// Diagnostic renders err as the one-line "<kind>: <message>" form.
func Diagnostic(err error) string {
	return failure.Diagnostic(err)
}
