package tool

import (
	"context"
	"fmt"
	"io"

	"github.com/felixgeelhaar/devtools/domain/failure"
)

// Tool is a named, independently invocable unit of functionality.
type Tool interface {
	// Name returns the stable string identifier used on the command line.
	Name() string

	// Description returns a one-line summary of what the tool does.
	Description() string

	// Version returns the tool version. May be empty.
	Version() string

	// Author returns the tool author. May be empty.
	Author() string

	// Execute runs the tool with the arguments that followed its name.
	Execute(ctx context.Context, args []string) error
}

// Helper is implemented by tools that can print their own usage.
type Helper interface {
	Help(w io.Writer)
}

// VersionReporter is implemented by tools that can print their own version text.
type VersionReporter interface {
	VersionInfo(w io.Writer)
}

// Handler is the function signature for tool execution.
type Handler func(ctx context.Context, args []string) error

// Definition is a concrete implementation of Tool.
type Definition struct {
	name        string
	description string
	version     string
	author      string
	handler     Handler
	help        func(w io.Writer)
	versionInfo func(w io.Writer)
}

// Name returns the tool name.
func (d *Definition) Name() string {
	return d.name
}

// Description returns the tool description.
func (d *Definition) Description() string {
	return d.description
}

// Version returns the tool version.
func (d *Definition) Version() string {
	return d.version
}

// Author returns the tool author.
func (d *Definition) Author() string {
	return d.author
}

// Execute runs the tool handler.
func (d *Definition) Execute(ctx context.Context, args []string) error {
	if d.handler == nil {
		return failure.Wrap(ErrNoHandler, failure.KindPluginFailure, "tool %s has no handler", d.name)
	}
	return d.handler(ctx, args)
}

// Help prints the tool usage, or a name and description line if none was set.
func (d *Definition) Help(w io.Writer) {
	if d.help != nil {
		d.help(w)
		return
	}
	fmt.Fprintf(w, "%s - %s\n", d.name, d.description)
}

// VersionInfo prints the tool version text.
func (d *Definition) VersionInfo(w io.Writer) {
	if d.versionInfo != nil {
		d.versionInfo(w)
		return
	}
	writeDefaultVersion(w, d)
}

// WriteHelp prints help for any tool, falling back to its description.
func WriteHelp(w io.Writer, t Tool) {
	if h, ok := t.(Helper); ok {
		h.Help(w)
		return
	}
	fmt.Fprintf(w, "%s - %s\n", t.Name(), t.Description())
}

// WriteVersion prints version text for any tool.
func WriteVersion(w io.Writer, t Tool) {
	if v, ok := t.(VersionReporter); ok {
		v.VersionInfo(w)
		return
	}
	writeDefaultVersion(w, t)
}

func writeDefaultVersion(w io.Writer, t Tool) {
	version := t.Version()
	if version == "" {
		version = "unversioned"
	}
	if t.Author() != "" {
		fmt.Fprintf(w, "%s %s (%s)\n", t.Name(), version, t.Author())
		return
	}
	fmt.Fprintf(w, "%s %s\n", t.Name(), version)
}

// Builder provides a fluent API for constructing tools.
type Builder struct {
	def *Definition
}

// NewBuilder creates a new tool builder with the given name.
func NewBuilder(name string) *Builder {
	return &Builder{
		def: &Definition{name: name},
	}
}

// WithDescription sets the tool description.
func (b *Builder) WithDescription(desc string) *Builder {
	b.def.description = desc
	return b
}

// WithVersion sets the tool version.
func (b *Builder) WithVersion(version string) *Builder {
	b.def.version = version
	return b
}

// WithAuthor sets the tool author.
func (b *Builder) WithAuthor(author string) *Builder {
	b.def.author = author
	return b
}

// WithHelp sets the usage printer.
func (b *Builder) WithHelp(fn func(w io.Writer)) *Builder {
	b.def.help = fn
	return b
}

// WithVersionInfo sets the version printer.
func (b *Builder) WithVersionInfo(fn func(w io.Writer)) *Builder {
	b.def.versionInfo = fn
	return b
}

// WithHandler sets the tool handler function.
func (b *Builder) WithHandler(handler Handler) *Builder {
	b.def.handler = handler
	return b
}

// Build constructs the tool definition. The returned tool is never mutated
// by the builder again.
func (b *Builder) Build() (Tool, error) {
	if err := ValidateName(b.def.name); err != nil {
		return nil, err
	}
	if b.def.handler == nil {
		return nil, failure.Wrap(ErrNoHandler, failure.KindInvalidArgument,
			"tool %s has no handler", b.def.name)
	}
	def := *b.def
	return &def, nil
}

// MustBuild constructs the tool definition or panics on error.
func (b *Builder) MustBuild() Tool {
	tool, err := b.Build()
	if err != nil {
		panic(err)
	}
	return tool
}
