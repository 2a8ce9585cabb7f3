// Package pack provides types for tool collections and the loaders that
// supply them.
package pack

import (
	"slices"

	"github.com/felixgeelhaar/devtools/domain/tool"
)

// Pack is a named group of tools registered together. Tools keep the order
// they were added in, which becomes their registration order.
type Pack struct {
	Name        string
	Description string
	Version     string
	Tools       []tool.Tool
}

// ToolNames lists the tool names in order. A nil entry yields "".
func (p *Pack) ToolNames() []string {
	names := make([]string, 0, len(p.Tools))
	for _, t := range p.Tools {
		if t == nil {
			names = append(names, "")
			continue
		}
		names = append(names, t.Name())
	}
	return names
}

// GetTool finds a tool in the pack by exact name.
func (p *Pack) GetTool(name string) (tool.Tool, bool) {
	i := slices.IndexFunc(p.Tools, func(t tool.Tool) bool {
		return t != nil && t.Name() == name
	})
	if i < 0 {
		return nil, false
	}
	return p.Tools[i], true
}

// Builder assembles a Pack.
type Builder struct {
	name        string
	description string
	version     string
	tools       []tool.Tool
}

// NewBuilder starts a pack called name.
func NewBuilder(name string) *Builder {
	return &Builder{name: name}
}

// WithDescription sets the pack description.
func (b *Builder) WithDescription(desc string) *Builder {
	b.description = desc
	return b
}

// WithVersion sets the pack version.
func (b *Builder) WithVersion(version string) *Builder {
	b.version = version
	return b
}

// AddTool appends one tool.
func (b *Builder) AddTool(t tool.Tool) *Builder {
	return b.AddTools(t)
}

// AddTools appends tools in order. Nil tools are kept so that registration
// can report them.
func (b *Builder) AddTools(tools ...tool.Tool) *Builder {
	b.tools = append(b.tools, tools...)
	return b
}

// Build returns a new Pack. Later changes to the builder do not affect it.
func (b *Builder) Build() *Pack {
	return &Pack{
		Name:        b.name,
		Description: b.description,
		Version:     b.version,
		Tools:       slices.Clone(b.tools),
	}
}
