// Package memory provides in-memory storage implementations.
package memory

import (
	"slices"
	"sync"

	"github.com/felixgeelhaar/devtools/domain/failure"
	"github.com/felixgeelhaar/devtools/domain/tool"
)

// ToolRegistry is an insertion-ordered, in-memory implementation of tool.Registry.
// Failed registrations never change its contents.
type ToolRegistry struct {
	tools  map[string]tool.Tool
	order  []string
	sealed bool
	mu     sync.RWMutex
}

// NewToolRegistry creates a new in-memory tool registry.
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{
		tools: make(map[string]tool.Tool),
	}
}

// Register adds a tool to the registry.
func (r *ToolRegistry) Register(t tool.Tool) error {
	if t == nil {
		return failure.Wrap(tool.ErrNilTool, failure.KindInvalidArgument, "cannot register a nil tool")
	}
	name := t.Name()
	if err := tool.ValidateName(name); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return failure.Wrap(tool.ErrRegistrySealed, failure.KindPermissionDenied,
			"cannot register %s: registry is sealed", name)
	}
	if _, exists := r.tools[name]; exists {
		return failure.Wrap(tool.ErrToolExists, failure.KindInvalidArgument,
			"duplicate tool name: %s", name)
	}

	r.tools[name] = t
	r.order = append(r.order, name)
	return nil
}

// Lookup retrieves a tool by exact name.
func (r *ToolRegistry) Lookup(name string) (tool.Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tools[name]
	return t, ok
}

// List returns all registered tools in registration order.
func (r *ToolRegistry) List() []tool.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]tool.Tool, 0, len(r.order))
	for _, name := range r.order {
		tools = append(tools, r.tools[name])
	}
	return tools
}

// Names returns all registered tool names in registration order.
func (r *ToolRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.order)
}

// Has checks if a tool is registered.
func (r *ToolRegistry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.tools[name]
	return ok
}

// Count returns the number of registered tools.
func (r *ToolRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Seal makes the registry read-only.
func (r *ToolRegistry) Seal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sealed = true
}

// Sealed reports whether Seal has been called.
func (r *ToolRegistry) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}

var _ tool.Registry = (*ToolRegistry)(nil)
