package tool

// Registry defines the interface for tool registration and lookup.
// Implementations live in infrastructure.
type Registry interface {
	// Register adds a tool. Duplicate or invalid names fail with
	// failure.KindInvalidArgument and leave the registry unchanged.
	Register(tool Tool) error

	// Lookup retrieves a tool by exact name.
	Lookup(name string) (Tool, bool)

	// List returns all registered tools in registration order.
	List() []Tool

	// Names returns all registered tool names in registration order.
	Names() []string

	// Has checks if a tool is registered.
	Has(name string) bool

	// Count returns the number of registered tools.
	Count() int

	// Seal makes the registry read-only. Later registrations fail with
	// failure.KindPermissionDenied.
	Seal()

	// Sealed reports whether Seal has been called.
	Sealed() bool
}
