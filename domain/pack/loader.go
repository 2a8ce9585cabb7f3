package pack

import "context"

// Loader supplies additional packs after the built-in tools are registered.
// A loader failure never affects tools that are already registered.
type Loader interface {
	// Name identifies the loader in logs.
	Name() string

	// Load returns the packs this loader provides.
	Load(ctx context.Context) ([]*Pack, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc struct {
	LoaderName string
	Fn         func(ctx context.Context) ([]*Pack, error)
}

// Name returns the loader name.
func (f LoaderFunc) Name() string {
	return f.LoaderName
}

// Load calls the wrapped function.
func (f LoaderFunc) Load(ctx context.Context) ([]*Pack, error) {
	return f.Fn(ctx)
}
