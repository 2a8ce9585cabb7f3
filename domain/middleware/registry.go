package middleware

import "slices"

// Registry holds the middleware installed on a dispatcher, outermost first.
type Registry struct {
	chain []Middleware
}

// NewRegistry creates an empty middleware registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Use appends middleware. Nil entries are skipped so optional middleware can
// be passed unconditionally.
func (r *Registry) Use(ms ...Middleware) *Registry {
	for _, m := range ms {
		if m != nil {
			r.chain = append(r.chain, m)
		}
	}
	return r
}

// Chain returns the installed middleware composed into one, or Noop.
func (r *Registry) Chain() Middleware {
	if len(r.chain) == 0 {
		return Noop()
	}
	return Chain(r.chain...)
}

// Then wraps final with every installed middleware.
func (r *Registry) Then(final Handler) Handler {
	return r.Chain()(final)
}

// Len returns the number of installed middleware.
func (r *Registry) Len() int {
	return len(r.chain)
}

// Clone returns a registry that can be extended without affecting r.
func (r *Registry) Clone() *Registry {
	return &Registry{chain: slices.Clone(r.chain)}
}
