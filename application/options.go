package application

import (
	"github.com/felixgeelhaar/devtools/domain/middleware"
	"github.com/felixgeelhaar/devtools/infrastructure/logging"
)

// Option configures the dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger used for dispatch and state transitions.
func WithLogger(l *logging.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithMiddleware appends execution middleware. The first middleware added is
// the outermost.
func WithMiddleware(ms ...middleware.Middleware) Option {
	return func(d *Dispatcher) {
		d.middleware.Use(ms...)
	}
}

// WithMiddlewareRegistry replaces the middleware registry.
func WithMiddlewareRegistry(r *middleware.Registry) Option {
	return func(d *Dispatcher) {
		if r != nil {
			d.middleware = r.Clone()
		}
	}
}
