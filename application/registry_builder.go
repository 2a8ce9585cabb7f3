package application

import (
	"context"

	"github.com/felixgeelhaar/devtools/domain/failure"
	"github.com/felixgeelhaar/devtools/domain/pack"
	"github.com/felixgeelhaar/devtools/domain/tool"
	"github.com/felixgeelhaar/devtools/infrastructure/logging"
)

// RegistrationFailure records a tool that could not be registered.
type RegistrationFailure struct {
	// Name is the tool name, or "" for a nil tool.
	Name string
	// Source is "builtin" or the name of the loader that supplied the tool.
	Source string
	Err    error
}

// LoaderFailure records a loader that returned an error.
type LoaderFailure struct {
	Loader string
	Err    error
}

// Report summarizes a registry build.
type Report struct {
	// Registered lists tool names in registration order.
	Registered []string
	// Disabled lists tools skipped because configuration disabled them.
	Disabled []string
	// Failed lists tools the registry rejected.
	Failed []RegistrationFailure
	// LoaderFailures lists loaders that reported an error.
	LoaderFailures []LoaderFailure
}

// OK reports whether every tool and loader succeeded.
func (r *Report) OK() bool {
	return len(r.Failed) == 0 && len(r.LoaderFailures) == 0
}

const sourceBuiltin = "builtin"

// RegistryBuilder populates a registry at startup: built-in tools first, then
// loader output. Failures are logged and reported but never abort the build.
type RegistryBuilder struct {
	registry tool.Registry
	logger   *logging.Logger
	builtins []tool.Tool
	loaders  []pack.Loader
	disabled map[string]bool
	keepOpen bool
}

// NewRegistryBuilder creates a builder that fills registry.
func NewRegistryBuilder(registry tool.Registry) *RegistryBuilder {
	return &RegistryBuilder{
		registry: registry,
		logger:   logging.Nop(),
		disabled: make(map[string]bool),
	}
}

// WithLogger sets the logger.
func (b *RegistryBuilder) WithLogger(l *logging.Logger) *RegistryBuilder {
	if l != nil {
		b.logger = l
	}
	return b
}

// Add queues built-in tools in registration order.
func (b *RegistryBuilder) Add(tools ...tool.Tool) *RegistryBuilder {
	b.builtins = append(b.builtins, tools...)
	return b
}

// AddPack queues the tools of built-in packs.
func (b *RegistryBuilder) AddPack(packs ...*pack.Pack) *RegistryBuilder {
	for _, p := range packs {
		if p != nil {
			b.builtins = append(b.builtins, p.Tools...)
		}
	}
	return b
}

// WithLoader queues loaders to run after the built-ins are registered.
func (b *RegistryBuilder) WithLoader(loaders ...pack.Loader) *RegistryBuilder {
	b.loaders = append(b.loaders, loaders...)
	return b
}

// Disable skips the named tools.
func (b *RegistryBuilder) Disable(names ...string) *RegistryBuilder {
	for _, n := range names {
		b.disabled[n] = true
	}
	return b
}

// KeepOpen leaves the registry unsealed after Build.
func (b *RegistryBuilder) KeepOpen() *RegistryBuilder {
	b.keepOpen = true
	return b
}

// Build registers everything queued and seals the registry.
func (b *RegistryBuilder) Build(ctx context.Context) *Report {
	report := &Report{}

	for _, t := range b.builtins {
		b.register(report, t, sourceBuiltin)
	}

	for _, l := range b.loaders {
		if err := ctx.Err(); err != nil {
			b.loaderFailed(report, l.Name(), failure.FromError(err, failure.KindPluginFailure, "loading aborted"))
			break
		}

		packs, err := l.Load(ctx)
		if err != nil {
			b.loaderFailed(report, l.Name(), err)
		}
		for _, p := range packs {
			if p == nil {
				b.loaderFailed(report, l.Name(), failure.Wrap(pack.ErrInvalidPack, failure.KindPluginFailure, "loader returned a nil pack"))
				continue
			}
			for _, t := range p.Tools {
				b.register(report, t, l.Name())
			}
		}
	}

	if !b.keepOpen {
		b.registry.Seal()
	}

	b.logger.Debug().With(
		logging.Count("registered", len(report.Registered)),
		logging.Count("failed", len(report.Failed)),
	).Msg("registry built")
	return report
}

func (b *RegistryBuilder) register(report *Report, t tool.Tool, source string) {
	name := ""
	if t != nil {
		name = t.Name()
	}

	if t != nil && b.disabled[name] {
		report.Disabled = append(report.Disabled, name)
		b.logger.Info().With(
			logging.ToolName(name),
			logging.Str("source", source),
		).Msg("tool disabled by configuration")
		return
	}

	if err := b.registry.Register(t); err != nil {
		report.Failed = append(report.Failed, RegistrationFailure{Name: name, Source: source, Err: err})
		b.logger.Warn().With(
			logging.ToolName(name),
			logging.Str("source", source),
			logging.Kind(failure.KindOf(err)),
			logging.ErrorField(err),
		).Msg("tool registration failed")
		return
	}

	report.Registered = append(report.Registered, name)
	b.logger.Debug().With(
		logging.ToolName(name),
		logging.Str("source", source),
	).Msg("tool registered")
}

func (b *RegistryBuilder) loaderFailed(report *Report, loader string, err error) {
	report.LoaderFailures = append(report.LoaderFailures, LoaderFailure{Loader: loader, Err: err})
	b.logger.Warn().With(
		logging.Component(loader),
		logging.Kind(failure.KindOf(err)),
		logging.ErrorField(err),
	).Msg("plugin loader failed")
}
