package cli

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/felixgeelhaar/devtools/application"
	"github.com/felixgeelhaar/devtools/domain/config"
	"github.com/felixgeelhaar/devtools/domain/middleware"
	"github.com/felixgeelhaar/devtools/domain/pack"
	"github.com/felixgeelhaar/devtools/domain/tool"
	infraconfig "github.com/felixgeelhaar/devtools/infrastructure/config"
	"github.com/felixgeelhaar/devtools/infrastructure/logging"
	inframw "github.com/felixgeelhaar/devtools/infrastructure/middleware"
	"github.com/felixgeelhaar/devtools/infrastructure/observability"
	infrapack "github.com/felixgeelhaar/devtools/infrastructure/pack"
	"github.com/felixgeelhaar/devtools/infrastructure/storage/memory"
	"github.com/felixgeelhaar/devtools/pack/builtin"
)

// dotEnvFile is loaded from the working directory when present.
const dotEnvFile = ".env"

// shutdownTimeout bounds telemetry flushing after a dispatch.
const shutdownTimeout = 5 * time.Second

// session holds everything built from the configuration for one invocation.
type session struct {
	cfg        *config.Config
	logger     *logging.Logger
	provider   *observability.Provider
	registry   *memory.ToolRegistry
	dispatcher *application.Dispatcher
	report     *application.Report
}

// open resolves the configuration and builds the registry and dispatcher.
func (a *App) open(ctx context.Context) (*session, error) {
	cfg, err := a.resolveConfig()
	if err != nil {
		return nil, err
	}
	a.color = cfg.Color

	logger, err := logging.New(logging.Config{
		Level:  cfg.EffectiveLogLevel(),
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
		Output: a.stderr,
	})
	if err != nil {
		return nil, err
	}

	provider, err := observability.New(ctx, cfg.Telemetry,
		observability.WithServiceVersion(Version),
		observability.WithWriter(a.stderr),
	)
	if err != nil {
		_ = logger.Close()
		return nil, err
	}

	s := &session{
		cfg:      cfg,
		logger:   logger,
		provider: provider,
		registry: memory.NewToolRegistry(),
	}

	chain, err := s.middleware()
	if err != nil {
		_ = s.Close(ctx)
		return nil, err
	}

	env := pack.Env{
		Stdin:   a.stdin,
		Stdout:  a.stdout,
		Stderr:  a.stderr,
		Color:   cfg.Color,
		TabSize: cfg.TabSize,
		Confirm: cfg.ConfirmOperations,
	}

	s.report = application.NewRegistryBuilder(s.registry).
		WithLogger(logger).
		AddPack(builtin.New(env)).
		WithLoader(infrapack.NewCommandLoader(cfg.Tools.Commands, env)).
		Disable(cfg.Tools.Disabled...).
		Build(ctx)

	s.dispatcher, err = application.NewDispatcher(s.registry,
		application.WithLogger(logger),
		application.WithMiddleware(chain...),
	)
	if err != nil {
		_ = s.Close(ctx)
		return nil, err
	}
	return s, nil
}

// resolveConfig layers defaults, the configuration file, DEVTOOLS_*
// variables and the global flags, then validates the result.
func (a *App) resolveConfig() (*config.Config, error) {
	cfg, err := infraconfig.NewLoader().Resolve(infraconfig.Options{
		Path:        a.flags.config,
		DefaultPath: infraconfig.DefaultPath(),
		DotEnvFiles: []string{dotEnvFile},
	})
	if err != nil {
		return nil, err
	}

	if a.flags.verbose {
		cfg.Verbose = true
	}
	if a.flags.quiet {
		cfg.Quiet = true
	}

	if err := infraconfig.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// middleware builds the execution chain, outermost first.
func (s *session) middleware() ([]middleware.Middleware, error) {
	metrics, err := inframw.Metrics(inframw.MetricsConfig{
		Meter: s.provider.Meter(),
	})
	if err != nil {
		return nil, err
	}

	return []middleware.Middleware{
		inframw.Logging(inframw.LoggingConfig{
			Logger:  s.logger,
			LogArgs: s.cfg.Verbose,
		}),
		inframw.NewTracing(
			inframw.WithTracer(s.provider.Tracer()),
			inframw.WithArgsRecording(s.cfg.Verbose),
			inframw.WithAdditionalAttributes(attribute.String("devtools.version", Version)),
		),
		metrics,
	}, nil
}

// Tools returns the registered tools in registration order.
func (s *session) Tools() []tool.Tool {
	return s.registry.List()
}

// Close flushes telemetry and releases the log file.
func (s *session) Close(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	return errors.Join(s.provider.Shutdown(ctx), s.logger.Close())
}
