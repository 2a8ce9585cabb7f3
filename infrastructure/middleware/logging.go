// Package middleware provides execution middleware around tool dispatch.
package middleware

import (
	"context"
	"time"

	"github.com/felixgeelhaar/devtools/domain/failure"
	"github.com/felixgeelhaar/devtools/domain/middleware"
	"github.com/felixgeelhaar/devtools/infrastructure/logging"
)

// LoggingConfig configures the logging middleware.
type LoggingConfig struct {
	// Logger receives the entries. Nil discards them.
	Logger *logging.Logger
	// LogArgs logs the tool arguments (may contain sensitive data).
	LogArgs bool
}

// Logging returns middleware that logs the start and end of every dispatch.
func Logging(cfg LoggingConfig) middleware.Middleware {
	log := cfg.Logger
	if log == nil {
		log = logging.Nop()
	}

	return func(next middleware.Handler) middleware.Handler {
		return func(ctx context.Context, execCtx *middleware.ExecutionContext) error {
			start := time.Now()
			name := execCtx.Tool.Name()

			entry := log.Info().With(
				logging.InvocationID(execCtx.InvocationID),
				logging.ToolName(name),
				logging.ArgsCount(len(execCtx.Args)),
			)
			if cfg.LogArgs && len(execCtx.Args) > 0 {
				entry = entry.Add(logging.Str("argv", joinArgs(execCtx.Args, 500)))
			}
			entry.Msg("dispatching tool")

			err := next(ctx, execCtx)
			duration := time.Since(start)

			if err != nil {
				log.Error().With(
					logging.InvocationID(execCtx.InvocationID),
					logging.ToolName(name),
					logging.Kind(failure.KindOf(err)),
					logging.ErrorField(err),
					logging.Duration(duration),
				).Msg("tool failed")
				return err
			}

			log.Info().With(
				logging.InvocationID(execCtx.InvocationID),
				logging.ToolName(name),
				logging.Duration(duration),
			).Msg("tool completed")
			return nil
		}
	}
}
