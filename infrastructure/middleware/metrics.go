package middleware

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/felixgeelhaar/devtools/domain/failure"
	"github.com/felixgeelhaar/devtools/domain/middleware"
)

const (
	// MetricExecutions counts dispatches by tool and outcome.
	MetricExecutions = "devtools.dispatch.executions"
	// MetricDuration records dispatch latency in milliseconds.
	MetricDuration = "devtools.dispatch.duration"

	// OutcomeOK is the outcome attribute of a successful dispatch.
	OutcomeOK = "ok"
)

// MetricsConfig configures the metrics middleware.
type MetricsConfig struct {
	// Meter creates the instruments. If nil, the global provider is used.
	Meter metric.Meter
}

// Metrics returns middleware that records an execution counter and a duration
// histogram for every dispatch. Failures are labelled with their kind.
func Metrics(cfg MetricsConfig) (middleware.Middleware, error) {
	meter := cfg.Meter
	if meter == nil {
		meter = otel.Meter(TracerName)
	}

	executions, err := meter.Int64Counter(
		MetricExecutions,
		metric.WithDescription("Number of tool dispatches"),
		metric.WithUnit("{execution}"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		MetricDuration,
		metric.WithDescription("Tool dispatch duration"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return func(next middleware.Handler) middleware.Handler {
		return func(ctx context.Context, execCtx *middleware.ExecutionContext) error {
			start := time.Now()
			err := next(ctx, execCtx)
			elapsed := float64(time.Since(start).Microseconds()) / 1000.0

			outcome := OutcomeOK
			if err != nil {
				outcome = failure.KindOf(err).String()
			}

			tool := attribute.String("tool", execCtx.Tool.Name())
			executions.Add(ctx, 1, metric.WithAttributes(tool, attribute.String("outcome", outcome)))
			duration.Record(ctx, elapsed, metric.WithAttributes(tool))
			return err
		}
	}, nil
}
