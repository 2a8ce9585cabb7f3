package middleware

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/felixgeelhaar/devtools/domain/failure"
	"github.com/felixgeelhaar/devtools/domain/middleware"
)

// TracerName is the instrumentation scope used when no tracer is configured.
const TracerName = "github.com/felixgeelhaar/devtools"

// TracingConfig configures the tracing middleware.
type TracingConfig struct {
	// Tracer is the tracer to use. If nil, the global provider is used.
	Tracer trace.Tracer

	// SpanNamePrefix is prepended to the tool name.
	SpanNamePrefix string

	// RecordArgs records the joined tool arguments as a span attribute.
	RecordArgs bool

	// MaxAttributeSize limits the size of recorded attributes.
	MaxAttributeSize int

	// AdditionalAttributes are added to all spans.
	AdditionalAttributes []attribute.KeyValue
}

// DefaultTracingConfig returns the default configuration.
func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		SpanNamePrefix:   "dispatch.",
		RecordArgs:       false,
		MaxAttributeSize: 1024,
	}
}

// Tracing returns middleware that wraps every dispatch in a span.
func Tracing(cfg TracingConfig) middleware.Middleware {
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = otel.Tracer(TracerName)
	}

	maxSize := cfg.MaxAttributeSize
	if maxSize <= 0 {
		maxSize = 1024
	}

	return func(next middleware.Handler) middleware.Handler {
		return func(ctx context.Context, execCtx *middleware.ExecutionContext) error {
			ctx, span := tracer.Start(ctx, cfg.SpanNamePrefix+execCtx.Tool.Name(),
				trace.WithSpanKind(trace.SpanKindInternal),
				trace.WithAttributes(ToolSpanAttributes(execCtx)...),
			)
			defer span.End()

			if cfg.RecordArgs && len(execCtx.Args) > 0 {
				span.SetAttributes(attribute.String("tool.args", joinArgs(execCtx.Args, maxSize)))
			}
			span.SetAttributes(cfg.AdditionalAttributes...)

			err := next(ctx, execCtx)
			if err != nil {
				span.RecordError(err)
				span.SetAttributes(attribute.String("error.kind", failure.KindOf(err).String()))
				span.SetStatus(codes.Error, failure.Diagnostic(err))
				return err
			}

			span.SetStatus(codes.Ok, "")
			return nil
		}
	}
}

// TracingOption configures the tracing middleware.
type TracingOption func(*TracingConfig)

// WithTracer sets a custom tracer.
func WithTracer(tracer trace.Tracer) TracingOption {
	return func(c *TracingConfig) {
		c.Tracer = tracer
	}
}

// WithArgsRecording enables or disables argument recording.
func WithArgsRecording(enabled bool) TracingOption {
	return func(c *TracingConfig) {
		c.RecordArgs = enabled
	}
}

// WithSpanNamePrefix sets the span name prefix.
func WithSpanNamePrefix(prefix string) TracingOption {
	return func(c *TracingConfig) {
		c.SpanNamePrefix = prefix
	}
}

// WithAdditionalAttributes adds extra attributes to all spans.
func WithAdditionalAttributes(attrs ...attribute.KeyValue) TracingOption {
	return func(c *TracingConfig) {
		c.AdditionalAttributes = append(c.AdditionalAttributes, attrs...)
	}
}

// NewTracing creates tracing middleware with the given options.
func NewTracing(opts ...TracingOption) middleware.Middleware {
	cfg := DefaultTracingConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return Tracing(cfg)
}

// ToolSpanAttributes returns the standard attributes for a dispatch span.
func ToolSpanAttributes(execCtx *middleware.ExecutionContext) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("devtools.invocation_id", execCtx.InvocationID),
		attribute.String("tool.name", execCtx.Tool.Name()),
		attribute.String("tool.version", execCtx.Tool.Version()),
		attribute.Int("tool.args_count", len(execCtx.Args)),
	}
}

func joinArgs(args []string, maxLen int) string {
	s := strings.Join(args, " ")
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "...[truncated]"
}
