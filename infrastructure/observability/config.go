// Package observability provides the OpenTelemetry tracer and meter used by
// the dispatch middleware.
package observability

import (
	"io"
	"os"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

type options struct {
	serviceVersion     string
	writer             io.Writer
	spanExporter       sdktrace.SpanExporter
	metricReader       *sdkmetric.ManualReader
	batchTimeout       time.Duration
	maxExportBatchSize int
}

func defaultOptions() options {
	return options{
		serviceVersion:     "dev",
		writer:             os.Stderr,
		batchTimeout:       5 * time.Second,
		maxExportBatchSize: 512,
	}
}

// Option configures the provider.
type Option func(*options)

// WithServiceVersion sets the service.version resource attribute.
func WithServiceVersion(version string) Option {
	return func(o *options) {
		o.serviceVersion = version
	}
}

// WithWriter sets the destination of the stdout exporter. Defaults to
// os.Stderr so that tool output on stdout stays clean.
func WithWriter(w io.Writer) Option {
	return func(o *options) {
		o.writer = w
	}
}

// WithSpanExporter replaces the configured span exporter.
func WithSpanExporter(exp sdktrace.SpanExporter) Option {
	return func(o *options) {
		o.spanExporter = exp
	}
}

// WithMetricReader collects metrics through reader instead of the default.
func WithMetricReader(reader *sdkmetric.ManualReader) Option {
	return func(o *options) {
		o.metricReader = reader
	}
}

// WithBatchTimeout sets the span batch export timeout.
func WithBatchTimeout(d time.Duration) Option {
	return func(o *options) {
		o.batchTimeout = d
	}
}
