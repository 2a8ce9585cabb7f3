package observability

import (
	"context"
	"encoding/json"
	"errors"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/felixgeelhaar/devtools/domain/config"
	"github.com/felixgeelhaar/devtools/domain/failure"
)

// ScopeName is the instrumentation scope of the suite's tracer and meter.
const ScopeName = "github.com/felixgeelhaar/devtools"

// Provider owns the tracer and meter providers for one process.
type Provider struct {
	cfg            config.TelemetryConfig
	opts           options
	tracerProvider trace.TracerProvider
	sdkTracer      *sdktrace.TracerProvider
	meterProvider  metric.MeterProvider
	reader         *sdkmetric.ManualReader
	dumpMetrics    bool
	shutdownFuncs  []func(context.Context) error
}

// New creates a provider from the telemetry configuration. A disabled
// configuration, or the "none" exporter, yields no-op providers.
func New(ctx context.Context, cfg config.TelemetryConfig, opts ...Option) (*Provider, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	disabled := !cfg.Enabled || cfg.Exporter == "" || cfg.Exporter == config.ExporterNone
	if disabled && o.spanExporter == nil {
		return NewNoopProvider(), nil
	}

	p := &Provider{cfg: cfg, opts: o}

	exporter, err := p.spanExporter(ctx)
	if err != nil {
		return nil, err
	}
	p.setupTracing(exporter)
	p.setupMetrics()
	return p, nil
}

// NewNoopProvider returns a provider whose tracer and meter record nothing.
func NewNoopProvider() *Provider {
	return &Provider{
		tracerProvider: tracenoop.NewTracerProvider(),
		meterProvider:  metricnoop.NewMeterProvider(),
	}
}

func (p *Provider) spanExporter(ctx context.Context) (sdktrace.SpanExporter, error) {
	if p.opts.spanExporter != nil {
		return p.opts.spanExporter, nil
	}

	switch p.cfg.Exporter {
	case config.ExporterStdout:
		exp, err := stdouttrace.New(stdouttrace.WithWriter(p.opts.writer), stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, failure.Wrap(err, failure.KindUnknown, "cannot create stdout trace exporter")
		}
		return exp, nil

	case config.ExporterOTLP:
		opts := []otlptracegrpc.Option{
			otlptracegrpc.WithEndpoint(p.cfg.Endpoint),
		}
		if p.cfg.Insecure {
			opts = append(opts,
				otlptracegrpc.WithInsecure(),
				otlptracegrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
			)
		}
		exp, err := otlptracegrpc.New(ctx, opts...)
		if err != nil {
			return nil, failure.FromError(err, failure.KindNetwork, "cannot create OTLP exporter for %s", p.cfg.Endpoint)
		}
		return exp, nil

	default:
		return nil, failure.InvalidArgument("unknown telemetry exporter: %s", p.cfg.Exporter)
	}
}

func (p *Provider) resource() *resource.Resource {
	name := p.cfg.ServiceName
	if name == "" {
		name = "devtools"
	}
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(name),
		semconv.ServiceVersion(p.opts.serviceVersion),
	)
}

func (p *Provider) setupTracing(exporter sdktrace.SpanExporter) {
	var sampler sdktrace.Sampler
	switch rate := p.cfg.SampleRate; {
	case rate >= 1.0:
		sampler = sdktrace.AlwaysSample()
	case rate <= 0.0:
		sampler = sdktrace.NeverSample()
	default:
		sampler = sdktrace.TraceIDRatioBased(rate)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter,
			sdktrace.WithBatchTimeout(p.opts.batchTimeout),
			sdktrace.WithMaxExportBatchSize(p.opts.maxExportBatchSize),
		),
		sdktrace.WithResource(p.resource()),
		sdktrace.WithSampler(sampler),
	)
	p.tracerProvider = tp
	p.sdkTracer = tp
	p.shutdownFuncs = append(p.shutdownFuncs, tp.Shutdown)
}

// setupMetrics collects through a manual reader. With the stdout exporter the
// collected metrics are written as JSON on shutdown. OTLP metric export is
// not wired, so the otlp exporter keeps a no-op meter unless a reader was
// injected.
func (p *Provider) setupMetrics() {
	reader := p.opts.metricReader
	switch {
	case reader != nil:
	case p.cfg.Exporter == config.ExporterStdout:
		reader = sdkmetric.NewManualReader()
		p.dumpMetrics = true
	default:
		p.meterProvider = metricnoop.NewMeterProvider()
		return
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(reader),
		sdkmetric.WithResource(p.resource()),
	)
	p.reader = reader
	p.meterProvider = mp
	p.shutdownFuncs = append(p.shutdownFuncs, mp.Shutdown)
}

// Tracer returns the suite tracer.
func (p *Provider) Tracer() trace.Tracer {
	return p.tracerProvider.Tracer(ScopeName)
}

// Meter returns the suite meter.
func (p *Provider) Meter() metric.Meter {
	return p.meterProvider.Meter(ScopeName)
}

// ForceFlush exports every finished span without shutting down.
func (p *Provider) ForceFlush(ctx context.Context) error {
	if p.sdkTracer == nil {
		return nil
	}
	return p.sdkTracer.ForceFlush(ctx)
}

// Shutdown flushes pending spans and metrics and releases the exporters.
func (p *Provider) Shutdown(ctx context.Context) error {
	var errs []error
	if p.dumpMetrics && p.reader != nil {
		if err := p.writeMetrics(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	for _, fn := range p.shutdownFuncs {
		if err := fn(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	p.shutdownFuncs = nil
	p.dumpMetrics = false
	return errors.Join(errs...)
}

func (p *Provider) writeMetrics(ctx context.Context) error {
	var rm metricdata.ResourceMetrics
	if err := p.reader.Collect(ctx, &rm); err != nil {
		return err
	}
	if len(rm.ScopeMetrics) == 0 {
		return nil
	}
	enc := json.NewEncoder(p.opts.writer)
	enc.SetIndent("", "\t")
	return enc.Encode(rm.ScopeMetrics)
}
