// Package tracing configures OpenTelemetry trace export over OTLP/gRPC.
package tracing

import (
	"context"
	"fmt"

	"github.com/submap/submap/pkg/defaults"
	"github.com/submap/submap/pkg/duration"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Options configures the exporter.
type Options struct {
	// Endpoint is the OTLP gRPC endpoint (e.g. "localhost:4317"). Empty
	// disables tracing.
	Endpoint string

	// Insecure uses a plaintext connection.
	Insecure bool

	// RunID is attached to every span as submap.run_id.
	RunID string
}

// Provider wraps the tracer handed to the scheduler.
type Provider struct {
	tracer   trace.Tracer
	provider *sdktrace.TracerProvider
}

// Setup creates a Provider. With an empty endpoint the tracer is a no-op.
func Setup(ctx context.Context, opts Options) (*Provider, error) {
	if opts.Endpoint == "" {
		return &Provider{tracer: noop.NewTracerProvider().Tracer(defaults.TracerName)}, nil
	}

	exporterOpts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(opts.Endpoint),
	}
	if opts.Insecure {
		exporterOpts = append(exporterOpts,
			otlptracegrpc.WithInsecure(),
			otlptracegrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
		)
	}

	ctx, cancel := context.WithTimeout(ctx, duration.ExporterConnect)
	defer cancel()
	exporter, err := otlptracegrpc.New(ctx, exporterOpts...)
	if err != nil {
		return nil, fmt.Errorf("tracing: exporter: %w", err)
	}

	return NewWithExporter(exporter, opts.RunID), nil
}

// NewWithExporter builds a Provider around any span exporter.
func NewWithExporter(exporter sdktrace.SpanExporter, runID string) *Provider {
	attrs := []attribute.KeyValue{
		semconv.ServiceName(defaults.ToolName),
		semconv.ServiceVersion(defaults.Version),
	}
	if runID != "" {
		attrs = append(attrs, attribute.String("submap.run_id", runID))
	}
	res := resource.NewWithAttributes(semconv.SchemaURL, attrs...)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	return &Provider{
		tracer:   tp.Tracer(defaults.TracerName),
		provider: tp,
	}
}

// Tracer returns the tracer for probe spans.
func (p *Provider) Tracer() trace.Tracer {
	return p.tracer
}

// ForceFlush exports all ended spans without shutting down.
func (p *Provider) ForceFlush(ctx context.Context) error {
	if p == nil || p.provider == nil {
		return nil
	}
	return p.provider.ForceFlush(ctx)
}

// Shutdown flushes pending spans. It is a no-op for the disabled provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil || p.provider == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, duration.TracerShutdown)
	defer cancel()
	return p.provider.Shutdown(ctx)
}
