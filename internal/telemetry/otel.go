// Package telemetry installs the global OpenTelemetry tracer provider used by
// the HTTP instrumentation.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

// Config selects where spans are exported
type Config struct {
	ServiceName string
	Version     string

	// Endpoint is an OTLP gRPC collector address (host:port)
	Endpoint string

	// Stdout, when set, receives spans as JSON instead of a collector
	Stdout io.Writer
}

// Provider owns the SDK tracer provider installed as the global one
type Provider struct {
	tracerProvider *sdktrace.TracerProvider
}

// New creates an exporter from cfg and installs a tracer provider globally
func New(ctx context.Context, cfg Config) (*Provider, error) {
	var (
		exporter sdktrace.SpanExporter
		err      error
	)
	switch {
	case cfg.Stdout != nil:
		exporter, err = stdouttrace.New(stdouttrace.WithWriter(cfg.Stdout))
	case cfg.Endpoint != "":
		exporter, err = otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpoint(cfg.Endpoint),
			otlptracegrpc.WithInsecure(),
		)
	default:
		return nil, errors.New("no trace exporter configured")
	}
	if err != nil {
		return nil, fmt.Errorf("creating trace exporter: %w", err)
	}

	return NewWithExporter(cfg, exporter), nil
}

// NewWithExporter installs a tracer provider that batches spans to exporter
func NewWithExporter(cfg Config, exporter sdktrace.SpanExporter) *Provider {
	// Schemaless so it merges with whatever schema the SDK default resource uses
	res := resource.NewSchemaless(
		semconv.ServiceNameKey.String(cfg.ServiceName),
		semconv.ServiceVersionKey.String(cfg.Version),
	)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return &Provider{tracerProvider: tp}
}

// ForceFlush exports all finished spans
func (p *Provider) ForceFlush(ctx context.Context) error {
	return p.tracerProvider.ForceFlush(ctx)
}

// Shutdown flushes remaining spans and stops the exporter
func (p *Provider) Shutdown(ctx context.Context) error {
	return p.tracerProvider.Shutdown(ctx)
}
