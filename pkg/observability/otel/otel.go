// Package otel wires OpenTelemetry tracing for pool workloads. Call
// Initialize once at startup, bracket interesting work with Tracer() spans,
// and Shutdown on exit to flush the exporter.
package otel

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/exporters/zipkin"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Exporter selects where spans are shipped
const (
	ExporterStdout = "stdout"
	ExporterJaeger = "jaeger"
	ExporterZipkin = "zipkin"
)

// Config configures tracing initialization
type Config struct {
	// ServiceName is reported as service.name on every span.
	ServiceName string

	// Exporter is one of ExporterStdout, ExporterJaeger, ExporterZipkin.
	// Defaults to ExporterStdout.
	Exporter string

	// Endpoint is the collector endpoint for jaeger/zipkin exporters.
	Endpoint string

	// SampleRatio in [0, 1]. Defaults to 1 (sample everything).
	SampleRatio float64
}

var (
	mu       sync.Mutex
	provider *sdktrace.TracerProvider
)

// Initialize builds a trace provider per cfg and installs it globally.
// Calling it twice without an intervening Shutdown is an error.
func Initialize(ctx context.Context, cfg Config) error {
	mu.Lock()
	defer mu.Unlock()

	if provider != nil {
		return fmt.Errorf("otel: already initialized")
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "taskpool"
	}
	if cfg.SampleRatio <= 0 || cfg.SampleRatio > 1 {
		cfg.SampleRatio = 1
	}

	exporter, err := newExporter(cfg)
	if err != nil {
		return fmt.Errorf("otel: failed to create exporter: %w", err)
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", cfg.ServiceName),
	)

	provider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(cfg.SampleRatio)),
	)
	otel.SetTracerProvider(provider)

	return nil
}

func newExporter(cfg Config) (sdktrace.SpanExporter, error) {
	switch cfg.Exporter {
	case "", ExporterStdout:
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	case ExporterJaeger:
		return jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(cfg.Endpoint)))
	case ExporterZipkin:
		return zipkin.New(cfg.Endpoint)
	default:
		return nil, fmt.Errorf("unknown exporter %q", cfg.Exporter)
	}
}

// IsInitialized reports whether Initialize has succeeded.
func IsInitialized() bool {
	mu.Lock()
	defer mu.Unlock()
	return provider != nil
}

// Tracer returns a tracer for creating spans around pool workloads.
func Tracer() trace.Tracer {
	return otel.Tracer("github.com/fluxorio/taskpool")
}

// Shutdown flushes and stops the installed provider.
func Shutdown(ctx context.Context) error {
	mu.Lock()
	defer mu.Unlock()

	if provider == nil {
		return nil
	}
	err := provider.Shutdown(ctx)
	provider = nil
	return err
}
