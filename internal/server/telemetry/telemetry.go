// Package telemetry configures OpenTelemetry tracing for the HTTP server.
package telemetry

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/gremath/internal/logging"
	"github.com/dmitrijs2005/gremath/internal/server/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

type ShutdownFunc func(context.Context) error

func noop(context.Context) error { return nil }

var (
	newExporter = func(ctx context.Context, opts ...otlptracegrpc.Option) (trace.SpanExporter, error) {
		return otlptracegrpc.New(ctx, opts...)
	}

	withEndpoint    = otlptracegrpc.WithEndpoint
	withEndpointURL = otlptracegrpc.WithEndpointURL
)

// endpointOption accepts both host:port and the scheme-qualified form
// OTEL_EXPORTER_OTLP_ENDPOINT conventionally carries.
func endpointOption(endpoint string) otlptracegrpc.Option {
	if strings.Contains(endpoint, "://") {
		return withEndpointURL(endpoint)
	}
	return withEndpoint(endpoint)
}

// Setup installs a global tracer provider exporting to cfg.OTLPEndpoint.
// Without an endpoint, or if the exporter cannot be built, tracing stays
// disabled and the returned shutdown is a no-op.
func Setup(ctx context.Context, serviceName string, cfg *config.Config, logger logging.Logger) ShutdownFunc {
	if cfg.OTLPEndpoint == "" {
		return noop
	}

	opts := []otlptracegrpc.Option{endpointOption(cfg.OTLPEndpoint)}
	if cfg.OTLPInsecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}

	exporter, err := newExporter(ctx, opts...)
	if err != nil {
		logger.Error(ctx, "otel exporter error", "error", err)
		return noop
	}

	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(serviceName)))
	if err != nil {
		logger.Warn(ctx, "otel resource error", "error", err)
	}

	provider := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
	)
	otel.SetTracerProvider(provider)

	logger.Info(ctx, "tracing enabled", "endpoint", cfg.OTLPEndpoint)
	return provider.Shutdown
}
