// Package telemetry configures OpenTelemetry tracing and metrics for the
// device sync server and provides the instruments used by the sync core.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc"

	"github.com/MKhiriev/device-sync/internal/config"
	"github.com/MKhiriev/device-sync/internal/logger"
)

const (
	instrumentationName = "github.com/MKhiriev/device-sync"

	defaultServiceName = "device-sync"
	exportTimeout      = 10 * time.Second
	metricInterval     = 30 * time.Second
)

// Telemetry owns the tracer and meter providers installed as otel globals.
// A disabled Telemetry holds nil providers and Shutdown is a no-op.
type Telemetry struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider

	logger *logger.Logger
}

// Setup installs OTLP gRPC exporters when cfg.Enabled is set. The text map
// propagator is installed in every case so that incoming trace context is
// still forwarded to logs.
func Setup(ctx context.Context, cfg config.Telemetry, version string, log *logger.Logger) (*Telemetry, error) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	t := &Telemetry{logger: log}
	if !cfg.Enabled {
		log.Info().Str("func", "telemetry.Setup").Msg("telemetry disabled")
		return t, nil
	}

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = defaultServiceName
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(version),
			attribute.String("deployment.environment", cfg.Environment),
		),
		resource.WithHost(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrResourceSetup, err)
	}

	userAgent := grpc.WithUserAgent(serviceName + "/" + version)

	traceExporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint),
		otlptracegrpc.WithInsecure(),
		otlptracegrpc.WithTimeout(exportTimeout),
		otlptracegrpc.WithDialOption(userAgent),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExporterSetup, err)
	}
	t.TracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter, sdktrace.WithBatchTimeout(5*time.Second)),
		sdktrace.WithResource(res),
	)

	metricExporter, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(cfg.OTLPEndpoint),
		otlpmetricgrpc.WithInsecure(),
		otlpmetricgrpc.WithTimeout(exportTimeout),
		otlpmetricgrpc.WithDialOption(userAgent),
	)
	if err != nil {
		_ = t.TracerProvider.Shutdown(ctx)
		return nil, fmt.Errorf("%w: %w", ErrExporterSetup, err)
	}
	t.MeterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter, sdkmetric.WithInterval(metricInterval))),
		sdkmetric.WithResource(res),
	)

	otel.SetTracerProvider(t.TracerProvider)
	otel.SetMeterProvider(t.MeterProvider)

	log.Info().
		Str("func", "telemetry.Setup").
		Str("endpoint", cfg.OTLPEndpoint).
		Str("service", serviceName).
		Msg("telemetry initialized")

	return t, nil
}

// Shutdown flushes and stops both providers.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error
	if t.TracerProvider != nil {
		if err := t.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if t.MeterProvider != nil {
		if err := t.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
