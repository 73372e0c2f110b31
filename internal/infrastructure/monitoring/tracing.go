package monitoring

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.20.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

// TracingConfig holds tracing configuration
type TracingConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	OTLPEndpoint   string
	SamplingRate   float64
	Enabled        bool
}

// TracingProvider wraps the OpenTelemetry tracer and meter providers.
// When tracing is disabled spans are no-ops but otel instruments still
// export through the Prometheus registry.
type TracingProvider struct {
	tracer        trace.Tracer
	provider      *sdktrace.TracerProvider
	meterProvider *sdkmetric.MeterProvider
	logger        *zap.Logger
	config        TracingConfig
}

// NewTracingProvider creates the providers and installs them globally
func NewTracingProvider(ctx context.Context, config TracingConfig, reg prometheus.Registerer, logger *zap.Logger) (*TracingProvider, error) {
	logger = logger.Named("tracing")

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(config.ServiceName),
			semconv.ServiceVersion(config.ServiceVersion),
			semconv.DeploymentEnvironment(config.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	promExporter, err := otelprom.New(otelprom.WithRegisterer(reg))
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(promExporter),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	tp := &TracingProvider{
		meterProvider: mp,
		logger:        logger,
		config:        config,
	}

	if !config.Enabled {
		logger.Info("Tracing is disabled")
		tp.tracer = noop.NewTracerProvider().Tracer(config.ServiceName)
		return tp, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(config.OTLPEndpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	tp.provider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(config.SamplingRate))),
	)
	otel.SetTracerProvider(tp.provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	tp.tracer = tp.provider.Tracer(config.ServiceName)

	logger.Info("Tracing initialized",
		zap.String("service", config.ServiceName),
		zap.String("version", config.ServiceVersion),
		zap.String("environment", config.Environment),
		zap.String("otlp_endpoint", config.OTLPEndpoint),
		zap.Float64("sampling_rate", config.SamplingRate),
	)
	return tp, nil
}

// Tracer returns the service tracer
func (t *TracingProvider) Tracer() trace.Tracer {
	return t.tracer
}

// MeterProvider returns the provider backing otel instruments
func (t *TracingProvider) MeterProvider() metric.MeterProvider {
	return t.meterProvider
}

// Shutdown flushes pending spans and stops both providers
func (t *TracingProvider) Shutdown(ctx context.Context) error {
	if t.provider != nil {
		if err := t.provider.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown tracer provider: %w", err)
		}
	}
	if err := t.meterProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown meter provider: %w", err)
	}
	t.logger.Info("Tracing shutdown completed")
	return nil
}
