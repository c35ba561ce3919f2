package infrastructure

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"

	"jeaudit/internal/config"
)

const (
	// ServiceName identifies this application in exported telemetry.
	ServiceName    = "jeaudit"
	ServiceVersion = "1.0.0"
	tracerName     = "jeaudit"
)

// Tracing bundles the tracer provider and tracer for pipeline spans.
// A disabled Tracing hands out no-op spans, so callers instrument
// stages unconditionally.
type Tracing struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
	logger   *slog.Logger
}

// InitializeTracing sets up span export according to configuration.
// When tracing is disabled no provider is installed and the returned
// Tracing produces no-op spans.
func InitializeTracing(ctx context.Context, cfg config.TracingConfig, logger *slog.Logger) (*Tracing, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if !cfg.Enabled {
		logger.DebugContext(ctx, "tracing disabled")
		return &Tracing{tracer: otel.Tracer(tracerName), logger: logger}, nil
	}

	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("create trace exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(ServiceName),
			semconv.ServiceVersion(ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("create trace resource: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(provider)

	logger.InfoContext(ctx, "tracing initialized",
		slog.String("service", ServiceName),
		slog.String("exporter", "stdout"))

	return &Tracing{
		provider: provider,
		tracer:   provider.Tracer(tracerName, trace.WithInstrumentationVersion(ServiceVersion)),
		logger:   logger,
	}, nil
}

// StartStage begins a span for one pipeline stage.
func (t *Tracing) StartStage(ctx context.Context, stage string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, stage, trace.WithAttributes(attrs...))
}

// EndStage closes a stage span, recording err when the stage failed.
func EndStage(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// Shutdown flushes pending spans. It is a no-op when tracing is
// disabled.
func (t *Tracing) Shutdown(ctx context.Context) error {
	if t.provider == nil {
		return nil
	}
	if err := t.provider.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown tracer provider: %w", err)
	}
	return nil
}
