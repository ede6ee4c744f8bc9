package observability

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sandeepkv93/storefront-crud-api/internal/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "storefront-crud-api"

func InitTracing(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sdktrace.TracerProvider, error) {
	propagator := propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{})
	if !cfg.OTELTracingEnabled {
		tp := sdktrace.NewTracerProvider()
		otel.SetTracerProvider(tp)
		otel.SetTextMapPropagator(propagator)
		logger.Info("otel tracing disabled")
		return tp, nil
	}

	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.OTELExporterOTLPEndpoint)}
	if cfg.OTELExporterOTLPInsecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}
	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create otlp trace exporter: %w", err)
	}

	res, err := serviceResource(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create trace resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.OTELTraceSamplingRatio))),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagator)
	logger.Info("otel tracing initialized", "endpoint", cfg.OTELExporterOTLPEndpoint, "sampling_ratio", cfg.OTELTraceSamplingRatio)
	return tp, nil
}

// serviceResource describes this process to every OTel signal.
func serviceResource(ctx context.Context, cfg *config.Config) (*sdkresource.Resource, error) {
	return sdkresource.New(ctx,
		sdkresource.WithAttributes(
			attribute.String("service.name", cfg.OTELServiceName),
			attribute.String("deployment.environment", cfg.OTELEnvironment),
		),
	)
}

// Operation tracks one product or user operation as a span plus the
// resource.operation metrics.
type Operation struct {
	ctx       context.Context
	span      trace.Span
	resource  string
	operation string
	start     time.Time
}

// StartOperation opens a span named "<resource>.<operation>" under the global
// tracer provider. Callers must call End exactly once.
func StartOperation(ctx context.Context, resourceName, operation string) (context.Context, *Operation) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, resourceName+"."+operation,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("storefront.resource", resourceName),
			attribute.String("storefront.operation", operation),
		),
	)
	return ctx, &Operation{ctx: ctx, span: span, resource: resourceName, operation: operation, start: time.Now()}
}

// End records the outcome. Outcomes other than success, noop and not_found
// mark the span as failed.
func (o *Operation) End(outcome string) {
	o.span.SetAttributes(attribute.String("storefront.outcome", outcome))
	switch outcome {
	case "success", "noop", "not_found":
	default:
		o.span.SetStatus(codes.Error, outcome)
	}
	o.span.End()
	RecordResourceOperation(o.ctx, o.resource, o.operation, outcome, time.Since(o.start))
}
