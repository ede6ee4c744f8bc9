package observability

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/sandeepkv93/storefront-crud-api/internal/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/exemplar"
)

const meterName = "storefront-crud-api"

type AppMetrics struct {
	resourceOperationCounter  metric.Int64Counter
	resourceOperationDuration metric.Float64Histogram
	toggleTransitionCounter   metric.Int64Counter
	validationFailureCounter  metric.Int64Counter
	repositoryOpsCounter      metric.Int64Counter
	healthCheckResultCounter  metric.Int64Counter
	healthCheckDuration       metric.Float64Histogram
	databaseStartupCounter    metric.Int64Counter
	databaseStartupDuration   metric.Float64Histogram
	toolCommandRuns           metric.Int64Counter
	toolCommandDuration       metric.Float64Histogram
	loadgenRequestsCounter    metric.Int64Counter
	middlewareEventsCounter   metric.Int64Counter
}

var (
	metricsMu  sync.RWMutex
	appMetrics *AppMetrics
)

func InitMetrics(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sdkmetric.MeterProvider, error) {
	if !cfg.OTELMetricsEnabled {
		mp := sdkmetric.NewMeterProvider()
		otel.SetMeterProvider(mp)
		logger.Info("otel metrics disabled")
		return mp, nil
	}

	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.OTELExporterOTLPEndpoint)}
	if cfg.OTELExporterOTLPInsecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create otlp metric exporter: %w", err)
	}

	res, err := serviceResource(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create metric resource: %w", err)
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(cfg.OTELMetricsExportInterval))
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
		sdkmetric.WithExemplarFilter(exemplar.TraceBasedFilter),
		sdkmetric.WithView(sdkmetric.NewView(
			sdkmetric.Instrument{Name: "resource.operation.duration"},
			sdkmetric.Stream{
				Aggregation: sdkmetric.AggregationExplicitBucketHistogram{
					Boundaries: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
				},
			},
		)),
	)
	otel.SetMeterProvider(mp)

	m, err := newAppMetrics(mp.Meter(meterName))
	if err != nil {
		return nil, err
	}
	metricsMu.Lock()
	appMetrics = m
	metricsMu.Unlock()

	logger.Info("otel metrics initialized", "endpoint", cfg.OTELExporterOTLPEndpoint)
	return mp, nil
}

func newAppMetrics(meter metric.Meter) (*AppMetrics, error) {
	var firstErr error
	counter := func(name, desc string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithDescription(desc))
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("create counter %s: %w", name, err)
		}
		return c
	}
	seconds := func(name, desc string) metric.Float64Histogram {
		h, err := meter.Float64Histogram(name, metric.WithUnit("s"), metric.WithDescription(desc))
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("create histogram %s: %w", name, err)
		}
		return h
	}

	m := &AppMetrics{
		resourceOperationCounter:  counter("resource.operation.events", "Outcomes of product and user operations"),
		resourceOperationDuration: seconds("resource.operation.duration", "Duration of product and user operations in seconds"),
		toggleTransitionCounter:   counter("resource.toggle.transitions", "Boolean flag transitions applied by toggle operations"),
		validationFailureCounter:  counter("validation.failures", "Field-level validation failures"),
		repositoryOpsCounter:      counter("repository.operations", "Repository calls by entity, operation and outcome"),
		healthCheckResultCounter:  counter("health.check.results", "Readiness dependency check results"),
		healthCheckDuration:       seconds("health.check.duration", "Duration of readiness dependency checks in seconds"),
		databaseStartupCounter:    counter("database.startup.events", "Database connect, migrate and seed events"),
		databaseStartupDuration:   seconds("database.startup.duration", "Duration of database startup phases in seconds"),
		toolCommandRuns:           counter("tool.command.runs", "CLI tool command executions"),
		toolCommandDuration:       seconds("tool.command.duration", "Duration of CLI tool commands in seconds"),
		loadgenRequestsCounter:    counter("loadgen.requests", "Requests issued by the load generator"),
		middlewareEventsCounter:   counter("middleware.validation.events", "CORS and body limit middleware decisions"),
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return m, nil
}

func current() *AppMetrics {
	metricsMu.RLock()
	defer metricsMu.RUnlock()
	return appMetrics
}

func RecordResourceOperation(ctx context.Context, resourceName, operation, outcome string, duration time.Duration) {
	m := current()
	if m == nil {
		return
	}
	m.resourceOperationCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("resource", resourceName),
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	))
	m.resourceOperationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("resource", resourceName),
		attribute.String("operation", operation),
	))
}

func RecordToggleTransition(ctx context.Context, resourceName string, to bool) {
	m := current()
	if m == nil {
		return
	}
	m.toggleTransitionCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("resource", resourceName),
		attribute.String("to", strconv.FormatBool(to)),
	))
}

func RecordValidationFailure(ctx context.Context, resourceName, field string) {
	m := current()
	if m == nil {
		return
	}
	m.validationFailureCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("resource", resourceName),
		attribute.String("field", field),
	))
}

func RecordRepositoryOperation(ctx context.Context, entity, operation, outcome string) {
	m := current()
	if m == nil {
		return
	}
	m.repositoryOpsCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("entity", entity),
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	))
}

func RecordHealthCheckResult(ctx context.Context, check, outcome string) {
	m := current()
	if m == nil {
		return
	}
	m.healthCheckResultCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("check", check),
		attribute.String("outcome", outcome),
	))
}

func RecordHealthCheckDuration(ctx context.Context, check string, duration time.Duration) {
	m := current()
	if m == nil {
		return
	}
	m.healthCheckDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attribute.String("check", check)))
}

func RecordDatabaseStartupEvent(ctx context.Context, phase, outcome string) {
	m := current()
	if m == nil {
		return
	}
	m.databaseStartupCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("phase", phase),
		attribute.String("outcome", outcome),
	))
}

func RecordDatabaseStartupDuration(ctx context.Context, phase string, duration time.Duration) {
	m := current()
	if m == nil {
		return
	}
	m.databaseStartupDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attribute.String("phase", phase)))
}

func RecordToolCommandRun(ctx context.Context, tool, command, outcome string) {
	m := current()
	if m == nil {
		return
	}
	m.toolCommandRuns.Add(ctx, 1, metric.WithAttributes(
		attribute.String("tool", tool),
		attribute.String("command", command),
		attribute.String("outcome", outcome),
	))
}

func RecordToolCommandDuration(ctx context.Context, tool, command, outcome string, duration time.Duration) {
	m := current()
	if m == nil {
		return
	}
	m.toolCommandDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("tool", tool),
		attribute.String("command", command),
		attribute.String("outcome", outcome),
	))
}

func RecordLoadgenRequest(ctx context.Context, statusClass, profile string) {
	m := current()
	if m == nil {
		return
	}
	m.loadgenRequestsCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("status_class", statusClass),
		attribute.String("profile", profile),
	))
}

func RecordMiddlewareValidationEvent(ctx context.Context, middleware, outcome string) {
	m := current()
	if m == nil {
		return
	}
	m.middlewareEventsCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("middleware", middleware),
		attribute.String("outcome", outcome),
	))
}
