package observability

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sandeepkv93/storefront-crud-api/internal/config"

	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Runtime owns the OTel providers for the API process.
type Runtime struct {
	LoggerProvider *sdklog.LoggerProvider
	MeterProvider  *sdkmetric.MeterProvider
	TracerProvider *sdktrace.TracerProvider
}

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

// InitRuntime brings up logs, metrics and tracing in that order. A failure
// shuts down whatever was already started.
func InitRuntime(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Runtime, error) {
	rt := &Runtime{}
	fail := func(signal string, err error) (*Runtime, error) {
		if shutdownErr := rt.Shutdown(ctx); shutdownErr != nil {
			logger.Warn("otel partial shutdown failed", "error", shutdownErr)
		}
		return nil, fmt.Errorf("init %s: %w", signal, err)
	}

	lp, err := InitLogs(ctx, cfg, logger)
	if err != nil {
		return fail("logs", err)
	}
	rt.LoggerProvider = lp

	mp, err := InitMetrics(ctx, cfg, logger)
	if err != nil {
		return fail("metrics", err)
	}
	rt.MeterProvider = mp

	tp, err := InitTracing(ctx, cfg, logger)
	if err != nil {
		return fail("tracing", err)
	}
	rt.TracerProvider = tp
	return rt, nil
}

// Shutdown flushes traces first so spans ended during drain are exported,
// then metrics, then logs.
func (r *Runtime) Shutdown(ctx context.Context) error {
	if r == nil {
		return nil
	}
	providers := []struct {
		name string
		p    shutdowner
		ok   bool
	}{
		{"tracer", r.TracerProvider, r.TracerProvider != nil},
		{"meter", r.MeterProvider, r.MeterProvider != nil},
		{"logger", r.LoggerProvider, r.LoggerProvider != nil},
	}
	var errs []error
	for _, p := range providers {
		if !p.ok {
			continue
		}
		if err := p.p.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown %s provider: %w", p.name, err))
		}
	}
	return errors.Join(errs...)
}
