package observability

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/sandeepkv93/storefront-crud-api/internal/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func withSpanRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = tp.Shutdown(context.Background())
	})
	return sr
}

func TestStartOperationRecordsSpan(t *testing.T) {
	sr := withSpanRecorder(t)

	ctx, op := StartOperation(context.Background(), "product", "create")
	if !op.span.SpanContext().IsValid() {
		t.Fatal("expected valid span context")
	}
	if ctx == context.Background() {
		t.Fatal("expected derived context")
	}
	op.End("success")

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 ended span, got %d", len(spans))
	}
	if spans[0].Name() != "product.create" {
		t.Fatalf("unexpected span name %q", spans[0].Name())
	}
	if spans[0].Status().Code == codes.Error {
		t.Fatal("success outcome must not mark span as error")
	}
}

func TestOperationEndMarksFailures(t *testing.T) {
	sr := withSpanRecorder(t)

	for _, outcome := range []string{"not_found", "noop", "error", "conflict"} {
		_, op := StartOperation(context.Background(), "user", "update")
		op.End(outcome)
	}

	spans := sr.Ended()
	if len(spans) != 4 {
		t.Fatalf("expected 4 spans, got %d", len(spans))
	}
	want := []codes.Code{codes.Unset, codes.Unset, codes.Error, codes.Error}
	for i, s := range spans {
		if s.Status().Code != want[i] {
			t.Fatalf("span %d status=%v want %v", i, s.Status().Code, want[i])
		}
	}
}

func TestInitRuntimeDisabledSignals(t *testing.T) {
	cfg := &config.Config{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	rt, err := InitRuntime(context.Background(), cfg, logger)
	if err != nil {
		t.Fatalf("init runtime: %v", err)
	}
	if rt.LoggerProvider != nil {
		t.Fatal("expected no logger provider when otel logs are disabled")
	}
	if rt.MeterProvider == nil || rt.TracerProvider == nil {
		t.Fatal("expected local meter and tracer providers")
	}
	if err := rt.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}

	var nilRuntime *Runtime
	if err := nilRuntime.Shutdown(context.Background()); err != nil {
		t.Fatalf("nil runtime shutdown: %v", err)
	}
}
