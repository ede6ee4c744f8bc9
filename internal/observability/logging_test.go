package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/sandeepkv93/storefront-crud-api/internal/config"
)

func TestParseLogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		" error ": slog.LevelError,
		"info":    slog.LevelInfo,
		"verbose": slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLogLevel(in); got != want {
			t.Fatalf("parseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewLoggerStampsServiceAndTraceIDs(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Config{Env: "test", OTELServiceName: "storefront-crud-api", OTELLogLevel: "info"}
	logger := newLogger(&buf, cfg, nil)

	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()
	ctx, span := tp.Tracer("test").Start(context.Background(), "product.create")
	logger.InfoContext(ctx, "audit", "event_name", "product.create")
	span.End()

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode log line: %v (%s)", err, buf.String())
	}
	if line["service"] != "storefront-crud-api" || line["env"] != "test" {
		t.Fatalf("missing service attrs: %v", line)
	}
	if line["trace_id"] != span.SpanContext().TraceID().String() {
		t.Fatalf("expected trace_id %s, got %v", span.SpanContext().TraceID(), line["trace_id"])
	}
	if _, ok := line["span_id"]; !ok {
		t.Fatalf("expected span_id in %v", line)
	}
}

func TestNewLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, &config.Config{OTELLogLevel: "warn"}, nil)
	logger.Info("request")
	if buf.Len() != 0 {
		t.Fatalf("expected info to be filtered at warn level, got %s", buf.String())
	}
	logger.Warn("request")
	if buf.Len() == 0 {
		t.Fatal("expected warn line")
	}
}

type failingHandler struct{ slog.Handler }

func (failingHandler) Handle(context.Context, slog.Record) error { return errors.New("sink down") }

func TestFanoutHandlerWritesRemainingSinksOnError(t *testing.T) {
	var buf bytes.Buffer
	jsonHandler := slog.NewJSONHandler(&buf, nil)
	fan := fanoutHandler{failingHandler{jsonHandler}, jsonHandler}

	err := fan.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "user.create", 0))
	if err == nil {
		t.Fatal("expected joined sink error")
	}
	if !bytes.Contains(buf.Bytes(), []byte("user.create")) {
		t.Fatalf("expected healthy sink to receive record, got %s", buf.String())
	}
}
