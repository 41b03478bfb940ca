package observability

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRecordErrorLogsOperationAndAttributes(t *testing.T) {
	ctx := ContextWithRequestID(context.Background(), "req-1")
	span := trace.SpanFromContext(ctx)

	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	counter, err := otel.Meter("test").Int64Counter("test.errors.total")
	if err != nil {
		t.Fatalf("creating counter: %v", err)
	}

	RecordError(
		ctx,
		span,
		logger,
		counter,
		"compute",
		"tax computation failed",
		errors.New("UnknownAnchorField"),
		attribute.String("error.kind", "UnknownAnchorField"),
	)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}

	entry := entries[0]
	if entry.Message != "tax computation failed" {
		t.Fatalf("expected message %q, got %q", "tax computation failed", entry.Message)
	}
	if entry.Level != zap.ErrorLevel {
		t.Fatalf("expected error level, got %s", entry.Level)
	}

	fields := entry.ContextMap()
	if fields["operation"] != "compute" {
		t.Fatalf("expected operation %q, got %#v", "compute", fields["operation"])
	}
	if fields["request_id"] != "req-1" {
		t.Fatalf("expected request_id %q, got %#v", "req-1", fields["request_id"])
	}
	if fields["error.kind"] != "UnknownAnchorField" {
		t.Fatalf("expected error.kind %q, got %#v", "UnknownAnchorField", fields["error.kind"])
	}
}
