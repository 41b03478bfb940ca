package observability

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestTeeOTLPRespectsBaseLevel(t *testing.T) {
	baseCore, baseLogs := observer.New(zapcore.InfoLevel)
	otlpCore, otlpLogs := observer.New(zapcore.DebugLevel)

	logger := teeOTLP(zap.New(baseCore), otlpCore)

	logger.Debug("dropped")
	logger.Info("kept", zap.String("anchor_field", "taxInclusivePrice"))

	if got := baseLogs.Len(); got != 1 {
		t.Fatalf("expected 1 stdout entry, got %d", got)
	}
	if got := otlpLogs.Len(); got != 1 {
		t.Fatalf("expected 1 OTLP entry, got %d", got)
	}
	entry := otlpLogs.All()[0]
	if entry.Message != "kept" {
		t.Fatalf("expected message %q, got %q", "kept", entry.Message)
	}
	if entry.ContextMap()["anchor_field"] != "taxInclusivePrice" {
		t.Fatalf("expected anchor_field on OTLP entry, got %v", entry.ContextMap())
	}
}
