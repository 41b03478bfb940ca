package observability

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var Logger = zap.NewNop()

// InitLogger replaces Logger with a production JSON logger, or a
// human-readable development logger.
func InitLogger(development bool) error {
	var err error

	if development {
		Logger, err = zap.NewDevelopment()
	} else {
		Logger, err = zap.NewProduction()
	}
	if err != nil {
		return err
	}

	return nil
}

func SyncLogger() {
	_ = Logger.Sync()
}

// LoggerWithTrace returns a child logger carrying trace_id and span_id of
// the active span in ctx.
//
// ctx itself is attached as zap.Any("context", ctx): the otelzap core
// detects context.Context fields and emits the OTLP record with that
// context, so the exported record carries the native TraceID/SpanID that
// Loki uses to link logs to Tempo traces. The string fields keep stdout
// JSON greppable.
func LoggerWithTrace(ctx context.Context) *zap.Logger {
	span := trace.SpanContextFromContext(ctx)

	if !span.IsValid() {
		return Logger
	}

	return Logger.With(
		zap.Any("context", ctx),
		zap.String("trace_id", span.TraceID().String()),
		zap.String("span_id", span.SpanID().String()),
	)
}
