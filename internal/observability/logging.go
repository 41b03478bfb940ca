package observability

import (
	"context"

	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// InitLogging exports logs over OTLP in addition to stdout. It must run
// after InitLogger since it wraps the current Logger's core.
func InitLogging(ctx context.Context) (func(context.Context) error, error) {

	exporter, err := otlploghttp.New(ctx)
	if err != nil {
		return nil, err
	}

	res, err := newResource(ctx)
	if err != nil {
		return nil, err
	}

	provider := sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(
			sdklog.NewBatchProcessor(exporter),
		),
	)

	Logger = teeOTLP(Logger, otelzap.NewCore(ServiceName(), otelzap.WithLoggerProvider(provider)))

	return provider.Shutdown, nil
}

// teeOTLP keeps the stdout core and adds core. The OTLP side only gets
// entries the stdout core would also emit.
func teeOTLP(base *zap.Logger, core zapcore.Core) *zap.Logger {
	level := zapcore.LevelOf(base.Core())
	filtered, err := zapcore.NewIncreaseLevelCore(core, level)
	if err != nil {
		filtered = core
	}
	return base.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return zapcore.NewTee(c, filtered)
	}))
}
