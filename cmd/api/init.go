package main

import (
	"context"

	"tax-equation-service/internal/config"
	"tax-equation-service/internal/observability"
	"tax-equation-service/internal/tax"
)

// initTelemetry starts the OTLP trace, metric and log pipelines and returns
// one shutdown func for all of them.
func initTelemetry(ctx context.Context, cfg *config.Config) (func(context.Context) error, error) {
	var shutdowns []func(context.Context) error
	shutdown := func(ctx context.Context) error {
		var firstErr error
		for i := len(shutdowns) - 1; i >= 0; i-- {
			if err := shutdowns[i](ctx); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	}

	for _, start := range []func(context.Context) (func(context.Context) error, error){
		func(ctx context.Context) (func(context.Context) error, error) {
			return observability.InitTracing(ctx, cfg.TraceSampleRatio)
		},
		observability.InitMetrics,
		observability.InitLogging,
	} {
		stop, err := start(ctx)
		if err != nil {
			_ = shutdown(ctx)
			return nil, err
		}
		shutdowns = append(shutdowns, stop)
	}

	return shutdown, nil
}

// initMetrics registers application-specific metric instruments. It runs
// after initTelemetry so the instruments bind to the OTLP provider; without
// telemetry they bind to the global no-op provider.
func initMetrics() error {
	return tax.InitMetrics()
}
