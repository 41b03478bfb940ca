package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"tax-equation-service/internal/config"
	"tax-equation-service/internal/observability"
	"tax-equation-service/internal/server"
	"tax-equation-service/internal/solver"
	"tax-equation-service/internal/tax"
)

func main() {

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	// Logger
	err = observability.InitLogger(cfg.LogDevelopment)
	if err != nil {
		panic(err)
	}
	defer observability.SyncLogger()

	// Tracing, metrics and log export
	if cfg.TelemetryEnabled {
		telemetryShutdown, err := initTelemetry(ctx, cfg)
		if err != nil {
			observability.Logger.Fatal("initializing telemetry", zap.Error(err))
		}
		defer telemetryShutdown(ctx)
	}

	if err := initMetrics(); err != nil {
		observability.Logger.Fatal("initializing metrics", zap.Error(err))
	}

	// Engine
	engine := tax.NewEngine(solver.New(), tax.WithMaxMagnitude(cfg.MaxMagnitude))
	if err := engine.SelfCheck(ctx); err != nil {
		observability.Logger.Fatal("solver self-check failed", zap.Error(err))
	}

	// Router
	router := server.NewRouter(cfg, engine)

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		observability.Logger.Info("server started", zap.String("addr", cfg.Addr))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			observability.Logger.Fatal("server failed", zap.Error(err))
		}
	}()

	waitForShutdown(srv, cfg.ShutdownTimeout)
}

func waitForShutdown(srv *http.Server, timeout time.Duration) {

	stop := make(chan os.Signal, 1)

	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		observability.Logger.Error("server shutdown", zap.Error(err))
	}
}
