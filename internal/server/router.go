package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"tax-equation-service/internal/config"
	"tax-equation-service/internal/handlers"
	"tax-equation-service/internal/observability"
	"tax-equation-service/internal/tax"
)

func NewRouter(cfg *config.Config, engine *tax.Engine) http.Handler {

	r := chi.NewRouter()
	metrics := observability.NewHTTPMetrics()

	r.Use(observability.RequestIDMiddleware)
	r.Use(observability.TracingMiddleware)
	r.Use(observability.LoggingMiddleware)
	r.Use(metrics.Middleware)
	r.Use(SecureHeaders(cfg))

	r.Get("/health", handlers.Health(engine.SelfCheck))

	r.Handle("/metrics", metrics.Handler())

	var limits []func(http.Handler) http.Handler
	if cfg != nil && cfg.RateLimit > 0 {
		limits = append(limits, httprate.Limit(cfg.RateLimit, time.Minute,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
				handlers.WriteError(w, http.StatusTooManyRequests, http.StatusText(http.StatusTooManyRequests))
			}),
		))
	}
	tax.RegisterRoutes(r, tax.NewHandler(engine), limits...)

	return r
}
