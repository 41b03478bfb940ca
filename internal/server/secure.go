package server

import (
	"net/http"

	"github.com/unrolled/secure"
	"go.uber.org/zap"

	"tax-equation-service/internal/config"
	"tax-equation-service/internal/handlers"
	"tax-equation-service/internal/observability"
)

// SecureHeaders sets the usual security response headers. HTTPS redirects
// are only enforced in production.
func SecureHeaders(cfg *config.Config) func(http.Handler) http.Handler {
	sm := secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "no-referrer",
		ContentSecurityPolicy: "default-src 'none'",
		SSLRedirect:           cfg.IsProduction(),
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
	})

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := sm.Process(w, r); err != nil {
				observability.LoggerWithTrace(r.Context()).Warn("secure headers blocked request", zap.Error(err))
				handlers.WriteError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
