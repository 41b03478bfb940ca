package tax

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the tax endpoints under /tax. Middlewares apply to
// the /tax group only.
func RegisterRoutes(r chi.Router, h *Handler, middlewares ...func(http.Handler) http.Handler) {
	r.Route("/tax", func(r chi.Router) {
		r.Use(middlewares...)
		r.Post("/compute", h.Compute)
		r.Post("/equations", h.Equations)
		r.Get("/fields", h.Fields)
	})
}
