package query

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers query routes. limit wraps the model-backed
// endpoints and may be nil.
func RegisterRoutes(r chi.Router, h *Handler, limit func(http.Handler) http.Handler) {
	r.Route("/query", func(r chi.Router) {
		if limit != nil {
			r.Use(limit)
		}
		r.Post("/", h.Query)
		r.Post("/export", h.Export)
	})
}
