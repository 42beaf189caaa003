package listing

import "github.com/go-chi/chi/v5"

// RegisterRoutes registers listing routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/getall", h.GetAll)
}
