package prediction

import "github.com/go-chi/chi/v5"

// RegisterRoutes registers prediction routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/predict", h.Predict)
}
