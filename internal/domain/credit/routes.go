package credit

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns credit router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/types", h.Types)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/purchase", h.Purchase)
		r.Get("/active", h.Active)
		r.Get("/history", h.History)
	})

	return r
}
