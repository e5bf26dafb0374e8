package marketplace

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns marketplace router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	// Public
	r.Get("/listings", h.Browse)
	r.Get("/listing/{id}", h.Detail)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)

		r.Post("/sell", h.Sell)
		r.Delete("/listing/{id}", h.CancelListing)
		r.Get("/my-listings", h.MyListings)
		r.Get("/my-trades", h.MyTrades)

		r.Post("/buy/{id}", h.Buy)
		r.Route("/payment/{id}", func(r chi.Router) {
			r.Post("/complete", h.Complete)
			r.Post("/reference", h.Reference)
			r.Post("/cancel", h.CancelPayment)
			r.Get("/receipt", h.Receipt)
		})
	})

	return r
}
