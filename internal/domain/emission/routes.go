package emission

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// IoTRoutes returns the device ingestion router
func (h *Handler) IoTRoutes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/calculation-method", h.CalculationMethod)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/emission", h.Ingest)
	})

	return r
}

// Routes returns the emission query router. status, when set, serves /status.
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler, status http.HandlerFunc) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Get("/daily", h.Summary(PeriodDaily))
	r.Get("/monthly", h.Summary(PeriodMonthly))
	r.Get("/yearly", h.Summary(PeriodYearly))
	r.Get("/total", h.Total)
	r.Get("/recent", h.Recent)
	if status != nil {
		r.Get("/status", status)
	}

	return r
}

// AdminRoutes returns the factor management router. The caller enforces the admin role.
func (h *Handler) AdminRoutes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.CurrentFactors)
	r.Post("/", h.UpdateFactors)

	return r
}
