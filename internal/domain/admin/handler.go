package admin

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/middleware"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/errorhandler"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/response"
)

// Handler handles admin HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates admin handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Trades handles GET /admin/trades
// @Summary Recent payments in every status
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size (default 50, max 200)"
// @Param offset query int false "Offset"
// @Success 200 {object} response.Response
// @Router /admin/trades [get]
func (h *Handler) Trades(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	trades, err := h.service.Trades(r.Context(), limit, offset)
	if err != nil {
		errorhandler.Respond(r.Context(), w, err)
		return
	}
	response.WithMeta(w, trades, response.Meta{Count: len(trades), Limit: limit, Offset: offset})
}

// Stats handles GET /admin/stats
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		errorhandler.Respond(r.Context(), w, err)
		return
	}
	response.OK(w, stats)
}

// Sweep handles POST /admin/credits/sweep
func (h *Handler) Sweep(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.Sweep(r.Context())
	if err != nil {
		errorhandler.Respond(r.Context(), w, err)
		return
	}
	response.OK(w, map[string]int64{"expired": n})
}

// Reconcile handles POST /admin/marketplace/reconcile
func (h *Handler) Reconcile(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.Reconcile(r.Context())
	if err != nil {
		errorhandler.Respond(r.Context(), w, err)
		return
	}
	response.OK(w, res)
}

// Routes returns admin router. factors and companies, when set, are mounted
// at /emission-factors and /companies.
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler, factors, companies http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware, middleware.RequireAdmin())

	r.Get("/trades", h.Trades)
	r.Get("/stats", h.Stats)
	r.Post("/credits/sweep", h.Sweep)
	r.Post("/marketplace/reconcile", h.Reconcile)
	if factors != nil {
		r.Mount("/emission-factors", factors)
	}
	if companies != nil {
		r.Mount("/companies", companies)
	}

	return r
}
