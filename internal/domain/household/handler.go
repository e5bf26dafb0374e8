package household

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/middleware"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/errorhandler"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/response"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetProfile handles GET /household/profile
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Profile(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		errorhandler.Respond(r.Context(), w, err)
		return
	}
	response.OK(w, p)
}

// UpdateProfile handles PUT /household/profile
// @Summary Update household area and occupants
// @Tags Household
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Household profile"
// @Success 200 {object} response.Response{data=Profile}
// @Failure 422 {object} response.Response
// @Router /household/profile [put]
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	p, err := h.service.UpdateProfile(r.Context(), middleware.GetUserID(r.Context()), &req)
	if err != nil {
		errorhandler.Respond(r.Context(), w, err)
		return
	}
	response.OK(w, p)
}

// Status handles GET /household/limit and GET /emissions/status
// @Summary Carbon budget status for the current year
// @Tags Household
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=Status}
// @Router /household/limit [get]
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	st, err := h.service.Status(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		errorhandler.Respond(r.Context(), w, err)
		return
	}
	response.OK(w, st)
}

// CreditOptions handles GET /household/credit-options
func (h *Handler) CreditOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := h.service.CreditOptions(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		errorhandler.Respond(r.Context(), w, err)
		return
	}
	response.OK(w, opts)
}

// Routes returns household router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Get("/profile", h.GetProfile)
	r.Put("/profile", h.UpdateProfile)
	r.Get("/limit", h.Status)
	r.Get("/credit-options", h.CreditOptions)

	return r
}
