package forecast

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/middleware"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/errorhandler"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Forecast handles GET /predictions/forecast?days=
// @Summary Forecast daily emissions and project them against the annual limit
// @Tags Predictions
// @Produce json
// @Security BearerAuth
// @Param days query int false "Horizon in days (default 30, max 90)"
// @Success 200 {object} response.Response{data=Forecast}
// @Failure 400 {object} response.Response
// @Router /predictions/forecast [get]
func (h *Handler) Forecast(w http.ResponseWriter, r *http.Request) {
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))
	f, err := h.service.Forecast(r.Context(), middleware.GetUserID(r.Context()), days)
	if err != nil {
		errorhandler.Respond(r.Context(), w, err)
		return
	}
	response.OK(w, f)
}

// Train handles POST /predictions/train
// @Summary Refit the trend model on the last 60 days
// @Tags Predictions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=Explanation}
// @Failure 400 {object} response.Response
// @Router /predictions/train [post]
func (h *Handler) Train(w http.ResponseWriter, r *http.Request) {
	e, err := h.service.Train(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		errorhandler.Respond(r.Context(), w, err)
		return
	}
	response.OK(w, e)
}

// Explain handles GET /predictions/explain
// @Summary Describe the forecast model and its current coefficients
// @Tags Predictions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=Explanation}
// @Router /predictions/explain [get]
func (h *Handler) Explain(w http.ResponseWriter, r *http.Request) {
	e, err := h.service.Explain(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		errorhandler.Respond(r.Context(), w, err)
		return
	}
	response.OK(w, e)
}

// Routes returns predictions router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Get("/forecast", h.Forecast)
	r.Post("/train", h.Train)
	r.Get("/explain", h.Explain)

	return r
}
