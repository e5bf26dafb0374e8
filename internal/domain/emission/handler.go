package emission

import (
	"net/http"
	"strconv"
	"time"

	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/middleware"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/errorhandler"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/response"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/validator"
)

// Handler handles emission HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates emission handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Ingest handles POST /iot/emission
// @Summary Upload a sensor reading
// @Tags IoT
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body IngestRequest true "Raw or precomputed reading"
// @Success 201 {object} response.Response{data=IngestResponse}
// @Failure 400,422,500 {object} response.Response
// @Router /iot/emission [post]
func (h *Handler) Ingest(w http.ResponseWriter, r *http.Request) {
	var req IngestRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	result, err := h.service.Ingest(r.Context(), middleware.GetUserID(r.Context()), &req)
	if err != nil {
		errorhandler.Respond(r.Context(), w, err)
		return
	}
	response.Created(w, result)
}

// CalculationMethod handles GET /iot/calculation-method
func (h *Handler) CalculationMethod(w http.ResponseWriter, r *http.Request) {
	e, err := h.service.Explain(r.Context())
	if err != nil {
		errorhandler.Respond(r.Context(), w, err)
		return
	}
	response.OK(w, e)
}

// Summary serves GET /emissions/{daily|monthly|yearly}
func (h *Handler) Summary(period Period) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := queryInt(r, "limit", defaultSummaryLimit)
		buckets, err := h.service.Summary(r.Context(), middleware.GetUserID(r.Context()), period, limit)
		if err != nil {
			errorhandler.Respond(r.Context(), w, err)
			return
		}
		response.WithMeta(w, buckets, response.Meta{Count: len(buckets), Limit: limit})
	}
}

// Total handles GET /emissions/total?since=YYYY-MM-DD
func (h *Handler) Total(w http.ResponseWriter, r *http.Request) {
	var since *time.Time
	if raw := r.URL.Query().Get("since"); raw != "" {
		t, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			response.BadRequest(w, "since must be a date in YYYY-MM-DD format")
			return
		}
		since = &t
	}

	total, err := h.service.Total(r.Context(), middleware.GetUserID(r.Context()), since)
	if err != nil {
		errorhandler.Respond(r.Context(), w, err)
		return
	}
	response.OK(w, total)
}

// Recent handles GET /emissions/recent?days=
func (h *Handler) Recent(w http.ResponseWriter, r *http.Request) {
	days := queryInt(r, "days", 7)
	records, err := h.service.Recent(r.Context(), middleware.GetUserID(r.Context()), days)
	if err != nil {
		errorhandler.Respond(r.Context(), w, err)
		return
	}
	response.WithMeta(w, records, response.Meta{Count: len(records)})
}

// CurrentFactors handles GET /admin/emission-factors
func (h *Handler) CurrentFactors(w http.ResponseWriter, r *http.Request) {
	current, err := h.service.CurrentFactors(r.Context())
	if err != nil {
		errorhandler.Respond(r.Context(), w, err)
		return
	}
	history, err := h.service.FactorHistory(r.Context(), queryInt(r, "limit", 20))
	if err != nil {
		errorhandler.Respond(r.Context(), w, err)
		return
	}
	response.OK(w, map[string]interface{}{
		"current": current,
		"history": history,
	})
}

// UpdateFactors handles POST /admin/emission-factors
func (h *Handler) UpdateFactors(w http.ResponseWriter, r *http.Request) {
	var req UpdateFactorsRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	f, err := h.service.UpdateFactors(r.Context(), middleware.GetUserID(r.Context()), &req)
	if err != nil {
		errorhandler.Respond(r.Context(), w, err)
		return
	}
	response.Created(w, f)
}

func queryInt(r *http.Request, key string, fallback int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return fallback
	}
	return v
}
