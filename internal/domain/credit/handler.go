package credit

import (
	"net/http"

	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/middleware"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/errorhandler"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/response"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/validator"
)

// Handler handles credit HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates credit handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Types handles GET /credits/types
func (h *Handler) Types(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.service.Types())
}

// Purchase handles POST /credits/purchase
// @Summary Buy credits from the catalog
// @Tags Credits
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body PurchaseRequest true "Credit type and amount"
// @Success 201 {object} response.Response{data=PurchaseResponse}
// @Failure 400,422,500 {object} response.Response
// @Router /credits/purchase [post]
func (h *Handler) Purchase(w http.ResponseWriter, r *http.Request) {
	var req PurchaseRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	result, err := h.service.Purchase(r.Context(), middleware.GetUserID(r.Context()), &req)
	if err != nil {
		errorhandler.Respond(r.Context(), w, err)
		return
	}
	response.Created(w, result)
}

// Active handles GET /credits/active
func (h *Handler) Active(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		errorhandler.Respond(r.Context(), w, err)
		return
	}
	response.OK(w, summary)
}

// History handles GET /credits/history
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.History(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		errorhandler.Respond(r.Context(), w, err)
		return
	}
	response.WithMeta(w, entries, response.Meta{Count: len(entries)})
}
