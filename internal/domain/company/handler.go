package company

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/errorhandler"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/response"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/validator"
)

// Handler serves company management. Callers mount it behind admin auth.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List handles GET /admin/companies
// @Summary List registered companies
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending, approved or suspended"
// @Success 200 {object} response.Response{data=[]Company}
// @Router /admin/companies [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	companies, err := h.service.List(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		errorhandler.Respond(r.Context(), w, err)
		return
	}
	response.WithMeta(w, companies, response.Meta{Count: len(companies)})
}

// Create handles POST /admin/companies
// @Summary Register an external credit seller
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateRequest true "Company"
// @Success 201 {object} response.Response{data=CreateResponse}
// @Failure 409 {object} response.Response
// @Router /admin/companies [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	out, err := h.service.Create(r.Context(), &req)
	if err != nil {
		errorhandler.Respond(r.Context(), w, err)
		return
	}
	response.Created(w, out)
}

// Approve handles PUT /admin/companies/{id}/approve
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Approve)
}

// Suspend handles PUT /admin/companies/{id}/suspend
func (h *Handler) Suspend(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Suspend)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id uuid.UUID) (*Company, error)) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid company ID")
		return
	}
	c, err := fn(r.Context(), id)
	if err != nil {
		errorhandler.Respond(r.Context(), w, err)
		return
	}
	response.OK(w, c)
}

// Routes returns company router
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Put("/{id}/approve", h.Approve)
	r.Put("/{id}/suspend", h.Suspend)

	return r
}
