package marketplace

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/middleware"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/errorhandler"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/response"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/validator"
)

// Handler handles marketplace HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates marketplace handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Browse handles GET /marketplace/listings
// @Summary Browse open listings, cheapest first
// @Tags Marketplace
// @Produce json
// @Param credit_type query string false "solar, wind or bio"
// @Param max_price query number false "Maximum price per kg"
// @Param min_amount query number false "Minimum remaining kg"
// @Success 200 {object} response.Response{data=[]Listing}
// @Router /marketplace/listings [get]
func (h *Handler) Browse(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := Filters{
		CreditType: q.Get("credit_type"),
		MaxPrice:   queryFloat(r, "max_price"),
		MinAmount:  queryFloat(r, "min_amount"),
		Limit:      queryInt(r, "limit", 50),
		Offset:     queryInt(r, "offset", 0),
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
	if f.CreditType != "" {
		if err := validator.ValidateVar(f.CreditType, "credit_type"); err != nil {
			response.ValidationError(w, map[string]string{"credit_type": "Must be one of: solar wind bio"})
			return
		}
	}

	listings, err := h.service.Browse(r.Context(), f)
	if err != nil {
		errorhandler.Respond(r.Context(), w, err)
		return
	}
	response.WithMeta(w, listings, response.Meta{Count: len(listings), Limit: f.Limit, Offset: f.Offset})
}

// Detail handles GET /marketplace/listing/{id}
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	detail, err := h.service.Detail(r.Context(), id)
	if err != nil {
		errorhandler.Respond(r.Context(), w, err)
		return
	}
	response.OK(w, detail)
}

// Sell handles POST /marketplace/sell
// @Summary Offer credits for sale
// @Tags Marketplace
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateListingRequest true "Listing"
// @Success 201 {object} response.Response{data=Listing}
// @Failure 400,409,422 {object} response.Response
// @Router /marketplace/sell [post]
func (h *Handler) Sell(w http.ResponseWriter, r *http.Request) {
	var req CreateListingRequest
	if !decode(w, r, &req) {
		return
	}
	l, err := h.service.CreateListing(r.Context(), middleware.GetUserID(r.Context()), &req)
	if err != nil {
		errorhandler.Respond(r.Context(), w, err)
		return
	}
	response.Created(w, l)
}

// Buy handles POST /marketplace/buy/{id}
// @Summary Start a purchase from a listing
// @Tags Marketplace
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Listing ID"
// @Param request body BuyRequest true "Amount and payment method"
// @Success 201 {object} response.Response{data=PurchaseResponse}
// @Failure 400,404,409,422 {object} response.Response
// @Router /marketplace/buy/{id} [post]
func (h *Handler) Buy(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req BuyRequest
	if !decode(w, r, &req) {
		return
	}
	resp, err := h.service.InitiatePurchase(r.Context(), middleware.GetUserID(r.Context()), id, &req)
	if err != nil {
		errorhandler.Respond(r.Context(), w, err)
		return
	}
	response.Created(w, resp)
}

// Complete handles POST /marketplace/payment/{id}/complete
// @Summary Confirm a pending payment and settle the trade
// @Tags Marketplace
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment ID"
// @Param request body CompleteRequest false "Optional payment reference"
// @Success 200 {object} response.Response{data=CompleteResponse}
// @Failure 404,409 {object} response.Response
// @Router /marketplace/payment/{id}/complete [post]
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req CompleteRequest
	if r.ContentLength != 0 && !decode(w, r, &req) {
		return
	}
	resp, err := h.service.CompletePurchase(r.Context(), id, middleware.GetUserID(r.Context()), req.PaymentReference)
	if err != nil {
		errorhandler.Respond(r.Context(), w, err)
		return
	}
	response.OK(w, resp)
}

// Reference handles POST /marketplace/payment/{id}/reference
func (h *Handler) Reference(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req ReferenceRequest
	if !decode(w, r, &req) {
		return
	}
	p, err := h.service.AttachReference(r.Context(), id, middleware.GetUserID(r.Context()), req.PaymentReference)
	if err != nil {
		errorhandler.Respond(r.Context(), w, err)
		return
	}
	response.OK(w, p)
}

// CancelPayment handles POST /marketplace/payment/{id}/cancel
func (h *Handler) CancelPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	p, err := h.service.CancelPayment(r.Context(), id, middleware.GetUserID(r.Context()))
	if err != nil {
		errorhandler.Respond(r.Context(), w, err)
		return
	}
	response.OK(w, p)
}

// Receipt handles GET /marketplace/payment/{id}/receipt
func (h *Handler) Receipt(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	rec, err := h.service.Receipt(r.Context(), id, middleware.GetUserID(r.Context()))
	if err != nil {
		errorhandler.Respond(r.Context(), w, err)
		return
	}
	response.OK(w, rec)
}

// CancelListing handles DELETE /marketplace/listing/{id}
func (h *Handler) CancelListing(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.Cancel(r.Context(), id, middleware.GetUserID(r.Context())); err != nil {
		errorhandler.Respond(r.Context(), w, err)
		return
	}
	response.NoContent(w)
}

// MyListings handles GET /marketplace/my-listings
func (h *Handler) MyListings(w http.ResponseWriter, r *http.Request) {
	listings, err := h.service.MyListings(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		errorhandler.Respond(r.Context(), w, err)
		return
	}
	response.WithMeta(w, listings, response.Meta{Count: len(listings)})
}

// MyTrades handles GET /marketplace/my-trades
func (h *Handler) MyTrades(w http.ResponseWriter, r *http.Request) {
	trades, err := h.service.MyTrades(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		errorhandler.Respond(r.Context(), w, err)
		return
	}
	response.OK(w, trades)
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := response.DecodeJSON(w, r, v); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return false
	}
	if errs := validator.Validate(v); errs != nil {
		response.ValidationError(w, errs)
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid ID")
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(r *http.Request, key string, fallback int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || v < 0 {
		return fallback
	}
	return v
}

func queryFloat(r *http.Request, key string) float64 {
	v, err := strconv.ParseFloat(r.URL.Query().Get(key), 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
