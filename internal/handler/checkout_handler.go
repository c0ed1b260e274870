package handler

import (
	"encoding/json"
	"net/http"

	"vps-checkout/internal/checkout"
	"vps-checkout/internal/middleware"
	"vps-checkout/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CheckoutHandler handles checkout-session HTTP requests.
type CheckoutHandler struct {
	service checkout.Service
	logger  zerolog.Logger
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(service checkout.Service, logger zerolog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: service,
		logger:  logger.With().Str("handler", "checkout").Logger(),
	}
}

// Start handles POST /api/checkout requests.
func (h *CheckoutHandler) Start(w http.ResponseWriter, r *http.Request) {
	token := middleware.TokenFromContext(r.Context())

	view, err := h.service.Start(r.Context(), token)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeResult(w, http.StatusCreated, view, "checkout session started")
}

// Get handles GET /api/checkout/{id} requests.
func (h *CheckoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	view, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeResult(w, http.StatusOK, view, "checkout session")
}

// SubmitInfo handles POST /api/checkout/{id}/info requests.
func (h *CheckoutHandler) SubmitInfo(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	var form model.CheckoutFormData
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeError(w, model.NewDomainError(model.ErrCodeInvalidJSON, "invalid request body"), h.logger)
		return
	}

	view, err := h.service.SubmitInfo(r.Context(), id, form.Phone, form.Address)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeResult(w, http.StatusOK, view, "contact info accepted")
}

// RemoveItem handles DELETE /api/checkout/{id}/items/{itemID} requests.
func (h *CheckoutHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	token := middleware.TokenFromContext(r.Context())
	view, err := h.service.RemoveItem(r.Context(), token, id, chi.URLParam(r, "itemID"))
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeResult(w, http.StatusOK, view, "cart item removed")
}

// Promotions handles GET /api/promotions requests.
func (h *CheckoutHandler) Promotions(w http.ResponseWriter, r *http.Request) {
	token := middleware.TokenFromContext(r.Context())

	promos, err := h.service.ListPromotions(r.Context(), token)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeResult(w, http.StatusOK, promos, "available promotions")
}

// ApplyPromotion handles POST /api/checkout/{id}/promotion requests.
func (h *CheckoutHandler) ApplyPromotion(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, model.NewDomainError(model.ErrCodeInvalidJSON, "invalid request body"), h.logger)
		return
	}

	token := middleware.TokenFromContext(r.Context())
	view, err := h.service.ApplyPromotion(r.Context(), token, id, req.Code)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeResult(w, http.StatusOK, view, "promotion applied")
}

// Pay handles POST /api/checkout/{id}/pay requests.
func (h *CheckoutHandler) Pay(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	var req struct {
		Method string `json:"method"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, model.NewDomainError(model.ErrCodeInvalidJSON, "invalid request body"), h.logger)
		return
	}

	token := middleware.TokenFromContext(r.Context())
	redirect, err := h.service.Pay(r.Context(), token, id, req.Method)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeResult(w, http.StatusOK, redirect, "payment initiated")
}

// sessionID extracts and validates the session ID path parameter.
func (h *CheckoutHandler) sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, model.ErrSessionNotFound.WithDetail("invalid session ID format"), h.logger)
		return uuid.Nil, false
	}
	return id, true
}
