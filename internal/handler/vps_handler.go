package handler

import (
	"encoding/json"
	"net/http"

	"vps-checkout/internal/middleware"
	"vps-checkout/internal/model"
	"vps-checkout/internal/provision"

	"github.com/rs/zerolog"
)

// VPSHandler handles provisioning-trigger HTTP requests.
type VPSHandler struct {
	service *provision.Service
	logger  zerolog.Logger
}

// NewVPSHandler creates a new VPS handler.
func NewVPSHandler(service *provision.Service, logger zerolog.Logger) *VPSHandler {
	return &VPSHandler{
		service: service,
		logger:  logger.With().Str("handler", "vps").Logger(),
	}
}

// Setup handles POST /api/vps/setup requests.
func (h *VPSHandler) Setup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrderNumber string `json:"order_number"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, model.NewDomainError(model.ErrCodeInvalidJSON, "invalid request body"), h.logger)
		return
	}

	if req.OrderNumber == "" {
		writeError(w, model.NewDomainError(model.ErrCodeInvalidJSON, "order_number is required"), h.logger)
		return
	}

	token := middleware.TokenFromContext(r.Context())
	result, err := h.service.Setup(r.Context(), token, req.OrderNumber)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeResult(w, http.StatusOK, result, result.Message)
}
