package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"vps-checkout/internal/model"

	"github.com/rs/zerolog"
)

// APIError is the error half of the uniform response envelope.
type APIError struct {
	Code   string `json:"code"`
	Detail string `json:"detail,omitempty"`
}

// APIResponse is the uniform response envelope: data on success, a coded
// error otherwise, a message always.
type APIResponse struct {
	Data    any       `json:"data,omitempty"`
	Message string    `json:"message"`
	Error   *APIError `json:"error,omitempty"`
}

// writeJSON writes a JSON response with the given status code. An encoding
// failure is unrecoverable here: the status line is already on the wire.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeResult writes a successful envelope.
func writeResult(w http.ResponseWriter, status int, data any, message string) {
	writeJSON(w, status, APIResponse{Data: data, Message: message})
}

// statusForCode maps domain error codes to HTTP statuses. Codes not listed
// are backend-originating failures and surface as 502.
var statusForCode = map[string]int{
	model.ErrCodeInvalidJSON:       http.StatusBadRequest,
	model.ErrCodeInvalidPhone:      http.StatusBadRequest,
	model.ErrCodeInvalidAddress:    http.StatusBadRequest,
	model.ErrCodeInvalidProvider:   http.StatusBadRequest,
	model.ErrCodeInvalidPromoCode:  http.StatusBadRequest,
	model.ErrCodeCartEmpty:         http.StatusConflict,
	model.ErrCodeIllegalTransition: http.StatusConflict,
	model.ErrCodeSessionNotFound:   http.StatusNotFound,
	model.ErrCodeNoAccessToken:     http.StatusUnauthorized,
	model.ErrCodePaymentVerify:     http.StatusUnprocessableEntity,
	model.ErrCodeInternalError:     http.StatusInternalServerError,
}

// writeError converts a workflow error into the uniform envelope. Aborted
// requests produce no response at all: the client is gone.
func writeError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	if errors.Is(err, model.ErrAborted) {
		logger.Debug().Msg("request aborted, dropping response")
		return
	}

	de := model.AsDomainError(err, model.ErrCodeInternalError)

	status, ok := statusForCode[de.Code]
	if !ok {
		status = http.StatusBadGateway
	}

	logger.Error().
		Str("code", de.Code).
		Str("error", de.Message).
		Int("status", status).
		Msg("handler error")

	writeJSON(w, status, APIResponse{
		Message: de.Message,
		Error:   &APIError{Code: de.Code, Detail: de.Detail},
	})
}
