package handler

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"vps-checkout/internal/config"
	"vps-checkout/internal/middleware"
	"vps-checkout/internal/model"
	"vps-checkout/internal/payment"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// PaymentReader is the slice of the backend API the payment handler reads
// from directly. *gateway.Client satisfies it.
type PaymentReader interface {
	GetPaymentStatus(ctx context.Context, token, paymentID string) (model.PaymentStatus, error)
	GetOrderPayments(ctx context.Context, token, orderID string) ([]model.Payment, error)
}

// PaymentHandler handles gateway return callbacks and payment status probes.
type PaymentHandler struct {
	backend     PaymentReader
	verifier    *payment.Verifier
	poller      *payment.StatusPoller
	origin      string
	successPath string
	failurePath string
	logger      zerolog.Logger
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(
	backend PaymentReader,
	verifier *payment.Verifier,
	poller *payment.StatusPoller,
	cfg config.PaymentConfig,
	logger zerolog.Logger,
) *PaymentHandler {
	return &PaymentHandler{
		backend:     backend,
		verifier:    verifier,
		poller:      poller,
		origin:      strings.TrimRight(cfg.PublicOrigin, "/"),
		successPath: cfg.SuccessPath,
		failurePath: cfg.FailurePath,
		logger:      logger.With().Str("handler", "payment").Logger(),
	}
}

// Return handles GET /checkout/{method}-return: the gateway's redirect after
// a payment attempt. The raw query string is relayed to the backend verbatim
// and the browser is sent on to the storefront's result page.
func (h *PaymentHandler) Return(w http.ResponseWriter, r *http.Request) {
	provider, err := payment.ParseProvider(chi.URLParam(r, "method"))
	if err != nil {
		h.redirectFailure(w, r, model.AsDomainError(err, model.ErrCodeInvalidProvider))
		return
	}

	result, err := h.verifier.HandleReturn(r.Context(), provider, r.URL.RawQuery)
	if err != nil {
		h.redirectFailure(w, r, model.AsDomainError(err, model.ErrCodePaymentVerify))
		return
	}

	query := url.Values{}
	query.Set("order_number", result.Order.OrderNumber)
	query.Set("message", result.Message)

	http.Redirect(w, r, h.origin+h.successPath+"?"+query.Encode(), http.StatusFound)
}

// Status handles GET /api/payments/{id}/status: a single status probe.
func (h *PaymentHandler) Status(w http.ResponseWriter, r *http.Request) {
	token := middleware.TokenFromContext(r.Context())

	status, err := h.backend.GetPaymentStatus(r.Context(), token, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeResult(w, http.StatusOK, map[string]any{"status": status}, "payment status")
}

// Await handles POST /api/payments/{id}/await: a bounded poll that resolves
// with the last known status once terminal or at the attempt cap.
func (h *PaymentHandler) Await(w http.ResponseWriter, r *http.Request) {
	token := middleware.TokenFromContext(r.Context())

	status, attempts, err := h.poller.Await(r.Context(), token, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeResult(w, http.StatusOK, map[string]any{
		"status":   status,
		"attempts": attempts,
	}, "payment status resolved")
}

// ListByOrder handles GET /api/payments/order/{orderId}.
func (h *PaymentHandler) ListByOrder(w http.ResponseWriter, r *http.Request) {
	token := middleware.TokenFromContext(r.Context())

	payments, err := h.backend.GetOrderPayments(r.Context(), token, chi.URLParam(r, "orderId"))
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeResult(w, http.StatusOK, payments, "order payments")
}

// redirectFailure sends the browser to the storefront's failure page with the
// backend's error code and detail carried through unchanged.
func (h *PaymentHandler) redirectFailure(w http.ResponseWriter, r *http.Request, de *model.DomainError) {
	h.logger.Warn().
		Str("code", de.Code).
		Str("detail", de.Detail).
		Msg("gateway return verification failed")

	query := url.Values{}
	query.Set("code", de.Code)
	if de.Detail != "" {
		query.Set("detail", de.Detail)
	}

	http.Redirect(w, r, h.origin+h.failurePath+"?"+query.Encode(), http.StatusFound)
}
