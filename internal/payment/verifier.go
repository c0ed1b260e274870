package payment

import (
	"context"
	"encoding/json"

	"vps-checkout/internal/model"
	"vps-checkout/internal/repository"

	"github.com/rs/zerolog"
)

// ReturnVerifier is the slice of the backend API the verifier depends on.
// *gateway.Client satisfies it.
type ReturnVerifier interface {
	VerifyReturn(ctx context.Context, provider, rawQuery string) (*model.PaymentVerification, error)
}

// Verifier handles the gateway's return redirect. It trusts the backend's
// verdict on transaction authenticity and never synthesises a success. The
// confirmation notification goes through the outbox: a queueing failure
// downgrades the result message but never the verification itself.
type Verifier struct {
	backend ReturnVerifier
	outbox  repository.OutboxRepository
	logger  zerolog.Logger
}

// NewVerifier creates a return verification handler.
func NewVerifier(backend ReturnVerifier, outbox repository.OutboxRepository, logger zerolog.Logger) *Verifier {
	return &Verifier{
		backend: backend,
		outbox:  outbox,
		logger:  logger.With().Str("component", "payment-verifier").Logger(),
	}
}

// VerifyResult is the outcome of a verified gateway return.
type VerifyResult struct {
	Order         *model.Order         `json:"order"`
	Breakdown     model.PriceBreakdown `json:"breakdown"`
	PaymentID     string               `json:"payment_id"`
	TransactionID string               `json:"transaction_id"`
	Message       string               `json:"message"`
	NotifyQueued  bool                 `json:"notify_queued"`
}

// orderPaidPayload is the outbox document for a paid order.
type orderPaidPayload struct {
	OrderNumber string `json:"order_number"`
	Amount      int64  `json:"amount"`
}

// HandleReturn forwards the provider's raw query string to the backend for
// verification. On success it computes the display breakdown independently
// from the order's line items and queues the confirmation notification.
// On failure the backend's code and detail are surfaced unchanged.
func (v *Verifier) HandleReturn(ctx context.Context, provider Provider, rawQuery string) (*VerifyResult, error) {
	verification, err := v.backend.VerifyReturn(ctx, provider.String(), rawQuery)
	if err != nil {
		return nil, err
	}

	if !verification.Success || verification.Order == nil {
		v.logger.Warn().
			Str("provider", provider.String()).
			Str("transaction_id", verification.TransactionID).
			Msg("payment verification rejected")
		return nil, model.NewDomainError(model.ErrCodePaymentVerify, "payment was not completed")
	}

	order := verification.Order

	result := &VerifyResult{
		Order:         order,
		Breakdown:     orderBreakdown(order),
		PaymentID:     verification.Payment.ID,
		TransactionID: verification.TransactionID,
		Message:       "payment verified",
		NotifyQueued:  true,
	}

	payload, err := json.Marshal(orderPaidPayload{
		OrderNumber: order.OrderNumber,
		Amount:      order.Price,
	})
	if err == nil {
		err = v.outbox.Enqueue(ctx, repository.EventOrderPaid, payload)
	}
	if err != nil {
		// Soft failure: the payment is captured, only the confirmation
		// email is delayed.
		v.logger.Error().
			Err(err).
			Str("order_number", order.OrderNumber).
			Msg("failed to queue order confirmation notification")
		result.NotifyQueued = false
		result.Message = "payment verified, confirmation notification could not be queued"
	}

	v.logger.Info().
		Str("provider", provider.String()).
		Str("order_number", order.OrderNumber).
		Str("transaction_id", result.TransactionID).
		Int64("amount", order.Price).
		Msg("payment verified")

	return result, nil
}

// orderBreakdown recomputes the display figures from the order's line items.
// Discount is derived from the gap between item subtotal and the charged
// price, independent of whatever the checkout session computed.
func orderBreakdown(order *model.Order) model.PriceBreakdown {
	var subtotal int64
	for _, item := range order.Items {
		subtotal += item.TotalPrice
	}

	return model.PriceBreakdown{
		Subtotal: subtotal,
		Discount: subtotal - order.Price,
		Total:    order.Price,
	}
}
