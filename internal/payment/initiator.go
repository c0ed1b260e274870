package payment

import (
	"context"
	"strings"

	"vps-checkout/internal/config"
	"vps-checkout/internal/gateway"
	"vps-checkout/internal/model"

	"github.com/rs/zerolog"
)

// PaymentCreator is the slice of the backend API the initiator depends on.
// *gateway.Client satisfies it.
type PaymentCreator interface {
	CreatePayment(ctx context.Context, token, provider string, req gateway.CreatePaymentRequest) (*model.PaymentResponse, error)
}

// Initiator builds provider payment requests and hands back the gateway's
// redirect target. Failure here is guaranteed side-effect free: no redirect
// URL is ever returned unless the backend confirmed success with a populated
// payment URL.
type Initiator struct {
	backend PaymentCreator
	origin  string
	logger  zerolog.Logger
}

// NewInitiator creates a payment initiator.
func NewInitiator(backend PaymentCreator, cfg config.PaymentConfig, logger zerolog.Logger) *Initiator {
	return &Initiator{
		backend: backend,
		origin:  strings.TrimRight(cfg.PublicOrigin, "/"),
		logger:  logger.With().Str("component", "payment-initiator").Logger(),
	}
}

// InitiationRequest carries everything a provider needs to open a payment
// session for an order.
type InitiationRequest struct {
	Provider    Provider
	OrderNumber string
	Amount      int64
	Phone       string
	Address     string
}

// Initiate creates a payment session with the provider and returns the
// gateway redirect. The return URL is always this service's origin plus the
// provider's callback path so the matching return handler is invoked.
func (i *Initiator) Initiate(ctx context.Context, token string, req InitiationRequest) (*model.PaymentResponse, error) {
	returnURL := i.origin + req.Provider.ReturnPath()

	resp, err := i.backend.CreatePayment(ctx, token, req.Provider.String(), gateway.CreatePaymentRequest{
		OrderNumber: req.OrderNumber,
		Amount:      req.Amount,
		Phone:       req.Phone,
		Address:     req.Address,
		ReturnURL:   returnURL,
	})
	if err != nil {
		return nil, err
	}

	if !resp.Success || resp.PaymentURL == "" {
		i.logger.Warn().
			Str("provider", req.Provider.String()).
			Str("order_number", req.OrderNumber).
			Bool("success", resp.Success).
			Msg("payment initiation rejected by backend")

		detail := resp.Message
		if detail == "" && resp.PaymentURL == "" {
			detail = "backend returned no payment URL"
		}
		return nil, model.NewDomainError(req.Provider.ErrorCode(), "payment initiation failed").
			WithDetail(detail)
	}

	i.logger.Info().
		Str("provider", req.Provider.String()).
		Str("order_number", req.OrderNumber).
		Str("transaction_id", resp.TransactionID).
		Msg("payment session created")

	return resp, nil
}
