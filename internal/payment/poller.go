package payment

import (
	"context"
	"errors"
	"time"

	"vps-checkout/internal/config"
	"vps-checkout/internal/model"

	"github.com/rs/zerolog"
)

// StatusSource is the slice of the backend API the poller depends on.
// *gateway.Client satisfies it.
type StatusSource interface {
	GetPaymentStatus(ctx context.Context, token, paymentID string) (model.PaymentStatus, error)
}

// StatusPoller probes a payment's status on a fixed interval with a hard
// attempt cap. It terminates early on a terminal status and resolves with the
// last known status (possibly still pending) when the cap is reached; it never
// polls forever.
type StatusPoller struct {
	backend     StatusSource
	interval    time.Duration
	maxAttempts int
	sleep       func(ctx context.Context, d time.Duration) error
	logger      zerolog.Logger
}

// NewStatusPoller creates a status poller with the configured interval and cap.
func NewStatusPoller(backend StatusSource, cfg config.PaymentConfig, logger zerolog.Logger) *StatusPoller {
	return &StatusPoller{
		backend:     backend,
		interval:    cfg.PollInterval,
		maxAttempts: cfg.PollMaxAttempts,
		sleep:       sleepWithContext,
		logger:      logger.With().Str("component", "status-poller").Logger(),
	}
}

// Await polls until the payment reaches a terminal status or the attempt cap
// is hit. It returns the last observed status and the number of calls made.
// A transient probe failure counts as an attempt and keeps the last status.
func (p *StatusPoller) Await(ctx context.Context, token, paymentID string) (model.PaymentStatus, int, error) {
	status := model.PaymentPending

	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		current, err := p.backend.GetPaymentStatus(ctx, token, paymentID)
		switch {
		case errors.Is(err, model.ErrAborted):
			return status, attempt, model.ErrAborted
		case err != nil:
			p.logger.Warn().
				Err(err).
				Str("payment_id", paymentID).
				Int("attempt", attempt).
				Msg("payment status probe failed")
		default:
			status = current
			if status.IsTerminal() {
				p.logger.Info().
					Str("payment_id", paymentID).
					Str("status", status.String()).
					Int("attempts", attempt).
					Msg("payment reached terminal status")
				return status, attempt, nil
			}
		}

		if attempt < p.maxAttempts {
			if err := p.sleep(ctx, p.interval); err != nil {
				return status, attempt, model.ErrAborted
			}
		}
	}

	p.logger.Info().
		Str("payment_id", paymentID).
		Str("status", status.String()).
		Int("attempts", p.maxAttempts).
		Msg("payment status polling reached attempt cap")

	return status, p.maxAttempts, nil
}

// sleepWithContext waits for d or until the context is cancelled.
func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
