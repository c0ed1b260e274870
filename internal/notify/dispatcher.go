package notify

import (
	"context"
	"time"

	"vps-checkout/internal/config"
	"vps-checkout/internal/repository"

	"github.com/rs/zerolog"
)

// Dispatcher drains the notification outbox on a fixed tick. Delivery runs
// entirely off the critical path: the workflows that enqueue events never
// wait for, or learn about, delivery outcomes. A failed delivery stays in the
// outbox for the next tick until the attempt cap retires it.
type Dispatcher struct {
	outbox      repository.OutboxRepository
	notifier    Notifier
	tick        time.Duration
	batchSize   int
	maxAttempts int
	logger      zerolog.Logger
}

// NewDispatcher creates a notification dispatcher.
func NewDispatcher(outbox repository.OutboxRepository, notifier Notifier, cfg config.NotifyConfig, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		outbox:      outbox,
		notifier:    notifier,
		tick:        cfg.Tick,
		batchSize:   cfg.BatchSize,
		maxAttempts: cfg.MaxAttempts,
		logger:      logger.With().Str("component", "notify-dispatcher").Logger(),
	}
}

// Run processes the outbox until the context is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.tick)
	defer ticker.Stop()

	d.logger.Info().
		Dur("tick", d.tick).
		Int("batch_size", d.batchSize).
		Int("max_attempts", d.maxAttempts).
		Msg("notification dispatcher started")

	for {
		select {
		case <-ticker.C:
			d.ProcessBatch(ctx)
		case <-ctx.Done():
			d.logger.Info().Msg("notification dispatcher stopped")
			return
		}
	}
}

// ProcessBatch delivers one batch of pending events. Failures are recorded
// and skipped; one broken event never blocks the rest of the batch.
func (d *Dispatcher) ProcessBatch(ctx context.Context) {
	events, err := d.outbox.GetUnprocessed(ctx, d.batchSize, d.maxAttempts)
	if err != nil {
		d.logger.Error().Err(err).Msg("failed to fetch pending notifications")
		return
	}

	for i := range events {
		event := &events[i]

		if err := d.notifier.Deliver(ctx, event); err != nil {
			d.logger.Warn().
				Err(err).
				Str("event_id", event.ID.String()).
				Str("event_type", event.EventType).
				Int("attempts", event.Attempts+1).
				Msg("notification delivery failed")

			if recordErr := d.outbox.RecordFailure(ctx, event.ID, err.Error()); recordErr != nil {
				d.logger.Error().
					Err(recordErr).
					Str("event_id", event.ID.String()).
					Msg("failed to record notification failure")
			}
			continue
		}

		if err := d.outbox.MarkProcessed(ctx, event.ID); err != nil {
			d.logger.Error().
				Err(err).
				Str("event_id", event.ID.String()).
				Msg("failed to mark notification as processed")
			continue
		}

		d.logger.Debug().
			Str("event_id", event.ID.String()).
			Str("event_type", event.EventType).
			Msg("notification delivered")
	}
}
