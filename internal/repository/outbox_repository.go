package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// outboxRepository implements OutboxRepository using PostgreSQL.
type outboxRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOutboxRepository creates a new PostgreSQL-backed outbox repository.
func NewOutboxRepository(pool *pgxpool.Pool, logger zerolog.Logger) OutboxRepository {
	return &outboxRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "outbox").Logger(),
	}
}

// Enqueue records a new unprocessed event.
func (r *outboxRepository) Enqueue(ctx context.Context, eventType string, payload []byte) error {
	query := `
		INSERT INTO notification_outbox (id, event_type, payload, attempts, created_at)
		VALUES ($1, $2, $3, 0, $4)
	`

	id := uuid.New()
	_, err := r.pool.Exec(ctx, query, id, eventType, payload, time.Now())
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("event_type", eventType).
			Msg("failed to enqueue outbox event")
		return fmt.Errorf("failed to enqueue outbox event: %w", err)
	}

	r.logger.Debug().
		Str("event_id", id.String()).
		Str("event_type", eventType).
		Msg("outbox event enqueued")

	return nil
}

// GetUnprocessed lists events awaiting delivery, oldest first.
func (r *outboxRepository) GetUnprocessed(ctx context.Context, limit, maxAttempts int) ([]OutboxEvent, error) {
	query := `
		SELECT id, event_type, payload, attempts, last_error, processed_at, created_at
		FROM notification_outbox
		WHERE processed_at IS NULL AND attempts < $2
		ORDER BY created_at
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit, maxAttempts)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query unprocessed outbox events")
		return nil, fmt.Errorf("failed to query unprocessed outbox events: %w", err)
	}
	defer rows.Close()

	var events []OutboxEvent
	for rows.Next() {
		var event OutboxEvent
		if err := rows.Scan(
			&event.ID,
			&event.EventType,
			&event.Payload,
			&event.Attempts,
			&event.LastError,
			&event.ProcessedAt,
			&event.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan outbox event: %w", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read outbox events: %w", err)
	}

	return events, nil
}

// MarkProcessed stamps an event as delivered.
func (r *outboxRepository) MarkProcessed(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE notification_outbox
		SET processed_at = $2
		WHERE id = $1
	`

	_, err := r.pool.Exec(ctx, query, id, time.Now())
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("event_id", id.String()).
			Msg("failed to mark outbox event as processed")
		return fmt.Errorf("failed to mark outbox event as processed: %w", err)
	}

	return nil
}

// RecordFailure increments the attempt counter and stores the last error.
func (r *outboxRepository) RecordFailure(ctx context.Context, id uuid.UUID, detail string) error {
	query := `
		UPDATE notification_outbox
		SET attempts = attempts + 1, last_error = $2
		WHERE id = $1
	`

	_, err := r.pool.Exec(ctx, query, id, detail)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("event_id", id.String()).
			Msg("failed to record outbox delivery failure")
		return fmt.Errorf("failed to record outbox delivery failure: %w", err)
	}

	return nil
}
