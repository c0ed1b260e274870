package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"vps-checkout/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// sessionRepository implements SessionRepository using PostgreSQL. Cart items
// and the promotion are stored as JSONB snapshots, matching their lifecycle:
// they are frozen at session start and only replaced wholesale.
type sessionRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewSessionRepository creates a new PostgreSQL-backed session repository.
func NewSessionRepository(pool *pgxpool.Pool, logger zerolog.Logger) SessionRepository {
	return &sessionRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "session").Logger(),
	}
}

// Create inserts a new checkout session.
func (r *sessionRepository) Create(ctx context.Context, session *model.CheckoutSession) error {
	items, promotion, err := marshalSnapshots(session)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO checkout_sessions
			(id, step, items, promotion, phone, address, method, order_number, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err = r.pool.Exec(ctx, query,
		session.ID,
		session.Step,
		items,
		promotion,
		session.Phone,
		session.Address,
		session.Method,
		session.OrderNumber,
		session.CreatedAt,
		session.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("session_id", session.ID.String()).
			Msg("failed to create checkout session")
		return fmt.Errorf("failed to create checkout session: %w", err)
	}

	r.logger.Debug().
		Str("session_id", session.ID.String()).
		Msg("checkout session created")

	return nil
}

// GetByID retrieves a session by its ID.
func (r *sessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.CheckoutSession, error) {
	query := `
		SELECT id, step, items, promotion, phone, address, method, order_number, created_at, updated_at
		FROM checkout_sessions
		WHERE id = $1
	`

	var (
		session   model.CheckoutSession
		items     []byte
		promotion []byte
	)

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&session.ID,
		&session.Step,
		&items,
		&promotion,
		&session.Phone,
		&session.Address,
		&session.Method,
		&session.OrderNumber,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("session_id", id.String()).Msg("checkout session not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("session_id", id.String()).Msg("failed to get checkout session")
		return nil, fmt.Errorf("failed to get checkout session: %w", err)
	}

	if err := json.Unmarshal(items, &session.Items); err != nil {
		return nil, fmt.Errorf("failed to decode session items: %w", err)
	}

	if len(promotion) > 0 {
		if err := json.Unmarshal(promotion, &session.Promotion); err != nil {
			return nil, fmt.Errorf("failed to decode session promotion: %w", err)
		}
	}

	return &session, nil
}

// Save persists the session's mutable fields.
func (r *sessionRepository) Save(ctx context.Context, session *model.CheckoutSession) error {
	items, promotion, err := marshalSnapshots(session)
	if err != nil {
		return err
	}

	session.UpdatedAt = time.Now()

	query := `
		UPDATE checkout_sessions
		SET step = $2, items = $3, promotion = $4, phone = $5, address = $6,
			method = $7, order_number = $8, updated_at = $9
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		session.ID,
		session.Step,
		items,
		promotion,
		session.Phone,
		session.Address,
		session.Method,
		session.OrderNumber,
		session.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("session_id", session.ID.String()).
			Msg("failed to save checkout session")
		return fmt.Errorf("failed to save checkout session: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrSessionNotFound
	}

	return nil
}

// TransitionStep atomically moves the session between steps. The conditional
// UPDATE is the duplicate-submission guard: the second of two concurrent
// submits finds the session already moved and gets false back.
func (r *sessionRepository) TransitionStep(ctx context.Context, id uuid.UUID, from, to model.CheckoutStep) (bool, error) {
	query := `
		UPDATE checkout_sessions
		SET step = $3, updated_at = $4
		WHERE id = $1 AND step = $2
	`

	tag, err := r.pool.Exec(ctx, query, id, from, to, time.Now())
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("session_id", id.String()).
			Str("from", from.String()).
			Str("to", to.String()).
			Msg("failed to transition checkout step")
		return false, fmt.Errorf("failed to transition checkout step: %w", err)
	}

	moved := tag.RowsAffected() > 0
	r.logger.Debug().
		Str("session_id", id.String()).
		Str("from", from.String()).
		Str("to", to.String()).
		Bool("moved", moved).
		Msg("checkout step transition")

	return moved, nil
}

// marshalSnapshots encodes the JSONB columns. Promotion encodes to nil when
// no promotion is applied so the column stays NULL.
func marshalSnapshots(session *model.CheckoutSession) ([]byte, []byte, error) {
	items, err := json.Marshal(session.Items)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode session items: %w", err)
	}

	var promotion []byte
	if session.Promotion != nil {
		promotion, err = json.Marshal(session.Promotion)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to encode session promotion: %w", err)
		}
	}

	return items, promotion, nil
}
