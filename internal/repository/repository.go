package repository

import (
	"context"
	"time"

	"vps-checkout/internal/model"

	"github.com/google/uuid"
)

// Outbox event types.
const (
	EventOrderPaid      = "order.paid"
	EventVPSProvisioned = "vps.provisioned"
)

// OutboxEvent is a pending notification recorded by the critical path and
// delivered later by the dispatcher. Payload is the event's JSON document.
type OutboxEvent struct {
	ID          uuid.UUID
	EventType   string
	Payload     []byte
	Attempts    int
	LastError   *string
	ProcessedAt *time.Time
	CreatedAt   time.Time
}

// SessionRepository defines the interface for checkout session persistence.
type SessionRepository interface {
	// Create inserts a new checkout session.
	Create(ctx context.Context, session *model.CheckoutSession) error

	// GetByID retrieves a session by its ID. Returns (nil, nil) when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.CheckoutSession, error)

	// Save persists the session's mutable fields.
	Save(ctx context.Context, session *model.CheckoutSession) error

	// TransitionStep atomically moves the session from one step to another.
	// Returns false when the session is not currently in the expected step,
	// which is how concurrent duplicate submissions are rejected.
	TransitionStep(ctx context.Context, id uuid.UUID, from, to model.CheckoutStep) (bool, error)
}

// OutboxRepository defines the interface for the notification outbox.
type OutboxRepository interface {
	// Enqueue records a new unprocessed event.
	Enqueue(ctx context.Context, eventType string, payload []byte) error

	// GetUnprocessed lists events awaiting delivery, oldest first, skipping
	// events that already reached maxAttempts.
	GetUnprocessed(ctx context.Context, limit, maxAttempts int) ([]OutboxEvent, error)

	// MarkProcessed stamps an event as delivered.
	MarkProcessed(ctx context.Context, id uuid.UUID) error

	// RecordFailure increments the attempt counter and stores the last error.
	RecordFailure(ctx context.Context, id uuid.UUID, detail string) error
}
