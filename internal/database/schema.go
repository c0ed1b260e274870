package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema is the DDL for everything this service persists: checkout sessions
// and the notification outbox. Cart, orders and payments live in the remote
// backend, not here.
const Schema = `
CREATE TABLE IF NOT EXISTS checkout_sessions (
	id           UUID PRIMARY KEY,
	step         TEXT NOT NULL,
	items        JSONB NOT NULL,
	promotion    JSONB,
	phone        TEXT NOT NULL DEFAULT '',
	address      TEXT NOT NULL DEFAULT '',
	method       TEXT NOT NULL DEFAULT '',
	order_number TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMPTZ NOT NULL,
	updated_at   TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS notification_outbox (
	id           UUID PRIMARY KEY,
	event_type   TEXT NOT NULL,
	payload      JSONB NOT NULL,
	attempts     INTEGER NOT NULL DEFAULT 0,
	last_error   TEXT,
	processed_at TIMESTAMPTZ,
	created_at   TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_outbox_pending
	ON notification_outbox (created_at)
	WHERE processed_at IS NULL;
`

// ApplySchema creates the service's tables if they do not exist.
func ApplySchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
