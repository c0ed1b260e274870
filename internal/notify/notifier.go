package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"vps-checkout/internal/repository"
)

// Notifier delivers one outbox event. Implementations own only delivery; the
// dispatcher owns retry bookkeeping.
type Notifier interface {
	Deliver(ctx context.Context, event *repository.OutboxEvent) error
}

// MailSender is the slice of the backend API the notifier depends on.
// *gateway.Client satisfies it.
type MailSender interface {
	SendOrderConfirmation(ctx context.Context, orderNumber string) error
	SendVPSWelcome(ctx context.Context, vpsID string) error
}

// backendNotifier delivers notifications through the backend's mail endpoints.
type backendNotifier struct {
	backend MailSender
}

// NewBackendNotifier creates a notifier backed by the remote API.
func NewBackendNotifier(backend MailSender) Notifier {
	return &backendNotifier{backend: backend}
}

func (n *backendNotifier) Deliver(ctx context.Context, event *repository.OutboxEvent) error {
	switch event.EventType {
	case repository.EventOrderPaid:
		var payload struct {
			OrderNumber string `json:"order_number"`
		}
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			return fmt.Errorf("malformed %s payload: %w", event.EventType, err)
		}
		return n.backend.SendOrderConfirmation(ctx, payload.OrderNumber)

	case repository.EventVPSProvisioned:
		var payload struct {
			VPSID string `json:"vps_id"`
		}
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			return fmt.Errorf("malformed %s payload: %w", event.EventType, err)
		}
		return n.backend.SendVPSWelcome(ctx, payload.VPSID)

	default:
		return fmt.Errorf("unknown event type: %s", event.EventType)
	}
}
