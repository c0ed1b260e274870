package provision

import (
	"context"
	"encoding/json"
	"fmt"

	"vps-checkout/internal/model"
	"vps-checkout/internal/repository"

	"github.com/rs/zerolog"
)

// Backend is the slice of the backend API this service depends on.
// *gateway.Client satisfies it.
type Backend interface {
	SetupVPS(ctx context.Context, token, orderNumber string) (*model.VPSSetupResult, error)
}

// Service triggers backend VPS provisioning for a paid order and queues a
// welcome notification per instance. Notification problems degrade the result
// message only; they never overturn a successful provisioning.
type Service struct {
	backend Backend
	outbox  repository.OutboxRepository
	logger  zerolog.Logger
}

// NewService creates a new provisioning service.
func NewService(backend Backend, outbox repository.OutboxRepository, logger zerolog.Logger) *Service {
	return &Service{
		backend: backend,
		outbox:  outbox,
		logger:  logger.With().Str("service", "provision").Logger(),
	}
}

// Result is the outcome of a provisioning trigger.
type Result struct {
	OrderNumber string              `json:"order_number"`
	Instances   []model.VPSInstance `json:"instances"`
	Message     string              `json:"message"`
	Degraded    bool                `json:"degraded"`
}

// vpsProvisionedPayload is the outbox document for one provisioned VPS.
type vpsProvisionedPayload struct {
	VPSID       string `json:"vps_id"`
	Hostname    string `json:"hostname"`
	OrderNumber string `json:"order_number"`
}

// Setup requests provisioning and enqueues per-VPS welcome notifications.
func (s *Service) Setup(ctx context.Context, token, orderNumber string) (*Result, error) {
	setup, err := s.backend.SetupVPS(ctx, token, orderNumber)
	if err != nil {
		return nil, err
	}

	failed := 0
	for _, instance := range setup.Instances {
		payload, err := json.Marshal(vpsProvisionedPayload{
			VPSID:       instance.ID,
			Hostname:    instance.Hostname,
			OrderNumber: setup.OrderNumber,
		})
		if err == nil {
			err = s.outbox.Enqueue(ctx, repository.EventVPSProvisioned, payload)
		}
		if err != nil {
			failed++
			s.logger.Error().
				Err(err).
				Str("vps_id", instance.ID).
				Str("order_number", setup.OrderNumber).
				Msg("failed to queue welcome notification")
		}
	}

	result := &Result{
		OrderNumber: setup.OrderNumber,
		Instances:   setup.Instances,
		Message:     "vps setup completed",
	}
	if failed > 0 {
		result.Degraded = true
		result.Message = fmt.Sprintf("vps setup completed, %d welcome notification(s) could not be queued", failed)
	}

	s.logger.Info().
		Str("order_number", setup.OrderNumber).
		Int("instance_count", len(setup.Instances)).
		Int("notification_failures", failed).
		Msg("vps setup triggered")

	return result, nil
}
