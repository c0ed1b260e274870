package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"vps-checkout/internal/config"
	"vps-checkout/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedStatusSource replays a fixed sequence of probe results.
type scriptedStatusSource struct {
	results []probeResult
	calls   int
}

type probeResult struct {
	status model.PaymentStatus
	err    error
}

func (s *scriptedStatusSource) GetPaymentStatus(ctx context.Context, token, paymentID string) (model.PaymentStatus, error) {
	r := s.results[s.calls]
	s.calls++
	return r.status, r.err
}

func newTestPoller(source StatusSource, maxAttempts int) (*StatusPoller, *int) {
	cfg := config.PaymentConfig{
		PollInterval:    time.Second,
		PollMaxAttempts: maxAttempts,
	}
	poller := NewStatusPoller(source, cfg, zerolog.Nop())

	sleeps := 0
	poller.sleep = func(ctx context.Context, d time.Duration) error {
		sleeps++
		return nil
	}
	return poller, &sleeps
}

func TestAwait_ResolvesOnTerminalStatus(t *testing.T) {
	source := &scriptedStatusSource{results: []probeResult{
		{model.PaymentPending, nil},
		{model.PaymentPending, nil},
		{model.PaymentPending, nil},
		{model.PaymentCompleted, nil},
	}}
	poller, sleeps := newTestPoller(source, 10)

	status, attempts, err := poller.Await(context.Background(), "tok", "PAY-1")

	require.NoError(t, err)
	assert.Equal(t, model.PaymentCompleted, status)
	assert.Equal(t, 4, attempts)
	assert.Equal(t, 4, source.calls)
	assert.Equal(t, 3, *sleeps)
}

func TestAwait_FailedIsTerminal(t *testing.T) {
	source := &scriptedStatusSource{results: []probeResult{
		{model.PaymentPending, nil},
		{model.PaymentFailed, nil},
	}}
	poller, _ := newTestPoller(source, 10)

	status, attempts, err := poller.Await(context.Background(), "tok", "PAY-2")

	require.NoError(t, err)
	assert.Equal(t, model.PaymentFailed, status)
	assert.Equal(t, 2, attempts)
}

func TestAwait_CapResolvesWithLastStatus(t *testing.T) {
	source := &scriptedStatusSource{results: []probeResult{
		{model.PaymentPending, nil},
		{model.PaymentPending, nil},
		{model.PaymentPending, nil},
		{model.PaymentPending, nil},
		{model.PaymentPending, nil},
	}}
	poller, sleeps := newTestPoller(source, 5)

	status, attempts, err := poller.Await(context.Background(), "tok", "PAY-3")

	// Hitting the cap is not an error: the caller gets the last known status.
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPending, status)
	assert.Equal(t, 5, attempts)
	assert.Equal(t, 5, source.calls)
	// No sleep after the final attempt.
	assert.Equal(t, 4, *sleeps)
}

func TestAwait_ProbeFailureCountsAsAttempt(t *testing.T) {
	source := &scriptedStatusSource{results: []probeResult{
		{model.PaymentPending, nil},
		{"", errors.New("connection reset")},
		{model.PaymentCompleted, nil},
	}}
	poller, _ := newTestPoller(source, 10)

	status, attempts, err := poller.Await(context.Background(), "tok", "PAY-4")

	require.NoError(t, err)
	assert.Equal(t, model.PaymentCompleted, status)
	assert.Equal(t, 3, attempts)
}

func TestAwait_AbortStopsImmediately(t *testing.T) {
	source := &scriptedStatusSource{results: []probeResult{
		{model.PaymentPending, nil},
		{"", model.ErrAborted},
	}}
	poller, _ := newTestPoller(source, 10)

	status, attempts, err := poller.Await(context.Background(), "tok", "PAY-5")

	assert.ErrorIs(t, err, model.ErrAborted)
	// The last observed status survives the abort.
	assert.Equal(t, model.PaymentPending, status)
	assert.Equal(t, 2, attempts)
}

func TestAwait_CancelledDuringSleep(t *testing.T) {
	source := &scriptedStatusSource{results: []probeResult{
		{model.PaymentPending, nil},
	}}
	poller, _ := newTestPoller(source, 10)
	poller.sleep = func(ctx context.Context, d time.Duration) error {
		return context.Canceled
	}

	status, attempts, err := poller.Await(context.Background(), "tok", "PAY-6")

	assert.ErrorIs(t, err, model.ErrAborted)
	assert.Equal(t, model.PaymentPending, status)
	assert.Equal(t, 1, attempts)
}
