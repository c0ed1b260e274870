package integration

import (
	"context"
	"testing"
	"time"

	"vps-checkout/internal/model"
	"vps-checkout/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession() *model.CheckoutSession {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &model.CheckoutSession{
		ID:   uuid.New(),
		Step: model.StepInfo,
		Items: []model.CartItem{
			{
				ID:         "C001",
				Plan:       model.Plan{ID: "P001", Name: "VPS Basic", MonthlyPrice: 150_000, SetupFee: 50_000},
				Hostname:   "basic-01",
				OS:         "ubuntu-22.04",
				TotalPrice: 600_000,
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestSessionRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	logger := zerolog.Nop()
	repo := repository.NewSessionRepository(testDB.Pool, logger)

	ctx := context.Background()

	t.Run("Create and GetByID round trip", func(t *testing.T) {
		testDB.TruncateTables(t)

		session := newSession()
		require.NoError(t, repo.Create(ctx, session))

		got, err := repo.GetByID(ctx, session.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, session.ID, got.ID)
		assert.Equal(t, model.StepInfo, got.Step)
		require.Len(t, got.Items, 1)
		assert.Equal(t, int64(600_000), got.Items[0].TotalPrice)
		assert.Nil(t, got.Promotion)
	})

	t.Run("GetByID returns nil for missing session", func(t *testing.T) {
		testDB.TruncateTables(t)

		got, err := repo.GetByID(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("Save persists promotion and contact fields", func(t *testing.T) {
		testDB.TruncateTables(t)

		session := newSession()
		require.NoError(t, repo.Create(ctx, session))

		session.Step = model.StepPayment
		session.Phone = "0912345678"
		session.Address = "12 Nguyen Hue, District 1"
		session.Promotion = &model.ValidatedPromotion{
			Promotion:      model.Promotion{Code: "SUMMER10", DiscountType: model.DiscountPercentage},
			DiscountAmount: 60_000,
		}
		require.NoError(t, repo.Save(ctx, session))

		got, err := repo.GetByID(ctx, session.ID)
		require.NoError(t, err)
		assert.Equal(t, model.StepPayment, got.Step)
		assert.Equal(t, "0912345678", got.Phone)
		require.NotNil(t, got.Promotion)
		assert.Equal(t, "SUMMER10", got.Promotion.Promotion.Code)
		assert.Equal(t, int64(60_000), got.Promotion.DiscountAmount)
	})

	t.Run("Save of a missing session reports not found", func(t *testing.T) {
		testDB.TruncateTables(t)

		session := newSession()
		err := repo.Save(ctx, session)
		assert.ErrorIs(t, err, model.ErrSessionNotFound)
	})

	t.Run("TransitionStep moves only from the expected step", func(t *testing.T) {
		testDB.TruncateTables(t)

		session := newSession()
		session.Step = model.StepPayment
		require.NoError(t, repo.Create(ctx, session))

		moved, err := repo.TransitionStep(ctx, session.ID, model.StepPayment, model.StepProcessing)
		require.NoError(t, err)
		assert.True(t, moved)

		// The second identical transition finds the session already moved.
		moved, err = repo.TransitionStep(ctx, session.ID, model.StepPayment, model.StepProcessing)
		require.NoError(t, err)
		assert.False(t, moved)

		got, err := repo.GetByID(ctx, session.ID)
		require.NoError(t, err)
		assert.Equal(t, model.StepProcessing, got.Step)
	})

	t.Run("TransitionStep reverts processing to payment", func(t *testing.T) {
		testDB.TruncateTables(t)

		session := newSession()
		session.Step = model.StepProcessing
		require.NoError(t, repo.Create(ctx, session))

		moved, err := repo.TransitionStep(ctx, session.ID, model.StepProcessing, model.StepPayment)
		require.NoError(t, err)
		assert.True(t, moved)

		got, err := repo.GetByID(ctx, session.ID)
		require.NoError(t, err)
		assert.Equal(t, model.StepPayment, got.Step)
	})
}

func TestOutboxRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	logger := zerolog.Nop()
	repo := repository.NewOutboxRepository(testDB.Pool, logger)

	ctx := context.Background()

	t.Run("Enqueue and GetUnprocessed", func(t *testing.T) {
		testDB.TruncateTables(t)

		require.NoError(t, repo.Enqueue(ctx, repository.EventOrderPaid, []byte(`{"order_number":"ORD-1","amount":900000}`)))
		require.NoError(t, repo.Enqueue(ctx, repository.EventVPSProvisioned, []byte(`{"vps_id":"VPS-1"}`)))

		events, err := repo.GetUnprocessed(ctx, 50, 5)
		require.NoError(t, err)
		require.Len(t, events, 2)
		// Oldest first.
		assert.Equal(t, repository.EventOrderPaid, events[0].EventType)
		assert.Equal(t, 0, events[0].Attempts)
	})

	t.Run("MarkProcessed removes event from the pending set", func(t *testing.T) {
		testDB.TruncateTables(t)

		require.NoError(t, repo.Enqueue(ctx, repository.EventOrderPaid, []byte(`{"order_number":"ORD-2"}`)))

		events, err := repo.GetUnprocessed(ctx, 50, 5)
		require.NoError(t, err)
		require.Len(t, events, 1)

		require.NoError(t, repo.MarkProcessed(ctx, events[0].ID))

		events, err = repo.GetUnprocessed(ctx, 50, 5)
		require.NoError(t, err)
		assert.Empty(t, events)
	})

	t.Run("RecordFailure retires event at the attempt cap", func(t *testing.T) {
		testDB.TruncateTables(t)

		require.NoError(t, repo.Enqueue(ctx, repository.EventVPSProvisioned, []byte(`{"vps_id":"VPS-2"}`)))

		events, err := repo.GetUnprocessed(ctx, 50, 3)
		require.NoError(t, err)
		require.Len(t, events, 1)
		id := events[0].ID

		for i := 0; i < 3; i++ {
			require.NoError(t, repo.RecordFailure(ctx, id, "smtp relay down"))
		}

		// Three failures against a cap of three: the event is retired.
		events, err = repo.GetUnprocessed(ctx, 50, 3)
		require.NoError(t, err)
		assert.Empty(t, events)

		// A higher cap still sees it, with the failure recorded.
		events, err = repo.GetUnprocessed(ctx, 50, 5)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, 3, events[0].Attempts)
		require.NotNil(t, events[0].LastError)
		assert.Equal(t, "smtp relay down", *events[0].LastError)
	})
}
