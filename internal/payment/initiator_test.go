package payment

import (
	"context"
	"testing"

	"vps-checkout/internal/config"
	"vps-checkout/internal/gateway"
	"vps-checkout/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPaymentCreator is a mock implementation of PaymentCreator.
type MockPaymentCreator struct {
	mock.Mock
}

func (m *MockPaymentCreator) CreatePayment(ctx context.Context, token, provider string, req gateway.CreatePaymentRequest) (*model.PaymentResponse, error) {
	args := m.Called(ctx, token, provider, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentResponse), args.Error(1)
}

func newTestInitiator(creator PaymentCreator) *Initiator {
	cfg := config.PaymentConfig{PublicOrigin: "https://shop.example.com/"}
	return NewInitiator(creator, cfg, zerolog.Nop())
}

func TestInitiate_BuildsProviderReturnURL(t *testing.T) {
	tests := []struct {
		provider      Provider
		wantReturnURL string
	}{
		{ProviderMomo, "https://shop.example.com/checkout/momo-return"},
		{ProviderVnpay, "https://shop.example.com/checkout/vnpay-return"},
	}

	for _, tt := range tests {
		t.Run(tt.provider.String(), func(t *testing.T) {
			ctx := context.Background()
			creator := new(MockPaymentCreator)

			creator.On("CreatePayment", ctx, "tok", tt.provider.String(), gateway.CreatePaymentRequest{
				OrderNumber: "ORD-2026-0001",
				Amount:      500_000,
				Phone:       "0912345678",
				Address:     "12 Nguyen Hue",
				ReturnURL:   tt.wantReturnURL,
			}).Return(&model.PaymentResponse{Success: true, PaymentURL: "https://gateway.example.com/pay"}, nil)

			initiator := newTestInitiator(creator)
			resp, err := initiator.Initiate(ctx, "tok", InitiationRequest{
				Provider:    tt.provider,
				OrderNumber: "ORD-2026-0001",
				Amount:      500_000,
				Phone:       "0912345678",
				Address:     "12 Nguyen Hue",
			})

			require.NoError(t, err)
			assert.Equal(t, "https://gateway.example.com/pay", resp.PaymentURL)
			creator.AssertExpectations(t)
		})
	}
}

func TestInitiate_BackendRejection(t *testing.T) {
	ctx := context.Background()
	creator := new(MockPaymentCreator)

	creator.On("CreatePayment", ctx, "tok", "momo", mock.AnythingOfType("gateway.CreatePaymentRequest")).
		Return(&model.PaymentResponse{Success: false, Message: "gateway unavailable"}, nil)

	initiator := newTestInitiator(creator)
	resp, err := initiator.Initiate(ctx, "tok", InitiationRequest{Provider: ProviderMomo, OrderNumber: "ORD-1"})

	assert.Nil(t, resp)
	de := model.AsDomainError(err, model.ErrCodeInternalError)
	assert.Equal(t, model.ErrCodeMomoPayment, de.Code)
	assert.Equal(t, "gateway unavailable", de.Detail)
}

func TestInitiate_SuccessWithoutURLIsFailure(t *testing.T) {
	ctx := context.Background()
	creator := new(MockPaymentCreator)

	creator.On("CreatePayment", ctx, "tok", "vnpay", mock.AnythingOfType("gateway.CreatePaymentRequest")).
		Return(&model.PaymentResponse{Success: true, PaymentURL: ""}, nil)

	initiator := newTestInitiator(creator)
	resp, err := initiator.Initiate(ctx, "tok", InitiationRequest{Provider: ProviderVnpay, OrderNumber: "ORD-2"})

	assert.Nil(t, resp)
	de := model.AsDomainError(err, model.ErrCodeInternalError)
	assert.Equal(t, model.ErrCodeVnpayPayment, de.Code)
	assert.Equal(t, "backend returned no payment URL", de.Detail)
}

func TestInitiate_TransportErrorPassesThrough(t *testing.T) {
	ctx := context.Background()
	creator := new(MockPaymentCreator)

	creator.On("CreatePayment", ctx, "tok", "momo", mock.AnythingOfType("gateway.CreatePaymentRequest")).
		Return(nil, model.ErrAborted)

	initiator := newTestInitiator(creator)
	resp, err := initiator.Initiate(ctx, "tok", InitiationRequest{Provider: ProviderMomo, OrderNumber: "ORD-3"})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, model.ErrAborted)
}
