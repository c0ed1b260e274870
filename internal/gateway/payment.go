package gateway

import (
	"context"
	"net/http"

	"vps-checkout/internal/model"
)

// CreatePaymentRequest is the provider payment-creation payload. ReturnURL is
// the callback this service exposes for the gateway's redirect.
type CreatePaymentRequest struct {
	OrderNumber string `json:"order_number"`
	Amount      int64  `json:"amount"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	ReturnURL   string `json:"return_url"`
}

// providerErrorCode maps a payment provider to its action-specific error code.
func providerErrorCode(provider string) string {
	if provider == "momo" {
		return model.ErrCodeMomoPayment
	}
	return model.ErrCodeVnpayPayment
}

// ProceedCheckout finalises the cart into a backend order.
func (c *Client) ProceedCheckout(ctx context.Context, token, promotionCode string) (*model.Order, error) {
	body := map[string]any{
		"promotion_code": promotionCode,
	}

	var order model.Order
	if err := c.call(ctx, http.MethodPost, "/payments/checkout-proceed", token, true, model.ErrCodeCheckoutProceed, body, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// CreatePayment initiates a payment session with the given provider.
func (c *Client) CreatePayment(ctx context.Context, token, provider string, req CreatePaymentRequest) (*model.PaymentResponse, error) {
	var resp model.PaymentResponse
	if err := c.call(ctx, http.MethodPost, "/payments/"+provider+"/create", token, true, providerErrorCode(provider), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// VerifyReturn forwards the gateway's raw return query string to the backend
// verification endpoint. The backend owns signature and amount checks; this
// client only relays its verdict. No session token is required: the request
// originates from a gateway redirect, not an authenticated user action.
func (c *Client) VerifyReturn(ctx context.Context, provider, rawQuery string) (*model.PaymentVerification, error) {
	path := "/payments/" + provider + "/return"
	if rawQuery != "" {
		path += "?" + rawQuery
	}

	var verification model.PaymentVerification
	if err := c.call(ctx, http.MethodGet, path, "", false, model.ErrCodePaymentVerify, nil, &verification); err != nil {
		return nil, err
	}
	return &verification, nil
}

// GetPaymentStatus fetches the current status of a payment.
func (c *Client) GetPaymentStatus(ctx context.Context, token, paymentID string) (model.PaymentStatus, error) {
	var payment model.Payment
	if err := c.call(ctx, http.MethodGet, "/payments/"+paymentID, token, true, model.ErrCodePaymentStatus, nil, &payment); err != nil {
		return "", err
	}
	return payment.Status, nil
}

// GetOrderPayments lists all payments attached to an order.
func (c *Client) GetOrderPayments(ctx context.Context, token, orderID string) ([]model.Payment, error) {
	var payments []model.Payment
	if err := c.call(ctx, http.MethodGet, "/payments/order/"+orderID, token, true, model.ErrCodePaymentStatus, nil, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}
