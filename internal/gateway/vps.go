package gateway

import (
	"context"
	"net/http"

	"vps-checkout/internal/model"
)

// SetupVPS requests backend provisioning of the order's VPS instances.
func (c *Client) SetupVPS(ctx context.Context, token, orderNumber string) (*model.VPSSetupResult, error) {
	body := map[string]any{
		"order_number": orderNumber,
	}

	var result model.VPSSetupResult
	if err := c.call(ctx, http.MethodPost, "/vps/setup", token, true, model.ErrCodeVPSSetup, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SendOrderConfirmation asks the backend to send the order confirmation email.
// Called from the notification dispatcher, never from the payment path.
func (c *Client) SendOrderConfirmation(ctx context.Context, orderNumber string) error {
	body := map[string]any{
		"order_number": orderNumber,
	}
	return c.call(ctx, http.MethodPost, "/notifications/order-confirmation", "", false, model.ErrCodeNotificationFailed, body, nil)
}

// SendVPSWelcome asks the backend to send the welcome email for one VPS.
func (c *Client) SendVPSWelcome(ctx context.Context, vpsID string) error {
	body := map[string]any{
		"vps_id": vpsID,
	}
	return c.call(ctx, http.MethodPost, "/notifications/vps-welcome", "", false, model.ErrCodeNotificationFailed, body, nil)
}
