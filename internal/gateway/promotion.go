package gateway

import (
	"context"
	"net/http"

	"vps-checkout/internal/model"
)

// GetAvailablePromotions lists promotions currently open to the user.
func (c *Client) GetAvailablePromotions(ctx context.Context, token string) ([]model.Promotion, error) {
	var promos []model.Promotion
	if err := c.call(ctx, http.MethodGet, "/promotions/available", token, true, "PROMOTION_FETCH_FAILED", nil, &promos); err != nil {
		return nil, err
	}
	return promos, nil
}

// ValidatePromotion asks the backend to validate a code against the cart
// total. The backend computes the discount amount; it is never derived here.
func (c *Client) ValidatePromotion(ctx context.Context, token, code string, cartTotal int64) (*model.ValidatedPromotion, error) {
	body := map[string]any{
		"code":            code,
		"cartTotalAmount": cartTotal,
	}

	var validated model.ValidatedPromotion
	if err := c.call(ctx, http.MethodPost, "/promotions/validate", token, true, model.ErrCodeInvalidPromoCode, body, &validated); err != nil {
		return nil, err
	}
	return &validated, nil
}

// GetCartPromotion returns the promotion already attached to the user's cart,
// or nil when none is applied.
func (c *Client) GetCartPromotion(ctx context.Context, token string) (*model.ValidatedPromotion, error) {
	var validated *model.ValidatedPromotion
	if err := c.call(ctx, http.MethodGet, "/promotions/cart", token, true, "PROMOTION_FETCH_FAILED", nil, &validated); err != nil {
		return nil, err
	}
	return validated, nil
}
