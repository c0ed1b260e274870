package gateway

import (
	"context"
	"net/http"

	"vps-checkout/internal/model"
)

const errCodeCartFetch = "CART_FETCH_FAILED"

// GetCart retrieves the authenticated user's cart items.
func (c *Client) GetCart(ctx context.Context, token string) ([]model.CartItem, error) {
	var items []model.CartItem
	if err := c.call(ctx, http.MethodGet, "/cart", token, true, errCodeCartFetch, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ClearCart removes every item from the user's cart.
func (c *Client) ClearCart(ctx context.Context, token string) error {
	return c.call(ctx, http.MethodDelete, "/cart", token, true, "CART_CLEAR_FAILED", nil, nil)
}

// RemoveCartItem deletes a single cart item.
func (c *Client) RemoveCartItem(ctx context.Context, token, itemID string) error {
	return c.call(ctx, http.MethodDelete, "/cart/"+itemID, token, true, "CART_REMOVE_FAILED", nil, nil)
}
