package checkout

import "vps-checkout/internal/model"

// Subtotal sums item totals.
func Subtotal(items []model.CartItem) int64 {
	var sum int64
	for _, item := range items {
		sum += item.TotalPrice
	}
	return sum
}

// SetupFee sums per-plan setup fees. Displayed alongside the total, never
// subtracted from it.
func SetupFee(items []model.CartItem) int64 {
	var sum int64
	for _, item := range items {
		sum += item.Plan.SetupFee
	}
	return sum
}

// Discount returns the applied promotion's discount capped at the subtotal,
// or 0 when no promotion is applied.
func Discount(promo *model.ValidatedPromotion, subtotal int64) int64 {
	if promo == nil {
		return 0
	}
	if promo.DiscountAmount > subtotal {
		return subtotal
	}
	return promo.DiscountAmount
}

// Breakdown computes the full price breakdown for a session. It is a pure
// function of the session's snapshots and is recomputed on every read, never
// cached.
func Breakdown(session *model.CheckoutSession) model.PriceBreakdown {
	subtotal := Subtotal(session.Items)
	discount := Discount(session.Promotion, subtotal)

	return model.PriceBreakdown{
		Subtotal: subtotal,
		Discount: discount,
		SetupFee: SetupFee(session.Items),
		Total:    subtotal - discount,
	}
}
