package model

import "time"

// DiscountType enumerates how a promotion reduces the cart total.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed_amount"
)

// Promotion is a backend-owned discount code. Read-only to this workflow.
type Promotion struct {
	Code          string       `json:"code"`
	DiscountType  DiscountType `json:"discount_type"`
	DiscountValue int64        `json:"discount_value"`
	Description   string       `json:"description"`
	StartsAt      time.Time    `json:"starts_at"`
	EndsAt        time.Time    `json:"ends_at"`
}

// ValidatedPromotion is the result of applying a promotion to a cart total.
// DiscountAmount never exceeds the subtotal it was validated against.
type ValidatedPromotion struct {
	Promotion      Promotion `json:"promotion"`
	DiscountAmount int64     `json:"discount_amount"`
}
