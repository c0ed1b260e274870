package model

import "time"

// Order is the backend-owned record created once checkout proceeds. This
// workflow only reads the fields needed for payment linkage and the
// confirmation breakdown.
type Order struct {
	OrderNumber string      `json:"order_number"`
	Price       int64       `json:"price"`
	Items       []OrderItem `json:"items"`
	Email       string      `json:"email"`
	Phone       string      `json:"phone"`
	Address     string      `json:"address"`
	CreatedAt   time.Time   `json:"created_at"`
}

// OrderItem is a purchased line item snapshot inside an order.
type OrderItem struct {
	PlanName       string `json:"plan_name"`
	Hostname       string `json:"hostname"`
	OS             string `json:"os"`
	DurationMonths int    `json:"duration_months"`
	TotalPrice     int64  `json:"total_price"`
}

// PriceBreakdown is the display-only figure set shown alongside an order or a
// checkout session. SetupFee is informational and not part of Total.
type PriceBreakdown struct {
	Subtotal int64 `json:"subtotal"`
	Discount int64 `json:"discount"`
	SetupFee int64 `json:"setup_fee"`
	Total    int64 `json:"total"`
}
