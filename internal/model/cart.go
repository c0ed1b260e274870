package model

import "time"

// Plan describes a purchasable VPS configuration.
type Plan struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	CPU          int    `json:"cpu"`
	RAMGB        int    `json:"ram_gb"`
	StorageGB    int    `json:"storage_gb"`
	BandwidthTB  int    `json:"bandwidth_tb"`
	MonthlyPrice int64  `json:"monthly_price"`
	SetupFee     int64  `json:"setup_fee"`
}

// CartItem represents a VPS plan selection pending purchase.
// Amounts are VND, so integer arithmetic throughout.
type CartItem struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Plan           Plan      `json:"plan"`
	Hostname       string    `json:"hostname"`
	OS             string    `json:"os"`
	DurationMonths int       `json:"duration_months"`
	TotalPrice     int64     `json:"total_price"`
	CreatedAt      time.Time `json:"created_at"`
}

// CheckoutFormData is the transient customer input collected during checkout.
type CheckoutFormData struct {
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	PaymentMethod string `json:"payment_method"`
}
