package model

import "time"

// PaymentStatus is the polled/verified state of a payment.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// IsTerminal reports whether the status can no longer change.
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentCompleted || s == PaymentFailed
}

func (s PaymentStatus) String() string {
	return string(s)
}

// Payment is a backend payment record linked to an order.
type Payment struct {
	ID            string        `json:"id"`
	OrderNumber   string        `json:"order_number"`
	Amount        int64         `json:"amount"`
	Status        PaymentStatus `json:"status"`
	Method        string        `json:"method"`
	TransactionID string        `json:"transaction_id"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// PaymentResponse is the result of initiating a payment with a provider.
// It is used once for the redirect and never stored.
type PaymentResponse struct {
	Success       bool   `json:"success"`
	PaymentURL    string `json:"payment_url,omitempty"`
	Deeplink      string `json:"deeplink,omitempty"`
	QRCodeURL     string `json:"qr_code_url,omitempty"`
	TransactionID string `json:"transaction_id,omitempty"`
	PaymentID     string `json:"payment_id,omitempty"`
	Message       string `json:"message,omitempty"`
}

// PaymentVerification is the backend's verdict on a gateway return callback.
type PaymentVerification struct {
	Success       bool    `json:"success"`
	Order         *Order  `json:"order,omitempty"`
	Payment       Payment `json:"payment"`
	TransactionID string  `json:"transaction_id"`
}
