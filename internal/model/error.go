package model

import "errors"

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON        = "INVALID_JSON"
	ErrCodeNoAccessToken      = "NO_ACCESS_TOKEN"
	ErrCodeNetworkError       = "NETWORK_ERROR"
	ErrCodeCartEmpty          = "CART_EMPTY"
	ErrCodeInvalidPhone       = "INVALID_PHONE"
	ErrCodeInvalidAddress     = "INVALID_ADDRESS"
	ErrCodeInvalidPromoCode   = "INVALID_PROMO_CODE"
	ErrCodeInvalidProvider    = "INVALID_PAYMENT_PROVIDER"
	ErrCodeIllegalTransition  = "ILLEGAL_CHECKOUT_TRANSITION"
	ErrCodeSessionNotFound    = "CHECKOUT_SESSION_NOT_FOUND"
	ErrCodeCheckoutProceed    = "CHECKOUT_PROCEED_FAILED"
	ErrCodeMomoPayment        = "MOMO_PAYMENT_ERROR"
	ErrCodeVnpayPayment       = "VNPAY_PAYMENT_ERROR"
	ErrCodePaymentVerify      = "PAYMENT_VERIFY_FAILED"
	ErrCodePaymentStatus      = "PAYMENT_STATUS_FAILED"
	ErrCodeVPSSetup           = "VPS_SETUP_FAILED"
	ErrCodeNotificationFailed = "NOTIFICATION_SEND_FAILED"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

// ErrAborted marks a request cancelled by the caller. It is not a failure:
// callers discard the result and surface nothing to the user.
var ErrAborted = errors.New("request aborted by caller")

// DomainError carries a stable error code alongside a human-readable message
// so error classification never depends on string matching.
type DomainError struct {
	Code    string
	Message string
	Detail  string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetail returns a copy of the error carrying backend-provided detail.
func (e *DomainError) WithDetail(detail string) *DomainError {
	return &DomainError{Code: e.Code, Message: e.Message, Detail: detail}
}

// Common domain errors
var (
	ErrNoAccessToken     = NewDomainError(ErrCodeNoAccessToken, "Missing or expired session token")
	ErrCartEmpty         = NewDomainError(ErrCodeCartEmpty, "Cart is empty, nothing to check out")
	ErrInvalidPhone      = NewDomainError(ErrCodeInvalidPhone, "Phone number must contain at least 10 digits")
	ErrInvalidAddress    = NewDomainError(ErrCodeInvalidAddress, "Address must not be empty")
	ErrInvalidProvider   = NewDomainError(ErrCodeInvalidProvider, "Payment provider must be momo or vnpay")
	ErrIllegalTransition = NewDomainError(ErrCodeIllegalTransition, "Illegal checkout step transition")
	ErrSessionNotFound   = NewDomainError(ErrCodeSessionNotFound, "Checkout session not found")
)

// AsDomainError extracts a DomainError from an error chain, or wraps the error
// under the given fallback code.
func AsDomainError(err error, fallbackCode string) *DomainError {
	var de *DomainError
	if errors.As(err, &de) {
		return de
	}
	return &DomainError{Code: fallbackCode, Message: err.Error()}
}
