package payment

import "vps-checkout/internal/model"

// Provider identifies an external payment gateway.
type Provider string

const (
	ProviderMomo  Provider = "momo"
	ProviderVnpay Provider = "vnpay"
)

// ParseProvider validates a provider selector supplied by the client.
func ParseProvider(s string) (Provider, error) {
	switch Provider(s) {
	case ProviderMomo, ProviderVnpay:
		return Provider(s), nil
	default:
		return "", model.ErrInvalidProvider
	}
}

// ReturnPath is the provider-specific callback path the gateway redirects to,
// relative to this service's public origin.
func (p Provider) ReturnPath() string {
	return "/checkout/" + string(p) + "-return"
}

// ErrorCode is the provider's action-specific error code.
func (p Provider) ErrorCode() string {
	if p == ProviderMomo {
		return model.ErrCodeMomoPayment
	}
	return model.ErrCodeVnpayPayment
}

func (p Provider) String() string {
	return string(p)
}
