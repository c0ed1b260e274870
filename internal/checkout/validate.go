package checkout

import (
	"strings"
	"unicode"

	"vps-checkout/internal/model"
)

const minPhoneDigits = 10

// ValidateContact guards the info → payment transition. Violations report a
// field-level domain error and make no backend call.
func ValidateContact(phone, address string) error {
	if digitCount(phone) < minPhoneDigits {
		return model.ErrInvalidPhone
	}
	if strings.TrimSpace(address) == "" {
		return model.ErrInvalidAddress
	}
	return nil
}

// digitCount counts decimal digits, ignoring separators like spaces or dots.
func digitCount(s string) int {
	count := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			count++
		}
	}
	return count
}
