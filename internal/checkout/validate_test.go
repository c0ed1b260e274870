package checkout

import (
	"testing"

	"vps-checkout/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestValidateContact(t *testing.T) {
	tests := []struct {
		name    string
		phone   string
		address string
		wantErr error
	}{
		{
			name:    "valid input",
			phone:   "0912345678",
			address: "12 Nguyen Hue, District 1, HCMC",
			wantErr: nil,
		},
		{
			name:    "exactly 10 digits is valid",
			phone:   "0123456789",
			address: "somewhere",
			wantErr: nil,
		},
		{
			name:    "9 digits is rejected",
			phone:   "012345678",
			address: "somewhere",
			wantErr: model.ErrInvalidPhone,
		},
		{
			name:    "digits counted across separators",
			phone:   "091 234 5678",
			address: "somewhere",
			wantErr: nil,
		},
		{
			name:    "empty phone",
			phone:   "",
			address: "somewhere",
			wantErr: model.ErrInvalidPhone,
		},
		{
			name:    "letters do not count as digits",
			phone:   "abcdefghij",
			address: "somewhere",
			wantErr: model.ErrInvalidPhone,
		},
		{
			name:    "empty address",
			phone:   "0912345678",
			address: "",
			wantErr: model.ErrInvalidAddress,
		},
		{
			name:    "whitespace-only address",
			phone:   "0912345678",
			address: "   ",
			wantErr: model.ErrInvalidAddress,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateContact(tt.phone, tt.address)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
