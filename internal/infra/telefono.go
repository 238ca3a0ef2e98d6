package infra

import (
	"fmt"
	"strings"

	"github.com/ttacon/libphonenumber"
)

// PhoneValidator validates and normalises phone numbers to E.164.
type PhoneValidator struct {
	region string
}

func NewPhoneValidator(region string) *PhoneValidator {
	if region == "" {
		region = "MX"
	}
	return &PhoneValidator{region: strings.ToUpper(region)}
}

// Normalizar returns the E.164 form of phone. Empty input stays empty.
func (v *PhoneValidator) Normalizar(phone string) (string, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return "", nil
	}
	p, err := libphonenumber.Parse(phone, v.region)
	if err != nil {
		return "", fmt.Errorf("telefono invalido %q: %w", phone, err)
	}
	if !libphonenumber.IsValidNumber(p) {
		return "", fmt.Errorf("telefono invalido %q", phone)
	}
	return libphonenumber.Format(p, libphonenumber.E164), nil
}
