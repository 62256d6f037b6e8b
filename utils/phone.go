package utils

import (
	"errors"
	"strings"

	"github.com/ttacon/libphonenumber"
)

// Customer phones arrive in whatever format the storefront form allowed.
// Everything downstream (customer dedup, Viber receiver ids) wants E.164.
const defaultPhoneRegion = "UA"

func NormalizePhone(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("phone is empty")
	}
	num, err := libphonenumber.Parse(raw, defaultPhoneRegion)
	if err != nil {
		return "", err
	}
	if !libphonenumber.IsValidNumber(num) {
		return "", errors.New("phone is not a valid number")
	}
	return libphonenumber.Format(num, libphonenumber.E164), nil
}

// ViberReceiver converts a phone into the digits-only receiver id the Viber
// chat API expects.
func ViberReceiver(phone string) string {
	normalized, err := NormalizePhone(phone)
	if err != nil {
		normalized = phone
	}
	var b strings.Builder
	for _, r := range normalized {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
