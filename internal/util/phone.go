package util

import "strings"

const minLocalDigits = 10

// NormalizePhone keeps the digits of phone and strips a leading country code
// when at least minLocalDigits remain afterwards.
func NormalizePhone(phone, countryCode string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	normalized := digits.String()
	if countryCode != "" && strings.HasPrefix(normalized, countryCode) && len(normalized)-len(countryCode) >= minLocalDigits {
		normalized = normalized[len(countryCode):]
	}
	return normalized
}

// PhoneVariants lists the ways a normalized number may be stored in the directory.
func PhoneVariants(normalized, countryCode string) []string {
	if normalized == "" {
		return nil
	}
	if countryCode == "" {
		return []string{normalized, "+" + normalized}
	}
	return []string{normalized, countryCode + normalized, "+" + countryCode + normalized}
}
