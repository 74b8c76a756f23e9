package delivery

import "strings"

// PhoneLength is the length of a local Algerian phone number
const PhoneLength = 10

// TrunkPrefix is prepended to numbers missing their leading zero
const TrunkPrefix = "0"

// NormalizePhone reduces a phone number to the 10-digit local format.
// Non-digits are stripped. A 9-digit number gets the trunk prefix. A longer
// number (country code included) keeps its last 10 digits.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	switch {
	case len(digits) == PhoneLength-1:
		return TrunkPrefix + digits
	case len(digits) > PhoneLength:
		return digits[len(digits)-PhoneLength:]
	default:
		return digits
	}
}
