package brdoc

import (
	"regexp"
	"strings"
)

var cepRegex = regexp.MustCompile(`^\d{5}-?\d{3}$`)

// FormatPhone applies the (00) 00000-0000 mobile mask progressively. No checksum
// exists for phone numbers; this is presentation only.
func FormatPhone(raw string) string {
	digits := DigitsOnly(raw)
	if len(digits) > 11 {
		digits = digits[:11]
	}

	var b strings.Builder
	for i, r := range digits {
		switch i {
		case 0:
			b.WriteByte('(')
		case 2:
			b.WriteString(") ")
		case 7:
			b.WriteByte('-')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FormatCEP applies the 00000-000 postal code mask progressively.
func FormatCEP(raw string) string {
	digits := DigitsOnly(raw)
	if len(digits) > 8 {
		digits = digits[:8]
	}

	if len(digits) <= 5 {
		return digits
	}
	return digits[:5] + "-" + digits[5:]
}

// ValidCEP reports whether the input is a complete postal code, masked or not.
func ValidCEP(raw string) bool {
	return cepRegex.MatchString(strings.TrimSpace(raw))
}
