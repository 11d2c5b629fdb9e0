package brdoc

import (
	"strings"
	"unicode"
)

// CPFResult reports how far a CPF input has progressed: Formatted always carries
// the masked value; Valid only flips once the full checksum passes. Partial input
// is neither valid nor an error so typing is never blocked.
type CPFResult struct {
	Formatted string
	Valid     bool
	Message   string
}

// DigitsOnly strips everything that is not a decimal digit.
func DigitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

// FormatCPF applies the 000.000.000-00 mask progressively as digits are typed.
// Idempotent on its own output and never longer than 14 characters.
func FormatCPF(raw string) string {
	digits := DigitsOnly(raw)
	if len(digits) > 11 {
		digits = digits[:11]
	}

	var b strings.Builder
	for i, r := range digits {
		switch i {
		case 3, 6:
			b.WriteByte('.')
		case 9:
			b.WriteByte('-')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ValidateCPF checks the two mod-11 check digits of a Brazilian CPF.
func ValidateCPF(raw string) CPFResult {
	digits := DigitsOnly(raw)
	res := CPFResult{Formatted: FormatCPF(raw)}

	if len(DigitsOnly(raw)) > 11 {
		res.Message = "CPF deve ter 11 dígitos"
		return res
	}
	if len(digits) < 11 {
		// still typing
		return res
	}

	if allSameDigit(digits) {
		res.Message = "CPF inválido"
		return res
	}

	if checkDigit(digits, 9) != int(digits[9]-'0') || checkDigit(digits, 10) != int(digits[10]-'0') {
		res.Message = "CPF inválido"
		return res
	}

	res.Valid = true
	return res
}

// checkDigit computes the mod-11 check digit over the first n digits, weighted
// n+1 down to 2, with the {10,11} -> 0 mapping.
func checkDigit(digits string, n int) int {
	sum := 0
	for i := 0; i < n; i++ {
		sum += int(digits[i]-'0') * (n + 1 - i)
	}
	d := (sum * 10) % 11
	if d >= 10 {
		return 0
	}
	return d
}

func allSameDigit(digits string) bool {
	for i := 1; i < len(digits); i++ {
		if digits[i] != digits[0] {
			return false
		}
	}
	return true
}
