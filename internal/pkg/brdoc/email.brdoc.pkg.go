package brdoc

import (
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// EmailResult carries the normalized value plus the first structural problem
// found, so the UI can point at what is missing instead of saying just "invalid".
type EmailResult struct {
	Formatted string
	Valid     bool
	Message   string
}

// ValidateEmail trims and lowercases the input, then reports incremental
// structural errors before the full regex check. Empty input is not yet valid but
// not an error either.
func ValidateEmail(raw string) EmailResult {
	email := strings.ToLower(strings.TrimSpace(raw))
	res := EmailResult{Formatted: email}

	if email == "" {
		return res
	}

	at := strings.Index(email, "@")
	switch {
	case at < 0:
		res.Message = "e-mail deve conter @"
		return res
	case at == len(email)-1:
		res.Message = "e-mail sem domínio"
		return res
	}

	domain := email[at+1:]
	dot := strings.LastIndex(domain, ".")
	switch {
	case dot < 0:
		res.Message = "domínio deve conter ponto"
		return res
	case len(domain)-dot-1 < 2:
		res.Message = "extensão do domínio muito curta"
		return res
	}

	if !emailRegex.MatchString(email) {
		res.Message = "e-mail inválido"
		return res
	}

	res.Valid = true
	return res
}
