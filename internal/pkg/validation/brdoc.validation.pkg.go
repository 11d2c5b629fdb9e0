package validation

import (
	"strings"

	"endurance-api/internal/pkg/brdoc"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

var ufCodes = []string{
	"AC", "AL", "AP", "AM", "BA", "CE", "DF", "ES", "GO", "MA", "MT", "MS", "MG",
	"PA", "PB", "PR", "PE", "PI", "RJ", "RN", "RS", "RO", "RR", "SC", "SP", "SE", "TO",
}

// validateCPF accepts masked or bare CPF values and requires the full checksum.
func validateCPF(fl validator.FieldLevel) bool {
	return brdoc.ValidateCPF(fl.Field().String()).Valid
}

func validateCEP(fl validator.FieldLevel) bool {
	return brdoc.ValidCEP(fl.Field().String())
}

func validateBRState(fl validator.FieldLevel) bool {
	return lo.Contains(ufCodes, strings.ToUpper(fl.Field().String()))
}
