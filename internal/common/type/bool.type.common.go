package types

import (
	"github.com/go-playground/validator/v10"
)

// ValidateStringToBool accepts the string forms checkboxes and query params send
// instead of real booleans.
func ValidateStringToBool(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "true", "false", "1", "0":
		return true
	}
	return false
}
