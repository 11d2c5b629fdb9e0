package enum

import (
	"github.com/go-playground/validator/v10"
)

// Enum is implemented by every string enum in this package so the shared `enum`
// validation tag can check them.
type Enum interface {
	IsValid() bool
}

func ValidateEnum(fl validator.FieldLevel) bool {
	if fl.Field().Kind() == 0 {
		return false
	}

	value, ok := fl.Field().Interface().(Enum)
	if !ok {
		return false
	}

	return value.IsValid()
}
