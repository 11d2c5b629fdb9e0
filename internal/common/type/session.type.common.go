package types

import (
	"github.com/google/uuid"
)

// UserWithAuth is the identity carried in a staff JWT. Tokens are issued by the
// platform's identity service; this API only validates them.
type UserWithAuth struct {
	ID    uuid.UUID `json:"id" validate:"required"`
	Email string    `json:"email" validate:"required,email"`
	Role  string    `json:"role" validate:"omitempty"`
}
