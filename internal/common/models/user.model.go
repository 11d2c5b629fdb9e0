package models

import (
	"time"
)

// User is an account created by the registration wizard. CPF and CEP are stored
// as digits only; masks are a presentation concern.
type User struct {
	ID           string    `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name         string    `json:"name" gorm:"type:varchar(255);not null"`
	Email        string    `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"type:varchar(255);not null"`
	CPF          string    `json:"cpf" gorm:"type:varchar(11);not null"`
	Phone        string    `json:"phone" gorm:"type:varchar(20)"`
	BirthDate    string    `json:"birth_date" gorm:"type:varchar(10)"`
	Gender       string    `json:"gender" gorm:"type:varchar(20)"`
	CoachID      string    `json:"coach_id" gorm:"type:varchar(100)"`
	Street       string    `json:"street" gorm:"type:varchar(255)"`
	Number       string    `json:"number" gorm:"type:varchar(20)"`
	Complement   string    `json:"complement" gorm:"type:varchar(100)"`
	Neighborhood string    `json:"neighborhood" gorm:"type:varchar(100)"`
	City         string    `json:"city" gorm:"type:varchar(100)"`
	State        string    `json:"state" gorm:"type:varchar(2)"`
	PostalCode   string    `json:"postal_code" gorm:"type:varchar(8)"`
	Latitude     *float64  `json:"latitude"`
	Longitude    *float64  `json:"longitude"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
