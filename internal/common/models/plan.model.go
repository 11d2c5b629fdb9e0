package models

import (
	"time"
)

// Plan is a coaching subscription offer. Prices are stored per billing period as a
// JSONB map of period name to amount in cents.
type Plan struct {
	ID           string    `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name         string    `json:"name" gorm:"type:varchar(255);not null"`
	Description  string    `json:"description" gorm:"type:text"`
	PeriodPrices JSONB     `json:"period_prices" gorm:"type:jsonb;not null"`
	Active       bool      `json:"active" gorm:"not null;default:true"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Plan) TableName() string {
	return "plans"
}
