package models

import (
	"time"
)

// Coupon grants a percentage discount on checkout. Validation checks active flag
// and expiry; redemption counting is handled at checkout time.
type Coupon struct {
	ID          string     `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Code        string     `json:"code" gorm:"type:varchar(50);uniqueIndex;not null"`
	Description string     `json:"description" gorm:"type:varchar(255)"`
	Percentage  int        `json:"percentage" gorm:"not null"`
	Active      bool       `json:"active" gorm:"not null;default:true;index"`
	MaxUses     int        `json:"max_uses" gorm:"not null;default:0"`
	UsedCount   int        `json:"used_count" gorm:"not null;default:0"`
	ExpiresAt   *time.Time `json:"expires_at"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Coupon) TableName() string {
	return "coupons"
}
