package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"endurance-api/internal/common/enum"
)

// JSONB is a custom type for GORM to handle JSONB columns
type JSONB json.RawMessage

func (j JSONB) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return string(j), nil
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = JSONB("null")
		return nil
	}
	switch v := value.(type) {
	case []byte:
		*j = JSONB(v)
	case string:
		*j = JSONB(v)
	default:
		return errors.New("unsupported type for JSONB")
	}
	return nil
}

func (j JSONB) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("null"), nil
	}
	return []byte(j), nil
}

func (j *JSONB) UnmarshalJSON(data []byte) error {
	if j == nil {
		return errors.New("JSONB: UnmarshalJSON on nil pointer")
	}
	*j = append((*j)[0:0], data...)
	return nil
}

// Transaction is one plan-checkout attempt. PIX and boleto transactions stay
// pending until the gateway callback confirms payment or the expiry worker times
// them out; card transactions settle synchronously.
type Transaction struct {
	ID             string                     `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID        string                     `json:"order_id" gorm:"type:varchar(100);uniqueIndex;not null"`
	UserID         string                     `json:"user_id" gorm:"type:uuid;not null"`
	PlanID         string                     `json:"plan_id" gorm:"type:uuid;not null"`
	CoachID        string                     `json:"coach_id" gorm:"type:varchar(100)"`
	BillPeriod     enum.BillPeriodEnum        `json:"bill_period" gorm:"type:varchar(20);not null"`
	PaymentMethod  enum.PaymentMethodEnum     `json:"payment_method" gorm:"type:varchar(20);not null"`
	Installments   int                        `json:"installments" gorm:"not null;default:0"`
	CouponCode     string                     `json:"coupon_code" gorm:"type:varchar(50)"`
	AmountCents    int64                      `json:"amount_cents" gorm:"not null"`
	DiscountCents  int64                      `json:"discount_cents" gorm:"not null;default:0"`
	PixQRCode      string                     `json:"pix_qr_code" gorm:"type:text"`
	PixCopyPaste   string                     `json:"pix_copy_paste" gorm:"type:text"`
	BoletoURL      string                     `json:"boleto_url" gorm:"type:text"`
	BoletoDueDate  *time.Time                 `json:"boleto_due_date"`
	BoletoSlipKey  string                     `json:"boleto_slip_key" gorm:"type:varchar(255)"`
	GatewayRef     string                     `json:"gateway_ref" gorm:"type:varchar(255)"`
	Metadata       JSONB                      `json:"metadata" gorm:"type:jsonb"`
	Status         enum.TransactionStatusEnum `json:"status" gorm:"type:varchar(50);not null;default:'pending';index"`
	FailureMessage string                     `json:"failure_message" gorm:"type:text"`
	ExpiresAt      *time.Time                 `json:"expires_at"`
	CreatedAt      time.Time                  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time                  `json:"updated_at" gorm:"autoUpdateTime"`
	PaidAt         *time.Time                 `json:"paid_at"`
}

func (Transaction) TableName() string {
	return "transactions"
}
