package models

import (
	"time"
)

// PaymentConfig represents the payment_configs table. The newest active row applies.
type PaymentConfig struct {
	ID         uint      `json:"id" gorm:"primarykey"`
	ServiceFee int64     `json:"service_fee" gorm:"column:service_fee"`
	IsActive   bool      `json:"is_active" gorm:"column:is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName sets the insert table name for PaymentConfig
func (PaymentConfig) TableName() string {
	return "payment_configs"
}
