package models

import (
	"time"
)

// PaymentMethod is how a transaction was settled
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "CASH"
	PaymentOnline PaymentMethod = "ONLINE"
)

// PaymentStatus is the settlement state of a transaction
type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "UNPAID"
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
	PaymentFailed  PaymentStatus = "FAILED"
)

// Payable reports whether a payment link may be issued in this state
func (s PaymentStatus) Payable() bool {
	return s == PaymentUnpaid || s == PaymentFailed
}

// Transaction represents the transactions table, one per completed pickup
type Transaction struct {
	ID               uint           `json:"id" gorm:"primarykey"`
	DocumentID       string         `json:"document_id" gorm:"column:document_id;size:64;uniqueIndex"`
	PickupID         uint           `json:"pickup_id" gorm:"column:pickup_id;uniqueIndex;not null"`
	UserID           uint           `json:"user_id" gorm:"column:user_id;index;not null"`
	TPSID            uint           `json:"tps_id" gorm:"column:tps_id;index;not null"`
	TotalWeightKg    float64        `json:"total_weight_kg" gorm:"column:total_weight_kg"`
	Subtotal         int64          `json:"subtotal" gorm:"column:subtotal"`
	ServiceFee       int64          `json:"service_fee" gorm:"column:service_fee"`
	TotalAmount      int64          `json:"total_amount" gorm:"column:total_amount"`
	PaymentMethod    *PaymentMethod `json:"payment_method" gorm:"column:payment_method;size:16"`
	PaymentStatus    PaymentStatus  `json:"payment_status" gorm:"column:payment_status;size:16;index;not null"`
	PaymentURL       *string        `json:"payment_url" gorm:"column:payment_url"`
	PaymentReference *string        `json:"payment_reference" gorm:"column:payment_reference;size:128"`
	PaidAt           *time.Time     `json:"paid_at" gorm:"column:paid_at"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at" gorm:"index"`
}

// TableName sets the insert table name for Transaction
func (Transaction) TableName() string {
	return "transactions"
}
