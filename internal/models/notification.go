package models

import (
	"time"
)

// NotificationType classifies a notification for client-side rendering
type NotificationType string

const (
	NotifPickupCreated   NotificationType = "PICKUP_CREATED"
	NotifPickupAccepted  NotificationType = "PICKUP_ACCEPTED"
	NotifPickupOnTheWay  NotificationType = "PICKUP_ON_THE_WAY"
	NotifPickupPickedUp  NotificationType = "PICKUP_PICKED_UP"
	NotifPickupCompleted NotificationType = "PICKUP_COMPLETED"
	NotifPickupCancelled NotificationType = "PICKUP_CANCELLED"
	NotifPaymentReceived NotificationType = "PAYMENT_RECEIVED"
	NotifTPSVerified     NotificationType = "TPS_VERIFIED"
)

// Notification represents the notifications table
type Notification struct {
	ID            uint             `json:"id" gorm:"primarykey"`
	UserID        uint             `json:"user_id" gorm:"column:user_id;index;not null"`
	Type          NotificationType `json:"type" gorm:"column:type;size:32;not null"`
	Title         string           `json:"title" gorm:"column:title;not null"`
	Message       string           `json:"message" gorm:"column:message"`
	PickupID      *uint            `json:"pickup_id" gorm:"column:pickup_id"`
	TransactionID *uint            `json:"transaction_id" gorm:"column:transaction_id"`
	IsRead        bool             `json:"is_read" gorm:"column:is_read;index"`
	ReadAt        *time.Time       `json:"read_at" gorm:"column:read_at"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at" gorm:"index"`
}

// TableName sets the insert table name for Notification
func (Notification) TableName() string {
	return "notifications"
}
