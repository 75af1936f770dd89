package models

import (
	"time"
)

// PickupStatus is the lifecycle state of a pickup request
type PickupStatus string

const (
	PickupPending   PickupStatus = "PENDING"
	PickupAccepted  PickupStatus = "ACCEPTED"
	PickupOnTheWay  PickupStatus = "ON_THE_WAY"
	PickupPickedUp  PickupStatus = "PICKED_UP"
	PickupCompleted PickupStatus = "COMPLETED"
	PickupCancelled PickupStatus = "CANCELLED"
)

// pickupTransitions lists the allowed next states for each state
var pickupTransitions = map[PickupStatus][]PickupStatus{
	PickupPending:  {PickupAccepted, PickupCancelled},
	PickupAccepted: {PickupOnTheWay, PickupCancelled},
	PickupOnTheWay: {PickupPickedUp, PickupCancelled},
	PickupPickedUp: {PickupCompleted},
}

// Valid reports whether s is a known status
func (s PickupStatus) Valid() bool {
	switch s {
	case PickupPending, PickupAccepted, PickupOnTheWay, PickupPickedUp, PickupCompleted, PickupCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no transition leaves s
func (s PickupStatus) IsTerminal() bool {
	return s == PickupCompleted || s == PickupCancelled
}

// CanTransitionTo reports whether moving from s to next is allowed
func (s PickupStatus) CanTransitionTo(next PickupStatus) bool {
	for _, allowed := range pickupTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTrackable reports whether a driver location may be published in this state
func (s PickupStatus) IsTrackable() bool {
	return s == PickupAccepted || s == PickupOnTheWay
}

// PickupRequest represents the pickup_requests table
type PickupRequest struct {
	ID                uint         `json:"id" gorm:"primarykey"`
	DocumentID        string       `json:"document_id" gorm:"column:document_id;size:64;uniqueIndex"`
	UserID            uint         `json:"user_id" gorm:"column:user_id;index;not null"`
	TPSID             *uint        `json:"tps_id" gorm:"column:tps_id;index"`
	Status            PickupStatus `json:"status" gorm:"column:status;size:16;index;not null"`
	Address           string       `json:"address" gorm:"column:address;not null"`
	Kecamatan         string       `json:"kecamatan" gorm:"column:kecamatan;size:80;index"`
	Kelurahan         string       `json:"kelurahan" gorm:"column:kelurahan;size:80"`
	Latitude          float64      `json:"latitude" gorm:"column:latitude"`
	Longitude         float64      `json:"longitude" gorm:"column:longitude"`
	ScheduledAt       *time.Time   `json:"scheduled_at" gorm:"column:scheduled_at"`
	Notes             string       `json:"notes" gorm:"column:notes"`
	EstimatedWeightKg float64      `json:"estimated_weight_kg" gorm:"column:estimated_weight_kg"`
	DriverLatitude    *float64     `json:"driver_latitude" gorm:"column:driver_latitude"`
	DriverLongitude   *float64     `json:"driver_longitude" gorm:"column:driver_longitude"`
	DriverLocationAt  *time.Time   `json:"driver_location_at" gorm:"column:driver_location_at"`
	CancelReason      *string      `json:"cancel_reason" gorm:"column:cancel_reason"`
	CancelledByID     *uint        `json:"cancelled_by_id" gorm:"column:cancelled_by_id"`
	AcceptedAt        *time.Time   `json:"accepted_at" gorm:"column:accepted_at"`
	OnTheWayAt        *time.Time   `json:"on_the_way_at" gorm:"column:on_the_way_at"`
	PickedUpAt        *time.Time   `json:"picked_up_at" gorm:"column:picked_up_at"`
	CompletedAt       *time.Time   `json:"completed_at" gorm:"column:completed_at"`
	CancelledAt       *time.Time   `json:"cancelled_at" gorm:"column:cancelled_at"`
	CreatedAt         time.Time    `json:"created_at" gorm:"index"`
	UpdatedAt         time.Time    `json:"updated_at" gorm:"index"`

	Items []PickupItem `json:"items,omitempty" gorm:"foreignKey:PickupID"`
}

// TableName sets the insert table name for PickupRequest
func (PickupRequest) TableName() string {
	return "pickup_requests"
}

// IsAssignedTo reports whether the pickup is assigned to the given TPS profile
func (p *PickupRequest) IsAssignedTo(tpsID uint) bool {
	return p.TPSID != nil && *p.TPSID == tpsID
}

// PickupItem represents one waste category line of a pickup
type PickupItem struct {
	ID                uint      `json:"id" gorm:"primarykey"`
	PickupID          uint      `json:"pickup_id" gorm:"column:pickup_id;index;not null"`
	WasteCategoryID   uint      `json:"waste_category_id" gorm:"column:waste_category_id;not null"`
	EstimatedWeightKg float64   `json:"estimated_weight_kg" gorm:"column:estimated_weight_kg"`
	ActualWeightKg    *float64  `json:"actual_weight_kg" gorm:"column:actual_weight_kg"`
	PricePerKg        *int64    `json:"price_per_kg" gorm:"column:price_per_kg"`
	Subtotal          *int64    `json:"subtotal" gorm:"column:subtotal"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`

	WasteCategory *WasteCategory `json:"waste_category,omitempty" gorm:"foreignKey:WasteCategoryID"`
}

// TableName sets the insert table name for PickupItem
func (PickupItem) TableName() string {
	return "pickup_items"
}

// PickupStatusHistory records one status transition of a pickup
type PickupStatusHistory struct {
	ID         uint          `json:"id" gorm:"primarykey"`
	PickupID   uint          `json:"pickup_id" gorm:"column:pickup_id;index;not null"`
	FromStatus *PickupStatus `json:"from_status" gorm:"column:from_status;size:16"`
	ToStatus   PickupStatus  `json:"to_status" gorm:"column:to_status;size:16;not null"`
	ActorID    *uint         `json:"actor_id" gorm:"column:actor_id"`
	Note       string        `json:"note" gorm:"column:note"`
	CreatedAt  time.Time     `json:"created_at"`
}

// TableName sets the insert table name for PickupStatusHistory
func (PickupStatusHistory) TableName() string {
	return "pickup_status_histories"
}
