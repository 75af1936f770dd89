package models

import "time"

// PickupAttachment describes a photo stored on disk for a pickup. It is not persisted.
type PickupAttachment struct {
	PickupID  uint      `json:"pickup_id"`
	Name      string    `json:"name"`
	FileName  string    `json:"file_name"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}
