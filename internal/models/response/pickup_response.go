package response

import (
	"time"

	"goclean-be-svc/internal/models"
)

// Location sources
const (
	LocationSourceCache    = "cache"
	LocationSourceDatabase = "database"
)

// LocationResponse is the latest known driver position for a pickup
type LocationResponse struct {
	PickupID   uint      `json:"pickup_id" example:"12"`
	Latitude   float64   `json:"latitude" example:"-6.2261"`
	Longitude  float64   `json:"longitude" example:"106.8503"`
	UpdatedAt  time.Time `json:"updated_at"`
	DistanceKm float64   `json:"distance_km" example:"0.85"`
	Source     string    `json:"source" example:"cache"`
}

// CompletePickupResponse is the completed pickup with the transaction it produced
type CompletePickupResponse struct {
	Pickup      *models.PickupRequest `json:"pickup"`
	Transaction *models.Transaction   `json:"transaction"`
}
