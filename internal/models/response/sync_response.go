package response

import (
	"time"

	"goclean-be-svc/internal/models"
)

// SyncResponse carries everything that changed for the caller since a point in time.
// ServerTime is the value to send as `since` on the next poll. When HasMore is set a
// collection was cut off and ServerTime points at the cut, so rows around it may repeat.
type SyncResponse struct {
	ServerTime    time.Time               `json:"server_time"`
	HasMore       bool                    `json:"has_more"`
	Pickups       []*models.PickupRequest `json:"pickups"`
	Transactions  []*models.Transaction   `json:"transactions"`
	Notifications []*models.Notification  `json:"notifications"`
}
