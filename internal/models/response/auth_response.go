package response

import (
	"time"

	"goclean-be-svc/internal/models"
)

// LoginResponse is returned by a successful login
type LoginResponse struct {
	Token     string       `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}
