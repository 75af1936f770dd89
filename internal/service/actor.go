package service

import "goclean-be-svc/internal/models"

// Actor identifies the authenticated caller of a service operation
type Actor struct {
	UserID uint
	Role   models.Role
	// TPSID is the caller's TPS profile ID, zero unless Role is TPS
	TPSID uint
}

// SystemActor is used for operations started by the scheduler or the CLI
var SystemActor = Actor{Role: models.RoleAdmin}

func (a Actor) IsAdmin() bool { return a.Role == models.RoleAdmin }

func (a Actor) IsTPS() bool { return a.Role == models.RoleTPS && a.TPSID != 0 }

func (a Actor) IsUser() bool { return a.Role == models.RoleUser }

// IsSystem reports whether the actor is the scheduler or the CLI rather than a logged-in user
func (a Actor) IsSystem() bool { return a.UserID == 0 && a.Role == models.RoleAdmin }

// userIDPtr returns nil for the system actor so history rows record no actor
func (a Actor) userIDPtr() *uint {
	if a.UserID == 0 {
		return nil
	}
	id := a.UserID
	return &id
}
