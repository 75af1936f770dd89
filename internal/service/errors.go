package service

import (
	"errors"

	"gorm.io/gorm"

	"goclean-be-svc/internal/repository"
)

// Sentinel errors returned by services. Handlers map them to HTTP status codes.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrForbidden          = errors.New("access forbidden")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrConflict           = errors.New("resource was modified concurrently")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
)

// translateRepoError maps storage errors onto service sentinels, leaving others untouched
func translateRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrStaleStatus), errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrConflict
	}
	return err
}
