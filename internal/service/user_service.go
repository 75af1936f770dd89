package service

import (
	"fmt"

	"goclean-be-svc/internal/models"
	"goclean-be-svc/internal/repository"
	"goclean-be-svc/pkg/logger"
)

// UserService interface defines admin user management methods
type UserService interface {
	ListUsers(role *models.Role, search string, page, perPage int) ([]*models.User, int64, error)
	SetUserActive(actor Actor, id uint, active bool) (*models.User, error)
	VerifyTPS(tpsID uint, verified bool) (*models.TPSProfile, error)
}

// userService implements UserService interface
type userService struct {
	userRepo      repository.UserRepository
	tpsRepo       repository.TPSRepository
	notifications NotificationService
	logger        *logger.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository, tpsRepo repository.TPSRepository, notifications NotificationService, logger *logger.Logger) UserService {
	return &userService{
		userRepo:      userRepo,
		tpsRepo:       tpsRepo,
		notifications: notifications,
		logger:        logger,
	}
}

// ListUsers lists accounts with an optional role filter and name/email search
func (s *userService) ListUsers(role *models.Role, search string, page, perPage int) ([]*models.User, int64, error) {
	if role != nil && !role.Valid() {
		return nil, 0, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, *role)
	}

	users, total, err := s.userRepo.List(repository.UserFilter{Role: role, Search: search}, page, perPage)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list users")
		return nil, 0, err
	}

	s.logger.WithFields(map[string]interface{}{
		"count": len(users),
		"total": total,
	}).Info("Users retrieved successfully")

	return users, total, nil
}

// SetUserActive enables or disables an account. Admins cannot disable themselves.
func (s *userService) SetUserActive(actor Actor, id uint, active bool) (*models.User, error) {
	if id == actor.UserID && !active {
		return nil, fmt.Errorf("%w: cannot deactivate your own account", ErrInvalidInput)
	}

	if err := s.userRepo.Update(id, map[string]interface{}{"is_active": active}); err != nil {
		s.logger.WithError(err).WithField("user_id", id).Error("Failed to update user status")
		return nil, translateRepoError(err)
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id":   id,
		"is_active": active,
		"admin_id":  actor.UserID,
	}).Info("User status updated")

	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, translateRepoError(err)
	}
	return user, nil
}

// VerifyTPS sets the verification flag of a TPS. The owner is notified when it becomes verified.
func (s *userService) VerifyTPS(tpsID uint, verified bool) (*models.TPSProfile, error) {
	tps, err := s.tpsRepo.GetByID(tpsID)
	if err != nil {
		return nil, translateRepoError(err)
	}

	wasVerified := tps.IsVerified
	if err := s.tpsRepo.Update(tpsID, map[string]interface{}{"is_verified": verified}); err != nil {
		s.logger.WithError(err).WithField("tps_id", tpsID).Error("Failed to update TPS verification")
		return nil, translateRepoError(err)
	}
	tps.IsVerified = verified

	if verified && !wasVerified {
		s.notifications.NotifyTPSVerified(tps)
	}

	s.logger.WithFields(map[string]interface{}{
		"tps_id":      tpsID,
		"is_verified": verified,
	}).Info("TPS verification updated")

	return tps, nil
}
