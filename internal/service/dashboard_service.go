package service

import (
	"golang.org/x/sync/errgroup"

	"goclean-be-svc/internal/models/response"
	"goclean-be-svc/internal/repository"
	"goclean-be-svc/pkg/logger"
)

// topKecamatanLimit bounds the per-kecamatan breakdown of the admin dashboard
const topKecamatanLimit = 10

// DashboardService interface defines dashboard service methods
type DashboardService interface {
	GetDashboard(actor Actor) (interface{}, error)
	GetAdminDashboard() (*response.AdminDashboardResponse, error)
	GetTPSDashboard(tpsID uint) (*response.TPSDashboardResponse, error)
	GetUserDashboard(userID uint) (*response.UserDashboardResponse, error)
}

// dashboardService implements DashboardService interface
type dashboardService struct {
	dashboardRepo repository.DashboardRepository
	logger        *logger.Logger
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(dashboardRepo repository.DashboardRepository, logger *logger.Logger) DashboardService {
	return &dashboardService{
		dashboardRepo: dashboardRepo,
		logger:        logger,
	}
}

// GetDashboard returns the dashboard matching the caller's role
func (s *dashboardService) GetDashboard(actor Actor) (interface{}, error) {
	switch {
	case actor.IsAdmin():
		return s.GetAdminDashboard()
	case actor.IsTPS():
		return s.GetTPSDashboard(actor.TPSID)
	case actor.IsUser():
		return s.GetUserDashboard(actor.UserID)
	}
	return nil, ErrForbidden
}

// GetAdminDashboard runs the platform-wide aggregates concurrently
func (s *dashboardService) GetAdminDashboard() (*response.AdminDashboardResponse, error) {
	result := &response.AdminDashboardResponse{}
	var g errgroup.Group

	g.Go(func() error {
		var err error
		result.UsersByRole, err = s.dashboardRepo.CountUsersByRole()
		return err
	})
	g.Go(func() error {
		var err error
		result.VerifiedTPS, result.UnverifiedTPS, err = s.dashboardRepo.CountTPSByVerification()
		return err
	})
	g.Go(func() error {
		var err error
		result.PickupsByStatus, err = s.dashboardRepo.CountPickupsByStatus(repository.DashboardScope{})
		return err
	})
	g.Go(func() error {
		var err error
		result.PickupsKecamatan, err = s.dashboardRepo.CountPickupsByKecamatan(topKecamatanLimit)
		return err
	})
	g.Go(func() error {
		var err error
		result.CompletedWeightKg, err = s.dashboardRepo.SumCompletedWeight(repository.DashboardScope{})
		return err
	})
	g.Go(func() error {
		var err error
		result.Revenue, err = s.dashboardRepo.SumPaidAmount(repository.DashboardScope{})
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.WithError(err).Error("Failed to get admin dashboard")
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"verified_tps": result.VerifiedTPS,
		"revenue":      result.Revenue,
	}).Info("Admin dashboard retrieved successfully")

	return result, nil
}

// GetTPSDashboard aggregates the pickups and revenue of one TPS
func (s *dashboardService) GetTPSDashboard(tpsID uint) (*response.TPSDashboardResponse, error) {
	scope := repository.DashboardScope{TPSID: &tpsID}
	result := &response.TPSDashboardResponse{}
	var g errgroup.Group

	g.Go(func() error {
		var err error
		result.PickupsByStatus, err = s.dashboardRepo.CountPickupsByStatus(scope)
		return err
	})
	g.Go(func() error {
		var err error
		result.CompletedWeightKg, err = s.dashboardRepo.SumCompletedWeight(scope)
		return err
	})
	g.Go(func() error {
		var err error
		result.Revenue, err = s.dashboardRepo.SumPaidAmount(scope)
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.WithError(err).WithField("tps_id", tpsID).Error("Failed to get TPS dashboard")
		return nil, err
	}
	return result, nil
}

// GetUserDashboard aggregates the pickups and payments of one household
func (s *dashboardService) GetUserDashboard(userID uint) (*response.UserDashboardResponse, error) {
	scope := repository.DashboardScope{UserID: &userID}
	result := &response.UserDashboardResponse{}
	var g errgroup.Group

	g.Go(func() error {
		var err error
		result.PickupsByStatus, err = s.dashboardRepo.CountPickupsByStatus(scope)
		return err
	})
	g.Go(func() error {
		var err error
		result.RecycledWeightKg, err = s.dashboardRepo.SumCompletedWeight(scope)
		return err
	})
	g.Go(func() error {
		var err error
		result.TotalPaid, err = s.dashboardRepo.SumPaidAmount(scope)
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("Failed to get user dashboard")
		return nil, err
	}
	return result, nil
}
