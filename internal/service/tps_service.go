package service

import (
	"fmt"
	"sort"

	"goclean-be-svc/internal/models"
	"goclean-be-svc/internal/models/response"
	"goclean-be-svc/internal/repository"
	"goclean-be-svc/pkg/logger"
	"goclean-be-svc/pkg/utils"
)

const (
	DefaultNearbyRadiusKm = 5.0
	MaxNearbyRadiusKm     = 50.0
)

// UpdateTPSProfileRequest is a partial TPS profile update; nil fields stay unchanged
type UpdateTPSProfileRequest struct {
	Name           *string  `json:"name" binding:"omitempty,min=1,max=120" example:"TPS Manggarai"`
	Address        *string  `json:"address" example:"Jl. Sahardjo No. 10"`
	Kecamatan      *string  `json:"kecamatan" example:"Tebet"`
	Kelurahan      *string  `json:"kelurahan" example:"Manggarai"`
	Latitude       *float64 `json:"latitude" binding:"omitempty,latitude" example:"-6.2115"`
	Longitude      *float64 `json:"longitude" binding:"omitempty,longitude" example:"106.8452"`
	OperatingHours *string  `json:"operating_hours" example:"07:00-16:00"`
	CapacityKg     *float64 `json:"capacity_kg" binding:"omitempty,gte=0" example:"500"`
}

// TPSService defines the interface for TPS directory and self-service operations
type TPSService interface {
	List(filter repository.TPSFilter) ([]*models.TPSProfile, error)
	Nearby(lat, lng, radiusKm float64) ([]*response.NearbyTPSResponse, error)
	Regions() ([]*response.RegionResponse, error)
	UpdateProfile(actor Actor, req *UpdateTPSProfileRequest) (*models.TPSProfile, error)
	SetOpen(actor Actor, open bool) (*models.TPSProfile, error)
}

// tpsService implements TPSService
type tpsService struct {
	tpsRepo repository.TPSRepository
	logger  *logger.Logger
}

// NewTPSService creates a new instance of TPSService
func NewTPSService(tpsRepo repository.TPSRepository, logger *logger.Logger) TPSService {
	return &tpsService{
		tpsRepo: tpsRepo,
		logger:  logger,
	}
}

func (s *tpsService) List(filter repository.TPSFilter) ([]*models.TPSProfile, error) {
	list, err := s.tpsRepo.List(filter)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list TPS")
		return nil, err
	}
	return list, nil
}

// Nearby returns verified, open TPS within radiusKm of the point, closest first
func (s *tpsService) Nearby(lat, lng, radiusKm float64) ([]*response.NearbyTPSResponse, error) {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, fmt.Errorf("%w: coordinates out of range", ErrInvalidInput)
	}
	if radiusKm <= 0 {
		radiusKm = DefaultNearbyRadiusKm
	}
	if radiusKm > MaxNearbyRadiusKm {
		radiusKm = MaxNearbyRadiusKm
	}

	list, err := s.tpsRepo.List(repository.TPSFilter{VerifiedOnly: true, OpenOnly: true})
	if err != nil {
		s.logger.WithError(err).Error("Failed to list TPS for nearby search")
		return nil, err
	}

	result := make([]*response.NearbyTPSResponse, 0, len(list))
	for _, tps := range list {
		d := utils.HaversineKm(lat, lng, tps.Latitude, tps.Longitude)
		if d > radiusKm {
			continue
		}
		result = append(result, &response.NearbyTPSResponse{
			TPSProfile: *tps,
			DistanceKm: utils.RoundTo(d, 2),
		})
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].DistanceKm < result[j].DistanceKm
	})

	return result, nil
}

// Regions groups the known kelurahan under their kecamatan
func (s *tpsService) Regions() ([]*response.RegionResponse, error) {
	rows, err := s.tpsRepo.ListRegions()
	if err != nil {
		s.logger.WithError(err).Error("Failed to list regions")
		return nil, err
	}

	var result []*response.RegionResponse
	index := map[string]*response.RegionResponse{}
	for _, row := range rows {
		region, ok := index[row.Kecamatan]
		if !ok {
			region = &response.RegionResponse{Kecamatan: row.Kecamatan, Kelurahan: []string{}}
			index[row.Kecamatan] = region
			result = append(result, region)
		}
		if row.Kelurahan != "" {
			region.Kelurahan = append(region.Kelurahan, row.Kelurahan)
		}
	}
	return result, nil
}

func (s *tpsService) ownProfile(actor Actor) (*models.TPSProfile, error) {
	if actor.Role != models.RoleTPS {
		return nil, ErrForbidden
	}
	tps, err := s.tpsRepo.GetByUserID(actor.UserID)
	if err != nil {
		return nil, translateRepoError(err)
	}
	return tps, nil
}

// UpdateProfile applies the non-nil fields of req to the caller's TPS profile
func (s *tpsService) UpdateProfile(actor Actor, req *UpdateTPSProfileRequest) (*models.TPSProfile, error) {
	tps, err := s.ownProfile(actor)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Address != nil {
		fields["address"] = *req.Address
	}
	if req.Kecamatan != nil {
		fields["kecamatan"] = *req.Kecamatan
	}
	if req.Kelurahan != nil {
		fields["kelurahan"] = *req.Kelurahan
	}
	if req.Latitude != nil {
		fields["latitude"] = *req.Latitude
	}
	if req.Longitude != nil {
		fields["longitude"] = *req.Longitude
	}
	if req.OperatingHours != nil {
		fields["operating_hours"] = *req.OperatingHours
	}
	if req.CapacityKg != nil {
		fields["capacity_kg"] = *req.CapacityKg
	}
	if len(fields) == 0 {
		return tps, nil
	}

	if err := s.tpsRepo.Update(tps.ID, fields); err != nil {
		s.logger.WithError(err).WithField("tps_id", tps.ID).Error("Failed to update TPS profile")
		return nil, translateRepoError(err)
	}

	s.logger.WithField("tps_id", tps.ID).Info("TPS profile updated")

	updated, err := s.tpsRepo.GetByID(tps.ID)
	return updated, translateRepoError(err)
}

// SetOpen toggles whether the caller's TPS accepts new pickups
func (s *tpsService) SetOpen(actor Actor, open bool) (*models.TPSProfile, error) {
	tps, err := s.ownProfile(actor)
	if err != nil {
		return nil, err
	}

	if err := s.tpsRepo.Update(tps.ID, map[string]interface{}{"is_open": open}); err != nil {
		return nil, translateRepoError(err)
	}
	tps.IsOpen = open

	s.logger.WithFields(map[string]interface{}{
		"tps_id":  tps.ID,
		"is_open": open,
	}).Info("TPS open status updated")

	return tps, nil
}
