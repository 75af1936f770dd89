package repository

import (
	"gorm.io/gorm"

	"goclean-be-svc/internal/models"
)

// TPSFilter narrows a TPS listing
type TPSFilter struct {
	Kecamatan    string
	Kelurahan    string
	VerifiedOnly bool
	OpenOnly     bool
}

// RegionRow is one distinct kecamatan/kelurahan pair
type RegionRow struct {
	Kecamatan string `gorm:"column:kecamatan"`
	Kelurahan string `gorm:"column:kelurahan"`
}

// TPSRepository defines the interface for TPS profile data operations
type TPSRepository interface {
	GetByID(id uint) (*models.TPSProfile, error)
	GetByUserID(userID uint) (*models.TPSProfile, error)
	Update(id uint, fields map[string]interface{}) error
	List(filter TPSFilter) ([]*models.TPSProfile, error)
	ListAvailable(kecamatan string) ([]*models.TPSProfile, error)
	ListRegions() ([]RegionRow, error)
}

// tpsRepository implements TPSRepository
type tpsRepository struct {
	db *gorm.DB
}

// NewTPSRepository creates a new instance of TPSRepository
func NewTPSRepository(db *gorm.DB) TPSRepository {
	return &tpsRepository{
		db: db,
	}
}

// GetByID retrieves a TPS profile by ID
func (r *tpsRepository) GetByID(id uint) (*models.TPSProfile, error) {
	var tps models.TPSProfile

	err := r.db.Where("id = ?", id).First(&tps).Error
	if err != nil {
		return nil, err
	}

	return &tps, nil
}

// GetByUserID retrieves the TPS profile owned by a user
func (r *tpsRepository) GetByUserID(userID uint) (*models.TPSProfile, error) {
	var tps models.TPSProfile

	err := r.db.Where("user_id = ?", userID).First(&tps).Error
	if err != nil {
		return nil, err
	}

	return &tps, nil
}

// Update applies a partial update
func (r *tpsRepository) Update(id uint, fields map[string]interface{}) error {
	result := r.db.Model(&models.TPSProfile{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List retrieves TPS profiles with optional region filters
func (r *tpsRepository) List(filter TPSFilter) ([]*models.TPSProfile, error) {
	var list []*models.TPSProfile

	query := r.db.Model(&models.TPSProfile{})
	if filter.Kecamatan != "" {
		query = query.Where("kecamatan = ?", filter.Kecamatan)
	}
	if filter.Kelurahan != "" {
		query = query.Where("kelurahan = ?", filter.Kelurahan)
	}
	if filter.VerifiedOnly {
		query = query.Where("is_verified = ?", true)
	}
	if filter.OpenOnly {
		query = query.Where("is_open = ?", true)
	}

	err := query.Order("name").Find(&list).Error
	return list, err
}

// ListAvailable retrieves verified, open TPS whose owner account is active.
// An empty kecamatan means every kecamatan.
func (r *tpsRepository) ListAvailable(kecamatan string) ([]*models.TPSProfile, error) {
	var list []*models.TPSProfile

	query := r.db.Table("tps_profiles").
		Select("tps_profiles.*").
		Joins("JOIN users u ON u.id = tps_profiles.user_id").
		Where("tps_profiles.is_verified = ? AND tps_profiles.is_open = ? AND u.is_active = ?", true, true, true)
	if kecamatan != "" {
		query = query.Where("tps_profiles.kecamatan = ?", kecamatan)
	}

	err := query.Order("tps_profiles.id").Find(&list).Error
	return list, err
}

// ListRegions returns the distinct kecamatan/kelurahan pairs served by verified TPS
func (r *tpsRepository) ListRegions() ([]RegionRow, error) {
	var rows []RegionRow

	query := `
		SELECT DISTINCT kecamatan, kelurahan
		FROM tps_profiles
		WHERE is_verified = ? AND kecamatan <> ''
		ORDER BY kecamatan, kelurahan
	`

	err := r.db.Raw(query, true).Scan(&rows).Error
	return rows, err
}
