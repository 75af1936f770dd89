package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"goclean-be-svc/internal/models"
)

// WasteCategoryRepository defines the interface for waste category data operations
type WasteCategoryRepository interface {
	List(activeOnly bool) ([]*models.WasteCategory, error)
	GetByID(id uint) (*models.WasteCategory, error)
	GetByIDs(ids []uint) ([]*models.WasteCategory, error)
	Create(category *models.WasteCategory) error
	Update(id uint, fields map[string]interface{}) error
	UpsertByCode(category *models.WasteCategory) error
}

// wasteCategoryRepository implements WasteCategoryRepository
type wasteCategoryRepository struct {
	db *gorm.DB
}

// NewWasteCategoryRepository creates a new instance of WasteCategoryRepository
func NewWasteCategoryRepository(db *gorm.DB) WasteCategoryRepository {
	return &wasteCategoryRepository{
		db: db,
	}
}

// List retrieves categories ordered by name
func (r *wasteCategoryRepository) List(activeOnly bool) ([]*models.WasteCategory, error) {
	var categories []*models.WasteCategory

	query := r.db.Model(&models.WasteCategory{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	err := query.Order("name").Find(&categories).Error
	return categories, err
}

// GetByID retrieves a category by ID
func (r *wasteCategoryRepository) GetByID(id uint) (*models.WasteCategory, error) {
	var category models.WasteCategory

	err := r.db.Where("id = ?", id).First(&category).Error
	if err != nil {
		return nil, err
	}

	return &category, nil
}

// GetByIDs retrieves several categories at once
func (r *wasteCategoryRepository) GetByIDs(ids []uint) ([]*models.WasteCategory, error) {
	var categories []*models.WasteCategory
	if len(ids) == 0 {
		return categories, nil
	}

	err := r.db.Where("id IN ?", ids).Find(&categories).Error
	return categories, err
}

// Create inserts a category
func (r *wasteCategoryRepository) Create(category *models.WasteCategory) error {
	return r.db.Create(category).Error
}

// Update applies a partial update
func (r *wasteCategoryRepository) Update(id uint, fields map[string]interface{}) error {
	result := r.db.Model(&models.WasteCategory{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpsertByCode inserts the category or updates the row holding the same code
func (r *wasteCategoryRepository) UpsertByCode(category *models.WasteCategory) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "description", "price_per_kg", "is_active", "updated_at"}),
	}).Create(category).Error
}
