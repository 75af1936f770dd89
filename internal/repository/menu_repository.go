package repository

import (
	"gorm.io/gorm"

	"goclean-be-svc/internal/models"
)

// MenuRepository interface defines menu repository methods
type MenuRepository interface {
	GetMenusByRole(role models.Role) ([]*models.MasterMenu, error)
	List() ([]*models.MasterMenu, error)
	GetByID(id uint) (*models.MasterMenu, error)
	Create(menu *models.MasterMenu) error
	Update(id uint, fields map[string]interface{}) error
	Delete(id uint) error
}

// menuRepository implements MenuRepository interface
type menuRepository struct {
	db *gorm.DB
}

// NewMenuRepository creates a new menu repository
func NewMenuRepository(db *gorm.DB) MenuRepository {
	return &menuRepository{db: db}
}

// GetMenusByRole gets the active navigation of a role in display order
func (r *menuRepository) GetMenusByRole(role models.Role) ([]*models.MasterMenu, error) {
	var menus []*models.MasterMenu

	query := `
		SELECT mm.*
		FROM master_menus mm
		WHERE mm.role = ? AND mm.is_active = ?
		ORDER BY mm.menu_order, mm.id
	`

	err := r.db.Raw(query, role, true).Scan(&menus).Error
	return menus, err
}

// List gets every menu for administration
func (r *menuRepository) List() ([]*models.MasterMenu, error) {
	var menus []*models.MasterMenu
	err := r.db.Order("role, menu_order, id").Find(&menus).Error
	return menus, err
}

// GetByID gets a single menu
func (r *menuRepository) GetByID(id uint) (*models.MasterMenu, error) {
	var menu models.MasterMenu
	if err := r.db.Where("id = ?", id).First(&menu).Error; err != nil {
		return nil, err
	}
	return &menu, nil
}

// Create inserts a menu
func (r *menuRepository) Create(menu *models.MasterMenu) error {
	return r.db.Create(menu).Error
}

// Update applies a partial update
func (r *menuRepository) Update(id uint, fields map[string]interface{}) error {
	result := r.db.Model(&models.MasterMenu{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a menu
func (r *menuRepository) Delete(id uint) error {
	result := r.db.Where("id = ?", id).Delete(&models.MasterMenu{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
