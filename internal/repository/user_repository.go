package repository

import (
	"strings"

	"gorm.io/gorm"

	"goclean-be-svc/internal/models"
	"goclean-be-svc/pkg/utils"
)

// UserFilter narrows a user listing
type UserFilter struct {
	Role   *models.Role
	Search string
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(user *models.User) error
	CreateWithTPS(user *models.User, tps *models.TPSProfile) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByIDs(ids []uint) ([]*models.User, error)
	Update(id uint, fields map[string]interface{}) error
	List(filter UserFilter, page, perPage int) ([]*models.User, int64, error)
}

// userRepository implements UserRepository
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new instance of UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{
		db: db,
	}
}

// Create inserts a user
func (r *userRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// CreateWithTPS inserts a TPS account and its profile in one transaction
func (r *userRepository) CreateWithTPS(user *models.User, tps *models.TPSProfile) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("TPSProfile").Create(user).Error; err != nil {
			return err
		}
		tps.UserID = user.ID
		if err := tx.Create(tps).Error; err != nil {
			return err
		}
		user.TPSProfile = tps
		return nil
	})
}

// GetByID retrieves a user with its TPS profile, if any
func (r *userRepository) GetByID(id uint) (*models.User, error) {
	var user models.User

	err := r.db.Preload("TPSProfile").Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// GetByEmail retrieves a user by normalized email
func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User

	err := r.db.Preload("TPSProfile").Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// GetByIDs retrieves several users at once
func (r *userRepository) GetByIDs(ids []uint) ([]*models.User, error) {
	var users []*models.User
	if len(ids) == 0 {
		return users, nil
	}

	err := r.db.Where("id IN ?", ids).Find(&users).Error
	return users, err
}

// Update applies a partial update
func (r *userRepository) Update(id uint, fields map[string]interface{}) error {
	result := r.db.Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List retrieves users with optional role filter and name/email search
func (r *userRepository) List(filter UserFilter, page, perPage int) ([]*models.User, int64, error) {
	var users []*models.User
	var total int64

	query := r.db.Model(&models.User{})
	if filter.Role != nil {
		query = query.Where("role = ?", *filter.Role)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("TPSProfile").
		Order("id").
		Limit(perPage).
		Offset(utils.Offset(page, perPage)).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}
