package service

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"goclean-be-svc/internal/models"
	"goclean-be-svc/internal/repository"
	"goclean-be-svc/pkg/logger"
)

// CreateWasteCategoryRequest represents a new waste category
type CreateWasteCategoryRequest struct {
	Code        string `json:"code" binding:"required,max=32" example:"PLASTIC"`
	Name        string `json:"name" binding:"required,max=120" example:"Plastik"`
	Description string `json:"description" example:"Botol dan kemasan plastik"`
	PricePerKg  int64  `json:"price_per_kg" binding:"gte=0" example:"3000"`
	IsActive    *bool  `json:"is_active" example:"true"`
}

// UpdateWasteCategoryRequest is a partial category update; nil fields stay unchanged
type UpdateWasteCategoryRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=120" example:"Plastik"`
	Description *string `json:"description" example:"Botol dan kemasan plastik"`
	PricePerKg  *int64  `json:"price_per_kg" binding:"omitempty,gte=0" example:"3500"`
	IsActive    *bool   `json:"is_active" example:"true"`
}

// categorySeed is one entry of the YAML seed file
type categorySeed struct {
	Code        string `yaml:"code"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	PricePerKg  int64  `yaml:"price_per_kg"`
	IsActive    *bool  `yaml:"is_active"`
}

type categorySeedFile struct {
	Categories []categorySeed `yaml:"categories"`
}

// WasteCategoryService defines the interface for waste catalog operations
type WasteCategoryService interface {
	List(includeInactive bool) ([]*models.WasteCategory, error)
	Get(id uint, includeInactive bool) (*models.WasteCategory, error)
	Create(req *CreateWasteCategoryRequest) (*models.WasteCategory, error)
	Update(id uint, req *UpdateWasteCategoryRequest) (*models.WasteCategory, error)
	Delete(id uint) error
	Seed(r io.Reader) (int, error)
}

// wasteCategoryService implements WasteCategoryService
type wasteCategoryService struct {
	categoryRepo repository.WasteCategoryRepository
	logger       *logger.Logger
}

// NewWasteCategoryService creates a new instance of WasteCategoryService
func NewWasteCategoryService(categoryRepo repository.WasteCategoryRepository, logger *logger.Logger) WasteCategoryService {
	return &wasteCategoryService{
		categoryRepo: categoryRepo,
		logger:       logger,
	}
}

func (s *wasteCategoryService) List(includeInactive bool) ([]*models.WasteCategory, error) {
	return s.categoryRepo.List(!includeInactive)
}

// Get returns a category; inactive ones are hidden unless includeInactive is set
func (s *wasteCategoryService) Get(id uint, includeInactive bool) (*models.WasteCategory, error) {
	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		return nil, translateRepoError(err)
	}
	if !category.IsActive && !includeInactive {
		return nil, ErrNotFound
	}
	return category, nil
}

func (s *wasteCategoryService) Create(req *CreateWasteCategoryRequest) (*models.WasteCategory, error) {
	category := &models.WasteCategory{
		Code:        strings.ToUpper(strings.TrimSpace(req.Code)),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		PricePerKg:  req.PricePerKg,
		IsActive:    req.IsActive == nil || *req.IsActive,
	}
	if category.Code == "" || category.Name == "" {
		return nil, fmt.Errorf("%w: code and name are required", ErrInvalidInput)
	}

	if err := s.categoryRepo.Create(category); err != nil {
		s.logger.WithError(err).WithField("code", category.Code).Error("Failed to create waste category")
		return nil, translateRepoError(err)
	}

	s.logger.WithField("category_id", category.ID).Info("Waste category created")
	return category, nil
}

func (s *wasteCategoryService) Update(id uint, req *UpdateWasteCategoryRequest) (*models.WasteCategory, error) {
	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.PricePerKg != nil {
		fields["price_per_kg"] = *req.PricePerKg
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}

	if len(fields) > 0 {
		if err := s.categoryRepo.Update(id, fields); err != nil {
			return nil, translateRepoError(err)
		}
		s.logger.WithField("category_id", id).Info("Waste category updated")
	}

	return s.Get(id, true)
}

// Delete deactivates a category; existing pickups keep referring to it
func (s *wasteCategoryService) Delete(id uint) error {
	if err := s.categoryRepo.Update(id, map[string]interface{}{"is_active": false}); err != nil {
		return translateRepoError(err)
	}
	s.logger.WithField("category_id", id).Info("Waste category deactivated")
	return nil
}

// Seed upserts categories from a YAML document and returns how many were written
func (s *wasteCategoryService) Seed(r io.Reader) (int, error) {
	var file categorySeedFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return 0, fmt.Errorf("%w: failed to parse seed file: %v", ErrInvalidInput, err)
	}

	count := 0
	for i, seed := range file.Categories {
		code := strings.ToUpper(strings.TrimSpace(seed.Code))
		if code == "" || strings.TrimSpace(seed.Name) == "" {
			return count, fmt.Errorf("%w: category #%d needs a code and a name", ErrInvalidInput, i+1)
		}
		if seed.PricePerKg < 0 {
			return count, fmt.Errorf("%w: category %s has a negative price", ErrInvalidInput, code)
		}

		category := &models.WasteCategory{
			Code:        code,
			Name:        strings.TrimSpace(seed.Name),
			Description: seed.Description,
			PricePerKg:  seed.PricePerKg,
			IsActive:    seed.IsActive == nil || *seed.IsActive,
		}
		if err := s.categoryRepo.UpsertByCode(category); err != nil {
			return count, fmt.Errorf("failed to upsert category %s: %w", code, err)
		}
		count++
	}

	s.logger.WithField("count", count).Info("Waste categories seeded")
	return count, nil
}
