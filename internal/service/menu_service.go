package service

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"goclean-be-svc/internal/models"
	"goclean-be-svc/internal/models/response"
	"goclean-be-svc/internal/repository"
	"goclean-be-svc/pkg/logger"
)

// CreateMenuRequest represents a new navigation menu entry
type CreateMenuRequest struct {
	Name     string      `json:"name" binding:"required,max=120" example:"Riwayat Penjemputan"`
	Code     string      `json:"code" binding:"required,max=64" example:"pickup-history"`
	Path     string      `json:"path" example:"/pickups"`
	Icon     string      `json:"icon" example:"truck"`
	Order    int         `json:"order" example:"1"`
	Role     models.Role `json:"role" binding:"required,oneof=USER TPS ADMIN" example:"USER"`
	IsActive *bool       `json:"is_active" example:"true"`
}

// UpdateMenuRequest is a partial menu update; nil fields stay unchanged
type UpdateMenuRequest struct {
	Name     *string      `json:"name" binding:"omitempty,min=1,max=120" example:"Riwayat"`
	Path     *string      `json:"path" example:"/pickups"`
	Icon     *string      `json:"icon" example:"truck"`
	Order    *int         `json:"order" example:"2"`
	Role     *models.Role `json:"role" binding:"omitempty,oneof=USER TPS ADMIN" example:"USER"`
	IsActive *bool        `json:"is_active" example:"false"`
}

// MenuService interface defines menu service methods
type MenuService interface {
	GetMenusByRole(role models.Role) ([]*response.MenuResponse, error)
	List() ([]*models.MasterMenu, error)
	Get(id uint) (*models.MasterMenu, error)
	Create(req *CreateMenuRequest) (*models.MasterMenu, error)
	Update(id uint, req *UpdateMenuRequest) (*models.MasterMenu, error)
	Delete(id uint) error
}

// menuService implements MenuService interface
type menuService struct {
	menuRepo repository.MenuRepository
	logger   *logger.Logger
}

// NewMenuService creates a new menu service
func NewMenuService(menuRepo repository.MenuRepository, logger *logger.Logger) MenuService {
	return &menuService{
		menuRepo: menuRepo,
		logger:   logger,
	}
}

// GetMenusByRole gets the active navigation of a role in display order
func (s *menuService) GetMenusByRole(role models.Role) ([]*response.MenuResponse, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}

	menus, err := s.menuRepo.GetMenusByRole(role)
	if err != nil {
		s.logger.WithError(err).WithField("role", role).Error("Failed to get menus")
		return nil, err
	}

	result := make([]*response.MenuResponse, 0, len(menus))
	for _, m := range menus {
		result = append(result, &response.MenuResponse{
			ID:    m.ID,
			Name:  m.Name,
			Code:  m.Code,
			Path:  m.Path,
			Icon:  m.Icon,
			Order: m.Order,
		})
	}
	return result, nil
}

func (s *menuService) List() ([]*models.MasterMenu, error) {
	return s.menuRepo.List()
}

func (s *menuService) Get(id uint) (*models.MasterMenu, error) {
	menu, err := s.menuRepo.GetByID(id)
	if err != nil {
		return nil, translateRepoError(err)
	}
	return menu, nil
}

func (s *menuService) Create(req *CreateMenuRequest) (*models.MasterMenu, error) {
	if !req.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, req.Role)
	}

	menu := &models.MasterMenu{
		DocumentID: uuid.NewString(),
		Name:       strings.TrimSpace(req.Name),
		Code:       strings.TrimSpace(req.Code),
		Path:       req.Path,
		Icon:       req.Icon,
		Order:      req.Order,
		Role:       req.Role,
		IsActive:   req.IsActive == nil || *req.IsActive,
	}
	if err := s.menuRepo.Create(menu); err != nil {
		s.logger.WithError(err).WithField("code", menu.Code).Error("Failed to create menu")
		return nil, translateRepoError(err)
	}

	s.logger.WithField("menu_id", menu.ID).Info("Menu created")
	return menu, nil
}

func (s *menuService) Update(id uint, req *UpdateMenuRequest) (*models.MasterMenu, error) {
	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Path != nil {
		fields["path"] = *req.Path
	}
	if req.Icon != nil {
		fields["icon"] = *req.Icon
	}
	if req.Order != nil {
		fields["menu_order"] = *req.Order
	}
	if req.Role != nil {
		if !req.Role.Valid() {
			return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, *req.Role)
		}
		fields["role"] = *req.Role
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}

	if len(fields) > 0 {
		if err := s.menuRepo.Update(id, fields); err != nil {
			return nil, translateRepoError(err)
		}
		s.logger.WithField("menu_id", id).Info("Menu updated")
	}
	return s.Get(id)
}

func (s *menuService) Delete(id uint) error {
	if err := s.menuRepo.Delete(id); err != nil {
		return translateRepoError(err)
	}
	s.logger.WithField("menu_id", id).Info("Menu deleted")
	return nil
}
