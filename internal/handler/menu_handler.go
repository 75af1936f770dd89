package handler

import (
	"github.com/gin-gonic/gin"

	"goclean-be-svc/internal/service"
	"goclean-be-svc/pkg/logger"
	"goclean-be-svc/pkg/utils"
)

// MenuHandler handles navigation menus
type MenuHandler struct {
	menuService service.MenuService
	logger      *logger.Logger
}

// NewMenuHandler creates a new menu handler
func NewMenuHandler(menuService service.MenuService, logger *logger.Logger) *MenuHandler {
	return &MenuHandler{
		menuService: menuService,
		logger:      logger,
	}
}

// GetMyMenus handles GET /api/v1/menus/me
// @Summary Get menus for the caller's role
// @Description Active menus of the caller's role in display order
// @Tags menus
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse{data=[]response.MenuResponse} "Menus retrieved successfully"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /api/v1/menus/me [get]
func (h *MenuHandler) GetMyMenus(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	menus, err := h.menuService.GetMenusByRole(actor.Role)
	if err != nil {
		respondError(c, h.logger, "Failed to get menus", err)
		return
	}

	h.logger.WithFields(map[string]interface{}{
		"user_id":    actor.UserID,
		"menu_count": len(menus),
	}).Debug("Menus retrieved successfully")

	utils.SuccessResponse(c, "Menus retrieved successfully", menus)
}

// ListMasterMenus handles GET /api/v1/master-menus
// @Summary List all menus
// @Tags master-menus
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse{data=[]models.MasterMenu} "Menus retrieved successfully"
// @Router /api/v1/master-menus [get]
func (h *MenuHandler) ListMasterMenus(c *gin.Context) {
	menus, err := h.menuService.List()
	if err != nil {
		respondError(c, h.logger, "Failed to list menus", err)
		return
	}
	utils.SuccessResponse(c, "Menus retrieved successfully", menus)
}

// GetMasterMenu handles GET /api/v1/master-menus/:id
// @Summary Get a menu
// @Tags master-menus
// @Produce json
// @Security BearerAuth
// @Param id path int true "Menu ID"
// @Success 200 {object} utils.APIResponse{data=models.MasterMenu} "Menu retrieved successfully"
// @Failure 404 {object} utils.APIResponse "Menu not found"
// @Router /api/v1/master-menus/{id} [get]
func (h *MenuHandler) GetMasterMenu(c *gin.Context) {
	id, err := utils.GetIDParam(c)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid menu ID", err)
		return
	}

	menu, err := h.menuService.Get(id)
	if err != nil {
		respondError(c, h.logger, "Failed to get menu", err)
		return
	}
	utils.SuccessResponse(c, "Menu retrieved successfully", menu)
}

// CreateMasterMenu handles POST /api/v1/master-menus
// @Summary Create a menu
// @Tags master-menus
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CreateMenuRequest true "Menu"
// @Success 201 {object} utils.APIResponse{data=models.MasterMenu} "Menu created successfully"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Failure 409 {object} utils.APIResponse "Code already used"
// @Router /api/v1/master-menus [post]
func (h *MenuHandler) CreateMasterMenu(c *gin.Context) {
	var req service.CreateMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err)
		return
	}

	menu, err := h.menuService.Create(&req)
	if err != nil {
		respondError(c, h.logger, "Failed to create menu", err)
		return
	}
	utils.CreatedResponse(c, "Menu created successfully", menu)
}

// UpdateMasterMenu handles PUT /api/v1/master-menus/:id
// @Summary Update a menu
// @Tags master-menus
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Menu ID"
// @Param request body service.UpdateMenuRequest true "Fields to change"
// @Success 200 {object} utils.APIResponse{data=models.MasterMenu} "Menu updated successfully"
// @Failure 404 {object} utils.APIResponse "Menu not found"
// @Router /api/v1/master-menus/{id} [put]
func (h *MenuHandler) UpdateMasterMenu(c *gin.Context) {
	id, err := utils.GetIDParam(c)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid menu ID", err)
		return
	}

	var req service.UpdateMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err)
		return
	}

	menu, err := h.menuService.Update(id, &req)
	if err != nil {
		respondError(c, h.logger, "Failed to update menu", err)
		return
	}
	utils.SuccessResponse(c, "Menu updated successfully", menu)
}

// DeleteMasterMenu handles DELETE /api/v1/master-menus/:id
// @Summary Delete a menu
// @Tags master-menus
// @Produce json
// @Security BearerAuth
// @Param id path int true "Menu ID"
// @Success 200 {object} utils.APIResponse "Menu deleted successfully"
// @Failure 404 {object} utils.APIResponse "Menu not found"
// @Router /api/v1/master-menus/{id} [delete]
func (h *MenuHandler) DeleteMasterMenu(c *gin.Context) {
	id, err := utils.GetIDParam(c)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid menu ID", err)
		return
	}

	if err := h.menuService.Delete(id); err != nil {
		respondError(c, h.logger, "Failed to delete menu", err)
		return
	}
	utils.SuccessResponse(c, "Menu deleted successfully", nil)
}
