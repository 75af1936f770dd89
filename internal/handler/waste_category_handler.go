package handler

import (
	"github.com/gin-gonic/gin"

	"goclean-be-svc/internal/service"
	"goclean-be-svc/pkg/logger"
	"goclean-be-svc/pkg/utils"
)

// WasteCategoryHandler handles the waste catalog
type WasteCategoryHandler struct {
	categoryService service.WasteCategoryService
	logger          *logger.Logger
}

// NewWasteCategoryHandler creates a new waste category handler
func NewWasteCategoryHandler(categoryService service.WasteCategoryService, logger *logger.Logger) *WasteCategoryHandler {
	return &WasteCategoryHandler{
		categoryService: categoryService,
		logger:          logger,
	}
}

// ListCategories handles GET /api/v1/waste-categories
// @Summary List active waste categories
// @Tags waste-categories
// @Produce json
// @Success 200 {object} utils.APIResponse{data=[]models.WasteCategory} "Categories retrieved successfully"
// @Router /api/v1/waste-categories [get]
func (h *WasteCategoryHandler) ListCategories(c *gin.Context) {
	h.list(c, false)
}

// ListAllCategories handles GET /api/v1/admin/waste-categories
// @Summary List all waste categories
// @Description Includes deactivated categories
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse{data=[]models.WasteCategory} "Categories retrieved successfully"
// @Router /api/v1/admin/waste-categories [get]
func (h *WasteCategoryHandler) ListAllCategories(c *gin.Context) {
	h.list(c, true)
}

func (h *WasteCategoryHandler) list(c *gin.Context, includeInactive bool) {
	list, err := h.categoryService.List(includeInactive)
	if err != nil {
		respondError(c, h.logger, "Failed to list waste categories", err)
		return
	}
	utils.SuccessResponse(c, "Categories retrieved successfully", list)
}

// GetCategory handles GET /api/v1/waste-categories/:id
// @Summary Get a waste category
// @Tags waste-categories
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} utils.APIResponse{data=models.WasteCategory} "Category retrieved successfully"
// @Failure 404 {object} utils.APIResponse "Category not found"
// @Router /api/v1/waste-categories/{id} [get]
func (h *WasteCategoryHandler) GetCategory(c *gin.Context) {
	id, err := utils.GetIDParam(c)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid category ID", err)
		return
	}

	category, err := h.categoryService.Get(id, false)
	if err != nil {
		respondError(c, h.logger, "Failed to get waste category", err)
		return
	}
	utils.SuccessResponse(c, "Category retrieved successfully", category)
}

// CreateCategory handles POST /api/v1/waste-categories
// @Summary Create a waste category
// @Tags waste-categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CreateWasteCategoryRequest true "Category"
// @Success 201 {object} utils.APIResponse{data=models.WasteCategory} "Category created successfully"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Failure 409 {object} utils.APIResponse "Code already used"
// @Router /api/v1/waste-categories [post]
func (h *WasteCategoryHandler) CreateCategory(c *gin.Context) {
	var req service.CreateWasteCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err)
		return
	}

	category, err := h.categoryService.Create(&req)
	if err != nil {
		respondError(c, h.logger, "Failed to create waste category", err)
		return
	}
	utils.CreatedResponse(c, "Category created successfully", category)
}

// UpdateCategory handles PUT /api/v1/waste-categories/:id
// @Summary Update a waste category
// @Description Price changes apply to pickups completed afterwards. Completed pickups keep their snapshot.
// @Tags waste-categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Param request body service.UpdateWasteCategoryRequest true "Fields to change"
// @Success 200 {object} utils.APIResponse{data=models.WasteCategory} "Category updated successfully"
// @Failure 404 {object} utils.APIResponse "Category not found"
// @Router /api/v1/waste-categories/{id} [put]
func (h *WasteCategoryHandler) UpdateCategory(c *gin.Context) {
	id, err := utils.GetIDParam(c)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid category ID", err)
		return
	}

	var req service.UpdateWasteCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err)
		return
	}

	category, err := h.categoryService.Update(id, &req)
	if err != nil {
		respondError(c, h.logger, "Failed to update waste category", err)
		return
	}
	utils.SuccessResponse(c, "Category updated successfully", category)
}

// DeleteCategory handles DELETE /api/v1/waste-categories/:id
// @Summary Delete a waste category
// @Tags waste-categories
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Success 200 {object} utils.APIResponse "Category deleted successfully"
// @Failure 404 {object} utils.APIResponse "Category not found"
// @Router /api/v1/waste-categories/{id} [delete]
func (h *WasteCategoryHandler) DeleteCategory(c *gin.Context) {
	id, err := utils.GetIDParam(c)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid category ID", err)
		return
	}

	if err := h.categoryService.Delete(id); err != nil {
		respondError(c, h.logger, "Failed to delete waste category", err)
		return
	}
	utils.SuccessResponse(c, "Category deleted successfully", nil)
}
