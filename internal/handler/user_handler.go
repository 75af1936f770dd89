package handler

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"goclean-be-svc/internal/models"
	"goclean-be-svc/internal/service"
	"goclean-be-svc/pkg/logger"
	"goclean-be-svc/pkg/utils"
)

// UserHandler handles user administration
type UserHandler struct {
	userService service.UserService
	logger      *logger.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService service.UserService, logger *logger.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// SetActiveRequest enables or disables an account
type SetActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required" example:"false"`
}

// VerifyTPSRequest sets the verification flag of a TPS
type VerifyTPSRequest struct {
	IsVerified *bool `json:"is_verified" binding:"required" example:"true"`
}

// ListUsers handles GET /api/v1/admin/users
// @Summary List users
// @Description List accounts with an optional role filter and a name/email search
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param role query string false "Filter by role" Enums(USER, TPS, ADMIN)
// @Param q query string false "Search by name or email"
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Success 200 {object} utils.PaginatedResponse{data=[]models.User} "Users retrieved successfully"
// @Failure 400 {object} utils.APIResponse "Invalid role"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /api/v1/admin/users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	var role *models.Role
	if raw := strings.TrimSpace(c.Query("role")); raw != "" {
		r := models.Role(strings.ToUpper(raw))
		if !r.Valid() {
			utils.BadRequestResponse(c, "Invalid role", fmt.Errorf("unknown role %q", raw))
			return
		}
		role = &r
	}
	page, perPage := utils.GetPagination(c)

	users, total, err := h.userService.ListUsers(role, strings.TrimSpace(c.Query("q")), page, perPage)
	if err != nil {
		respondError(c, h.logger, "Failed to retrieve users", err)
		return
	}

	utils.PaginatedSuccessResponse(c, "Users retrieved successfully", users, page, perPage, total)
}

// SetUserActive handles POST /api/v1/admin/users/:id/active
// @Summary Enable or disable a user
// @Description Deactivated accounts cannot log in and their tokens stop working. Admins cannot deactivate themselves.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body SetActiveRequest true "New state"
// @Success 200 {object} utils.APIResponse{data=models.User} "User updated"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Failure 404 {object} utils.APIResponse "User not found"
// @Router /api/v1/admin/users/{id}/active [post]
func (h *UserHandler) SetUserActive(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, err := utils.GetIDParam(c)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", err)
		return
	}

	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err)
		return
	}

	user, err := h.userService.SetUserActive(actor, id, *req.IsActive)
	if err != nil {
		respondError(c, h.logger, "Failed to update user", err)
		return
	}

	utils.SuccessResponse(c, "User updated successfully", user)
}

// VerifyTPS handles POST /api/v1/admin/tps/:id/verify
// @Summary Verify a TPS
// @Description Only verified TPS can accept pickups. The TPS owner is notified when verified.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "TPS ID"
// @Param request body VerifyTPSRequest true "Verification flag"
// @Success 200 {object} utils.APIResponse{data=models.TPSProfile} "TPS updated"
// @Failure 404 {object} utils.APIResponse "TPS not found"
// @Router /api/v1/admin/tps/{id}/verify [post]
func (h *UserHandler) VerifyTPS(c *gin.Context) {
	id, err := utils.GetIDParam(c)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid TPS ID", err)
		return
	}

	var req VerifyTPSRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err)
		return
	}

	tps, err := h.userService.VerifyTPS(id, *req.IsVerified)
	if err != nil {
		respondError(c, h.logger, "Failed to verify TPS", err)
		return
	}

	utils.SuccessResponse(c, "TPS verification updated", tps)
}
