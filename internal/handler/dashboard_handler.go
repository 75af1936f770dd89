package handler

import (
	"github.com/gin-gonic/gin"

	"goclean-be-svc/internal/service"
	"goclean-be-svc/pkg/logger"
	"goclean-be-svc/pkg/utils"
)

// DashboardHandler handles dashboard-related HTTP requests
type DashboardHandler struct {
	dashboardService service.DashboardService
	logger           *logger.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService service.DashboardService, logger *logger.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// GetDashboard handles GET /api/v1/dashboard
// @Summary Get dashboard statistics
// @Description Statistics for the caller's role. Admins get platform-wide aggregates, a TPS its own pickups and revenue, a user its own pickups and payments.
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse{data=response.AdminDashboardResponse} "Successfully retrieved dashboard statistics"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /api/v1/dashboard [get]
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	statistics, err := h.dashboardService.GetDashboard(actor)
	if err != nil {
		respondError(c, h.logger, "Failed to retrieve dashboard statistics", err)
		return
	}

	utils.SuccessResponse(c, "Dashboard statistics retrieved successfully", statistics)
}
