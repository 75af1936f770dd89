package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"goclean-be-svc/internal/service"
	"goclean-be-svc/pkg/logger"
	"goclean-be-svc/pkg/utils"
)

// SchedulerLogHandler exposes the background job audit trail
type SchedulerLogHandler struct {
	logService service.SchedulerLogService
	logger     *logger.Logger
}

// NewSchedulerLogHandler creates a new scheduler log handler
func NewSchedulerLogHandler(logService service.SchedulerLogService, logger *logger.Logger) *SchedulerLogHandler {
	return &SchedulerLogHandler{
		logService: logService,
		logger:     logger,
	}
}

// ListSchedulerLogs handles GET /api/v1/scheduler-logs
// @Summary List scheduler runs
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param code query string false "Job code" Enums(PICKUP_EXPIRY, NOTIFICATION_CLEANUP)
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Success 200 {object} utils.PaginatedResponse{data=[]models.LogScheduler} "Scheduler logs retrieved"
// @Router /api/v1/scheduler-logs [get]
func (h *SchedulerLogHandler) ListSchedulerLogs(c *gin.Context) {
	code := strings.ToUpper(strings.TrimSpace(c.Query("code")))
	page, perPage := utils.GetPagination(c)

	logs, total, err := h.logService.List(code, page, perPage)
	if err != nil {
		respondError(c, h.logger, "Failed to list scheduler logs", err)
		return
	}

	utils.PaginatedSuccessResponse(c, "Scheduler logs retrieved successfully", logs, page, perPage, total)
}
