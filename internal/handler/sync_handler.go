package handler

import (
	"github.com/gin-gonic/gin"

	"goclean-be-svc/internal/service"
	"goclean-be-svc/pkg/logger"
	"goclean-be-svc/pkg/utils"
)

// SyncHandler serves the incremental polling endpoint
type SyncHandler struct {
	syncService service.SyncService
	logger      *logger.Logger
}

// NewSyncHandler creates a new SyncHandler instance
func NewSyncHandler(syncService service.SyncService, logger *logger.Logger) *SyncHandler {
	return &SyncHandler{
		syncService: syncService,
		logger:      logger,
	}
}

// Sync handles GET /api/v1/sync
// @Summary Incremental sync
// @Description Pickups, transactions and notifications in the caller's scope changed after `since`. Send the returned server_time as the next `since`; poll again right away while has_more is true.
// @Tags sync
// @Produce json
// @Security BearerAuth
// @Param since query string false "RFC3339 timestamp or unix seconds; empty for a full snapshot"
// @Success 200 {object} utils.APIResponse{data=response.SyncResponse} "Changes since the given time"
// @Failure 400 {object} utils.APIResponse "Invalid since"
// @Router /api/v1/sync [get]
func (h *SyncHandler) Sync(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	since, err := service.ParseSince(c.Query("since"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid since parameter", err)
		return
	}

	result, err := h.syncService.Sync(actor, since)
	if err != nil {
		respondError(c, h.logger, "Failed to sync", err)
		return
	}

	utils.SuccessResponse(c, "Sync completed", result)
}
