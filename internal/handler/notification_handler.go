package handler

import (
	"github.com/gin-gonic/gin"

	"goclean-be-svc/internal/service"
	"goclean-be-svc/pkg/logger"
	"goclean-be-svc/pkg/utils"
)

// NotificationHandler handles the caller's notification inbox
type NotificationHandler struct {
	notificationService service.NotificationService
	logger              *logger.Logger
}

// NewNotificationHandler creates a new NotificationHandler instance
func NewNotificationHandler(notificationService service.NotificationService, logger *logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		logger:              logger,
	}
}

// ListNotifications handles GET /api/v1/notifications
// @Summary List notifications
// @Description The caller's notifications, newest first
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param unread query bool false "Only unread notifications"
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Success 200 {object} utils.PaginatedResponse{data=[]models.Notification} "Notifications retrieved"
// @Failure 400 {object} utils.APIResponse "Invalid unread flag"
// @Router /api/v1/notifications [get]
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	unread, err := utils.GetOptionalBoolQuery(c, "unread")
	if err != nil {
		utils.BadRequestResponse(c, "Invalid unread flag", err)
		return
	}
	page, perPage := utils.GetPagination(c)

	list, total, err := h.notificationService.List(actor.UserID, unread != nil && *unread, page, perPage)
	if err != nil {
		respondError(c, h.logger, "Failed to list notifications", err)
		return
	}

	utils.PaginatedSuccessResponse(c, "Notifications retrieved successfully", list, page, perPage, total)
}

// UnreadCount handles GET /api/v1/notifications/unread-count
// @Summary Count unread notifications
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse "Unread count"
// @Router /api/v1/notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	count, err := h.notificationService.UnreadCount(actor.UserID)
	if err != nil {
		respondError(c, h.logger, "Failed to count notifications", err)
		return
	}

	utils.SuccessResponse(c, "Unread count retrieved", gin.H{"unread": count})
}

// MarkRead handles POST /api/v1/notifications/:id/read
// @Summary Mark a notification as read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 200 {object} utils.APIResponse "Notification marked as read"
// @Failure 404 {object} utils.APIResponse "Notification not found"
// @Router /api/v1/notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, err := utils.GetIDParam(c)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid notification ID", err)
		return
	}

	if err := h.notificationService.MarkRead(actor.UserID, id); err != nil {
		respondError(c, h.logger, "Failed to mark notification", err)
		return
	}

	utils.SuccessResponse(c, "Notification marked as read", nil)
}

// MarkAllRead handles POST /api/v1/notifications/read-all
// @Summary Mark every notification as read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse "Notifications marked as read"
// @Router /api/v1/notifications/read-all [post]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	updated, err := h.notificationService.MarkAllRead(actor.UserID)
	if err != nil {
		respondError(c, h.logger, "Failed to mark notifications", err)
		return
	}

	utils.SuccessResponse(c, "Notifications marked as read", gin.H{"updated": updated})
}
