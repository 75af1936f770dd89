package handler

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"goclean-be-svc/internal/models"
	"goclean-be-svc/internal/service"
	"goclean-be-svc/pkg/logger"
	"goclean-be-svc/pkg/utils"
)

// PickupHandler handles the pickup lifecycle, live tracking and attachments
type PickupHandler struct {
	pickupService  service.PickupService
	maxUploadBytes int64
	logger         *logger.Logger
}

// NewPickupHandler creates a new PickupHandler instance
func NewPickupHandler(pickupService service.PickupService, maxUploadBytes int64, logger *logger.Logger) *PickupHandler {
	return &PickupHandler{
		pickupService:  pickupService,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// pickupTarget reads the actor and the :id parameter shared by every pickup route
func pickupTarget(c *gin.Context) (service.Actor, uint, bool) {
	actor, ok := currentActor(c)
	if !ok {
		return actor, 0, false
	}
	id, err := utils.GetIDParam(c)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid pickup ID", err)
		return actor, 0, false
	}
	return actor, id, true
}

// CreatePickup creates a pickup request
// @Summary Create pickup request
// @Description A household user requests a pickup. Verified TPS in the same kecamatan are notified.
// @Tags pickups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CreatePickupRequest true "Pickup details"
// @Success 201 {object} utils.APIResponse{data=models.PickupRequest} "Pickup created"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Failure 403 {object} utils.APIResponse "Only users can request pickups"
// @Router /api/v1/pickups [post]
func (h *PickupHandler) CreatePickup(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req service.CreatePickupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err)
		return
	}

	pickup, err := h.pickupService.CreatePickup(actor, &req)
	if err != nil {
		respondError(c, h.logger, "Failed to create pickup", err)
		return
	}

	utils.CreatedResponse(c, "Pickup created successfully", pickup)
}

// ListPickups lists the pickups visible to the caller
// @Summary List pickups
// @Description Users see their own pickups, TPS see assigned pickups and pending ones in their kecamatan, admins see all.
// @Tags pickups
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status" Enums(PENDING, ACCEPTED, ON_THE_WAY, PICKED_UP, COMPLETED, CANCELLED)
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Success 200 {object} utils.PaginatedResponse{data=[]models.PickupRequest} "Pickups retrieved"
// @Failure 400 {object} utils.APIResponse "Invalid status"
// @Router /api/v1/pickups [get]
func (h *PickupHandler) ListPickups(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var status *models.PickupStatus
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		s := models.PickupStatus(strings.ToUpper(raw))
		if !s.Valid() {
			utils.BadRequestResponse(c, "Invalid status", fmt.Errorf("unknown status %q", raw))
			return
		}
		status = &s
	}
	page, perPage := utils.GetPagination(c)

	list, total, err := h.pickupService.ListPickups(actor, status, page, perPage)
	if err != nil {
		respondError(c, h.logger, "Failed to list pickups", err)
		return
	}

	utils.PaginatedSuccessResponse(c, "Pickups retrieved successfully", list, page, perPage, total)
}

// GetPickup returns one pickup with its items
// @Summary Get pickup
// @Tags pickups
// @Produce json
// @Security BearerAuth
// @Param id path int true "Pickup ID"
// @Success 200 {object} utils.APIResponse{data=models.PickupRequest} "Pickup retrieved"
// @Failure 403 {object} utils.APIResponse "Not visible to the caller"
// @Failure 404 {object} utils.APIResponse "Pickup not found"
// @Router /api/v1/pickups/{id} [get]
func (h *PickupHandler) GetPickup(c *gin.Context) {
	actor, id, ok := pickupTarget(c)
	if !ok {
		return
	}

	pickup, err := h.pickupService.GetPickup(actor, id)
	if err != nil {
		respondError(c, h.logger, "Failed to get pickup", err)
		return
	}

	utils.SuccessResponse(c, "Pickup retrieved successfully", pickup)
}

// GetHistory returns the status history of a pickup
// @Summary Get pickup status history
// @Tags pickups
// @Produce json
// @Security BearerAuth
// @Param id path int true "Pickup ID"
// @Success 200 {object} utils.APIResponse{data=[]models.PickupStatusHistory} "History retrieved"
// @Failure 404 {object} utils.APIResponse "Pickup not found"
// @Router /api/v1/pickups/{id}/history [get]
func (h *PickupHandler) GetHistory(c *gin.Context) {
	actor, id, ok := pickupTarget(c)
	if !ok {
		return
	}

	history, err := h.pickupService.GetHistory(actor, id)
	if err != nil {
		respondError(c, h.logger, "Failed to get pickup history", err)
		return
	}

	utils.SuccessResponse(c, "Pickup history retrieved successfully", history)
}

// transition runs one of the body-less lifecycle steps
func (h *PickupHandler) transition(c *gin.Context, step func(service.Actor, uint) (*models.PickupRequest, error), message string) {
	actor, id, ok := pickupTarget(c)
	if !ok {
		return
	}

	pickup, err := step(actor, id)
	if err != nil {
		respondError(c, h.logger, "Failed to update pickup", err)
		return
	}

	h.logger.WithFields(map[string]interface{}{
		"pickup_id": id,
		"status":    pickup.Status,
		"actor_id":  actor.UserID,
	}).Info("Pickup status changed")

	utils.SuccessResponse(c, message, pickup)
}

// AcceptPickup assigns a pending pickup to the caller's TPS
// @Summary Accept pickup
// @Description PENDING to ACCEPTED. Only a verified TPS may accept; concurrent accepts have one winner.
// @Tags pickups
// @Produce json
// @Security BearerAuth
// @Param id path int true "Pickup ID"
// @Success 200 {object} utils.APIResponse{data=models.PickupRequest} "Pickup accepted"
// @Failure 403 {object} utils.APIResponse "Not a verified TPS"
// @Failure 409 {object} utils.APIResponse "Pickup is no longer pending"
// @Router /api/v1/pickups/{id}/accept [post]
func (h *PickupHandler) AcceptPickup(c *gin.Context) {
	h.transition(c, h.pickupService.AcceptPickup, "Pickup accepted successfully")
}

// StartPickup marks the assigned TPS as on the way
// @Summary Start pickup
// @Description ACCEPTED to ON_THE_WAY, assigned TPS only
// @Tags pickups
// @Produce json
// @Security BearerAuth
// @Param id path int true "Pickup ID"
// @Success 200 {object} utils.APIResponse{data=models.PickupRequest} "Pickup started"
// @Failure 409 {object} utils.APIResponse "Invalid transition"
// @Router /api/v1/pickups/{id}/start [post]
func (h *PickupHandler) StartPickup(c *gin.Context) {
	h.transition(c, h.pickupService.StartPickup, "Pickup started successfully")
}

// MarkPickedUp records that the waste has been collected
// @Summary Mark pickup as picked up
// @Description ON_THE_WAY to PICKED_UP, assigned TPS only
// @Tags pickups
// @Produce json
// @Security BearerAuth
// @Param id path int true "Pickup ID"
// @Success 200 {object} utils.APIResponse{data=models.PickupRequest} "Pickup picked up"
// @Failure 409 {object} utils.APIResponse "Invalid transition"
// @Router /api/v1/pickups/{id}/picked-up [post]
func (h *PickupHandler) MarkPickedUp(c *gin.Context) {
	h.transition(c, h.pickupService.MarkPickedUp, "Pickup marked as picked up")
}

// CompletePickup weighs the items and creates the transaction
// @Summary Complete pickup
// @Description PICKED_UP to COMPLETED. Every item needs its actual weight; the transaction is created atomically.
// @Tags pickups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Pickup ID"
// @Param request body service.CompletePickupRequest true "Actual weights"
// @Success 200 {object} utils.APIResponse{data=response.CompletePickupResponse} "Pickup completed"
// @Failure 400 {object} utils.APIResponse "Weights missing or invalid"
// @Failure 409 {object} utils.APIResponse "Invalid transition"
// @Router /api/v1/pickups/{id}/complete [post]
func (h *PickupHandler) CompletePickup(c *gin.Context) {
	actor, id, ok := pickupTarget(c)
	if !ok {
		return
	}

	var req service.CompletePickupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err)
		return
	}

	result, err := h.pickupService.CompletePickup(actor, id, &req)
	if err != nil {
		respondError(c, h.logger, "Failed to complete pickup", err)
		return
	}

	utils.SuccessResponse(c, "Pickup completed successfully", result)
}

// CancelPickup cancels a pickup
// @Summary Cancel pickup
// @Description The owner may cancel until picked up, the assigned TPS while accepted or on the way, admins any time before completion.
// @Tags pickups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Pickup ID"
// @Param request body service.CancelPickupRequest false "Reason"
// @Success 200 {object} utils.APIResponse{data=models.PickupRequest} "Pickup cancelled"
// @Failure 409 {object} utils.APIResponse "Invalid transition"
// @Router /api/v1/pickups/{id}/cancel [post]
func (h *PickupHandler) CancelPickup(c *gin.Context) {
	actor, id, ok := pickupTarget(c)
	if !ok {
		return
	}

	var req service.CancelPickupRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestResponse(c, "Invalid request body", err)
			return
		}
	}

	pickup, err := h.pickupService.CancelPickup(actor, id, req.Reason)
	if err != nil {
		respondError(c, h.logger, "Failed to cancel pickup", err)
		return
	}

	utils.SuccessResponse(c, "Pickup cancelled successfully", pickup)
}

// UpdateLocation records the driver position of the assigned TPS
// @Summary Report driver location
// @Tags tracking
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Pickup ID"
// @Param request body service.UpdateLocationRequest true "Current position"
// @Success 200 {object} utils.APIResponse{data=response.LocationResponse} "Location updated"
// @Failure 409 {object} utils.APIResponse "Pickup is not being tracked"
// @Router /api/v1/pickups/{id}/location [put]
func (h *PickupHandler) UpdateLocation(c *gin.Context) {
	actor, id, ok := pickupTarget(c)
	if !ok {
		return
	}

	var req service.UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err)
		return
	}

	loc, err := h.pickupService.UpdateLocation(c.Request.Context(), actor, id, *req.Latitude, *req.Longitude)
	if err != nil {
		respondError(c, h.logger, "Failed to update location", err)
		return
	}

	utils.SuccessResponse(c, "Location updated successfully", loc)
}

// GetLocation returns the latest driver position and its distance to the pickup address
// @Summary Get driver location
// @Tags tracking
// @Produce json
// @Security BearerAuth
// @Param id path int true "Pickup ID"
// @Success 200 {object} utils.APIResponse{data=response.LocationResponse} "Location retrieved"
// @Failure 404 {object} utils.APIResponse "No location reported yet"
// @Router /api/v1/pickups/{id}/location [get]
func (h *PickupHandler) GetLocation(c *gin.Context) {
	actor, id, ok := pickupTarget(c)
	if !ok {
		return
	}

	loc, err := h.pickupService.GetLocation(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, h.logger, "Failed to get location", err)
		return
	}

	utils.SuccessResponse(c, "Location retrieved successfully", loc)
}

// UploadAttachment stores a photo for a pickup
// @Summary Upload pickup attachment
// @Description Upload a file for a pickup (multipart form, field `file`)
// @Tags pickups
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Pickup ID"
// @Param file formData file true "File to upload"
// @Success 201 {object} utils.APIResponse{data=models.PickupAttachment} "File uploaded"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Failure 413 {object} utils.APIResponse "File too large"
// @Router /api/v1/pickups/{id}/attachments [post]
func (h *PickupHandler) UploadAttachment(c *gin.Context) {
	actor, id, ok := pickupTarget(c)
	if !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		utils.BadRequestResponse(c, "File is required", err)
		return
	}
	if h.maxUploadBytes > 0 && file.Size > h.maxUploadBytes {
		utils.ErrorResponse(c, http.StatusRequestEntityTooLarge, "File too large", nil)
		return
	}

	opened, err := file.Open()
	if err != nil {
		h.logger.WithError(err).Error("Failed to open uploaded file")
		utils.InternalServerErrorResponse(c, "Failed to read file", err)
		return
	}
	defer opened.Close()

	content, err := io.ReadAll(opened)
	if err != nil {
		h.logger.WithError(err).Error("Failed to read file content")
		utils.InternalServerErrorResponse(c, "Failed to read file", err)
		return
	}

	att, err := h.pickupService.UploadAttachment(actor, id, file.Filename, content)
	if err != nil {
		respondError(c, h.logger, "Failed to upload file", err)
		return
	}

	utils.CreatedResponse(c, "File uploaded", att)
}

// ListAttachments lists the files uploaded for a pickup
// @Summary List pickup attachments
// @Tags pickups
// @Produce json
// @Security BearerAuth
// @Param id path int true "Pickup ID"
// @Success 200 {object} utils.APIResponse{data=[]models.PickupAttachment} "List of attachments"
// @Router /api/v1/pickups/{id}/attachments [get]
func (h *PickupHandler) ListAttachments(c *gin.Context) {
	actor, id, ok := pickupTarget(c)
	if !ok {
		return
	}

	atts, err := h.pickupService.ListAttachments(actor, id)
	if err != nil {
		respondError(c, h.logger, "Failed to list attachments", err)
		return
	}

	utils.SuccessResponse(c, "Attachments retrieved", atts)
}

// DownloadAttachment streams one stored file
// @Summary Download pickup attachment
// @Tags pickups
// @Produce octet-stream
// @Security BearerAuth
// @Param id path int true "Pickup ID"
// @Param name path string true "Stored attachment name"
// @Success 200 {file} file "The file"
// @Failure 404 {object} utils.APIResponse "Not found"
// @Router /api/v1/pickups/{id}/attachments/{name} [get]
func (h *PickupHandler) DownloadAttachment(c *gin.Context) {
	actor, id, ok := pickupTarget(c)
	if !ok {
		return
	}

	name := c.Param("name")
	path, err := h.pickupService.AttachmentPath(actor, id, name)
	if err != nil {
		respondError(c, h.logger, "Attachment not available", err)
		return
	}

	original := name
	if parts := strings.SplitN(name, "_", 2); len(parts) == 2 {
		original = parts[1]
	}
	c.FileAttachment(path, original)
}
