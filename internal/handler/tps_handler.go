package handler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"goclean-be-svc/internal/repository"
	"goclean-be-svc/internal/service"
	"goclean-be-svc/pkg/logger"
	"goclean-be-svc/pkg/utils"
)

// TPSHandler handles the TPS directory and TPS self-service
type TPSHandler struct {
	tpsService service.TPSService
	logger     *logger.Logger
}

// NewTPSHandler creates a new TPS handler
func NewTPSHandler(tpsService service.TPSService, logger *logger.Logger) *TPSHandler {
	return &TPSHandler{
		tpsService: tpsService,
		logger:     logger,
	}
}

// SetOpenRequest toggles whether a TPS takes new pickups
type SetOpenRequest struct {
	IsOpen *bool `json:"is_open" binding:"required" example:"true"`
}

// ListTPS handles GET /api/v1/tps
// @Summary List verified TPS
// @Description Verified TPS, optionally narrowed by region or open status
// @Tags tps
// @Produce json
// @Param kecamatan query string false "Kecamatan"
// @Param kelurahan query string false "Kelurahan"
// @Param open query bool false "Only TPS currently open"
// @Success 200 {object} utils.APIResponse{data=[]models.TPSProfile} "TPS retrieved successfully"
// @Failure 400 {object} utils.APIResponse "Invalid filter"
// @Router /api/v1/tps [get]
func (h *TPSHandler) ListTPS(c *gin.Context) {
	open, err := utils.GetOptionalBoolQuery(c, "open")
	if err != nil {
		utils.BadRequestResponse(c, "Invalid open flag", err)
		return
	}

	filter := repository.TPSFilter{
		Kecamatan:    strings.TrimSpace(c.Query("kecamatan")),
		Kelurahan:    strings.TrimSpace(c.Query("kelurahan")),
		VerifiedOnly: true,
		OpenOnly:     open != nil && *open,
	}

	list, err := h.tpsService.List(filter)
	if err != nil {
		respondError(c, h.logger, "Failed to list TPS", err)
		return
	}

	utils.SuccessResponse(c, "TPS retrieved successfully", list)
}

// NearbyTPS handles GET /api/v1/tps/nearby
// @Summary Find nearby TPS
// @Description Verified, open TPS within radius_km of the point, closest first. The radius defaults to 5 km and is capped at 50 km.
// @Tags tps
// @Produce json
// @Param lat query number true "Latitude" example(-6.2088)
// @Param lng query number true "Longitude" example(106.8456)
// @Param radius_km query number false "Search radius in km" default(5)
// @Success 200 {object} utils.APIResponse{data=[]response.NearbyTPSResponse} "Nearby TPS"
// @Failure 400 {object} utils.APIResponse "Invalid coordinates"
// @Router /api/v1/tps/nearby [get]
func (h *TPSHandler) NearbyTPS(c *gin.Context) {
	lat, err := requiredFloatQuery(c, "lat")
	if err != nil {
		utils.BadRequestResponse(c, "Invalid latitude", err)
		return
	}
	lng, err := requiredFloatQuery(c, "lng")
	if err != nil {
		utils.BadRequestResponse(c, "Invalid longitude", err)
		return
	}

	var radius float64
	if raw := strings.TrimSpace(c.Query("radius_km")); raw != "" {
		radius, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			utils.BadRequestResponse(c, "Invalid radius", err)
			return
		}
	}

	list, err := h.tpsService.Nearby(lat, lng, radius)
	if err != nil {
		respondError(c, h.logger, "Failed to find nearby TPS", err)
		return
	}

	utils.SuccessResponse(c, "Nearby TPS retrieved successfully", list)
}

// ListRegions handles GET /api/v1/regions
// @Summary List service regions
// @Description Kecamatan with their kelurahan, derived from verified TPS
// @Tags tps
// @Produce json
// @Success 200 {object} utils.APIResponse{data=[]response.RegionResponse} "Regions retrieved successfully"
// @Router /api/v1/regions [get]
func (h *TPSHandler) ListRegions(c *gin.Context) {
	regions, err := h.tpsService.Regions()
	if err != nil {
		respondError(c, h.logger, "Failed to list regions", err)
		return
	}

	utils.SuccessResponse(c, "Regions retrieved successfully", regions)
}

// UpdateMyTPS handles PUT /api/v1/tps/me
// @Summary Update own TPS profile
// @Tags tps
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.UpdateTPSProfileRequest true "Fields to change"
// @Success 200 {object} utils.APIResponse{data=models.TPSProfile} "TPS profile updated"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Failure 403 {object} utils.APIResponse "Caller is not a TPS"
// @Router /api/v1/tps/me [put]
func (h *TPSHandler) UpdateMyTPS(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req service.UpdateTPSProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err)
		return
	}

	tps, err := h.tpsService.UpdateProfile(actor, &req)
	if err != nil {
		respondError(c, h.logger, "Failed to update TPS profile", err)
		return
	}

	utils.SuccessResponse(c, "TPS profile updated successfully", tps)
}

// SetMyTPSOpen handles POST /api/v1/tps/me/open
// @Summary Open or close own TPS
// @Description A closed TPS is skipped when new pickups are announced
// @Tags tps
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SetOpenRequest true "Open flag"
// @Success 200 {object} utils.APIResponse{data=models.TPSProfile} "TPS open status updated"
// @Failure 403 {object} utils.APIResponse "Caller is not a TPS"
// @Router /api/v1/tps/me/open [post]
func (h *TPSHandler) SetMyTPSOpen(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req SetOpenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err)
		return
	}

	tps, err := h.tpsService.SetOpen(actor, *req.IsOpen)
	if err != nil {
		respondError(c, h.logger, "Failed to update TPS open status", err)
		return
	}

	utils.SuccessResponse(c, "TPS open status updated", tps)
}

func requiredFloatQuery(c *gin.Context, name string) (float64, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, fmt.Errorf("%s is required", name)
	}
	return strconv.ParseFloat(raw, 64)
}
