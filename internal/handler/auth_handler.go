package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"goclean-be-svc/internal/middleware"
	"goclean-be-svc/internal/service"
	"goclean-be-svc/pkg/logger"
	"goclean-be-svc/pkg/utils"
)

// AuthHandler handles registration, login and the caller's own account
type AuthHandler struct {
	authService service.AuthService
	logger      *logger.Logger
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(authService service.AuthService, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Register creates a USER or TPS account
// @Summary Register an account
// @Description Self-service registration. TPS accounts must include a `tps` profile and start unverified.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.RegisterRequest true "Account details"
// @Success 201 {object} utils.APIResponse{data=models.User} "Account created"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Failure 409 {object} utils.APIResponse "Email already registered"
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err)
		return
	}

	user, err := h.authService.Register(&req)
	if err != nil {
		respondError(c, h.logger, "Failed to register", err)
		return
	}

	utils.CreatedResponse(c, "Account created successfully", user)
}

// Login exchanges credentials for a token
// @Summary Login
// @Description Returns a JWT and also sets it as the `auth-token` cookie
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.LoginRequest true "Credentials"
// @Success 200 {object} utils.APIResponse{data=response.LoginResponse} "Logged in"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Failure 401 {object} utils.APIResponse "Invalid credentials"
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err)
		return
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		respondError(c, h.logger, "Invalid email or password", err)
		return
	}

	maxAge := int(time.Until(resp.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AuthCookie, resp.Token, maxAge, "/", "", c.Request.TLS != nil, true)

	utils.SuccessResponse(c, "Login successful", resp)
}

// Me returns the caller's account
// @Summary Current account
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse{data=models.User} "Account retrieved"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Router /api/v1/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	user, err := h.authService.Me(actor.UserID)
	if err != nil {
		respondError(c, h.logger, "Failed to get account", err)
		return
	}

	utils.SuccessResponse(c, "Account retrieved successfully", user)
}

// UpdateMe applies a partial profile update
// @Summary Update current account
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.UpdateProfileRequest true "Fields to change"
// @Success 200 {object} utils.APIResponse{data=models.User} "Account updated"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Router /api/v1/auth/me [put]
func (h *AuthHandler) UpdateMe(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req service.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err)
		return
	}

	user, err := h.authService.UpdateProfile(actor.UserID, &req)
	if err != nil {
		respondError(c, h.logger, "Failed to update account", err)
		return
	}

	utils.SuccessResponse(c, "Account updated successfully", user)
}

// ChangePassword replaces the caller's password
// @Summary Change password
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.ChangePasswordRequest true "Old and new password"
// @Success 200 {object} utils.APIResponse "Password changed"
// @Failure 401 {object} utils.APIResponse "Old password is wrong"
// @Router /api/v1/auth/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req service.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err)
		return
	}

	if err := h.authService.ChangePassword(actor.UserID, &req); err != nil {
		respondError(c, h.logger, "Failed to change password", err)
		return
	}

	utils.SuccessResponse(c, "Password changed successfully", nil)
}
