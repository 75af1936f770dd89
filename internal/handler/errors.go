package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"goclean-be-svc/internal/middleware"
	"goclean-be-svc/internal/service"
	"goclean-be-svc/pkg/logger"
	"goclean-be-svc/pkg/utils"
)

// statusForError maps service sentinel errors to HTTP status codes
func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrConflict),
		errors.Is(err, service.ErrEmailTaken):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respondError writes the envelope for err. Only 5xx errors are logged as errors and their
// details never reach the client.
func respondError(c *gin.Context, log *logger.Logger, message string, err error) {
	status := statusForError(err)
	entry := log.WithError(err).WithField("request_id", middleware.GetRequestID(c))

	if status == http.StatusInternalServerError {
		entry.Error(message)
		utils.InternalServerErrorResponse(c, message, err)
		return
	}

	entry.Warn(message)
	utils.ErrorResponse(c, status, message, err)
}

// currentActor returns the authenticated caller, answering 401 when there is none
func currentActor(c *gin.Context) (service.Actor, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Authentication required")
		return service.Actor{}, false
	}
	return actor, true
}
