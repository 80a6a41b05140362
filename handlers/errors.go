package handlers

import (
	"errors"
	"net/http"

	"cupbot/services/business"
	"cupbot/services/customersvc"
	"cupbot/services/storage"
	"cupbot/utils"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto HTTP statuses.
func respondError(c *gin.Context, action string, err error) {
	var verr *business.ValidationError
	switch {
	case errors.As(err, &verr):
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", verr.Error())
	case errors.Is(err, customersvc.ErrInvalidStatus):
		utils.JSONError(c, http.StatusBadRequest, "Invalid status", err.Error())
	case errors.Is(err, business.ErrInvalidCredentials):
		utils.JSONError(c, http.StatusUnauthorized, "Invalid credentials", "")
	case errors.Is(err, business.ErrNotFound):
		utils.JSONError(c, http.StatusNotFound, "Business not found", "")
	case errors.Is(err, customersvc.ErrNotFound):
		utils.JSONError(c, http.StatusNotFound, "Not found", err.Error())
	case errors.Is(err, business.ErrCommandNotFound), errors.Is(err, business.ErrTriggerNotFound):
		utils.JSONError(c, http.StatusNotFound, err.Error(), "")
	case errors.Is(err, business.ErrEmailTaken),
		errors.Is(err, business.ErrDuplicateCommand),
		errors.Is(err, business.ErrDuplicateTrigger):
		utils.JSONError(c, http.StatusConflict, err.Error(), "")
	case errors.Is(err, customersvc.ErrInvalidTransition):
		utils.JSONError(c, http.StatusConflict, "Status change not allowed", err.Error())
	case errors.Is(err, storage.ErrUploadFailed):
		utils.JSONError(c, http.StatusBadGateway, "Upload failed", err.Error())
	case errors.Is(err, business.ErrStorageDisabled):
		utils.JSONError(c, http.StatusServiceUnavailable, err.Error(), "")
	default:
		utils.JSONError(c, http.StatusInternalServerError, "Failed to "+action, err.Error())
	}
}

func badRequest(c *gin.Context, err error) {
	utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
}
