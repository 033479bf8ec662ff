package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/nexatel/portal_api/internal/utils"
)

// handleServiceError maps service-layer errors onto the response
// envelope. Typed errors carry structured details for the UI; anything
// unrecognized becomes a logged 500.
func handleServiceError(c *gin.Context, err error) {
	var vErr *utils.ValidationError
	var ibErr *utils.InsufficientBalanceError
	var stErr *utils.InvalidStateTransitionError

	switch {
	case errors.As(err, &vErr):
		utils.ErrorWithDetails(c, 400, "VALIDATION_ERROR", vErr.Error(), gin.H{
			"field":   vErr.Field,
			"message": vErr.Message,
		})
	case errors.As(err, &ibErr):
		utils.ErrorWithDetails(c, 402, "INSUFFICIENT_BALANCE", "Insufficient balance", gin.H{
			"required":  ibErr.Required.StringFixed(2),
			"available": ibErr.Available.StringFixed(2),
		})
	case errors.As(err, &stErr):
		utils.ErrorWithDetails(c, 409, "INVALID_STATE_TRANSITION", stErr.Error(), gin.H{
			"currentStatus": stErr.Current,
		})
	case errors.Is(err, utils.ErrNotFound):
		utils.Error(c, 404, "NOT_FOUND", "Resource not found")
	case errors.Is(err, utils.ErrUsernameTaken):
		utils.Error(c, 409, "USERNAME_TAKEN", "Username is already in use")
	case errors.Is(err, utils.ErrProductReferenced):
		utils.Error(c, 409, "RESOURCE_REFERENCED", "Resource is referenced and cannot be deleted")
	case errors.Is(err, utils.ErrCategoryDepth):
		utils.Error(c, 400, "CATEGORY_DEPTH_EXCEEDED", "Categories can only nest one level deep")
	case errors.Is(err, utils.ErrProviderDisabled):
		utils.Error(c, 503, "PROVIDER_DISABLED", "Provider is not configured for this category")
	case errors.Is(err, utils.ErrForbidden):
		utils.Error(c, 403, "FORBIDDEN", "Insufficient permissions")
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("unhandled service error")
		utils.Error(c, 500, "INTERNAL_ERROR", "An internal error occurred")
	}
}

// pagination reads page/limit query parameters with safe defaults.
func pagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.Query("page"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.Query("limit"))
	if limit < 1 || limit > 200 {
		limit = 50
	}
	return page, limit
}

// pathID parses a numeric :id style path parameter.
func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id < 1 {
		utils.Error(c, 400, "INVALID_ID", "Invalid "+name+" parameter")
		return 0, false
	}
	return id, true
}
