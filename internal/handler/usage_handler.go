package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/nexatel/portal_api/internal/middleware"
	"github.com/nexatel/portal_api/internal/service"
	"github.com/nexatel/portal_api/internal/utils"
)

// UsageHandler exposes assigned service instances and their provider
// usage queries.
type UsageHandler struct {
	usage *service.UsageService
}

// NewUsageHandler constructs a UsageHandler.
func NewUsageHandler(usage *service.UsageService) *UsageHandler {
	return &UsageHandler{usage: usage}
}

// resellerID resolves the caller for ownership checks; admins see
// everything.
func (h *UsageHandler) resellerID(c *gin.Context) int {
	if middleware.IsAdmin(c) {
		return 0
	}
	return middleware.UserID(c)
}

// ListServices handles GET /v1/services
func (h *UsageHandler) ListServices(c *gin.Context) {
	list, err := h.usage.ListInstances(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Services retrieved", list)
}

// ListEndpoints handles GET /v1/services/:id/endpoints
func (h *UsageHandler) ListEndpoints(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	list, err := h.usage.ListEndpoints(c.Request.Context(), h.resellerID(c), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Endpoints retrieved", list)
}

// QueryUsage handles GET /v1/endpoints/:id/usage
func (h *UsageHandler) QueryUsage(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	data, err := h.usage.QueryUsage(c.Request.Context(), h.resellerID(c), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Usage retrieved", data)
}
