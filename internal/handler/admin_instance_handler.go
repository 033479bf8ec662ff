package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/nexatel/portal_api/internal/service"
	"github.com/nexatel/portal_api/internal/utils"
)

// AdminInstanceHandler manages assigned service instances for
// administrators.
type AdminInstanceHandler struct {
	usage *service.UsageService
}

// NewAdminInstanceHandler constructs an AdminInstanceHandler.
func NewAdminInstanceHandler(usage *service.UsageService) *AdminInstanceHandler {
	return &AdminInstanceHandler{usage: usage}
}

// CreateEndpoint handles POST /v1/admin/services/:id/endpoints
func (h *AdminInstanceHandler) CreateEndpoint(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req service.EndpointInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	ep, err := h.usage.AddEndpoint(c.Request.Context(), id, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, 201, "Endpoint created", ep)
}
