package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/nexatel/portal_api/internal/middleware"
	"github.com/nexatel/portal_api/internal/service"
	"github.com/nexatel/portal_api/internal/utils"
)

// ClientHandler exposes the reseller's client book.
type ClientHandler struct {
	clients *service.ClientService
}

// NewClientHandler constructs a ClientHandler.
func NewClientHandler(clients *service.ClientService) *ClientHandler {
	return &ClientHandler{clients: clients}
}

// ListClients handles GET /v1/clients
func (h *ClientHandler) ListClients(c *gin.Context) {
	list, err := h.clients.ListClients(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Clients retrieved", list)
}

// GetClient handles GET /v1/clients/:id
func (h *ClientHandler) GetClient(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	client, err := h.clients.GetClient(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Client retrieved", client)
}

// CreateClient handles POST /v1/clients
func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req service.ClientInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	client, err := h.clients.CreateClient(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, 201, "Client created", client)
}

// UpdateClient handles PUT /v1/clients/:id
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.ClientInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	client, err := h.clients.UpdateClient(c.Request.Context(), middleware.UserID(c), id, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Client updated", client)
}
