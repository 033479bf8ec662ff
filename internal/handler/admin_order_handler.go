package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/nexatel/portal_api/internal/middleware"
	"github.com/nexatel/portal_api/internal/models"
	"github.com/nexatel/portal_api/internal/service"
	"github.com/nexatel/portal_api/internal/utils"
)

// AdminOrderHandler exposes the admin order queue and decisions.
type AdminOrderHandler struct {
	orders *service.OrderService
}

// NewAdminOrderHandler constructs an AdminOrderHandler.
func NewAdminOrderHandler(orders *service.OrderService) *AdminOrderHandler {
	return &AdminOrderHandler{orders: orders}
}

// ListOrders handles GET /v1/admin/orders
func (h *AdminOrderHandler) ListOrders(c *gin.Context) {
	status := models.OrderStatus(c.Query("status"))
	switch status {
	case "", models.OrderPending, models.OrderActive, models.OrderRejected:
	default:
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid status filter")
		return
	}

	list, err := h.orders.ListOrdersByStatus(c.Request.Context(), status)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Orders retrieved", list)
}

// GetOrder handles GET /v1/admin/orders/:id
func (h *AdminOrderHandler) GetOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	order, err := h.orders.GetOrder(c.Request.Context(), 0, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Order retrieved", order)
}

// DecideOrder handles POST /v1/admin/orders/:id/decision
func (h *AdminOrderHandler) DecideOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.DecideOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	order, err := h.orders.DecideOrder(c.Request.Context(), middleware.UserID(c), id, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Order decided", order)
}
