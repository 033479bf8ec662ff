package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/nexatel/portal_api/internal/service"
	"github.com/nexatel/portal_api/internal/utils"
)

// AdminResellerHandler manages reseller accounts and credit
// adjustments.
type AdminResellerHandler struct {
	users  *service.UserService
	ledger *service.LedgerService
}

// NewAdminResellerHandler constructs an AdminResellerHandler.
func NewAdminResellerHandler(users *service.UserService, ledger *service.LedgerService) *AdminResellerHandler {
	return &AdminResellerHandler{users: users, ledger: ledger}
}

// ListResellers handles GET /v1/admin/resellers
func (h *AdminResellerHandler) ListResellers(c *gin.Context) {
	list, err := h.users.ListResellers(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Resellers retrieved", list)
}

// GetReseller handles GET /v1/admin/resellers/:id
func (h *AdminResellerHandler) GetReseller(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	user, err := h.users.GetReseller(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Reseller retrieved", user)
}

// CreateReseller handles POST /v1/admin/resellers
func (h *AdminResellerHandler) CreateReseller(c *gin.Context) {
	var req service.CreateResellerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	user, err := h.users.CreateReseller(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, 201, "Reseller created", user)
}

// UpdateReseller handles PUT /v1/admin/resellers/:id
func (h *AdminResellerHandler) UpdateReseller(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.UpdateResellerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	user, err := h.users.UpdateReseller(c.Request.Context(), id, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Reseller updated", user)
}

// AdjustCredit handles POST /v1/admin/resellers/:id/credit
func (h *AdminResellerHandler) AdjustCredit(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.AdjustCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	trx, err := h.ledger.AdjustCredit(c.Request.Context(), id, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Credit adjusted", trx)
}
