package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/nexatel/portal_api/internal/middleware"
	"github.com/nexatel/portal_api/internal/service"
	"github.com/nexatel/portal_api/internal/utils"
)

// PurchaseHandler exposes the billing endpoints for resellers.
type PurchaseHandler struct {
	ledger *service.LedgerService
}

// NewPurchaseHandler constructs a PurchaseHandler.
func NewPurchaseHandler(ledger *service.LedgerService) *PurchaseHandler {
	return &PurchaseHandler{ledger: ledger}
}

// Purchase handles POST /v1/purchases
func (h *PurchaseHandler) Purchase(c *gin.Context) {
	var req service.PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	result, err := h.ledger.Purchase(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, 201, "Purchase recorded", result)
}

// GetBalance handles GET /v1/balance
func (h *PurchaseHandler) GetBalance(c *gin.Context) {
	user, err := h.ledger.Balance(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Balance retrieved", gin.H{
		"creditBalance": user.CreditBalance,
		"paymentMode":   user.PaymentMode,
	})
}

// ListTransactions handles GET /v1/transactions
func (h *PurchaseHandler) ListTransactions(c *gin.Context) {
	page, limit := pagination(c)
	list, total, err := h.ledger.ListTransactions(c.Request.Context(), middleware.UserID(c), page, limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.SuccessWithPagination(c, 200, "Transactions retrieved", list, page, limit, total)
}
