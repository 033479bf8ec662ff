package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/nexatel/portal_api/internal/service"
	"github.com/nexatel/portal_api/internal/utils"
)

// AdminTransactionHandler exposes the full ledger to administrators.
type AdminTransactionHandler struct {
	ledger *service.LedgerService
}

// NewAdminTransactionHandler constructs an AdminTransactionHandler.
func NewAdminTransactionHandler(ledger *service.LedgerService) *AdminTransactionHandler {
	return &AdminTransactionHandler{ledger: ledger}
}

// ListTransactions handles GET /v1/admin/transactions
func (h *AdminTransactionHandler) ListTransactions(c *gin.Context) {
	page, limit := pagination(c)
	list, total, err := h.ledger.ListAllTransactions(c.Request.Context(), page, limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.SuccessWithPagination(c, 200, "Transactions retrieved", list, page, limit, total)
}
