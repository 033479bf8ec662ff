package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nexatel/portal_api/internal/middleware"
	"github.com/nexatel/portal_api/internal/service"
	"github.com/nexatel/portal_api/internal/utils"
)

// CatalogHandler serves the reseller-facing catalog: available products
// priced for the caller's group, and active categories.
type CatalogHandler struct {
	products   *service.ProductService
	categories *service.CategoryService
	ledger     *service.LedgerService
}

// NewCatalogHandler constructs a CatalogHandler.
func NewCatalogHandler(products *service.ProductService, categories *service.CategoryService, ledger *service.LedgerService) *CatalogHandler {
	return &CatalogHandler{products: products, categories: categories, ledger: ledger}
}

// ListProducts handles GET /v1/catalog/products
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	categoryID := 0
	if raw := c.Query("categoryId"); raw != "" {
		if id, err := strconv.Atoi(raw); err == nil {
			categoryID = id
		}
	}

	user, err := h.ledger.Balance(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	products, err := h.products.Catalog(c.Request.Context(), user.ResellerGroup, categoryID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Products retrieved", products)
}

// ListCategories handles GET /v1/catalog/categories
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.categories.ListCategories(c.Request.Context(), true)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Categories retrieved", categories)
}
