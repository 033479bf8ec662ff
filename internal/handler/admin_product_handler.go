package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nexatel/portal_api/internal/service"
	"github.com/nexatel/portal_api/internal/utils"
)

// AdminProductHandler exposes catalog management to administrators.
type AdminProductHandler struct {
	products *service.ProductService
}

// NewAdminProductHandler constructs an AdminProductHandler.
func NewAdminProductHandler(products *service.ProductService) *AdminProductHandler {
	return &AdminProductHandler{products: products}
}

// ListProducts handles GET /v1/admin/products
func (h *AdminProductHandler) ListProducts(c *gin.Context) {
	categoryID := 0
	if raw := c.Query("categoryId"); raw != "" {
		if id, err := strconv.Atoi(raw); err == nil {
			categoryID = id
		}
	}

	list, err := h.products.ListProducts(c.Request.Context(), categoryID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Products retrieved", list)
}

// GetProduct handles GET /v1/admin/products/:id
func (h *AdminProductHandler) GetProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	product, err := h.products.GetProduct(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Product retrieved", product)
}

// CreateProduct handles POST /v1/admin/products
func (h *AdminProductHandler) CreateProduct(c *gin.Context) {
	var req service.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	product, err := h.products.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, 201, "Product created", product)
}

// UpdateProduct handles PUT /v1/admin/products/:id
func (h *AdminProductHandler) UpdateProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	product, err := h.products.UpdateProduct(c.Request.Context(), id, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Product updated", product)
}

// DeleteProduct handles DELETE /v1/admin/products/:id
func (h *AdminProductHandler) DeleteProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.products.DeleteProduct(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Product deleted", nil)
}
