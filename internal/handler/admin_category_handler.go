package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/nexatel/portal_api/internal/service"
	"github.com/nexatel/portal_api/internal/utils"
)

// AdminCategoryHandler exposes category tree management to
// administrators.
type AdminCategoryHandler struct {
	categories *service.CategoryService
}

// NewAdminCategoryHandler constructs an AdminCategoryHandler.
func NewAdminCategoryHandler(categories *service.CategoryService) *AdminCategoryHandler {
	return &AdminCategoryHandler{categories: categories}
}

// ListCategories handles GET /v1/admin/categories
func (h *AdminCategoryHandler) ListCategories(c *gin.Context) {
	list, err := h.categories.ListCategories(c.Request.Context(), false)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Categories retrieved", list)
}

// GetCategory handles GET /v1/admin/categories/:id
func (h *AdminCategoryHandler) GetCategory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	category, err := h.categories.GetCategory(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Category retrieved", category)
}

// CreateCategory handles POST /v1/admin/categories
func (h *AdminCategoryHandler) CreateCategory(c *gin.Context) {
	var req service.CategoryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	category, err := h.categories.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, 201, "Category created", category)
}

// UpdateCategory handles PUT /v1/admin/categories/:id
func (h *AdminCategoryHandler) UpdateCategory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.CategoryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	category, err := h.categories.UpdateCategory(c.Request.Context(), id, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Category updated", category)
}

// DeleteCategory handles DELETE /v1/admin/categories/:id
func (h *AdminCategoryHandler) DeleteCategory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.categories.DeleteCategory(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Category deleted", nil)
}
