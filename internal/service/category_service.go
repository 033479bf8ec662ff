package service

import (
	"context"

	"github.com/nexatel/portal_api/internal/models"
	"github.com/nexatel/portal_api/internal/utils"
)

// CategoryService manages the two-level category tree.
type CategoryService struct {
	categories CategoryTreeStore
}

// NewCategoryService constructs a CategoryService.
func NewCategoryService(categories CategoryTreeStore) *CategoryService {
	return &CategoryService{categories: categories}
}

// CategoryInput is the admin payload for creating or updating a
// category.
type CategoryInput struct {
	Name           string `json:"name" binding:"required"`
	MasterCategory string `json:"masterCategory" binding:"required"`
	ParentID       *int   `json:"parentId"`
	IsActive       *bool  `json:"isActive"`
}

// checkParent enforces the two-level tree: a parent must exist and must
// itself be a root.
func (s *CategoryService) checkParent(ctx context.Context, parentID int) error {
	parent, err := s.categories.GetByID(ctx, parentID)
	if err != nil {
		return err
	}
	if parent.ParentID != nil {
		return utils.ErrCategoryDepth
	}
	return nil
}

// CreateCategory validates and inserts a category.
func (s *CategoryService) CreateCategory(ctx context.Context, in *CategoryInput) (*models.ProductCategory, error) {
	if !models.ValidMasterCategory(in.MasterCategory) {
		return nil, utils.NewValidationError("masterCategory", "must be mobile or fixed")
	}
	if in.ParentID != nil {
		if err := s.checkParent(ctx, *in.ParentID); err != nil {
			return nil, err
		}
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	c := &models.ProductCategory{
		Name:           in.Name,
		MasterCategory: models.MasterCategory(in.MasterCategory),
		ParentID:       in.ParentID,
		IsActive:       active,
	}
	if err := s.categories.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateCategory applies an admin edit.
func (s *CategoryService) UpdateCategory(ctx context.Context, id int, in *CategoryInput) (*models.ProductCategory, error) {
	if !models.ValidMasterCategory(in.MasterCategory) {
		return nil, utils.NewValidationError("masterCategory", "must be mobile or fixed")
	}
	c, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.ParentID != nil {
		if *in.ParentID == id {
			return nil, utils.NewValidationError("parentId", "category cannot be its own parent")
		}
		if err := s.checkParent(ctx, *in.ParentID); err != nil {
			return nil, err
		}
	}

	c.Name = in.Name
	c.MasterCategory = models.MasterCategory(in.MasterCategory)
	c.ParentID = in.ParentID
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	if err := s.categories.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteCategory removes a category with no products or children.
func (s *CategoryService) DeleteCategory(ctx context.Context, id int) error {
	if _, err := s.categories.GetByID(ctx, id); err != nil {
		return err
	}
	referenced, err := s.categories.IsReferenced(ctx, id)
	if err != nil {
		return err
	}
	if referenced {
		return utils.ErrProductReferenced
	}
	return s.categories.Delete(ctx, id)
}

// GetCategory fetches one category.
func (s *CategoryService) GetCategory(ctx context.Context, id int) (*models.ProductCategory, error) {
	return s.categories.GetByID(ctx, id)
}

// ListCategories returns the tree, roots first. Resellers see only
// active categories.
func (s *CategoryService) ListCategories(ctx context.Context, activeOnly bool) ([]models.ProductCategory, error) {
	return s.categories.List(ctx, activeOnly)
}
