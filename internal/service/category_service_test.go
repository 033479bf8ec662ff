package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexatel/portal_api/internal/models"
	"github.com/nexatel/portal_api/internal/utils"
)

func intPtr(i int) *int { return &i }

func newCategoryFixture() (*CategoryService, *fakeCategoryStore) {
	store := &fakeCategoryStore{
		categories: map[int]*models.ProductCategory{
			1: {ID: 1, Name: "Mobile Plans", MasterCategory: models.MasterMobile, IsActive: true},
			2: {ID: 2, Name: "Prepaid", MasterCategory: models.MasterMobile, ParentID: intPtr(1), IsActive: true},
			3: {ID: 3, Name: "Fixed Lines", MasterCategory: models.MasterFixed, IsActive: true},
		},
		hasProduct: map[int]bool{3: true},
		nextID:     100,
	}
	return NewCategoryService(store), store
}

func TestCreateCategoryUnderRoot(t *testing.T) {
	svc, _ := newCategoryFixture()

	c, err := svc.CreateCategory(context.Background(), &CategoryInput{
		Name:           "Postpaid",
		MasterCategory: "mobile",
		ParentID:       intPtr(1),
	})
	require.NoError(t, err)
	require.NotNil(t, c.ParentID)
	assert.Equal(t, 1, *c.ParentID)
	assert.True(t, c.IsActive)
}

func TestCreateCategoryUnderChildRejected(t *testing.T) {
	svc, _ := newCategoryFixture()

	// Category 2 already has a parent; a third level is not allowed.
	_, err := svc.CreateCategory(context.Background(), &CategoryInput{
		Name:           "Too Deep",
		MasterCategory: "mobile",
		ParentID:       intPtr(2),
	})
	assert.ErrorIs(t, err, utils.ErrCategoryDepth)
}

func TestCreateCategoryMissingParent(t *testing.T) {
	svc, _ := newCategoryFixture()

	_, err := svc.CreateCategory(context.Background(), &CategoryInput{
		Name:           "Orphan",
		MasterCategory: "mobile",
		ParentID:       intPtr(999),
	})
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestCreateCategoryBadMasterCategory(t *testing.T) {
	svc, _ := newCategoryFixture()

	_, err := svc.CreateCategory(context.Background(), &CategoryInput{
		Name:           "Satellite",
		MasterCategory: "satellite",
	})
	var vErr *utils.ValidationError
	require.True(t, errors.As(err, &vErr), "got %v", err)
	assert.Equal(t, "masterCategory", vErr.Field)
}

func TestUpdateCategorySelfParent(t *testing.T) {
	svc, _ := newCategoryFixture()

	_, err := svc.UpdateCategory(context.Background(), 1, &CategoryInput{
		Name:           "Mobile Plans",
		MasterCategory: "mobile",
		ParentID:       intPtr(1),
	})
	var vErr *utils.ValidationError
	require.True(t, errors.As(err, &vErr), "got %v", err)
	assert.Equal(t, "parentId", vErr.Field)
}

func TestDeleteCategoryWithChildrenRefused(t *testing.T) {
	svc, store := newCategoryFixture()

	err := svc.DeleteCategory(context.Background(), 1)
	assert.ErrorIs(t, err, utils.ErrProductReferenced)
	assert.Contains(t, store.categories, 1)
}

func TestDeleteCategoryWithProductsRefused(t *testing.T) {
	svc, _ := newCategoryFixture()

	err := svc.DeleteCategory(context.Background(), 3)
	assert.ErrorIs(t, err, utils.ErrProductReferenced)
}

func TestDeleteLeafCategory(t *testing.T) {
	svc, store := newCategoryFixture()

	require.NoError(t, svc.DeleteCategory(context.Background(), 2))
	assert.NotContains(t, store.categories, 2)
}
