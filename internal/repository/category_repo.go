package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/nexatel/portal_api/internal/models"
	"github.com/nexatel/portal_api/internal/utils"
)

// CategoryRepository handles data access for product categories.
type CategoryRepository struct {
	db *sqlx.DB
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

const categoryColumns = `id, name, master_category, parent_id, is_active, created_at, updated_at`

// GetByID finds a category by id.
func (r *CategoryRepository) GetByID(ctx context.Context, id int) (*models.ProductCategory, error) {
	var c models.ProductCategory
	err := r.db.GetContext(ctx, &c,
		`SELECT `+categoryColumns+` FROM product_categories WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// List retrieves categories, roots before children, optionally only
// active ones for the reseller catalog.
func (r *CategoryRepository) List(ctx context.Context, activeOnly bool) ([]models.ProductCategory, error) {
	q := `SELECT ` + categoryColumns + ` FROM product_categories`
	if activeOnly {
		q += ` WHERE is_active`
	}
	q += ` ORDER BY parent_id NULLS FIRST, name ASC`

	var list []models.ProductCategory
	if err := r.db.SelectContext(ctx, &list, q); err != nil {
		return nil, err
	}
	return list, nil
}

// Create inserts a new category.
func (r *CategoryRepository) Create(ctx context.Context, c *models.ProductCategory) error {
	return r.db.QueryRowxContext(ctx,
		`INSERT INTO product_categories (name, master_category, parent_id, is_active)
         VALUES ($1, $2, $3, $4)
         RETURNING id, created_at, updated_at`,
		c.Name, c.MasterCategory, c.ParentID, c.IsActive,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

// Update updates an existing category.
func (r *CategoryRepository) Update(ctx context.Context, c *models.ProductCategory) error {
	err := r.db.QueryRowxContext(ctx,
		`UPDATE product_categories
         SET name = $1, master_category = $2, parent_id = $3, is_active = $4, updated_at = NOW()
         WHERE id = $5
         RETURNING updated_at`,
		c.Name, c.MasterCategory, c.ParentID, c.IsActive, c.ID,
	).Scan(&c.UpdatedAt)
	if err == sql.ErrNoRows {
		return utils.ErrNotFound
	}
	return err
}

// IsReferenced reports whether the category has products or child
// categories attached.
func (r *CategoryRepository) IsReferenced(ctx context.Context, id int) (bool, error) {
	var referenced bool
	err := r.db.GetContext(ctx, &referenced,
		`SELECT EXISTS(SELECT 1 FROM products WHERE category_id = $1)
             OR EXISTS(SELECT 1 FROM product_categories WHERE parent_id = $1)`, id)
	return referenced, err
}

// Delete removes an unreferenced category.
func (r *CategoryRepository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM product_categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return utils.ErrNotFound
	}
	return nil
}
