package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/nexatel/portal_api/internal/models"
	"github.com/nexatel/portal_api/internal/utils"
)

// ProductRepository handles data access for the product catalog.
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

const productColumns = `id, name, base_price, group1_price, group2_price, status, billing,
    category_id, provider_sku, description, created_at, updated_at`

// GetByID finds a product by id.
func (r *ProductRepository) GetByID(ctx context.Context, id int) (*models.Product, error) {
	var p models.Product
	err := r.db.GetContext(ctx, &p,
		`SELECT `+productColumns+` FROM products WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// List retrieves products, optionally filtered by category. When
// availableOnly is set, out-of-stock products are excluded (the
// reseller-facing catalog view); admins see all statuses.
func (r *ProductRepository) List(ctx context.Context, categoryID int, availableOnly bool) ([]models.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products WHERE ($1 = 0 OR category_id = $1)`
	if availableOnly {
		q += ` AND status IN ('active', 'limited')`
	}
	q += ` ORDER BY name ASC`

	var list []models.Product
	if err := r.db.SelectContext(ctx, &list, q, categoryID); err != nil {
		return nil, err
	}
	return list, nil
}

// Create inserts a new product.
func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	return r.db.QueryRowxContext(ctx,
		`INSERT INTO products (name, base_price, group1_price, group2_price, status, billing, category_id, provider_sku, description)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
         RETURNING id, created_at, updated_at`,
		p.Name, p.BasePrice, p.Group1Price, p.Group2Price, p.Status, p.Billing, p.CategoryID, p.ProviderSKU, p.Description,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

// Update updates an existing product via explicit admin edit.
func (r *ProductRepository) Update(ctx context.Context, p *models.Product) error {
	err := r.db.QueryRowxContext(ctx,
		`UPDATE products
         SET name = $1, base_price = $2, group1_price = $3, group2_price = $4,
             status = $5, billing = $6, category_id = $7, provider_sku = $8,
             description = $9, updated_at = NOW()
         WHERE id = $10
         RETURNING updated_at`,
		p.Name, p.BasePrice, p.Group1Price, p.Group2Price,
		p.Status, p.Billing, p.CategoryID, p.ProviderSKU,
		p.Description, p.ID,
	).Scan(&p.UpdatedAt)
	if err == sql.ErrNoRows {
		return utils.ErrNotFound
	}
	return err
}

// IsReferenced reports whether any order or assigned product instance
// references the product. Referenced products cannot be hard-deleted.
func (r *ProductRepository) IsReferenced(ctx context.Context, id int) (bool, error) {
	var referenced bool
	err := r.db.GetContext(ctx, &referenced,
		`SELECT EXISTS(SELECT 1 FROM product_orders WHERE product_id = $1)
             OR EXISTS(SELECT 1 FROM user_products WHERE product_id = $1)`, id)
	return referenced, err
}

// Delete removes an unreferenced product.
func (r *ProductRepository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return utils.ErrNotFound
	}
	return nil
}
