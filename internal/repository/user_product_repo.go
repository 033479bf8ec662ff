package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/nexatel/portal_api/internal/models"
	"github.com/nexatel/portal_api/internal/utils"
)

// UserProductRepository handles data access for assigned product
// instances and their provider query endpoints.
type UserProductRepository struct {
	db *sqlx.DB
}

// NewUserProductRepository creates a new UserProductRepository.
func NewUserProductRepository(db *sqlx.DB) *UserProductRepository {
	return &UserProductRepository{db: db}
}

const userProductColumns = `id, user_id, client_id, product_id, provider_ref, status, created_at, updated_at`

// GetByID finds an assigned product instance by id.
func (r *UserProductRepository) GetByID(ctx context.Context, id int) (*models.UserProduct, error) {
	var up models.UserProduct
	err := r.db.GetContext(ctx, &up,
		`SELECT `+userProductColumns+` FROM user_products WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	return &up, nil
}

// GetByProviderRef finds an instance by its provider-side reference.
// Used by the provisioning webhook.
func (r *UserProductRepository) GetByProviderRef(ctx context.Context, ref string) (*models.UserProduct, error) {
	var up models.UserProduct
	err := r.db.GetContext(ctx, &up,
		`SELECT `+userProductColumns+` FROM user_products WHERE provider_ref = $1 LIMIT 1`, ref)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	return &up, nil
}

// ListByUser retrieves all product instances owned by a reseller.
func (r *UserProductRepository) ListByUser(ctx context.Context, userID int) ([]models.UserProduct, error) {
	var list []models.UserProduct
	err := r.db.SelectContext(ctx, &list,
		`SELECT `+userProductColumns+` FROM user_products WHERE user_id = $1 ORDER BY created_at DESC`,
		userID)
	return list, err
}

// ListActive retrieves every active instance; used by the status sync
// worker.
func (r *UserProductRepository) ListActive(ctx context.Context) ([]models.UserProduct, error) {
	var list []models.UserProduct
	err := r.db.SelectContext(ctx, &list,
		`SELECT `+userProductColumns+` FROM user_products WHERE status = 'active' ORDER BY id ASC`)
	return list, err
}

// Create inserts a new assigned product instance.
func (r *UserProductRepository) Create(ctx context.Context, up *models.UserProduct) error {
	return r.db.QueryRowxContext(ctx,
		`INSERT INTO user_products (user_id, client_id, product_id, provider_ref, status)
         VALUES ($1, $2, $3, $4, $5)
         RETURNING id, created_at, updated_at`,
		up.UserID, up.ClientID, up.ProductID, up.ProviderRef, up.Status,
	).Scan(&up.ID, &up.CreatedAt, &up.UpdatedAt)
}

// UpdateStatus sets the provider-side status of an instance.
func (r *UserProductRepository) UpdateStatus(ctx context.Context, id int, status models.UserProductStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE user_products SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return utils.ErrNotFound
	}
	return nil
}

const endpointColumns = `id, user_product_id, name, path, params, auth_username, auth_password, created_at`

// GetEndpointByID finds a usage endpoint by id.
func (r *UserProductRepository) GetEndpointByID(ctx context.Context, id int) (*models.UserProductEndpoint, error) {
	var ep models.UserProductEndpoint
	err := r.db.GetContext(ctx, &ep,
		`SELECT `+endpointColumns+` FROM user_product_endpoints WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	return &ep, nil
}

// ListEndpoints retrieves the usage endpoints configured for an instance.
func (r *UserProductRepository) ListEndpoints(ctx context.Context, userProductID int) ([]models.UserProductEndpoint, error) {
	var list []models.UserProductEndpoint
	err := r.db.SelectContext(ctx, &list,
		`SELECT `+endpointColumns+` FROM user_product_endpoints WHERE user_product_id = $1 ORDER BY id ASC`,
		userProductID)
	return list, err
}

// CreateEndpoint inserts a usage endpoint configuration.
func (r *UserProductRepository) CreateEndpoint(ctx context.Context, ep *models.UserProductEndpoint) error {
	return r.db.QueryRowxContext(ctx,
		`INSERT INTO user_product_endpoints (user_product_id, name, path, params, auth_username, auth_password)
         VALUES ($1, $2, $3, $4, $5, $6)
         RETURNING id, created_at`,
		ep.UserProductID, ep.Name, ep.Path, nullableJSON(ep.Params), ep.AuthUsername, ep.AuthPassword,
	).Scan(&ep.ID, &ep.CreatedAt)
}
