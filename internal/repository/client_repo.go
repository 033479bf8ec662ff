package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/nexatel/portal_api/internal/models"
	"github.com/nexatel/portal_api/internal/utils"
)

// ClientRepository provides data access methods for a reseller's end
// customers.
type ClientRepository struct {
	db *sqlx.DB
}

// NewClientRepository creates a new ClientRepository.
func NewClientRepository(db *sqlx.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

const clientColumns = `id, reseller_id, name, email, phone, address, is_active, created_at, updated_at`

// GetByID finds a client by numeric id.
func (r *ClientRepository) GetByID(ctx context.Context, id int) (*models.Client, error) {
	var c models.Client
	err := r.db.GetContext(ctx, &c,
		`SELECT `+clientColumns+` FROM clients WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// ListByReseller retrieves all clients owned by a reseller.
func (r *ClientRepository) ListByReseller(ctx context.Context, resellerID int) ([]models.Client, error) {
	var list []models.Client
	err := r.db.SelectContext(ctx, &list,
		`SELECT `+clientColumns+` FROM clients WHERE reseller_id = $1 ORDER BY created_at DESC`,
		resellerID)
	return list, err
}

// Create creates a new client.
func (r *ClientRepository) Create(ctx context.Context, c *models.Client) error {
	return r.db.QueryRowxContext(ctx,
		`INSERT INTO clients (reseller_id, name, email, phone, address, is_active)
         VALUES ($1, $2, $3, $4, $5, $6)
         RETURNING id, created_at, updated_at`,
		c.ResellerID, c.Name, c.Email, c.Phone, c.Address, c.IsActive,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

// Update updates an existing client.
func (r *ClientRepository) Update(ctx context.Context, c *models.Client) error {
	err := r.db.QueryRowxContext(ctx,
		`UPDATE clients
         SET name = $1, email = $2, phone = $3, address = $4, is_active = $5, updated_at = NOW()
         WHERE id = $6
         RETURNING updated_at`,
		c.Name, c.Email, c.Phone, c.Address, c.IsActive, c.ID,
	).Scan(&c.UpdatedAt)
	if err == sql.ErrNoRows {
		return utils.ErrNotFound
	}
	return err
}
