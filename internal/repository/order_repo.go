package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/nexatel/portal_api/internal/models"
	"github.com/nexatel/portal_api/internal/utils"
)

// OrderRepository handles data access for provisioning orders.
type OrderRepository struct {
	db *sqlx.DB
}

// NewOrderRepository creates a new OrderRepository.
func NewOrderRepository(db *sqlx.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `id, order_number, reseller_id, client_id, product_id, status,
    provision_method, address, contact_name, contact_phone, sim_serial,
    rejection_reason, provision_error, decided_by, decided_at, created_at`

// GetByID finds an order by id.
func (r *OrderRepository) GetByID(ctx context.Context, id int) (*models.ProductOrder, error) {
	var o models.ProductOrder
	err := r.db.GetContext(ctx, &o,
		`SELECT `+orderColumns+` FROM product_orders WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// ListByReseller retrieves all orders placed by a reseller, newest first.
func (r *OrderRepository) ListByReseller(ctx context.Context, resellerID int) ([]models.ProductOrder, error) {
	var list []models.ProductOrder
	err := r.db.SelectContext(ctx, &list,
		`SELECT `+orderColumns+` FROM product_orders WHERE reseller_id = $1 ORDER BY created_at DESC`,
		resellerID)
	return list, err
}

// ListByStatus retrieves orders in a given status for the admin queue;
// an empty status returns everything.
func (r *OrderRepository) ListByStatus(ctx context.Context, status models.OrderStatus) ([]models.ProductOrder, error) {
	var list []models.ProductOrder
	err := r.db.SelectContext(ctx, &list,
		`SELECT `+orderColumns+` FROM product_orders
         WHERE ($1 = '' OR status = $1)
         ORDER BY created_at ASC`,
		string(status))
	return list, err
}

// Create inserts a new order in pending status.
func (r *OrderRepository) Create(ctx context.Context, o *models.ProductOrder) error {
	return r.db.QueryRowxContext(ctx,
		`INSERT INTO product_orders (
            order_number, reseller_id, client_id, product_id, status,
            provision_method, address, contact_name, contact_phone, sim_serial
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING id, created_at`,
		o.OrderNumber, o.ResellerID, o.ClientID, o.ProductID, o.Status,
		o.ProvisionMethod, o.Address, o.ContactName, o.ContactPhone, o.SIMSerial,
	).Scan(&o.ID, &o.CreatedAt)
}

// Decide transitions a pending order to its terminal status. The WHERE
// clause pins the current status so a concurrent decision cannot apply
// twice; zero rows affected means the order was no longer pending (or
// does not exist), which the service resolves into the proper error.
func (r *OrderRepository) Decide(ctx context.Context, orderID int, status models.OrderStatus, rejectionReason *string, decidedBy int) (*models.ProductOrder, error) {
	now := time.Now()
	var o models.ProductOrder
	err := r.db.GetContext(ctx, &o,
		`UPDATE product_orders
         SET status = $1, rejection_reason = $2, decided_by = $3, decided_at = $4
         WHERE id = $5 AND status = 'pending'
         RETURNING `+orderColumns,
		status, rejectionReason, decidedBy, now, orderID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &o, nil
}

// SetProvisionError records a provider failure that occurred after
// approval. The order stays active; provisioning is retried out-of-band.
func (r *OrderRepository) SetProvisionError(ctx context.Context, orderID int, message string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE product_orders SET provision_error = $1 WHERE id = $2`, message, orderID)
	return err
}
