package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/nexatel/portal_api/internal/models"
	"github.com/nexatel/portal_api/internal/utils"
)

// UserRepository provides data access methods for the users table.
// Balance mutations do NOT happen here; they go through
// TransactionRepository.Append so that every balance change is paired
// with a ledger row.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, username, password_hash, role, payment_mode, credit_balance,
    reseller_group, dashboard_layout, is_active, created_at, updated_at`

// GetByID finds a user by numeric id.
func (r *UserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	var u models.User
	err := r.db.GetContext(ctx, &u,
		`SELECT `+userColumns+` FROM users WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByUsername finds a user by username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := r.db.GetContext(ctx, &u,
		`SELECT `+userColumns+` FROM users WHERE username = $1 LIMIT 1`, username)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user. CreditBalance starts at zero; initial funds
// arrive through the ledger.
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	return r.db.QueryRowxContext(ctx,
		`INSERT INTO users (username, password_hash, role, payment_mode, reseller_group, dashboard_layout, is_active)
         VALUES ($1, $2, $3, $4, $5, $6, $7)
         RETURNING id, credit_balance, created_at, updated_at`,
		u.Username, u.PasswordHash, u.Role, u.PaymentMode, u.ResellerGroup, nullableJSON(u.DashboardLayout), u.IsActive,
	).Scan(&u.ID, &u.CreditBalance, &u.CreatedAt, &u.UpdatedAt)
}

// Update updates account settings. The balance column is intentionally
// absent from this statement.
func (r *UserRepository) Update(ctx context.Context, u *models.User) error {
	err := r.db.QueryRowxContext(ctx,
		`UPDATE users
         SET payment_mode = $1, reseller_group = $2, is_active = $3, updated_at = NOW()
         WHERE id = $4
         RETURNING updated_at`,
		u.PaymentMode, u.ResellerGroup, u.IsActive, u.ID,
	).Scan(&u.UpdatedAt)
	if err == sql.ErrNoRows {
		return utils.ErrNotFound
	}
	return err
}

// UpdateDashboardLayout stores the opaque dashboard JSON for a user.
func (r *UserRepository) UpdateDashboardLayout(ctx context.Context, id int, layout []byte) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET dashboard_layout = $1, updated_at = NOW() WHERE id = $2`,
		nullableJSON(layout), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return utils.ErrNotFound
	}
	return nil
}

// ListResellers retrieves all reseller accounts, newest first.
func (r *UserRepository) ListResellers(ctx context.Context) ([]models.User, error) {
	var list []models.User
	err := r.db.SelectContext(ctx, &list,
		`SELECT `+userColumns+` FROM users WHERE role = 'reseller' ORDER BY created_at DESC`)
	return list, err
}

// nullableJSON converts an empty JSON payload to nil for proper NULL
// handling in PostgreSQL.
func nullableJSON(v []byte) interface{} {
	if len(v) == 0 {
		return nil
	}
	return v
}
