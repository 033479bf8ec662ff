package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/nexatel/portal_api/internal/models"
	"github.com/nexatel/portal_api/internal/utils"
)

// TransactionRepository handles data access for the ledger. Ledger rows
// are append-only: there is deliberately no Update or Delete here.
type TransactionRepository struct {
	db *sqlx.DB
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(db *sqlx.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Append inserts a ledger entry and applies delta to the user's
// denormalized balance inside one database transaction. The user row is
// locked first so that concurrent purchases by the same user serialize
// instead of losing updates. When enforce is true the write fails with
// *utils.InsufficientBalanceError if the locked balance is below amount.
// A zero delta inserts the entry without touching the balance (debit-mode
// bookkeeping).
func (r *TransactionRepository) Append(
	ctx context.Context,
	userID int,
	trxType models.TransactionType,
	amount decimal.Decimal,
	description string,
	delta decimal.Decimal,
	enforce bool,
) (*models.Transaction, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var balance decimal.Decimal
	err = tx.QueryRowxContext(ctx,
		`SELECT credit_balance FROM users WHERE id = $1 FOR UPDATE`, userID,
	).Scan(&balance)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}

	if enforce && balance.LessThan(amount) {
		return nil, &utils.InsufficientBalanceError{Required: amount, Available: balance}
	}

	trx := &models.Transaction{
		UserID:      userID,
		Type:        trxType,
		Amount:      amount,
		Description: description,
	}
	err = tx.QueryRowxContext(ctx,
		`INSERT INTO transactions (user_id, type, amount, description)
         VALUES ($1, $2, $3, $4)
         RETURNING id, created_at`,
		trx.UserID, trx.Type, trx.Amount, trx.Description,
	).Scan(&trx.ID, &trx.CreatedAt)
	if err != nil {
		return nil, err
	}

	if !delta.IsZero() {
		if _, err := tx.ExecContext(ctx,
			`UPDATE users SET credit_balance = credit_balance + $1, updated_at = NOW() WHERE id = $2`,
			delta, userID,
		); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return trx, nil
}

// ListByUser returns a page of a user's ledger, newest first, plus the
// total row count for pagination.
func (r *TransactionRepository) ListByUser(ctx context.Context, userID, page, limit int) ([]models.Transaction, int, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var total int
	if err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM transactions WHERE user_id = $1`, userID); err != nil {
		return nil, 0, err
	}

	var list []models.Transaction
	err := r.db.SelectContext(ctx, &list,
		`SELECT id, user_id, type, amount, description, created_at
         FROM transactions
         WHERE user_id = $1
         ORDER BY created_at DESC, id DESC
         LIMIT $2 OFFSET $3`,
		userID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListAll returns a page of the full ledger for admin review.
func (r *TransactionRepository) ListAll(ctx context.Context, page, limit int) ([]models.Transaction, int, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM transactions`); err != nil {
		return nil, 0, err
	}

	var list []models.Transaction
	err := r.db.SelectContext(ctx, &list,
		`SELECT id, user_id, type, amount, description, created_at
         FROM transactions
         ORDER BY created_at DESC, id DESC
         LIMIT $1 OFFSET $2`,
		limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// BalanceDrift is one row of the reconcile query: a credit-mode user
// whose denormalized balance disagrees with the ledger sum.
type BalanceDrift struct {
	UserID     int             `db:"user_id"`
	Username   string          `db:"username"`
	Balance    decimal.Decimal `db:"balance"`
	LedgerSum  decimal.Decimal `db:"ledger_sum"`
	Difference decimal.Decimal `db:"difference"`
}

// FindBalanceDrift compares each credit-mode user's denormalized balance
// against sum(credits) - sum(debits) and returns the users that differ.
// Used by the reconcile worker; read-only.
func (r *TransactionRepository) FindBalanceDrift(ctx context.Context) ([]BalanceDrift, error) {
	const q = `
        SELECT u.id AS user_id,
               u.username,
               u.credit_balance AS balance,
               COALESCE(SUM(CASE t.type WHEN 'credit' THEN t.amount ELSE -t.amount END), 0) AS ledger_sum,
               u.credit_balance - COALESCE(SUM(CASE t.type WHEN 'credit' THEN t.amount ELSE -t.amount END), 0) AS difference
        FROM users u
        LEFT JOIN transactions t ON t.user_id = u.id
        WHERE u.payment_mode = 'credit'
        GROUP BY u.id, u.username, u.credit_balance
        HAVING u.credit_balance <> COALESCE(SUM(CASE t.type WHEN 'credit' THEN t.amount ELSE -t.amount END), 0)`

	var drift []BalanceDrift
	if err := r.db.SelectContext(ctx, &drift, q); err != nil {
		return nil, err
	}
	return drift, nil
}
