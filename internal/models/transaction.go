package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the direction of a ledger entry.
type TransactionType string

const (
	TrxCredit TransactionType = "credit"
	TrxDebit  TransactionType = "debit"
)

// Transaction is an append-only ledger entry for a user. Rows are never
// updated or deleted; the denormalized users.credit_balance must always
// equal the sum of credits minus the sum of debits for that user.
type Transaction struct {
	ID          int             `db:"id" json:"id"`
	UserID      int             `db:"user_id" json:"userId"`
	Type        TransactionType `db:"type" json:"type"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	Description string          `db:"description" json:"description"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
}
