package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// UserRole enumerates portal roles.
type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleReseller UserRole = "reseller"
)

// PaymentMode enumerates reseller billing methods.
type PaymentMode string

const (
	// PaymentCredit is prepaid: purchases are charged against the
	// reseller's credit balance and rejected when it is insufficient.
	PaymentCredit PaymentMode = "credit"
	// PaymentDebit is post-paid: purchases always succeed and are billed
	// out-of-band; the balance column is not consulted or mutated.
	PaymentDebit PaymentMode = "debit"
)

// User represents a portal account, either an admin or a reseller.
// The password hash is never serialized into responses.
type User struct {
	ID              int             `db:"id" json:"id"`
	Username        string          `db:"username" json:"username"`
	PasswordHash    string          `db:"password_hash" json:"-"`
	Role            UserRole        `db:"role" json:"role"`
	PaymentMode     PaymentMode     `db:"payment_mode" json:"paymentMode"`
	CreditBalance   decimal.Decimal `db:"credit_balance" json:"creditBalance"`
	ResellerGroup   int             `db:"reseller_group" json:"resellerGroup"`
	DashboardLayout json.RawMessage `db:"dashboard_layout" json:"dashboardLayout,omitempty"`
	IsActive        bool            `db:"is_active" json:"isActive"`
	CreatedAt       time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updatedAt"`
}
