package models

import "time"

// Client is a reseller's end customer. Clients are owned by exactly one
// reseller and are only visible to that reseller and admins.
type Client struct {
	ID         int       `db:"id" json:"id"`
	ResellerID int       `db:"reseller_id" json:"resellerId"`
	Name       string    `db:"name" json:"name"`
	Email      string    `db:"email" json:"email"`
	Phone      string    `db:"phone" json:"phone"`
	Address    string    `db:"address" json:"address"`
	IsActive   bool      `db:"is_active" json:"isActive"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}
