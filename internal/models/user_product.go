package models

import (
	"encoding/json"
	"time"
)

// UserProductStatus tracks the provider-side state of an assigned
// product instance. Suspension of an already-provisioned service is
// handled here, not on the order.
type UserProductStatus string

const (
	UserProductActive    UserProductStatus = "active"
	UserProductSuspended UserProductStatus = "suspended"
)

// UserProduct is a reseller's assigned instance of a product, tied to a
// provider-side reference once provisioned.
type UserProduct struct {
	ID          int               `db:"id" json:"id"`
	UserID      int               `db:"user_id" json:"userId"`
	ClientID    *int              `db:"client_id" json:"clientId,omitempty"`
	ProductID   int               `db:"product_id" json:"productId"`
	ProviderRef string            `db:"provider_ref" json:"providerRef"`
	Status      UserProductStatus `db:"status" json:"status"`
	CreatedAt   time.Time         `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time         `db:"updated_at" json:"updatedAt"`
}

// UserProductEndpoint holds per-instance provider API call configuration
// used to query usage/status for a UserProduct. Pass-through data: the
// portal stores it and replays it against the provider, nothing more.
type UserProductEndpoint struct {
	ID            int             `db:"id" json:"id"`
	UserProductID int             `db:"user_product_id" json:"userProductId"`
	Name          string          `db:"name" json:"name"`
	Path          string          `db:"path" json:"path"`
	Params        json.RawMessage `db:"params" json:"params,omitempty"`
	AuthUsername  string          `db:"auth_username" json:"authUsername,omitempty"`
	AuthPassword  string          `db:"auth_password" json:"-"`
	CreatedAt     time.Time       `db:"created_at" json:"createdAt"`
}
