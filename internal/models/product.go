package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductStatus enumerates catalog availability states. Products are
// retired by status rather than hard delete once referenced.
type ProductStatus string

const (
	ProductActive     ProductStatus = "active"
	ProductLimited    ProductStatus = "limited"
	ProductOutOfStock ProductStatus = "out_of_stock"
)

// BillingType distinguishes one-off charges from monthly subscriptions.
// Monthly products are prorated when purchased mid-month.
type BillingType string

const (
	BillingOneTime BillingType = "one_time"
	BillingMonthly BillingType = "monthly"
)

// Product represents a catalog entry with three price tiers: the base
// price and the two reseller-group prices.
type Product struct {
	ID          int             `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	BasePrice   decimal.Decimal `db:"base_price" json:"basePrice"`
	Group1Price decimal.Decimal `db:"group1_price" json:"group1Price"`
	Group2Price decimal.Decimal `db:"group2_price" json:"group2Price"`
	Status      ProductStatus   `db:"status" json:"status"`
	Billing     BillingType     `db:"billing" json:"billing"`
	CategoryID  int             `db:"category_id" json:"categoryId"`
	ProviderSKU *string         `db:"provider_sku" json:"providerSku,omitempty"`
	Description string          `db:"description" json:"description"`
	CreatedAt   time.Time       `db:"created_at" json:"-"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updatedAt"`
}

// PricedProduct is a Product with the effective price already resolved
// for a reseller group. Used by the reseller-facing catalog listing.
type PricedProduct struct {
	Product
	EffectivePrice decimal.Decimal `json:"effectivePrice"`
}
