package models

import "time"

// OrderStatus enumerates the order lifecycle. pending is the only
// non-terminal state; transitions are admin-only and one-directional.
type OrderStatus string

const (
	OrderPending  OrderStatus = "pending"
	OrderActive   OrderStatus = "active"
	OrderRejected OrderStatus = "rejected"
)

// ProvisionMethod describes how an order is fulfilled.
type ProvisionMethod string

const (
	// ProvisionCourier ships hardware to the client; address and contact
	// details are required.
	ProvisionCourier ProvisionMethod = "courier"
	// ProvisionSelf activates a SIM the client already has; the SIM
	// serial number is required.
	ProvisionSelf ProvisionMethod = "self"
)

// ProductOrder is a reseller's provisioning order for a client. It is
// created pending and mutated exactly once by an admin decision.
type ProductOrder struct {
	ID              int             `db:"id" json:"id"`
	OrderNumber     string          `db:"order_number" json:"orderNumber"`
	ResellerID      int             `db:"reseller_id" json:"resellerId"`
	ClientID        int             `db:"client_id" json:"clientId"`
	ProductID       int             `db:"product_id" json:"productId"`
	Status          OrderStatus     `db:"status" json:"status"`
	ProvisionMethod ProvisionMethod `db:"provision_method" json:"provisionMethod"`
	Address         *string         `db:"address" json:"address,omitempty"`
	ContactName     *string         `db:"contact_name" json:"contactName,omitempty"`
	ContactPhone    *string         `db:"contact_phone" json:"contactPhone,omitempty"`
	SIMSerial       *string         `db:"sim_serial" json:"simSerial,omitempty"`
	RejectionReason *string         `db:"rejection_reason" json:"rejectionReason,omitempty"`
	ProvisionError  *string         `db:"provision_error" json:"provisionError,omitempty"`
	DecidedBy       *int            `db:"decided_by" json:"decidedBy,omitempty"`
	DecidedAt       *time.Time      `db:"decided_at" json:"decidedAt,omitempty"`
	CreatedAt       time.Time       `db:"created_at" json:"createdAt"`
}
