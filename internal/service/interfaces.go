package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/nexatel/portal_api/internal/models"
	"github.com/nexatel/portal_api/internal/repository"
	"github.com/nexatel/portal_api/pkg/provitel"
)

// Narrow store interfaces consumed by the services. The concrete
// repositories satisfy them; tests substitute fakes.

// UserStore reads user accounts.
type UserStore interface {
	GetByID(ctx context.Context, id int) (*models.User, error)
}

// ProductStore reads catalog entries.
type ProductStore interface {
	GetByID(ctx context.Context, id int) (*models.Product, error)
}

// CatalogStore is the full catalog surface used by admin product
// management.
type CatalogStore interface {
	ProductStore
	List(ctx context.Context, categoryID int, availableOnly bool) ([]models.Product, error)
	Create(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, p *models.Product) error
	IsReferenced(ctx context.Context, id int) (bool, error)
	Delete(ctx context.Context, id int) error
}

// CategoryStore reads product categories.
type CategoryStore interface {
	GetByID(ctx context.Context, id int) (*models.ProductCategory, error)
}

// CategoryTreeStore is the full category surface used by admin tree
// management.
type CategoryTreeStore interface {
	CategoryStore
	List(ctx context.Context, activeOnly bool) ([]models.ProductCategory, error)
	Create(ctx context.Context, c *models.ProductCategory) error
	Update(ctx context.Context, c *models.ProductCategory) error
	IsReferenced(ctx context.Context, id int) (bool, error)
	Delete(ctx context.Context, id int) error
}

// ClientStore reads reseller end customers.
type ClientStore interface {
	GetByID(ctx context.Context, id int) (*models.Client, error)
}

// LedgerStore appends and reads ledger entries. Append is the single
// write path for balances: one ledger row per balance mutation,
// atomically.
type LedgerStore interface {
	Append(ctx context.Context, userID int, trxType models.TransactionType,
		amount decimal.Decimal, description string,
		delta decimal.Decimal, enforce bool) (*models.Transaction, error)
	ListByUser(ctx context.Context, userID, page, limit int) ([]models.Transaction, int, error)
	ListAll(ctx context.Context, page, limit int) ([]models.Transaction, int, error)
}

// OrderStore persists provisioning orders.
type OrderStore interface {
	GetByID(ctx context.Context, id int) (*models.ProductOrder, error)
	ListByReseller(ctx context.Context, resellerID int) ([]models.ProductOrder, error)
	ListByStatus(ctx context.Context, status models.OrderStatus) ([]models.ProductOrder, error)
	Create(ctx context.Context, o *models.ProductOrder) error
	Decide(ctx context.Context, orderID int, status models.OrderStatus, rejectionReason *string, decidedBy int) (*models.ProductOrder, error)
	SetProvisionError(ctx context.Context, orderID int, message string) error
}

// UserProductStore persists assigned product instances and endpoints.
type UserProductStore interface {
	GetByID(ctx context.Context, id int) (*models.UserProduct, error)
	GetByProviderRef(ctx context.Context, ref string) (*models.UserProduct, error)
	ListByUser(ctx context.Context, userID int) ([]models.UserProduct, error)
	Create(ctx context.Context, up *models.UserProduct) error
	UpdateStatus(ctx context.Context, id int, status models.UserProductStatus) error
	GetEndpointByID(ctx context.Context, id int) (*models.UserProductEndpoint, error)
	ListEndpoints(ctx context.Context, userProductID int) ([]models.UserProductEndpoint, error)
	CreateEndpoint(ctx context.Context, ep *models.UserProductEndpoint) error
}

// UsageInvalidator drops cached usage results when provider-side state
// changes.
type UsageInvalidator interface {
	Invalidate(ctx context.Context, endpointID int) error
}

// ProviderAPI is the surface of the provisioning client the services
// depend on.
type ProviderAPI interface {
	RegisterSIM(ctx context.Context, req *provitel.RegisterSIMRequest) (*provitel.RegisterSIMResponse, error)
	ServiceStatus(ctx context.Context, ref string) (*provitel.StatusResponse, error)
	Usage(ctx context.Context, path string, params map[string]string) (*provitel.UsageResponse, error)
}

// ProviderRegistry resolves the provisioning client for a master
// category.
type ProviderRegistry interface {
	ForMasterCategory(mc models.MasterCategory) (ProviderAPI, error)
}

var (
	_ UserStore         = (*repository.UserRepository)(nil)
	_ ProductStore      = (*repository.ProductRepository)(nil)
	_ CatalogStore      = (*repository.ProductRepository)(nil)
	_ CategoryStore     = (*repository.CategoryRepository)(nil)
	_ CategoryTreeStore = (*repository.CategoryRepository)(nil)
	_ ClientStore       = (*repository.ClientRepository)(nil)
	_ LedgerStore       = (*repository.TransactionRepository)(nil)
	_ OrderStore        = (*repository.OrderRepository)(nil)
	_ UserProductStore  = (*repository.UserProductRepository)(nil)
)
