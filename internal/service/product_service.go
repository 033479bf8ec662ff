package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/nexatel/portal_api/internal/models"
	"github.com/nexatel/portal_api/internal/utils"
)

// ProductService manages the product catalog: admin CRUD plus the
// reseller-facing listing with group-resolved effective prices.
type ProductService struct {
	products   CatalogStore
	categories CategoryStore
}

// NewProductService constructs a ProductService.
func NewProductService(products CatalogStore, categories CategoryStore) *ProductService {
	return &ProductService{products: products, categories: categories}
}

// ProductInput is the admin payload for creating or updating a product.
type ProductInput struct {
	Name        string          `json:"name" binding:"required"`
	BasePrice   decimal.Decimal `json:"basePrice" binding:"required"`
	Group1Price decimal.Decimal `json:"group1Price" binding:"required"`
	Group2Price decimal.Decimal `json:"group2Price" binding:"required"`
	Status      string          `json:"status" binding:"required"`
	Billing     string          `json:"billing" binding:"required"`
	CategoryID  int             `json:"categoryId" binding:"required"`
	ProviderSKU *string         `json:"providerSku"`
	Description string          `json:"description"`
}

func (in *ProductInput) validate() error {
	switch models.ProductStatus(in.Status) {
	case models.ProductActive, models.ProductLimited, models.ProductOutOfStock:
	default:
		return utils.NewValidationError("status", "must be active, limited or out_of_stock")
	}
	switch models.BillingType(in.Billing) {
	case models.BillingOneTime, models.BillingMonthly:
	default:
		return utils.NewValidationError("billing", "must be one_time or monthly")
	}
	if in.BasePrice.IsNegative() || in.Group1Price.IsNegative() || in.Group2Price.IsNegative() {
		return utils.NewValidationError("price", "prices must not be negative")
	}
	return nil
}

func (in *ProductInput) apply(p *models.Product) {
	p.Name = in.Name
	p.BasePrice = in.BasePrice
	p.Group1Price = in.Group1Price
	p.Group2Price = in.Group2Price
	p.Status = models.ProductStatus(in.Status)
	p.Billing = models.BillingType(in.Billing)
	p.CategoryID = in.CategoryID
	p.ProviderSKU = in.ProviderSKU
	p.Description = in.Description
}

// CreateProduct validates and inserts a catalog entry.
func (s *ProductService) CreateProduct(ctx context.Context, in *ProductInput) (*models.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if _, err := s.categories.GetByID(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	p := &models.Product{}
	in.apply(p)
	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateProduct applies an explicit admin edit to an existing product.
func (s *ProductService) UpdateProduct(ctx context.Context, id int, in *ProductInput) (*models.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.categories.GetByID(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	in.apply(p)
	if err := s.products.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// DeleteProduct removes a product that nothing references. Referenced
// products must be retired via status instead.
func (s *ProductService) DeleteProduct(ctx context.Context, id int) error {
	if _, err := s.products.GetByID(ctx, id); err != nil {
		return err
	}
	referenced, err := s.products.IsReferenced(ctx, id)
	if err != nil {
		return err
	}
	if referenced {
		return utils.ErrProductReferenced
	}
	return s.products.Delete(ctx, id)
}

// GetProduct fetches one product.
func (s *ProductService) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	return s.products.GetByID(ctx, id)
}

// ListProducts returns the admin view of the catalog.
func (s *ProductService) ListProducts(ctx context.Context, categoryID int) ([]models.Product, error) {
	return s.products.List(ctx, categoryID, false)
}

// Catalog returns the reseller-facing listing: available products with
// the effective price for the caller's group resolved in.
func (s *ProductService) Catalog(ctx context.Context, resellerGroup, categoryID int) ([]models.PricedProduct, error) {
	products, err := s.products.List(ctx, categoryID, true)
	if err != nil {
		return nil, err
	}

	priced := make([]models.PricedProduct, 0, len(products))
	for i := range products {
		priced = append(priced, models.PricedProduct{
			Product:        products[i],
			EffectivePrice: PriceForGroup(&products[i], resellerGroup),
		})
	}
	return priced, nil
}
