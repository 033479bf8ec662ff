package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/nexatel/portal_api/internal/cache"
	"github.com/nexatel/portal_api/internal/models"
	"github.com/nexatel/portal_api/internal/utils"
)

// UsageService executes the per-instance provider usage queries defined
// by UserProductEndpoint rows, caching results so dashboard refreshes do
// not hammer the provisioning API.
type UsageService struct {
	userProducts UserProductStore
	products     ProductStore
	categories   CategoryStore
	providers    ProviderRegistry
	usageCache   *cache.UsageCache
}

// NewUsageService constructs a UsageService.
func NewUsageService(
	userProducts UserProductStore,
	products ProductStore,
	categories CategoryStore,
	providers ProviderRegistry,
	usageCache *cache.UsageCache,
) *UsageService {
	return &UsageService{
		userProducts: userProducts,
		products:     products,
		categories:   categories,
		providers:    providers,
		usageCache:   usageCache,
	}
}

// ListInstances returns the reseller's assigned product instances.
func (s *UsageService) ListInstances(ctx context.Context, resellerID int) ([]models.UserProduct, error) {
	return s.userProducts.ListByUser(ctx, resellerID)
}

// ListEndpoints returns the usage endpoints of an instance the reseller
// owns.
func (s *UsageService) ListEndpoints(ctx context.Context, resellerID, userProductID int) ([]models.UserProductEndpoint, error) {
	if _, err := s.ownedInstance(ctx, resellerID, userProductID); err != nil {
		return nil, err
	}
	return s.userProducts.ListEndpoints(ctx, userProductID)
}

// EndpointInput is the admin payload for attaching a provider usage
// query to an instance.
type EndpointInput struct {
	Name         string          `json:"name" binding:"required"`
	Path         string          `json:"path" binding:"required"`
	Params       json.RawMessage `json:"params"`
	AuthUsername string          `json:"authUsername"`
	AuthPassword string          `json:"authPassword"`
}

// AddEndpoint attaches a usage endpoint to an instance. Admin only; the
// route gate enforces the role. Params are validated here so QueryUsage
// never trips over a malformed stored row.
func (s *UsageService) AddEndpoint(ctx context.Context, userProductID int, in *EndpointInput) (*models.UserProductEndpoint, error) {
	if _, err := s.userProducts.GetByID(ctx, userProductID); err != nil {
		return nil, err
	}
	if len(in.Params) > 0 {
		var custom map[string]string
		if err := json.Unmarshal(in.Params, &custom); err != nil {
			return nil, utils.NewValidationError("params", "must be a flat JSON object of strings")
		}
	}

	ep := &models.UserProductEndpoint{
		UserProductID: userProductID,
		Name:          in.Name,
		Path:          in.Path,
		Params:        in.Params,
		AuthUsername:  in.AuthUsername,
		AuthPassword:  in.AuthPassword,
	}
	if err := s.userProducts.CreateEndpoint(ctx, ep); err != nil {
		return nil, err
	}
	return ep, nil
}

// QueryUsage executes one endpoint's provider query for the owning
// reseller, serving from cache when fresh.
func (s *UsageService) QueryUsage(ctx context.Context, resellerID, endpointID int) (*cache.UsageData, error) {
	ep, err := s.userProducts.GetEndpointByID(ctx, endpointID)
	if err != nil {
		return nil, err
	}
	up, err := s.ownedInstance(ctx, resellerID, ep.UserProductID)
	if err != nil {
		return nil, err
	}

	if s.usageCache != nil {
		cached, err := s.usageCache.Get(ctx, ep.ID)
		if err == nil && cached != nil {
			log.Debug().Int("endpoint_id", ep.ID).Msg("usage cache hit")
			return cached, nil
		} else if err != nil && err != redis.Nil {
			log.Warn().Err(err).Msg("failed to read usage cache")
		}
	}

	api, err := s.providerFor(ctx, up.ProductID)
	if err != nil {
		return nil, err
	}

	params := map[string]string{"ref": up.ProviderRef}
	if len(ep.Params) > 0 {
		var custom map[string]string
		if err := json.Unmarshal(ep.Params, &custom); err != nil {
			return nil, fmt.Errorf("invalid endpoint params: %w", err)
		}
		for k, v := range custom {
			params[k] = v
		}
	}

	resp, err := api.Usage(ctx, ep.Path, params)
	if err != nil {
		return nil, fmt.Errorf("usage query failed: %w", err)
	}

	data := &cache.UsageData{
		EndpointID:  ep.ID,
		ProviderRef: up.ProviderRef,
		Payload:     resp.Data,
	}
	if s.usageCache != nil {
		if err := s.usageCache.Set(ctx, data); err != nil {
			log.Warn().Err(err).Msg("failed to cache usage result")
			// Query succeeded, carry on.
		}
	}
	return data, nil
}

// ownedInstance loads an instance and enforces reseller ownership.
// Admins pass resellerID 0 to bypass the check.
func (s *UsageService) ownedInstance(ctx context.Context, resellerID, userProductID int) (*models.UserProduct, error) {
	up, err := s.userProducts.GetByID(ctx, userProductID)
	if err != nil {
		return nil, err
	}
	if resellerID != 0 && up.UserID != resellerID {
		return nil, utils.ErrNotFound
	}
	return up, nil
}

// providerFor resolves the provisioning client through the product's
// category chain.
func (s *UsageService) providerFor(ctx context.Context, productID int) (ProviderAPI, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	category, err := s.categories.GetByID(ctx, product.CategoryID)
	if err != nil {
		return nil, err
	}
	return s.providers.ForMasterCategory(category.MasterCategory)
}
