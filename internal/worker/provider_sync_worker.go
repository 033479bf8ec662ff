package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nexatel/portal_api/internal/models"
	"github.com/nexatel/portal_api/internal/repository"
	"github.com/nexatel/portal_api/internal/service"
	"github.com/nexatel/portal_api/pkg/provitel"
)

// ProviderSyncWorker periodically pulls the provider-side status of
// every active service instance. The webhook is the primary channel;
// this loop catches callbacks that never arrived.
type ProviderSyncWorker struct {
	userProducts *repository.UserProductRepository
	products     *repository.ProductRepository
	categories   *repository.CategoryRepository
	providers    service.ProviderRegistry
	interval     time.Duration
}

// NewProviderSyncWorker constructs a ProviderSyncWorker.
func NewProviderSyncWorker(
	userProducts *repository.UserProductRepository,
	products *repository.ProductRepository,
	categories *repository.CategoryRepository,
	providers service.ProviderRegistry,
	interval time.Duration,
) *ProviderSyncWorker {
	return &ProviderSyncWorker{
		userProducts: userProducts,
		products:     products,
		categories:   categories,
		providers:    providers,
		interval:     interval,
	}
}

// Start begins the periodic status sync loop until context is canceled.
func (w *ProviderSyncWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting provider sync worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Provider sync worker stopped")
			return
		}
	}
}

func (w *ProviderSyncWorker) run(ctx context.Context) {
	active, err := w.userProducts.ListActive(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list active instances")
		return
	}
	if len(active) == 0 {
		return
	}

	log.Info().Int("count", len(active)).Msg("Syncing instance status with provider")

	for i := range active {
		select {
		case <-ctx.Done():
			return
		default:
			w.syncInstance(ctx, &active[i])
		}
	}
}

func (w *ProviderSyncWorker) syncInstance(ctx context.Context, up *models.UserProduct) {
	api, err := w.providerFor(ctx, up.ProductID)
	if err != nil {
		log.Warn().Err(err).Int("user_product_id", up.ID).Msg("No provider for instance, skipping")
		return
	}

	resp, err := api.ServiceStatus(ctx, up.ProviderRef)
	if err != nil {
		// Network errors resolve themselves on the next run.
		log.Warn().Err(err).Str("ref", up.ProviderRef).Msg("Status query failed, will retry later")
		return
	}

	if resp.Status == provitel.StatusSuspended && up.Status != models.UserProductSuspended {
		if err := w.userProducts.UpdateStatus(ctx, up.ID, models.UserProductSuspended); err != nil {
			log.Error().Err(err).Int("user_product_id", up.ID).Msg("Failed to suspend instance")
			return
		}
		log.Info().Str("ref", up.ProviderRef).Msg("Instance suspended from provider sync")
	}
}

func (w *ProviderSyncWorker) providerFor(ctx context.Context, productID int) (service.ProviderAPI, error) {
	product, err := w.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	category, err := w.categories.GetByID(ctx, product.CategoryID)
	if err != nil {
		return nil, err
	}
	return w.providers.ForMasterCategory(category.MasterCategory)
}
