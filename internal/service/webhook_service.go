package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/nexatel/portal_api/internal/models"
	"github.com/nexatel/portal_api/internal/utils"
)

// WebhookService applies provider provisioning callbacks to the
// affected service instance.
type WebhookService struct {
	userProducts UserProductStore
	usageCache   UsageInvalidator
}

// NewWebhookService constructs a WebhookService.
func NewWebhookService(userProducts UserProductStore, usageCache UsageInvalidator) *WebhookService {
	return &WebhookService{userProducts: userProducts, usageCache: usageCache}
}

// StatusCallback is the provider's webhook payload.
type StatusCallback struct {
	Ref    string `json:"ref" binding:"required"`
	Status string `json:"status" binding:"required"`
}

// HandleStatusCallback updates the instance matching the provider
// reference. Statuses outside the portal's vocabulary are rejected so
// the provider retries once its payload is fixed.
func (s *WebhookService) HandleStatusCallback(ctx context.Context, cb *StatusCallback) error {
	up, err := s.userProducts.GetByProviderRef(ctx, cb.Ref)
	if err != nil {
		return err
	}

	var status models.UserProductStatus
	switch cb.Status {
	case "active":
		status = models.UserProductActive
	case "suspended":
		status = models.UserProductSuspended
	default:
		log.Warn().Str("ref", cb.Ref).Str("status", cb.Status).Msg("rejecting unknown provider status")
		return utils.NewValidationError("status", "unknown status value")
	}

	if err := s.userProducts.UpdateStatus(ctx, up.ID, status); err != nil {
		return err
	}
	s.invalidateUsage(ctx, up.ID)
	log.Info().Str("ref", cb.Ref).Str("status", string(status)).Msg("provider status applied")
	return nil
}

// invalidateUsage drops cached usage for every endpoint of the instance
// so the next dashboard query sees the new provider state. The cache is
// only an accelerator, so failures warn instead of failing the callback.
func (s *WebhookService) invalidateUsage(ctx context.Context, userProductID int) {
	if s.usageCache == nil {
		return
	}
	endpoints, err := s.userProducts.ListEndpoints(ctx, userProductID)
	if err != nil {
		log.Warn().Err(err).Int("user_product_id", userProductID).Msg("failed to list endpoints for cache invalidation")
		return
	}
	for _, ep := range endpoints {
		if err := s.usageCache.Invalidate(ctx, ep.ID); err != nil {
			log.Warn().Err(err).Int("endpoint_id", ep.ID).Msg("failed to invalidate usage cache")
		}
	}
}
