package service

import (
	"github.com/nexatel/portal_api/internal/models"
	"github.com/nexatel/portal_api/internal/utils"
)

// Registry maps the two master categories to their provisioning
// clients. A category without configured credentials resolves to
// ErrProviderDisabled so callers degrade gracefully.
type Registry struct {
	mobile ProviderAPI
	fixed  ProviderAPI
}

// NewRegistry constructs a Registry. Either client may be nil when its
// credentials are absent from config.
func NewRegistry(mobile, fixed ProviderAPI) *Registry {
	return &Registry{mobile: mobile, fixed: fixed}
}

// ForMasterCategory resolves the client for a master category.
func (r *Registry) ForMasterCategory(mc models.MasterCategory) (ProviderAPI, error) {
	switch mc {
	case models.MasterMobile:
		if r.mobile != nil {
			return r.mobile, nil
		}
	case models.MasterFixed:
		if r.fixed != nil {
			return r.fixed, nil
		}
	}
	return nil, utils.ErrProviderDisabled
}
