package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/nexatel/portal_api/internal/models"
	"github.com/nexatel/portal_api/internal/utils"
	"github.com/nexatel/portal_api/pkg/provitel"
)

// OrderService governs the provisioning order lifecycle: resellers
// submit pending orders, admins decide them exactly once. Billing is
// deliberately decoupled; nothing here touches the ledger.
type OrderService struct {
	orders       OrderStore
	clients      ClientStore
	products     ProductStore
	categories   CategoryStore
	userProducts UserProductStore
	providers    ProviderRegistry
}

// NewOrderService constructs an OrderService.
func NewOrderService(
	orders OrderStore,
	clients ClientStore,
	products ProductStore,
	categories CategoryStore,
	userProducts UserProductStore,
	providers ProviderRegistry,
) *OrderService {
	return &OrderService{
		orders:       orders,
		clients:      clients,
		products:     products,
		categories:   categories,
		userProducts: userProducts,
		providers:    providers,
	}
}

// CreateOrderRequest is the input for order submission.
type CreateOrderRequest struct {
	ClientID        int    `json:"clientId" binding:"required"`
	ProductID       int    `json:"productId" binding:"required"`
	ProvisionMethod string `json:"provisionMethod" binding:"required"`
	Address         string `json:"address"`
	ContactName     string `json:"contactName"`
	ContactPhone    string `json:"contactPhone"`
	SIMSerial       string `json:"simSerial"`
}

// CreateOrder validates the method-specific fields and records a
// pending order.
func (s *OrderService) CreateOrder(ctx context.Context, resellerID int, req *CreateOrderRequest) (*models.ProductOrder, error) {
	method := models.ProvisionMethod(req.ProvisionMethod)
	switch method {
	case models.ProvisionCourier:
		if strings.TrimSpace(req.Address) == "" {
			return nil, utils.NewValidationError("address", "")
		}
		if strings.TrimSpace(req.ContactName) == "" {
			return nil, utils.NewValidationError("contactName", "")
		}
		if strings.TrimSpace(req.ContactPhone) == "" {
			return nil, utils.NewValidationError("contactPhone", "")
		}
	case models.ProvisionSelf:
		if strings.TrimSpace(req.SIMSerial) == "" {
			return nil, utils.NewValidationError("simSerial", "")
		}
	default:
		return nil, utils.NewValidationError("provisionMethod", "must be courier or self")
	}

	client, err := s.clients.GetByID(ctx, req.ClientID)
	if err != nil {
		return nil, err
	}
	if client.ResellerID != resellerID {
		return nil, utils.ErrNotFound
	}

	if _, err := s.products.GetByID(ctx, req.ProductID); err != nil {
		return nil, err
	}

	order := &models.ProductOrder{
		OrderNumber:     "ORD-" + strings.ToUpper(uuid.New().String()[:8]),
		ResellerID:      resellerID,
		ClientID:        req.ClientID,
		ProductID:       req.ProductID,
		Status:          models.OrderPending,
		ProvisionMethod: method,
	}
	switch method {
	case models.ProvisionCourier:
		order.Address = ptr(req.Address)
		order.ContactName = ptr(req.ContactName)
		order.ContactPhone = ptr(req.ContactPhone)
	case models.ProvisionSelf:
		order.SIMSerial = ptr(req.SIMSerial)
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// DecideOrderRequest is the input for an admin decision.
type DecideOrderRequest struct {
	Decision        string `json:"decision" binding:"required"`
	RejectionReason string `json:"rejectionReason"`
}

// DecideOrder transitions a pending order to active or rejected. Only
// pending orders may be decided; rejection requires a reason, stored
// verbatim. Approval of a self-provisioned, provider-backed product
// registers the SIM with the provider; a provider failure is recorded on
// the order but does not undo the approval.
func (s *OrderService) DecideOrder(ctx context.Context, adminID, orderID int, req *DecideOrderRequest) (*models.ProductOrder, error) {
	var status models.OrderStatus
	var reason *string
	switch req.Decision {
	case string(models.OrderActive):
		status = models.OrderActive
	case string(models.OrderRejected):
		if strings.TrimSpace(req.RejectionReason) == "" {
			return nil, utils.NewValidationError("rejectionReason", "required when rejecting an order")
		}
		status = models.OrderRejected
		reason = &req.RejectionReason
	default:
		return nil, utils.NewValidationError("decision", "must be active or rejected")
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderPending {
		return nil, &utils.InvalidStateTransitionError{Current: string(order.Status)}
	}

	decided, err := s.orders.Decide(ctx, orderID, status, reason, adminID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Lost the race against a concurrent decision.
			current, getErr := s.orders.GetByID(ctx, orderID)
			if getErr != nil {
				return nil, getErr
			}
			return nil, &utils.InvalidStateTransitionError{Current: string(current.Status)}
		}
		return nil, err
	}

	if status == models.OrderActive {
		s.provision(ctx, decided)
	}
	return decided, nil
}

// provision registers the approved service with the provider when the
// order carries a SIM and the product maps to a provider SKU. Courier
// orders are provisioned on delivery, outside this flow.
func (s *OrderService) provision(ctx context.Context, order *models.ProductOrder) {
	if order.ProvisionMethod != models.ProvisionSelf || order.SIMSerial == nil {
		return
	}
	product, err := s.products.GetByID(ctx, order.ProductID)
	if err != nil || product.ProviderSKU == nil {
		return
	}
	category, err := s.categories.GetByID(ctx, product.CategoryID)
	if err != nil {
		log.Error().Err(err).Int("order_id", order.ID).Msg("provision: category lookup failed")
		return
	}
	api, err := s.providers.ForMasterCategory(category.MasterCategory)
	if err != nil {
		s.recordProvisionError(ctx, order, err)
		return
	}

	resp, err := api.RegisterSIM(ctx, &provitel.RegisterSIMRequest{
		SIMSerial: *order.SIMSerial,
		PlanCode:  *product.ProviderSKU,
	})
	if err != nil {
		s.recordProvisionError(ctx, order, err)
		return
	}

	up := &models.UserProduct{
		UserID:      order.ResellerID,
		ClientID:    &order.ClientID,
		ProductID:   order.ProductID,
		ProviderRef: resp.Ref,
		Status:      models.UserProductActive,
	}
	if err := s.userProducts.Create(ctx, up); err != nil {
		log.Error().Err(err).Int("order_id", order.ID).Msg("provision: user product insert failed")
	}
}

func (s *OrderService) recordProvisionError(ctx context.Context, order *models.ProductOrder, cause error) {
	log.Error().Err(cause).Int("order_id", order.ID).Msg("provision failed, order stays active")
	if err := s.orders.SetProvisionError(ctx, order.ID, cause.Error()); err != nil {
		log.Error().Err(err).Int("order_id", order.ID).Msg("failed to record provision error")
	}
}

// GetOrder retrieves an order visible to the given reseller. Admins pass
// resellerID 0 to bypass the ownership check.
func (s *OrderService) GetOrder(ctx context.Context, resellerID, orderID int) (*models.ProductOrder, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if resellerID != 0 && order.ResellerID != resellerID {
		return nil, utils.ErrNotFound
	}
	return order, nil
}

// ListOrders returns a reseller's own orders.
func (s *OrderService) ListOrders(ctx context.Context, resellerID int) ([]models.ProductOrder, error) {
	return s.orders.ListByReseller(ctx, resellerID)
}

// ListOrdersByStatus returns the admin order queue.
func (s *OrderService) ListOrdersByStatus(ctx context.Context, status models.OrderStatus) ([]models.ProductOrder, error) {
	return s.orders.ListByStatus(ctx, status)
}

func ptr(s string) *string { return &s }
