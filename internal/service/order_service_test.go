package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexatel/portal_api/internal/models"
	"github.com/nexatel/portal_api/internal/utils"
)

type orderFixture struct {
	svc          *OrderService
	orders       *fakeOrderStore
	userProducts *fakeUserProductStore
	provider     *fakeProviderAPI
}

func newOrderFixture() *orderFixture {
	sku := "PLAN-100"
	clients := &fakeClientStore{clients: map[int]*models.Client{
		100: {ID: 100, ResellerID: 1, Name: "Acme", IsActive: true},
		200: {ID: 200, ResellerID: 2, Name: "Globex", IsActive: true},
	}}
	products := &fakeProductStore{products: map[int]*models.Product{
		10: {
			ID:          10,
			Name:        "SIM Only",
			BasePrice:   decimal.NewFromInt(100),
			Status:      models.ProductActive,
			Billing:     models.BillingOneTime,
			CategoryID:  5,
			ProviderSKU: &sku,
		},
		11: {
			ID:         11,
			Name:       "Router Bundle",
			BasePrice:  decimal.NewFromInt(200),
			Status:     models.ProductActive,
			Billing:    models.BillingOneTime,
			CategoryID: 5,
		},
	}}
	categories := &fakeCategoryStore{categories: map[int]*models.ProductCategory{
		5: {ID: 5, Name: "Prepaid", MasterCategory: models.MasterMobile, IsActive: true},
	}}
	orders := &fakeOrderStore{orders: map[int]*models.ProductOrder{}}
	userProducts := &fakeUserProductStore{
		instances: map[int]*models.UserProduct{},
		endpoints: map[int]*models.UserProductEndpoint{},
	}
	provider := &fakeProviderAPI{}

	svc := NewOrderService(orders, clients, products, categories, userProducts, NewRegistry(provider, nil))
	return &orderFixture{svc: svc, orders: orders, userProducts: userProducts, provider: provider}
}

func courierRequest() *CreateOrderRequest {
	return &CreateOrderRequest{
		ClientID:        100,
		ProductID:       11,
		ProvisionMethod: "courier",
		Address:         "1 Main St",
		ContactName:     "Jo Field",
		ContactPhone:    "0400000000",
	}
}

func selfRequest() *CreateOrderRequest {
	return &CreateOrderRequest{
		ClientID:        100,
		ProductID:       10,
		ProvisionMethod: "self",
		SIMSerial:       "8944500001",
	}
}

func TestCreateOrderCourier(t *testing.T) {
	f := newOrderFixture()

	order, err := f.svc.CreateOrder(context.Background(), 1, courierRequest())
	require.NoError(t, err)

	assert.Equal(t, models.OrderPending, order.Status)
	assert.True(t, strings.HasPrefix(order.OrderNumber, "ORD-"))
	require.NotNil(t, order.Address)
	assert.Equal(t, "1 Main St", *order.Address)
	assert.Nil(t, order.SIMSerial)
}

func TestCreateOrderValidation(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	tests := []struct {
		name      string
		mutate    func(*CreateOrderRequest)
		wantField string
	}{
		{"courier without address", func(r *CreateOrderRequest) { r.Address = "  " }, "address"},
		{"courier without contact name", func(r *CreateOrderRequest) { r.ContactName = "" }, "contactName"},
		{"courier without contact phone", func(r *CreateOrderRequest) { r.ContactPhone = "" }, "contactPhone"},
		{"unknown method", func(r *CreateOrderRequest) { r.ProvisionMethod = "pigeon" }, "provisionMethod"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := courierRequest()
			tt.mutate(req)
			_, err := f.svc.CreateOrder(ctx, 1, req)

			var vErr *utils.ValidationError
			require.True(t, errors.As(err, &vErr), "got %v", err)
			assert.Equal(t, tt.wantField, vErr.Field)
		})
	}

	t.Run("self without sim serial", func(t *testing.T) {
		req := selfRequest()
		req.SIMSerial = " "
		_, err := f.svc.CreateOrder(ctx, 1, req)

		var vErr *utils.ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, "simSerial", vErr.Field)
	})

	t.Run("foreign client", func(t *testing.T) {
		req := courierRequest()
		req.ClientID = 200
		_, err := f.svc.CreateOrder(ctx, 1, req)
		assert.ErrorIs(t, err, utils.ErrNotFound)
	})

	assert.Empty(t, f.orders.orders)
}

func TestDecideOrderApprove(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	order, err := f.svc.CreateOrder(ctx, 1, selfRequest())
	require.NoError(t, err)

	decided, err := f.svc.DecideOrder(ctx, 9, order.ID, &DecideOrderRequest{Decision: "active"})
	require.NoError(t, err)

	assert.Equal(t, models.OrderActive, decided.Status)
	require.NotNil(t, decided.DecidedBy)
	assert.Equal(t, 9, *decided.DecidedBy)

	// Self-provisioned with a provider SKU: SIM registered, instance created.
	require.Len(t, f.provider.registerCalls, 1)
	assert.Equal(t, "8944500001", f.provider.registerCalls[0].SIMSerial)
	assert.Equal(t, "PLAN-100", f.provider.registerCalls[0].PlanCode)
	assert.Len(t, f.userProducts.instances, 1)
}

func TestDecideOrderReject(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	order, err := f.svc.CreateOrder(ctx, 1, courierRequest())
	require.NoError(t, err)

	reason := "  incomplete paperwork, resubmit with ID scan "
	decided, err := f.svc.DecideOrder(ctx, 9, order.ID, &DecideOrderRequest{
		Decision:        "rejected",
		RejectionReason: reason,
	})
	require.NoError(t, err)

	assert.Equal(t, models.OrderRejected, decided.Status)
	// Reason is stored verbatim, whitespace included.
	require.NotNil(t, decided.RejectionReason)
	assert.Equal(t, reason, *decided.RejectionReason)
	assert.Empty(t, f.provider.registerCalls)
}

func TestDecideOrderRejectWithoutReason(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	order, err := f.svc.CreateOrder(ctx, 1, courierRequest())
	require.NoError(t, err)

	_, err = f.svc.DecideOrder(ctx, 9, order.ID, &DecideOrderRequest{
		Decision:        "rejected",
		RejectionReason: "   ",
	})

	var vErr *utils.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "rejectionReason", vErr.Field)

	// Order untouched.
	current, err := f.svc.GetOrder(ctx, 0, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, current.Status)
}

func TestDecideOrderTwice(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	order, err := f.svc.CreateOrder(ctx, 1, courierRequest())
	require.NoError(t, err)

	_, err = f.svc.DecideOrder(ctx, 9, order.ID, &DecideOrderRequest{Decision: "active"})
	require.NoError(t, err)

	_, err = f.svc.DecideOrder(ctx, 9, order.ID, &DecideOrderRequest{Decision: "rejected", RejectionReason: "no"})

	var stErr *utils.InvalidStateTransitionError
	require.True(t, errors.As(err, &stErr), "got %v", err)
	assert.Equal(t, "active", stErr.Current)
}

func TestDecideOrderInvalidDecision(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	order, err := f.svc.CreateOrder(ctx, 1, courierRequest())
	require.NoError(t, err)

	_, err = f.svc.DecideOrder(ctx, 9, order.ID, &DecideOrderRequest{Decision: "maybe"})

	var vErr *utils.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "decision", vErr.Field)
}

func TestDecideOrderProviderFailureKeepsApproval(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()
	f.provider.registerErr = errors.New("upstream timeout")

	order, err := f.svc.CreateOrder(ctx, 1, selfRequest())
	require.NoError(t, err)

	decided, err := f.svc.DecideOrder(ctx, 9, order.ID, &DecideOrderRequest{Decision: "active"})
	require.NoError(t, err)
	assert.Equal(t, models.OrderActive, decided.Status)

	// Failure is recorded on the order; no instance created.
	stored, err := f.svc.GetOrder(ctx, 0, order.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ProvisionError)
	assert.Contains(t, *stored.ProvisionError, "upstream timeout")
	assert.Empty(t, f.userProducts.instances)
}

func TestGetOrderOwnership(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	order, err := f.svc.CreateOrder(ctx, 1, courierRequest())
	require.NoError(t, err)

	// Owner sees it, another reseller does not, admin bypasses.
	_, err = f.svc.GetOrder(ctx, 1, order.ID)
	assert.NoError(t, err)
	_, err = f.svc.GetOrder(ctx, 2, order.ID)
	assert.ErrorIs(t, err, utils.ErrNotFound)
	_, err = f.svc.GetOrder(ctx, 0, order.ID)
	assert.NoError(t, err)
}
