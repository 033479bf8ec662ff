package service

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"

	"github.com/nexatel/portal_api/internal/models"
	"github.com/nexatel/portal_api/internal/utils"
	"github.com/nexatel/portal_api/pkg/provitel"
)

// In-memory store fakes backing the service tests.

type fakeUserStore struct {
	users map[int]*models.User
}

func (f *fakeUserStore) GetByID(ctx context.Context, id int) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

type fakeProductStore struct {
	products   map[int]*models.Product
	referenced map[int]bool
	nextID     int
}

func (f *fakeProductStore) GetByID(ctx context.Context, id int) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProductStore) List(ctx context.Context, categoryID int, availableOnly bool) ([]models.Product, error) {
	var list []models.Product
	for _, p := range f.products {
		if categoryID != 0 && p.CategoryID != categoryID {
			continue
		}
		if availableOnly && p.Status == models.ProductOutOfStock {
			continue
		}
		list = append(list, *p)
	}
	return list, nil
}

func (f *fakeProductStore) Create(ctx context.Context, p *models.Product) error {
	f.nextID++
	p.ID = f.nextID
	cp := *p
	f.products[p.ID] = &cp
	return nil
}

func (f *fakeProductStore) Update(ctx context.Context, p *models.Product) error {
	if _, ok := f.products[p.ID]; !ok {
		return utils.ErrNotFound
	}
	cp := *p
	f.products[p.ID] = &cp
	return nil
}

func (f *fakeProductStore) IsReferenced(ctx context.Context, id int) (bool, error) {
	return f.referenced[id], nil
}

func (f *fakeProductStore) Delete(ctx context.Context, id int) error {
	if _, ok := f.products[id]; !ok {
		return utils.ErrNotFound
	}
	delete(f.products, id)
	return nil
}

type fakeCategoryStore struct {
	categories map[int]*models.ProductCategory
	hasProduct map[int]bool
	nextID     int
}

func (f *fakeCategoryStore) GetByID(ctx context.Context, id int) (*models.ProductCategory, error) {
	c, ok := f.categories[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCategoryStore) List(ctx context.Context, activeOnly bool) ([]models.ProductCategory, error) {
	var list []models.ProductCategory
	for _, c := range f.categories {
		if activeOnly && !c.IsActive {
			continue
		}
		list = append(list, *c)
	}
	return list, nil
}

func (f *fakeCategoryStore) Create(ctx context.Context, c *models.ProductCategory) error {
	f.nextID++
	c.ID = f.nextID
	cp := *c
	f.categories[c.ID] = &cp
	return nil
}

func (f *fakeCategoryStore) Update(ctx context.Context, c *models.ProductCategory) error {
	if _, ok := f.categories[c.ID]; !ok {
		return utils.ErrNotFound
	}
	cp := *c
	f.categories[c.ID] = &cp
	return nil
}

// IsReferenced mirrors the repository: products attached or child
// categories both count.
func (f *fakeCategoryStore) IsReferenced(ctx context.Context, id int) (bool, error) {
	if f.hasProduct[id] {
		return true, nil
	}
	for _, c := range f.categories {
		if c.ParentID != nil && *c.ParentID == id {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCategoryStore) Delete(ctx context.Context, id int) error {
	if _, ok := f.categories[id]; !ok {
		return utils.ErrNotFound
	}
	delete(f.categories, id)
	return nil
}

type fakeClientStore struct {
	clients map[int]*models.Client
}

func (f *fakeClientStore) GetByID(ctx context.Context, id int) (*models.Client, error) {
	c, ok := f.clients[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

// fakeLedgerStore mirrors the repository's Append contract: balance
// check under enforce, one ledger row per call, delta applied to the
// tracked balance.
type fakeLedgerStore struct {
	users   *fakeUserStore
	entries []models.Transaction
}

func (f *fakeLedgerStore) Append(
	ctx context.Context,
	userID int,
	trxType models.TransactionType,
	amount decimal.Decimal,
	description string,
	delta decimal.Decimal,
	enforce bool,
) (*models.Transaction, error) {
	u, ok := f.users.users[userID]
	if !ok {
		return nil, utils.ErrNotFound
	}
	if enforce && u.CreditBalance.LessThan(amount) {
		return nil, &utils.InsufficientBalanceError{Required: amount, Available: u.CreditBalance}
	}

	trx := models.Transaction{
		ID:          len(f.entries) + 1,
		UserID:      userID,
		Type:        trxType,
		Amount:      amount,
		Description: description,
	}
	f.entries = append(f.entries, trx)
	u.CreditBalance = u.CreditBalance.Add(delta)
	return &trx, nil
}

func (f *fakeLedgerStore) ListByUser(ctx context.Context, userID, page, limit int) ([]models.Transaction, int, error) {
	var list []models.Transaction
	for _, e := range f.entries {
		if e.UserID == userID {
			list = append(list, e)
		}
	}
	return list, len(list), nil
}

func (f *fakeLedgerStore) ListAll(ctx context.Context, page, limit int) ([]models.Transaction, int, error) {
	return f.entries, len(f.entries), nil
}

// fakeOrderStore mirrors the repository's conditional Decide update:
// deciding a non-pending order returns sql.ErrNoRows.
type fakeOrderStore struct {
	orders map[int]*models.ProductOrder
	nextID int
}

func (f *fakeOrderStore) GetByID(ctx context.Context, id int) (*models.ProductOrder, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrderStore) ListByReseller(ctx context.Context, resellerID int) ([]models.ProductOrder, error) {
	var list []models.ProductOrder
	for _, o := range f.orders {
		if o.ResellerID == resellerID {
			list = append(list, *o)
		}
	}
	return list, nil
}

func (f *fakeOrderStore) ListByStatus(ctx context.Context, status models.OrderStatus) ([]models.ProductOrder, error) {
	var list []models.ProductOrder
	for _, o := range f.orders {
		if status == "" || o.Status == status {
			list = append(list, *o)
		}
	}
	return list, nil
}

func (f *fakeOrderStore) Create(ctx context.Context, o *models.ProductOrder) error {
	f.nextID++
	o.ID = f.nextID
	cp := *o
	f.orders[o.ID] = &cp
	return nil
}

func (f *fakeOrderStore) Decide(ctx context.Context, orderID int, status models.OrderStatus, rejectionReason *string, decidedBy int) (*models.ProductOrder, error) {
	o, ok := f.orders[orderID]
	if !ok || o.Status != models.OrderPending {
		return nil, sql.ErrNoRows
	}
	o.Status = status
	o.RejectionReason = rejectionReason
	o.DecidedBy = &decidedBy
	cp := *o
	return &cp, nil
}

func (f *fakeOrderStore) SetProvisionError(ctx context.Context, orderID int, message string) error {
	o, ok := f.orders[orderID]
	if !ok {
		return utils.ErrNotFound
	}
	o.ProvisionError = &message
	return nil
}

type fakeUserProductStore struct {
	instances map[int]*models.UserProduct
	endpoints map[int]*models.UserProductEndpoint
	nextID    int
}

func (f *fakeUserProductStore) GetByID(ctx context.Context, id int) (*models.UserProduct, error) {
	up, ok := f.instances[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *up
	return &cp, nil
}

func (f *fakeUserProductStore) GetByProviderRef(ctx context.Context, ref string) (*models.UserProduct, error) {
	for _, up := range f.instances {
		if up.ProviderRef == ref {
			cp := *up
			return &cp, nil
		}
	}
	return nil, utils.ErrNotFound
}

func (f *fakeUserProductStore) UpdateStatus(ctx context.Context, id int, status models.UserProductStatus) error {
	up, ok := f.instances[id]
	if !ok {
		return utils.ErrNotFound
	}
	up.Status = status
	return nil
}

func (f *fakeUserProductStore) ListByUser(ctx context.Context, userID int) ([]models.UserProduct, error) {
	var list []models.UserProduct
	for _, up := range f.instances {
		if up.UserID == userID {
			list = append(list, *up)
		}
	}
	return list, nil
}

func (f *fakeUserProductStore) Create(ctx context.Context, up *models.UserProduct) error {
	f.nextID++
	up.ID = f.nextID
	cp := *up
	f.instances[up.ID] = &cp
	return nil
}

func (f *fakeUserProductStore) GetEndpointByID(ctx context.Context, id int) (*models.UserProductEndpoint, error) {
	ep, ok := f.endpoints[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *ep
	return &cp, nil
}

func (f *fakeUserProductStore) ListEndpoints(ctx context.Context, userProductID int) ([]models.UserProductEndpoint, error) {
	var list []models.UserProductEndpoint
	for _, ep := range f.endpoints {
		if ep.UserProductID == userProductID {
			list = append(list, *ep)
		}
	}
	return list, nil
}

func (f *fakeUserProductStore) CreateEndpoint(ctx context.Context, ep *models.UserProductEndpoint) error {
	f.nextID++
	ep.ID = f.nextID
	cp := *ep
	f.endpoints[ep.ID] = &cp
	return nil
}

// fakeUsageInvalidator records which endpoint caches were dropped.
type fakeUsageInvalidator struct {
	invalidated []int
}

func (f *fakeUsageInvalidator) Invalidate(ctx context.Context, endpointID int) error {
	f.invalidated = append(f.invalidated, endpointID)
	return nil
}

// fakeProviderAPI records provisioning calls.
type fakeProviderAPI struct {
	registerCalls []provitel.RegisterSIMRequest
	registerErr   error
	statusByRef   map[string]string
}

func (f *fakeProviderAPI) RegisterSIM(ctx context.Context, req *provitel.RegisterSIMRequest) (*provitel.RegisterSIMResponse, error) {
	f.registerCalls = append(f.registerCalls, *req)
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return &provitel.RegisterSIMResponse{Ref: "REF-001", Status: provitel.StatusActive}, nil
}

func (f *fakeProviderAPI) ServiceStatus(ctx context.Context, ref string) (*provitel.StatusResponse, error) {
	status, ok := f.statusByRef[ref]
	if !ok {
		status = provitel.StatusActive
	}
	return &provitel.StatusResponse{Ref: ref, Status: status}, nil
}

func (f *fakeProviderAPI) Usage(ctx context.Context, path string, params map[string]string) (*provitel.UsageResponse, error) {
	return &provitel.UsageResponse{Ref: params["ref"], Data: []byte(`{"used":1}`)}, nil
}
