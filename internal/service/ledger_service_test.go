package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexatel/portal_api/internal/models"
	"github.com/nexatel/portal_api/internal/utils"
)

type ledgerFixture struct {
	svc     *LedgerService
	users   *fakeUserStore
	ledger  *fakeLedgerStore
	clients *fakeClientStore
}

func newLedgerFixture() *ledgerFixture {
	users := &fakeUserStore{users: map[int]*models.User{
		1: {
			ID:            1,
			Username:      "reseller-credit",
			Role:          models.RoleReseller,
			PaymentMode:   models.PaymentCredit,
			ResellerGroup: 1,
			CreditBalance: decimal.NewFromInt(500),
			IsActive:      true,
		},
		2: {
			ID:            2,
			Username:      "reseller-debit",
			Role:          models.RoleReseller,
			PaymentMode:   models.PaymentDebit,
			ResellerGroup: 0,
			CreditBalance: decimal.Zero,
			IsActive:      true,
		},
		9: {
			ID:       9,
			Username: "admin",
			Role:     models.RoleAdmin,
			IsActive: true,
		},
	}}
	products := &fakeProductStore{products: map[int]*models.Product{
		10: {
			ID:          10,
			Name:        "SIM Only",
			BasePrice:   decimal.NewFromInt(100),
			Group1Price: decimal.NewFromInt(90),
			Group2Price: decimal.NewFromInt(80),
			Status:      models.ProductActive,
			Billing:     models.BillingOneTime,
		},
		11: {
			ID:          11,
			Name:        "Fiber 100",
			BasePrice:   decimal.NewFromInt(310),
			Group1Price: decimal.NewFromInt(300),
			Group2Price: decimal.NewFromInt(280),
			Status:      models.ProductActive,
			Billing:     models.BillingMonthly,
		},
		12: {
			ID:        12,
			Name:      "Legacy Plan",
			BasePrice: decimal.NewFromInt(50),
			Status:    models.ProductOutOfStock,
			Billing:   models.BillingOneTime,
		},
	}}
	clients := &fakeClientStore{clients: map[int]*models.Client{
		100: {ID: 100, ResellerID: 1, Name: "Acme", IsActive: true},
		200: {ID: 200, ResellerID: 2, Name: "Globex", IsActive: true},
	}}
	ledger := &fakeLedgerStore{users: users}

	svc := NewLedgerService(ledger, users, products, clients)
	return &ledgerFixture{svc: svc, users: users, ledger: ledger, clients: clients}
}

func TestPurchaseCreditMode(t *testing.T) {
	f := newLedgerFixture()
	ctx := context.Background()

	result, err := f.svc.Purchase(ctx, 1, &PurchaseRequest{ClientID: 100, ProductID: 10})
	require.NoError(t, err)
	require.NotNil(t, result.Transaction)
	assert.Nil(t, result.Proration)

	// Group 1 pays the tier price and the balance drops by it.
	assert.True(t, decimal.NewFromInt(90).Equal(result.Transaction.Amount))
	assert.Equal(t, models.TrxDebit, result.Transaction.Type)
	assert.True(t, decimal.NewFromInt(410).Equal(f.users.users[1].CreditBalance))

	// Exactly one ledger row per purchase.
	assert.Len(t, f.ledger.entries, 1)
}

func TestPurchaseMonthlyProrated(t *testing.T) {
	f := newLedgerFixture()
	// Fixed clock: June 16, 2026. 15 of 30 days remain.
	f.svc.now = func() time.Time {
		return time.Date(2026, time.June, 16, 9, 0, 0, 0, time.UTC)
	}

	result, err := f.svc.Purchase(context.Background(), 1, &PurchaseRequest{ClientID: 100, ProductID: 11})
	require.NoError(t, err)
	require.NotNil(t, result.Proration)

	assert.Equal(t, 15, result.Proration.DaysRemaining)
	assert.Equal(t, 30, result.Proration.TotalDaysInMonth)
	assert.True(t, decimal.NewFromInt(150).Equal(result.Transaction.Amount),
		"got %s", result.Transaction.Amount)
	assert.Contains(t, result.Transaction.Description, "prorated 15/30 days")
	assert.True(t, decimal.NewFromInt(350).Equal(f.users.users[1].CreditBalance))
}

func TestPurchaseInsufficientBalance(t *testing.T) {
	f := newLedgerFixture()
	f.users.users[1].CreditBalance = decimal.NewFromInt(50)

	_, err := f.svc.Purchase(context.Background(), 1, &PurchaseRequest{ClientID: 100, ProductID: 10})

	var ibErr *utils.InsufficientBalanceError
	require.True(t, errors.As(err, &ibErr))
	assert.True(t, decimal.NewFromInt(90).Equal(ibErr.Required))
	assert.True(t, decimal.NewFromInt(50).Equal(ibErr.Available))

	// Nothing recorded, nothing charged.
	assert.Empty(t, f.ledger.entries)
	assert.True(t, decimal.NewFromInt(50).Equal(f.users.users[1].CreditBalance))
}

func TestPurchaseDebitModeSkipsBalance(t *testing.T) {
	f := newLedgerFixture()
	// Debit-mode resellers purchase regardless of balance, even negative.
	f.users.users[2].CreditBalance = decimal.NewFromInt(-75)

	result, err := f.svc.Purchase(context.Background(), 2, &PurchaseRequest{ClientID: 200, ProductID: 10})
	require.NoError(t, err)

	// Base price (group 0) recorded for bookkeeping; balance untouched.
	assert.True(t, decimal.NewFromInt(100).Equal(result.Transaction.Amount))
	assert.True(t, decimal.NewFromInt(-75).Equal(f.users.users[2].CreditBalance))
	assert.Len(t, f.ledger.entries, 1)
}

func TestSequentialPurchasesSeeUpdatedBalance(t *testing.T) {
	f := newLedgerFixture()
	f.users.users[1].CreditBalance = decimal.NewFromInt(150)
	ctx := context.Background()

	// First purchase (90) fits; the second must see the reduced balance
	// and fail.
	_, err := f.svc.Purchase(ctx, 1, &PurchaseRequest{ClientID: 100, ProductID: 10})
	require.NoError(t, err)

	_, err = f.svc.Purchase(ctx, 1, &PurchaseRequest{ClientID: 100, ProductID: 10})
	var ibErr *utils.InsufficientBalanceError
	require.True(t, errors.As(err, &ibErr))
	assert.True(t, decimal.NewFromInt(60).Equal(ibErr.Available))
	assert.Len(t, f.ledger.entries, 1)
}

func TestAdjustCreditNet(t *testing.T) {
	f := newLedgerFixture()
	ctx := context.Background()

	_, err := f.svc.AdjustCredit(ctx, 1, &AdjustCreditRequest{Amount: decimal.NewFromInt(50), Direction: "add"})
	require.NoError(t, err)
	_, err = f.svc.AdjustCredit(ctx, 1, &AdjustCreditRequest{Amount: decimal.NewFromInt(20), Direction: "subtract"})
	require.NoError(t, err)

	// Net +30 over the opening 500, with one credit and one debit row.
	assert.True(t, decimal.NewFromInt(530).Equal(f.users.users[1].CreditBalance))
	require.Len(t, f.ledger.entries, 2)
	assert.Equal(t, models.TrxCredit, f.ledger.entries[0].Type)
	assert.Equal(t, models.TrxDebit, f.ledger.entries[1].Type)
}

func TestPurchaseForeignClient(t *testing.T) {
	f := newLedgerFixture()

	// Reseller 1 cannot purchase for reseller 2's client.
	_, err := f.svc.Purchase(context.Background(), 1, &PurchaseRequest{ClientID: 200, ProductID: 10})
	assert.ErrorIs(t, err, utils.ErrNotFound)
	assert.Empty(t, f.ledger.entries)
}

func TestPurchaseOutOfStock(t *testing.T) {
	f := newLedgerFixture()

	_, err := f.svc.Purchase(context.Background(), 1, &PurchaseRequest{ClientID: 100, ProductID: 12})

	var vErr *utils.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "productId", vErr.Field)
}

func TestAdjustCreditAdd(t *testing.T) {
	f := newLedgerFixture()

	trx, err := f.svc.AdjustCredit(context.Background(), 1, &AdjustCreditRequest{
		Amount:    decimal.NewFromInt(30),
		Direction: "add",
	})
	require.NoError(t, err)

	assert.Equal(t, models.TrxCredit, trx.Type)
	assert.True(t, decimal.NewFromInt(30).Equal(trx.Amount))
	assert.Equal(t, "Credit adjustment by administrator", trx.Description)
	assert.True(t, decimal.NewFromInt(530).Equal(f.users.users[1].CreditBalance))
}

func TestAdjustCreditSubtractBelowZero(t *testing.T) {
	f := newLedgerFixture()
	f.users.users[1].CreditBalance = decimal.NewFromInt(20)

	// Administrative subtraction has no floor.
	trx, err := f.svc.AdjustCredit(context.Background(), 1, &AdjustCreditRequest{
		Amount:      decimal.NewFromInt(50),
		Direction:   "subtract",
		Description: "chargeback",
	})
	require.NoError(t, err)

	assert.Equal(t, models.TrxDebit, trx.Type)
	assert.Equal(t, "chargeback", trx.Description)
	assert.True(t, decimal.NewFromInt(-30).Equal(f.users.users[1].CreditBalance))
}

func TestAdjustCreditValidation(t *testing.T) {
	f := newLedgerFixture()
	ctx := context.Background()

	tests := []struct {
		name   string
		userID int
		req    AdjustCreditRequest
	}{
		{"zero amount", 1, AdjustCreditRequest{Amount: decimal.Zero, Direction: "add"}},
		{"negative amount", 1, AdjustCreditRequest{Amount: decimal.NewFromInt(-5), Direction: "add"}},
		{"bad direction", 1, AdjustCreditRequest{Amount: decimal.NewFromInt(5), Direction: "set"}},
		{"admin target", 9, AdjustCreditRequest{Amount: decimal.NewFromInt(5), Direction: "add"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.AdjustCredit(ctx, tt.userID, &tt.req)
			var vErr *utils.ValidationError
			assert.True(t, errors.As(err, &vErr), "got %v", err)
		})
	}
	assert.Empty(t, f.ledger.entries)
}

// Every credit-mode balance change pairs with a ledger row, so the
// balance always equals sum(credits) - sum(debits).
func TestLedgerBalanceConsistency(t *testing.T) {
	f := newLedgerFixture()
	ctx := context.Background()

	_, err := f.svc.AdjustCredit(ctx, 1, &AdjustCreditRequest{Amount: decimal.NewFromInt(200), Direction: "add"})
	require.NoError(t, err)
	_, err = f.svc.Purchase(ctx, 1, &PurchaseRequest{ClientID: 100, ProductID: 10})
	require.NoError(t, err)
	_, err = f.svc.AdjustCredit(ctx, 1, &AdjustCreditRequest{Amount: decimal.NewFromInt(60), Direction: "subtract"})
	require.NoError(t, err)

	sum := decimal.NewFromInt(500) // opening balance predates the ledger
	for _, e := range f.ledger.entries {
		if e.Type == models.TrxCredit {
			sum = sum.Add(e.Amount)
		} else {
			sum = sum.Sub(e.Amount)
		}
	}
	assert.True(t, sum.Equal(f.users.users[1].CreditBalance),
		"ledger sum %s, balance %s", sum, f.users.users[1].CreditBalance)
}
