package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/nexatel/portal_api/internal/models"
	"github.com/nexatel/portal_api/internal/utils"
)

// LedgerService contains the billing logic: purchases charged against
// reseller balances and administrative credit adjustments. Every balance
// mutation goes through LedgerStore.Append, which pairs it with exactly
// one ledger row inside one database transaction.
type LedgerService struct {
	ledger   LedgerStore
	users    UserStore
	products ProductStore
	clients  ClientStore
	now      func() time.Time
}

// NewLedgerService constructs a LedgerService.
func NewLedgerService(ledger LedgerStore, users UserStore, products ProductStore, clients ClientStore) *LedgerService {
	return &LedgerService{
		ledger:   ledger,
		users:    users,
		products: products,
		clients:  clients,
		now:      time.Now,
	}
}

// PurchaseRequest is the input for a client-product purchase.
type PurchaseRequest struct {
	ClientID  int `json:"clientId" binding:"required"`
	ProductID int `json:"productId" binding:"required"`
}

// PurchaseResult reports the charge and, for monthly products, how it
// was prorated.
type PurchaseResult struct {
	Transaction *models.Transaction `json:"transaction"`
	Proration   *Proration          `json:"proration,omitempty"`
}

// Purchase resolves the group price for the reseller, prorates it for
// monthly products, and records the charge. Credit mode enforces the
// balance and decrements it; debit mode records the ledger row for
// bookkeeping only.
func (s *LedgerService) Purchase(ctx context.Context, resellerID int, req *PurchaseRequest) (*PurchaseResult, error) {
	user, err := s.users.GetByID(ctx, resellerID)
	if err != nil {
		return nil, err
	}

	client, err := s.clients.GetByID(ctx, req.ClientID)
	if err != nil {
		return nil, err
	}
	if client.ResellerID != user.ID {
		// Foreign clients are invisible, not forbidden.
		return nil, utils.ErrNotFound
	}

	product, err := s.products.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if product.Status == models.ProductOutOfStock {
		return nil, utils.NewValidationError("productId", "product is out of stock")
	}

	price := PriceForGroup(product, user.ResellerGroup)
	description := fmt.Sprintf("Purchase of %s for client %s", product.Name, client.Name)

	var proration *Proration
	if product.Billing == models.BillingMonthly {
		pr := Prorate(price, s.now())
		proration = &pr
		price = pr.FinalPrice
		description = fmt.Sprintf("%s (prorated %d/%d days)", description, pr.DaysRemaining, pr.TotalDaysInMonth)
	}

	var trx *models.Transaction
	switch user.PaymentMode {
	case models.PaymentCredit:
		trx, err = s.ledger.Append(ctx, user.ID, models.TrxDebit, price, description, price.Neg(), true)
	case models.PaymentDebit:
		// Billed out-of-band: balance neither checked nor mutated.
		trx, err = s.ledger.Append(ctx, user.ID, models.TrxDebit, price, description, decimal.Zero, false)
	default:
		return nil, utils.NewValidationError("paymentMode", "unknown payment mode")
	}
	if err != nil {
		return nil, err
	}

	log.Info().
		Int("user_id", user.ID).
		Int("product_id", product.ID).
		Str("amount", price.StringFixed(2)).
		Str("payment_mode", string(user.PaymentMode)).
		Msg("purchase recorded")

	return &PurchaseResult{Transaction: trx, Proration: proration}, nil
}

// AdjustCreditRequest is the input for an administrative balance
// adjustment.
type AdjustCreditRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Direction   string          `json:"direction" binding:"required"`
	Description string          `json:"description"`
}

// AdjustCredit adds or subtracts reseller credit. This is an
// administrative override: subtract has no lower bound and may drive
// the balance negative.
func (s *LedgerService) AdjustCredit(ctx context.Context, userID int, req *AdjustCreditRequest) (*models.Transaction, error) {
	if !req.Amount.IsPositive() {
		return nil, utils.NewValidationError("amount", "must be greater than zero")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleReseller {
		return nil, utils.NewValidationError("userId", "credit can only be adjusted for resellers")
	}

	description := req.Description
	if description == "" {
		description = "Credit adjustment by administrator"
	}

	var trx *models.Transaction
	switch req.Direction {
	case "add":
		trx, err = s.ledger.Append(ctx, user.ID, models.TrxCredit, req.Amount, description, req.Amount, false)
	case "subtract":
		trx, err = s.ledger.Append(ctx, user.ID, models.TrxDebit, req.Amount, description, req.Amount.Neg(), false)
	default:
		return nil, utils.NewValidationError("direction", "must be add or subtract")
	}
	if err != nil {
		return nil, err
	}

	log.Info().
		Int("user_id", user.ID).
		Str("direction", req.Direction).
		Str("amount", req.Amount.StringFixed(2)).
		Msg("credit adjusted")

	return trx, nil
}

// Balance returns a reseller's current balance and payment mode.
func (s *LedgerService) Balance(ctx context.Context, userID int) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}

// ListTransactions returns a page of a user's ledger.
func (s *LedgerService) ListTransactions(ctx context.Context, userID, page, limit int) ([]models.Transaction, int, error) {
	return s.ledger.ListByUser(ctx, userID, page, limit)
}

// ListAllTransactions returns a page of the full ledger for admins.
func (s *LedgerService) ListAllTransactions(ctx context.Context, page, limit int) ([]models.Transaction, int, error) {
	return s.ledger.ListAll(ctx, page, limit)
}
