package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/lib/pq"

	"github.com/nexatel/portal_api/internal/models"
	"github.com/nexatel/portal_api/internal/repository"
	"github.com/nexatel/portal_api/internal/utils"
)

// UserService manages reseller accounts (admin surface) and the
// per-user dashboard layout blob (owned by the UI).
type UserService struct {
	users *repository.UserRepository
}

// NewUserService constructs a UserService.
func NewUserService(users *repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// CreateResellerRequest is the admin input for a new reseller account.
type CreateResellerRequest struct {
	Username      string `json:"username" binding:"required"`
	Password      string `json:"password" binding:"required,min=8"`
	PaymentMode   string `json:"paymentMode" binding:"required"`
	ResellerGroup int    `json:"resellerGroup"`
}

// CreateReseller registers a reseller account. Initial funds are granted
// separately through the credit adjustment endpoint so the balance and
// ledger never diverge.
func (s *UserService) CreateReseller(ctx context.Context, req *CreateResellerRequest) (*models.User, error) {
	mode := models.PaymentMode(req.PaymentMode)
	if mode != models.PaymentCredit && mode != models.PaymentDebit {
		return nil, utils.NewValidationError("paymentMode", "must be credit or debit")
	}
	if req.ResellerGroup < 0 || req.ResellerGroup > 2 {
		return nil, utils.NewValidationError("resellerGroup", "must be 0, 1 or 2")
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:      strings.ToLower(strings.TrimSpace(req.Username)),
		PasswordHash:  hash,
		Role:          models.RoleReseller,
		PaymentMode:   mode,
		ResellerGroup: req.ResellerGroup,
		IsActive:      true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, utils.ErrUsernameTaken
		}
		return nil, err
	}
	return user, nil
}

// UpdateResellerRequest is the admin input for account changes. Pointer
// fields distinguish "unchanged" from zero values.
type UpdateResellerRequest struct {
	PaymentMode   *string `json:"paymentMode"`
	ResellerGroup *int    `json:"resellerGroup"`
	IsActive      *bool   `json:"isActive"`
}

// UpdateReseller applies account setting changes. The balance is not
// editable here; it only moves through the ledger.
func (s *UserService) UpdateReseller(ctx context.Context, id int, req *UpdateResellerRequest) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleReseller {
		return nil, utils.ErrNotFound
	}

	if req.PaymentMode != nil {
		mode := models.PaymentMode(*req.PaymentMode)
		if mode != models.PaymentCredit && mode != models.PaymentDebit {
			return nil, utils.NewValidationError("paymentMode", "must be credit or debit")
		}
		user.PaymentMode = mode
	}
	if req.ResellerGroup != nil {
		if *req.ResellerGroup < 0 || *req.ResellerGroup > 2 {
			return nil, utils.NewValidationError("resellerGroup", "must be 0, 1 or 2")
		}
		user.ResellerGroup = *req.ResellerGroup
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetReseller fetches one reseller account.
func (s *UserService) GetReseller(ctx context.Context, id int) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleReseller {
		return nil, utils.ErrNotFound
	}
	return user, nil
}

// ListResellers returns all reseller accounts.
func (s *UserService) ListResellers(ctx context.Context) ([]models.User, error) {
	return s.users.ListResellers(ctx)
}

// SaveDashboardLayout stores the opaque layout JSON for the calling
// user. The core only checks that it is valid JSON.
func (s *UserService) SaveDashboardLayout(ctx context.Context, userID int, layout json.RawMessage) error {
	if len(layout) > 0 && !json.Valid(layout) {
		return utils.NewValidationError("layout", "must be valid JSON")
	}
	return s.users.UpdateDashboardLayout(ctx, userID, layout)
}
