package utils

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Common application errors used across services.
var (
	ErrInvalidCredentials = errors.New("INVALID_CREDENTIALS")
	ErrAccountInactive    = errors.New("ACCOUNT_INACTIVE")
	ErrForbidden          = errors.New("FORBIDDEN")
	ErrNotFound           = errors.New("NOT_FOUND")
	ErrUsernameTaken      = errors.New("USERNAME_TAKEN")
	ErrProductReferenced  = errors.New("PRODUCT_REFERENCED")
	ErrCategoryDepth      = errors.New("CATEGORY_DEPTH_EXCEEDED")
	ErrProviderDisabled   = errors.New("PROVIDER_DISABLED")
)

// ValidationError reports a missing or malformed required input. Field
// names what the caller must fix.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s is required", e.Field)
}

// NewValidationError builds a ValidationError for a required field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// InsufficientBalanceError is returned when a credit-mode purchase
// exceeds the available balance. Required and Available are surfaced so
// the UI can display the shortfall.
type InsufficientBalanceError struct {
	Required  decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: required %s, available %s",
		e.Required.StringFixed(2), e.Available.StringFixed(2))
}

// InvalidStateTransitionError is returned when an order decision is
// attempted on a non-pending order.
type InvalidStateTransitionError struct {
	Current string
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("order is %s, only pending orders can be decided", e.Current)
}
