package handler

import (
	"encoding/json"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/nexatel/portal_api/internal/middleware"
	"github.com/nexatel/portal_api/internal/service"
	"github.com/nexatel/portal_api/internal/utils"
)

// AuthHandler exposes login and the authenticated profile endpoints.
type AuthHandler struct {
	authService *service.AuthService
	userService *service.UserService
	ledger      *service.LedgerService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(authService *service.AuthService, userService *service.UserService, ledger *service.LedgerService) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService, ledger: ledger}
}

// Login handles POST /v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, utils.ErrAccountInactive) {
			utils.Error(c, 403, "ACCOUNT_INACTIVE", "Account is deactivated")
			return
		}
		utils.Error(c, 401, "INVALID_CREDENTIALS", "Invalid username or password")
		return
	}

	utils.Success(c, 200, "Login successful", result)
}

// GetProfile handles GET /v1/profile
func (h *AuthHandler) GetProfile(c *gin.Context) {
	user, err := h.ledger.Balance(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Profile retrieved", user)
}

// SaveDashboardLayout handles PUT /v1/profile/dashboard
func (h *AuthHandler) SaveDashboardLayout(c *gin.Context) {
	var req struct {
		Layout json.RawMessage `json:"layout"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	if err := h.userService.SaveDashboardLayout(c.Request.Context(), middleware.UserID(c), req.Layout); err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Dashboard layout saved", nil)
}
