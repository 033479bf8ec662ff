package service

import (
	"context"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/nexatel/portal_api/internal/models"
	"github.com/nexatel/portal_api/internal/repository"
	"github.com/nexatel/portal_api/internal/utils"
)

// AuthService authenticates portal users and issues JWTs.
type AuthService struct {
	users *repository.UserRepository
}

// NewAuthService constructs an AuthService.
func NewAuthService(users *repository.UserRepository) *AuthService {
	return &AuthService{users: users}
}

// LoginResult carries the issued token and the authenticated account.
type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Login verifies credentials and returns a signed token carrying the
// user's role. Failures are collapsed into one error so the response
// does not reveal whether the username exists.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		log.Warn().Str("username", username).Msg("login failed: unknown user")
		return nil, utils.ErrInvalidCredentials
	}

	if !user.IsActive {
		log.Warn().Str("username", username).Msg("login rejected: account inactive")
		return nil, utils.ErrAccountInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Warn().Str("username", username).Msg("login failed: bad password")
		return nil, utils.ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT(user.ID, user.Username, string(user.Role))
	if err != nil {
		return nil, err
	}

	log.Info().Str("username", username).Str("role", string(user.Role)).Msg("login successful")
	return &LoginResult{Token: token, User: user}, nil
}

// HashPassword produces a bcrypt hash for account creation.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
