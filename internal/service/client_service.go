package service

import (
	"context"

	"github.com/nexatel/portal_api/internal/models"
	"github.com/nexatel/portal_api/internal/repository"
	"github.com/nexatel/portal_api/internal/utils"
)

// ClientService manages a reseller's end customers. Every operation is
// scoped to the calling reseller; foreign clients read as not found.
type ClientService struct {
	clients *repository.ClientRepository
}

// NewClientService constructs a ClientService.
func NewClientService(clients *repository.ClientRepository) *ClientService {
	return &ClientService{clients: clients}
}

// ClientInput is the payload for creating or updating a client.
type ClientInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"omitempty,email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	IsActive *bool  `json:"isActive"`
}

// CreateClient registers a client under the calling reseller.
func (s *ClientService) CreateClient(ctx context.Context, resellerID int, in *ClientInput) (*models.Client, error) {
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	c := &models.Client{
		ResellerID: resellerID,
		Name:       in.Name,
		Email:      in.Email,
		Phone:      in.Phone,
		Address:    in.Address,
		IsActive:   active,
	}
	if err := s.clients.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateClient edits a client the reseller owns.
func (s *ClientService) UpdateClient(ctx context.Context, resellerID, clientID int, in *ClientInput) (*models.Client, error) {
	c, err := s.GetClient(ctx, resellerID, clientID)
	if err != nil {
		return nil, err
	}

	c.Name = in.Name
	c.Email = in.Email
	c.Phone = in.Phone
	c.Address = in.Address
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	if err := s.clients.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// GetClient fetches a client the reseller owns.
func (s *ClientService) GetClient(ctx context.Context, resellerID, clientID int) (*models.Client, error) {
	c, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if c.ResellerID != resellerID {
		return nil, utils.ErrNotFound
	}
	return c, nil
}

// ListClients returns the reseller's clients.
func (s *ClientService) ListClients(ctx context.Context, resellerID int) ([]models.Client, error) {
	return s.clients.ListByReseller(ctx, resellerID)
}
