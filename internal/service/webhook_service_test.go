package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexatel/portal_api/internal/models"
	"github.com/nexatel/portal_api/internal/utils"
)

func newWebhookFixture() (*WebhookService, *fakeUserProductStore, *fakeUsageInvalidator) {
	userProducts := &fakeUserProductStore{
		instances: map[int]*models.UserProduct{
			1: {ID: 1, UserID: 1, ProductID: 10, ProviderRef: "REF-9", Status: models.UserProductActive},
		},
		endpoints: map[int]*models.UserProductEndpoint{
			3: {ID: 3, UserProductID: 1, Name: "Data usage", Path: "/v1/services/usage"},
			4: {ID: 4, UserProductID: 1, Name: "Voice usage", Path: "/v1/services/voice"},
		},
	}
	invalidator := &fakeUsageInvalidator{}
	return NewWebhookService(userProducts, invalidator), userProducts, invalidator
}

func TestStatusCallbackSuspends(t *testing.T) {
	svc, userProducts, invalidator := newWebhookFixture()

	err := svc.HandleStatusCallback(context.Background(), &StatusCallback{Ref: "REF-9", Status: "suspended"})
	require.NoError(t, err)

	assert.Equal(t, models.UserProductSuspended, userProducts.instances[1].Status)
	// Cached usage for every endpoint of the instance is dropped.
	assert.ElementsMatch(t, []int{3, 4}, invalidator.invalidated)
}

func TestStatusCallbackReactivates(t *testing.T) {
	svc, userProducts, _ := newWebhookFixture()
	userProducts.instances[1].Status = models.UserProductSuspended

	err := svc.HandleStatusCallback(context.Background(), &StatusCallback{Ref: "REF-9", Status: "active"})
	require.NoError(t, err)
	assert.Equal(t, models.UserProductActive, userProducts.instances[1].Status)
}

func TestStatusCallbackUnknownStatus(t *testing.T) {
	svc, userProducts, invalidator := newWebhookFixture()

	err := svc.HandleStatusCallback(context.Background(), &StatusCallback{Ref: "REF-9", Status: "terminated"})

	var vErr *utils.ValidationError
	require.True(t, errors.As(err, &vErr), "got %v", err)
	assert.Equal(t, "status", vErr.Field)

	// Nothing changed, nothing invalidated.
	assert.Equal(t, models.UserProductActive, userProducts.instances[1].Status)
	assert.Empty(t, invalidator.invalidated)
}

func TestStatusCallbackUnknownRef(t *testing.T) {
	svc, _, invalidator := newWebhookFixture()

	err := svc.HandleStatusCallback(context.Background(), &StatusCallback{Ref: "REF-404", Status: "active"})
	assert.ErrorIs(t, err, utils.ErrNotFound)
	assert.Empty(t, invalidator.invalidated)
}
