package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shelfscout/internal/apperr"
)

func TestNearbyReturnsStoresClosestFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	regionID := uuid.New()
	near := env.addStore(regionID, 52.3700, 4.8900)
	far := env.addStore(regionID, 52.3790, 4.8900)
	env.addStore(regionID, 53.0000, 4.8900) // ~70km away, outside any sane radius

	stores, err := env.storeSvc.Nearby(ctx, 52.3701, 4.8900, 2000)
	require.NoError(t, err)

	require.Len(t, stores, 2)
	assert.Equal(t, near.ID, stores[0].ID)
	assert.Equal(t, far.ID, stores[1].ID)
	assert.Less(t, stores[0].DistanceMeters, stores[1].DistanceMeters)
}

func TestNearbyValidatesCoordinates(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.storeSvc.Nearby(context.Background(), 123.0, 4.89, 1000)
	assert.True(t, apperr.IsValidation(err))
}

func TestNearbyClampsRadius(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	regionID := uuid.New()
	env.addStore(regionID, 52.37, 4.89)

	// Zero radius falls back to the default rather than returning nothing.
	stores, err := env.storeSvc.Nearby(ctx, 52.37, 4.89, 0)
	require.NoError(t, err)
	assert.Len(t, stores, 1)
}

func TestGetStoreByIDRejectsBadID(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.storeSvc.GetByID(context.Background(), "not-a-uuid")
	assert.True(t, apperr.IsValidation(err))
}
