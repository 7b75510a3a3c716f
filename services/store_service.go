package services

import (
	"context"

	"github.com/google/uuid"

	"shelfscout/internal/apperr"
	"shelfscout/internal/store"
)

const (
	defaultNearbyRadiusMeters = 5000.0
	maxNearbyRadiusMeters     = 50000.0
)

// StoreService serves geospatial store discovery.
type StoreService struct {
	stores store.Repository
}

func NewStoreService(stores store.Repository) *StoreService {
	return &StoreService{stores: stores}
}

func (s *StoreService) Nearby(ctx context.Context, lat, lng, radiusMeters float64) ([]*store.StoreWithDistance, error) {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, apperr.Validation("invalid GPS coordinates")
	}
	if radiusMeters <= 0 {
		radiusMeters = defaultNearbyRadiusMeters
	}
	if radiusMeters > maxNearbyRadiusMeters {
		radiusMeters = maxNearbyRadiusMeters
	}
	return s.stores.Nearby(ctx, lat, lng, radiusMeters)
}

func (s *StoreService) GetByID(ctx context.Context, id string) (*store.Store, error) {
	storeID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Validation("invalid store id")
	}
	return s.stores.GetByID(ctx, storeID)
}
