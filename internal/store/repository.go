package store

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the geospatial store lookup consumed by submission creation
// and by the nearby-stores endpoint.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Store, error)
	// DistanceTo returns the distance in meters from a point to the store.
	DistanceTo(ctx context.Context, storeID uuid.UUID, lat, lng float64) (float64, error)
	// Nearby returns stores within radius meters of a point, closest first.
	Nearby(ctx context.Context, lat, lng, radiusMeters float64) ([]*StoreWithDistance, error)
}
