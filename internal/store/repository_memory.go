package store

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/google/uuid"

	"shelfscout/internal/apperr"
)

// MemoryRepository is the in-memory implementation used by unit tests. It
// approximates PostGIS distances with the haversine formula.
type MemoryRepository struct {
	mu     sync.RWMutex
	stores map[uuid.UUID]*Store
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{stores: make(map[uuid.UUID]*Store)}
}

func (r *MemoryRepository) Add(s *Store) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.stores[s.ID] = &cp
}

func (r *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.stores[id]
	if !ok {
		return nil, apperr.NotFound("store")
	}
	cp := *s
	return &cp, nil
}

func (r *MemoryRepository) DistanceTo(_ context.Context, storeID uuid.UUID, lat, lng float64) (float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.stores[storeID]
	if !ok {
		return 0, apperr.NotFound("store")
	}
	return haversineMeters(lat, lng, s.Lat, s.Lng), nil
}

func (r *MemoryRepository) Nearby(_ context.Context, lat, lng, radiusMeters float64) ([]*StoreWithDistance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*StoreWithDistance
	for _, s := range r.stores {
		d := haversineMeters(lat, lng, s.Lat, s.Lng)
		if d <= radiusMeters {
			result = append(result, &StoreWithDistance{Store: *s, DistanceMeters: d})
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].DistanceMeters < result[j].DistanceMeters
	})

	return result, nil
}

const earthRadiusMeters = 6371000

func haversineMeters(lat1, lng1, lat2, lng2 float64) float64 {
	rad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := rad(lat2 - lat1)
	dLng := rad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)

	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
