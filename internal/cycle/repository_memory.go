package cycle

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"shelfscout/internal/apperr"
)

type rotationKey struct {
	cycleID uuid.UUID
	itemID  uuid.UUID
}

// MemoryRepository is the in-memory implementation used by unit tests.
type MemoryRepository struct {
	mu       sync.RWMutex
	active   *WeeklyCycle
	rotation map[rotationKey]bool
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{rotation: make(map[rotationKey]bool)}
}

// SetActive installs the active cycle; pass nil to simulate no active window.
func (r *MemoryRepository) SetActive(c *WeeklyCycle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = c
}

// AddToRotation registers an item in a cycle's weekly rotation.
func (r *MemoryRepository) AddToRotation(cycleID, itemID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rotation[rotationKey{cycleID, itemID}] = true
}

func (r *MemoryRepository) GetActive(_ context.Context) (*WeeklyCycle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.active == nil {
		return nil, apperr.NotFound("active cycle")
	}
	cp := *r.active
	return &cp, nil
}

func (r *MemoryRepository) InRotation(_ context.Context, cycleID, itemID uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rotation[rotationKey{cycleID, itemID}], nil
}
