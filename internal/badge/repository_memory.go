package badge

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type awardKey struct {
	userID  uuid.UUID
	badgeID uuid.UUID
}

// MemoryRepository is the in-memory implementation used by unit tests.
type MemoryRepository struct {
	mu      sync.RWMutex
	catalog []*Badge
	awards  map[awardKey]time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{awards: make(map[awardKey]time.Time)}
}

// Seed installs the badge catalog.
func (r *MemoryRepository) Seed(badges ...*Badge) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range badges {
		cp := *b
		r.catalog = append(r.catalog, &cp)
	}
}

func (r *MemoryRepository) Unearned(_ context.Context, userID uuid.UUID) ([]*Badge, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*Badge
	for _, b := range r.catalog {
		if _, earned := r.awards[awardKey{userID, b.ID}]; !earned {
			cp := *b
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (r *MemoryRepository) Award(_ context.Context, userID, badgeID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := awardKey{userID, badgeID}
	if _, exists := r.awards[key]; exists {
		return false, nil
	}
	r.awards[key] = time.Now()
	return true, nil
}

func (r *MemoryRepository) ListByUser(_ context.Context, userID uuid.UUID) ([]*EarnedBadge, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*EarnedBadge
	for _, b := range r.catalog {
		if earnedAt, earned := r.awards[awardKey{userID, b.ID}]; earned {
			result = append(result, &EarnedBadge{Badge: *b, EarnedAt: earnedAt})
		}
	}
	return result, nil
}

func (r *MemoryRepository) CountByUser(_ context.Context, userID uuid.UUID) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for key := range r.awards {
		if key.userID == userID {
			count++
		}
	}
	return count, nil
}
