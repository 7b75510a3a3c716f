package user

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"shelfscout/internal/apperr"
)

// MemoryRepository is the in-memory implementation used by unit tests.
type MemoryRepository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[uuid.UUID]*User)}
}

func (r *MemoryRepository) Create(_ context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == u.Email || existing.Username == u.Username {
			return apperr.ErrDuplicate
		}
	}

	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, apperr.NotFound("user")
	}
	cp := *u
	return &cp, nil
}

func (r *MemoryRepository) GetByEmail(_ context.Context, email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("user")
}

func (r *MemoryRepository) UsernameTaken(_ context.Context, username string, excluding uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Username == username && u.ID != excluding {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryRepository) UpdateUsername(_ context.Context, id uuid.UUID, username string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, apperr.NotFound("user")
	}
	u.Username = username
	cp := *u
	return &cp, nil
}

func (r *MemoryRepository) UpdateTrustScore(_ context.Context, id uuid.UUID, score decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return apperr.NotFound("user")
	}
	u.TrustScore = score
	return nil
}
