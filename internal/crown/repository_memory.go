package crown

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"shelfscout/internal/apperr"
)

// MemoryRepository is the in-memory implementation used by unit tests. A
// per-key mutex map stands in for the row-level lock; a sequence number keeps
// ledger order stable when timestamps collide.
type MemoryRepository struct {
	mu        sync.Mutex
	keyLocks  map[Key]*sync.Mutex
	crowns    map[uuid.UUID]*Crown
	byKey     map[Key]uuid.UUID
	transfers []*memTransfer
	seq       int
}

type memTransfer struct {
	Transfer
	seq int
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		keyLocks: make(map[Key]*sync.Mutex),
		crowns:   make(map[uuid.UUID]*Crown),
		byKey:    make(map[Key]uuid.UUID),
	}
}

func (r *MemoryRepository) lockFor(key Key) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.keyLocks[key]
	if !ok {
		l = &sync.Mutex{}
		r.keyLocks[key] = l
	}
	return l
}

func (r *MemoryRepository) WithKeyLock(_ context.Context, key Key, fn func(tx Tx) error) error {
	l := r.lockFor(key)
	l.Lock()
	defer l.Unlock()

	return fn(&memoryTx{repo: r, key: key})
}

type memoryTx struct {
	repo *MemoryRepository
	key  Key
}

func (t *memoryTx) Current(_ context.Context) (*Crown, error) {
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()

	id, ok := t.repo.byKey[t.key]
	if !ok {
		return nil, nil
	}
	cp := *t.repo.crowns[id]
	return &cp, nil
}

func (t *memoryTx) Create(_ context.Context, c *Crown) error {
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()

	if _, exists := t.repo.byKey[t.key]; exists {
		return apperr.ErrConflict
	}

	if c.ClaimedAt.IsZero() {
		c.ClaimedAt = time.Now()
	}
	cp := *c
	t.repo.crowns[c.ID] = &cp
	t.repo.byKey[t.key] = c.ID
	return nil
}

func (t *memoryTx) Reassign(_ context.Context, crownID, holderID, submissionID uuid.UUID, price decimal.Decimal, claimedAt time.Time) error {
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()

	c, ok := t.repo.crowns[crownID]
	if !ok {
		return apperr.NotFound("crown")
	}
	c.HolderID = holderID
	c.SubmissionID = submissionID
	c.LowestPrice = price
	c.Status = StatusActive
	c.ClaimedAt = claimedAt
	return nil
}

func (t *memoryTx) MarkContested(_ context.Context, crownID uuid.UUID) error {
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()

	c, ok := t.repo.crowns[crownID]
	if !ok {
		return apperr.NotFound("crown")
	}
	c.Status = StatusContested
	return nil
}

func (t *memoryTx) RecordTransfer(_ context.Context, tr *Transfer) error {
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()

	if tr.TransferredAt.IsZero() {
		tr.TransferredAt = time.Now()
	}
	t.repo.seq++
	cp := memTransfer{Transfer: *tr, seq: t.repo.seq}
	t.repo.transfers = append(t.repo.transfers, &cp)
	return nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Crown, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.crowns[id]
	if !ok {
		return nil, apperr.NotFound("crown")
	}
	cp := *c
	return &cp, nil
}

func (r *MemoryRepository) GetByRegion(_ context.Context, regionID uuid.UUID, cycleID *uuid.UUID) ([]*Crown, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*Crown
	for _, c := range r.crowns {
		if c.RegionID != regionID {
			continue
		}
		if cycleID != nil && c.CycleID != *cycleID {
			continue
		}
		cp := *c
		result = append(result, &cp)
	}
	return result, nil
}

func (r *MemoryRepository) GetByHolder(_ context.Context, holderID uuid.UUID) ([]*Crown, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*Crown
	for _, c := range r.crowns {
		if c.HolderID == holderID {
			cp := *c
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (r *MemoryRepository) Transfers(_ context.Context, crownID uuid.UUID) ([]*Transfer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*memTransfer
	for _, t := range r.transfers {
		if t.CrownID == crownID {
			result = append(result, t)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].seq < result[j].seq })

	out := make([]*Transfer, 0, len(result))
	for _, t := range result {
		cp := t.Transfer
		out = append(out, &cp)
	}
	return out, nil
}

// AllCrowns returns every crown; used by the in-memory stats repository.
func (r *MemoryRepository) AllCrowns() []*Crown {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]*Crown, 0, len(r.crowns))
	for _, c := range r.crowns {
		cp := *c
		result = append(result, &cp)
	}
	return result
}

// AllTransfers returns the full ledger; used by the in-memory stats
// repository.
func (r *MemoryRepository) AllTransfers() []*Transfer {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]*Transfer, 0, len(r.transfers))
	for _, t := range r.transfers {
		cp := t.Transfer
		result = append(result, &cp)
	}
	return result
}
