package submission

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"shelfscout/internal/apperr"
)

// voteChecker is the slice of the validation repository the pending queue
// needs to exclude already-voted submissions.
type voteChecker interface {
	HasVoted(ctx context.Context, submissionID, validatorID uuid.UUID) (bool, error)
}

// MemoryRepository is the in-memory implementation used by unit tests.
type MemoryRepository struct {
	mu          sync.RWMutex
	submissions map[uuid.UUID]*Submission
	votes       voteChecker
}

// NewMemoryRepository builds the repository; votes may be nil when queue
// filtering is not under test.
func NewMemoryRepository(votes voteChecker) *MemoryRepository {
	return &MemoryRepository{
		submissions: make(map[uuid.UUID]*Submission),
		votes:       votes,
	}
}

func (r *MemoryRepository) Create(_ context.Context, s *Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s.SubmittedAt.IsZero() {
		s.SubmittedAt = time.Now()
	}
	cp := *s
	r.submissions[s.ID] = &cp
	return nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.submissions[id]
	if !ok {
		return nil, apperr.NotFound("submission")
	}
	cp := *s
	return &cp, nil
}

func (r *MemoryRepository) GetByUser(_ context.Context, userID uuid.UUID) ([]*Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*Submission
	for _, s := range r.submissions {
		if s.UserID == userID {
			cp := *s
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (r *MemoryRepository) GetByStore(_ context.Context, storeID uuid.UUID) ([]*Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*Submission
	for _, s := range r.submissions {
		if s.StoreID == storeID {
			cp := *s
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (r *MemoryRepository) UpdateStatus(_ context.Context, id uuid.UUID, status Status) (*Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.submissions[id]
	if !ok {
		return nil, apperr.NotFound("submission")
	}
	if s.Status != StatusPending {
		return nil, apperr.ErrConflict
	}

	s.Status = status
	if status == StatusVerified {
		now := time.Now()
		s.VerifiedAt = &now
	}

	cp := *s
	return &cp, nil
}

func (r *MemoryRepository) CountSince(_ context.Context, userID uuid.UUID, since time.Time) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, s := range r.submissions {
		if s.UserID == userID && !s.SubmittedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

// All returns every stored submission; used by the in-memory stats
// repository.
func (r *MemoryRepository) All() []*Submission {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Submission, 0, len(r.submissions))
	for _, s := range r.submissions {
		cp := *s
		result = append(result, &cp)
	}
	return result
}

func (r *MemoryRepository) PendingQueue(ctx context.Context, userID uuid.UUID, limit int) ([]*Submission, error) {
	r.mu.RLock()
	var candidates []*Submission
	for _, s := range r.submissions {
		if s.Status == StatusPending && s.UserID != userID {
			cp := *s
			candidates = append(candidates, &cp)
		}
	}
	r.mu.RUnlock()

	var result []*Submission
	for _, s := range candidates {
		if r.votes != nil {
			voted, err := r.votes.HasVoted(ctx, s.ID, userID)
			if err != nil {
				return nil, err
			}
			if voted {
				continue
			}
		}
		result = append(result, s)
	}

	rand.Shuffle(len(result), func(i, j int) {
		result[i], result[j] = result[j], result[i]
	})

	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}
