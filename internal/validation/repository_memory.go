package validation

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"shelfscout/internal/apperr"
)

type voteKey struct {
	submissionID uuid.UUID
	validatorID  uuid.UUID
}

// MemoryRepository is the in-memory implementation used by unit tests. The
// voteKey map stands in for the (submission_id, validator_id) uniqueness
// constraint.
type MemoryRepository struct {
	mu    sync.RWMutex
	votes map[voteKey]*Validation
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{votes: make(map[voteKey]*Validation)}
}

func (r *MemoryRepository) Create(_ context.Context, v *Validation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := voteKey{v.SubmissionID, v.ValidatorID}
	if _, exists := r.votes[key]; exists {
		return apperr.ErrDuplicate
	}

	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now()
	}
	cp := *v
	r.votes[key] = &cp
	return nil
}

func (r *MemoryRepository) HasVoted(_ context.Context, submissionID, validatorID uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, voted := r.votes[voteKey{submissionID, validatorID}]
	return voted, nil
}

func (r *MemoryRepository) CountVotes(_ context.Context, submissionID uuid.UUID) (*Tally, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t := &Tally{}
	for key, v := range r.votes {
		if key.submissionID != submissionID {
			continue
		}
		switch v.Vote {
		case VoteConfirm:
			t.Confirms++
		case VoteFlag:
			t.Flags++
		}
	}
	return t, nil
}

func (r *MemoryRepository) Validators(_ context.Context, submissionID uuid.UUID) ([]uuid.UUID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var validators []uuid.UUID
	for key := range r.votes {
		if key.submissionID == submissionID {
			validators = append(validators, key.validatorID)
		}
	}
	return validators, nil
}

func (r *MemoryRepository) Stats(_ context.Context, validatorID uuid.UUID) (*Stats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := &Stats{}
	for key, v := range r.votes {
		if key.validatorID != validatorID {
			continue
		}
		s.Total++
		switch v.Vote {
		case VoteConfirm:
			s.Confirms++
		case VoteFlag:
			s.Flags++
		}
	}
	return s, nil
}

// All returns every stored vote; used by the in-memory stats repository.
func (r *MemoryRepository) All() []*Validation {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Validation, 0, len(r.votes))
	for _, v := range r.votes {
		cp := *v
		result = append(result, &cp)
	}
	return result
}
