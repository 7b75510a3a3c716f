package stats

import (
	"context"

	"github.com/google/uuid"

	"shelfscout/internal/crown"
	"shelfscout/internal/store"
	"shelfscout/internal/submission"
	"shelfscout/internal/validation"
)

// MemoryRepository recomputes every aggregate from the sibling in-memory
// repositories, mirroring what the SQL implementation derives with joins.
// Used by unit tests.
type MemoryRepository struct {
	subs   *submission.MemoryRepository
	votes  *validation.MemoryRepository
	crowns *crown.MemoryRepository
	stores *store.MemoryRepository
}

func NewMemoryRepository(
	subs *submission.MemoryRepository,
	votes *validation.MemoryRepository,
	crowns *crown.MemoryRepository,
	stores *store.MemoryRepository,
) *MemoryRepository {
	return &MemoryRepository{subs: subs, votes: votes, crowns: crowns, stores: stores}
}

func (r *MemoryRepository) SubmissionAccuracy(_ context.Context, userID uuid.UUID) (*SubmissionAccuracy, error) {
	a := &SubmissionAccuracy{}
	for _, s := range r.subs.All() {
		if s.UserID != userID || !s.Status.Terminal() {
			continue
		}
		a.Resolved++
		if s.Status == submission.StatusVerified {
			a.Verified++
		}
	}
	return a, nil
}

func (r *MemoryRepository) ValidationAccuracy(ctx context.Context, userID uuid.UUID) (*ValidationAccuracy, error) {
	byID := r.submissionsByID()

	a := &ValidationAccuracy{}
	for _, v := range r.votes.All() {
		if v.ValidatorID != userID {
			continue
		}
		s, ok := byID[v.SubmissionID]
		if !ok || !s.Status.Terminal() {
			continue
		}
		a.Resolved++
		if (v.Vote == validation.VoteConfirm && s.Status == submission.StatusVerified) ||
			(v.Vote == validation.VoteFlag && s.Status == submission.StatusRejected) {
			a.Accurate++
		}
	}
	return a, nil
}

func (r *MemoryRepository) FlagsReceived(_ context.Context, userID uuid.UUID) (int, error) {
	byID := r.submissionsByID()

	count := 0
	for _, v := range r.votes.All() {
		if v.Vote != validation.VoteFlag {
			continue
		}
		if s, ok := byID[v.SubmissionID]; ok && s.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (r *MemoryRepository) SubmissionCount(_ context.Context, userID uuid.UUID) (int, error) {
	count := 0
	for _, s := range r.subs.All() {
		if s.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (r *MemoryRepository) SubmissionBreakdown(_ context.Context, userID uuid.UUID) (*SubmissionBreakdown, error) {
	b := &SubmissionBreakdown{}
	for _, s := range r.subs.All() {
		if s.UserID != userID {
			continue
		}
		b.Total++
		switch s.Status {
		case submission.StatusVerified:
			b.Verified++
		case submission.StatusRejected:
			b.Rejected++
		case submission.StatusPending:
			b.Pending++
		}
	}
	return b, nil
}

func (r *MemoryRepository) CrownCount(_ context.Context, userID uuid.UUID) (int, error) {
	count := 0
	for _, c := range r.crowns.AllCrowns() {
		if c.HolderID == userID {
			count++
		}
	}
	return count, nil
}

func (r *MemoryRepository) ActiveCrownCount(_ context.Context, userID uuid.UUID) (int, error) {
	count := 0
	for _, c := range r.crowns.AllCrowns() {
		if c.HolderID == userID && c.Status == crown.StatusActive {
			count++
		}
	}
	return count, nil
}

func (r *MemoryRepository) CrownsEarned(_ context.Context, userID uuid.UUID) (int, error) {
	count := 0
	for _, t := range r.crowns.AllTransfers() {
		if t.ToUserID == userID {
			count++
		}
	}
	return count, nil
}

func (r *MemoryRepository) WeeklyCrownDefenses(ctx context.Context, userID, cycleID uuid.UUID) (int, error) {
	count := 0
	for _, c := range r.crowns.AllCrowns() {
		if c.HolderID != userID || c.CycleID != cycleID {
			continue
		}
		for _, s := range r.subs.All() {
			if s.ItemID != c.ItemID || s.CycleID != c.CycleID {
				continue
			}
			if s.Status != submission.StatusVerified || s.UserID == userID {
				continue
			}
			st, err := r.stores.GetByID(ctx, s.StoreID)
			if err != nil || st.RegionID == nil || *st.RegionID != c.RegionID {
				continue
			}
			if s.Price.GreaterThanOrEqual(c.LowestPrice) {
				count++
			}
		}
	}
	return count, nil
}

func (r *MemoryRepository) submissionsByID() map[uuid.UUID]*submission.Submission {
	byID := make(map[uuid.UUID]*submission.Submission)
	for _, s := range r.subs.All() {
		byID[s.ID] = s
	}
	return byID
}
