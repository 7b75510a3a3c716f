package validation

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the data-access contract for validation votes.
type Repository interface {
	// Create persists a vote. A second vote by the same validator on the same
	// submission fails with ErrDuplicate via the store's uniqueness
	// constraint, regardless of arrival order.
	Create(ctx context.Context, v *Validation) error
	HasVoted(ctx context.Context, submissionID, validatorID uuid.UUID) (bool, error)
	// CountVotes re-tallies all votes on a submission.
	CountVotes(ctx context.Context, submissionID uuid.UUID) (*Tally, error)
	// Validators lists every validator who has voted on a submission.
	Validators(ctx context.Context, submissionID uuid.UUID) ([]uuid.UUID, error)
	Stats(ctx context.Context, validatorID uuid.UUID) (*Stats, error)
}
