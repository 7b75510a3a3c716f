package submission

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository is the data-access contract for submissions.
type Repository interface {
	Create(ctx context.Context, s *Submission) error
	GetByID(ctx context.Context, id uuid.UUID) (*Submission, error)
	GetByUser(ctx context.Context, userID uuid.UUID) ([]*Submission, error)
	GetByStore(ctx context.Context, storeID uuid.UUID) ([]*Submission, error)
	// UpdateStatus moves a pending submission to a terminal status, stamping
	// verified_at on verification. It fails with ErrConflict if the
	// submission is no longer pending, so terminal states stay immutable even
	// under concurrent resolution attempts.
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (*Submission, error)
	// CountSince counts a user's submissions created at or after a point in
	// time. Used for the daily submission limit.
	CountSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error)
	// PendingQueue returns up to limit pending submissions excluding the
	// user's own and any the user already voted on, in randomized order.
	PendingQueue(ctx context.Context, userID uuid.UUID, limit int) ([]*Submission, error)
}
