package crown

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tx is the view of crown storage inside the critical section. All methods
// operate under the exclusive lock taken by WithKeyLock.
type Tx interface {
	// Current returns the locked crown row for the key, or nil when no crown
	// exists yet for the triple.
	Current(ctx context.Context) (*Crown, error)
	// Create inserts the first crown for the triple. Loses to a concurrent
	// creator with ErrConflict (uniqueness on item/region/cycle).
	Create(ctx context.Context, c *Crown) error
	Reassign(ctx context.Context, crownID, holderID, submissionID uuid.UUID, price decimal.Decimal, claimedAt time.Time) error
	MarkContested(ctx context.Context, crownID uuid.UUID) error
	RecordTransfer(ctx context.Context, t *Transfer) error
}

// Repository is the data-access contract for crowns and their ledger.
type Repository interface {
	// WithKeyLock runs fn with exclusive access to the crown row for key,
	// held for the duration of the decision. Returns ErrConflict when the
	// section loses a race and should be re-run against current state.
	WithKeyLock(ctx context.Context, key Key, fn func(tx Tx) error) error
	GetByID(ctx context.Context, id uuid.UUID) (*Crown, error)
	GetByRegion(ctx context.Context, regionID uuid.UUID, cycleID *uuid.UUID) ([]*Crown, error)
	GetByHolder(ctx context.Context, holderID uuid.UUID) ([]*Crown, error)
	// Transfers returns a crown's ledger in transfer-time order.
	Transfers(ctx context.Context, crownID uuid.UUID) ([]*Transfer, error)
}
