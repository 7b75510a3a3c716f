// Package stats holds the cross-entity aggregate queries consumed by the
// trust score engine, the badge evaluator and the user stats rollup. All of
// these are lock-free snapshot reads; a stale value at worst delays a badge
// or trust update by one recomputation.
package stats

import (
	"context"

	"github.com/google/uuid"
)

// SubmissionAccuracy counts a user's resolved submissions and how many of
// them were verified.
type SubmissionAccuracy struct {
	Resolved int
	Verified int
}

// ValidationAccuracy counts a user's votes on resolved submissions and how
// many matched the terminal status (confirm on verified, flag on rejected).
type ValidationAccuracy struct {
	Resolved int
	Accurate int
}

// SubmissionBreakdown is the per-status rollup for the user stats endpoint.
type SubmissionBreakdown struct {
	Total    int
	Verified int
	Rejected int
	Pending  int
}

type Repository interface {
	SubmissionAccuracy(ctx context.Context, userID uuid.UUID) (*SubmissionAccuracy, error)
	ValidationAccuracy(ctx context.Context, userID uuid.UUID) (*ValidationAccuracy, error)
	// FlagsReceived counts flag votes cast by others on the user's own
	// submissions.
	FlagsReceived(ctx context.Context, userID uuid.UUID) (int, error)
	SubmissionCount(ctx context.Context, userID uuid.UUID) (int, error)
	SubmissionBreakdown(ctx context.Context, userID uuid.UUID) (*SubmissionBreakdown, error)
	CrownCount(ctx context.Context, userID uuid.UUID) (int, error)
	ActiveCrownCount(ctx context.Context, userID uuid.UUID) (int, error)
	// CrownsEarned counts ledger entries transferring a crown to the user.
	CrownsEarned(ctx context.Context, userID uuid.UUID) (int, error)
	// WeeklyCrownDefenses counts verified challenger submissions in the given
	// cycle, for item/region pairs the user holds a crown on, whose price
	// failed to beat the crown's recorded lowest price.
	WeeklyCrownDefenses(ctx context.Context, userID, cycleID uuid.UUID) (int, error)
}
