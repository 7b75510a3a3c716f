package leaderboard

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Entry ranks a user by active crowns held, then verified submissions.
type Entry struct {
	UserID          uuid.UUID       `json:"user_id" db:"id"`
	Username        string          `json:"username" db:"username"`
	TrustScore      decimal.Decimal `json:"trust_score" db:"trust_score"`
	CrownCount      int             `json:"crown_count" db:"crown_count"`
	SubmissionCount int             `json:"submission_count" db:"submission_count"`
}

// WeeklyEntry ranks a user by verified submissions in the active cycle.
type WeeklyEntry struct {
	UserID              uuid.UUID       `json:"user_id" db:"id"`
	Username            string          `json:"username" db:"username"`
	VerifiedSubmissions int             `json:"verified_submissions" db:"verified_submissions"`
	BestPrice           decimal.Decimal `json:"best_price" db:"best_price"`
}

// Repository serves the read-only ranking projections. These are plain
// snapshot queries with no contested state, so there is no in-memory variant.
type Repository interface {
	Regional(ctx context.Context, regionID uuid.UUID, limit int) ([]*Entry, error)
	National(ctx context.Context, limit int) ([]*Entry, error)
	Weekly(ctx context.Context, cycleID uuid.UUID, limit int) ([]*WeeklyEntry, error)
}
