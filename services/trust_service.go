package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"shelfscout/internal/stats"
	"shelfscout/internal/user"
)

// Trust score formula weights. The score is always recomputed from full
// history, never patched incrementally, so missed or duplicated events cannot
// make it drift.
var (
	trustBase             = decimal.RequireFromString("1.00")
	trustSubmissionWeight = decimal.RequireFromString("0.50")
	trustValidationWeight = decimal.RequireFromString("0.30")
	trustFlagPenalty      = decimal.RequireFromString("0.08")
	trustFlagPenaltyCap   = decimal.RequireFromString("0.80")
	trustFloor            = decimal.RequireFromString("0.10")
	trustCeiling          = decimal.RequireFromString("2.00")
)

// TrustService recomputes the bounded reputation scalar per user.
type TrustService struct {
	stats stats.Repository
	users user.Repository
}

func NewTrustService(statsRepo stats.Repository, users user.Repository) *TrustService {
	return &TrustService{stats: statsRepo, users: users}
}

// Recalculate derives the score from full history and persists it:
// base 1.00, plus submission accuracy (up to +0.50), plus validation accuracy
// (up to +0.30), minus flags received (0.08 each, capped at 0.80), clamped to
// [0.10, 2.00] and rounded to 2 decimal places. Empty history contributes
// nothing, so a new user scores exactly 1.00.
func (s *TrustService) Recalculate(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	subAcc, err := s.stats.SubmissionAccuracy(ctx, userID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get submission accuracy: %w", err)
	}

	valAcc, err := s.stats.ValidationAccuracy(ctx, userID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get validation accuracy: %w", err)
	}

	flags, err := s.stats.FlagsReceived(ctx, userID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to count flags received: %w", err)
	}

	score := trustBase

	if subAcc.Resolved > 0 {
		ratio := decimal.NewFromInt(int64(subAcc.Verified)).Div(decimal.NewFromInt(int64(subAcc.Resolved)))
		score = score.Add(ratio.Mul(trustSubmissionWeight))
	}

	if valAcc.Resolved > 0 {
		ratio := decimal.NewFromInt(int64(valAcc.Accurate)).Div(decimal.NewFromInt(int64(valAcc.Resolved)))
		score = score.Add(ratio.Mul(trustValidationWeight))
	}

	penalty := trustFlagPenalty.Mul(decimal.NewFromInt(int64(flags)))
	if penalty.GreaterThan(trustFlagPenaltyCap) {
		penalty = trustFlagPenaltyCap
	}
	score = score.Sub(penalty)

	if score.LessThan(trustFloor) {
		score = trustFloor
	}
	if score.GreaterThan(trustCeiling) {
		score = trustCeiling
	}
	score = score.Round(2)

	if err := s.users.UpdateTrustScore(ctx, userID, score); err != nil {
		return decimal.Zero, err
	}

	return score, nil
}
