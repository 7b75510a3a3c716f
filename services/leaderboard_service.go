package services

import (
	"context"

	"github.com/google/uuid"

	"shelfscout/internal/apperr"
	"shelfscout/internal/cycle"
	"shelfscout/internal/leaderboard"
)

const defaultLeaderboardLimit = 50

// LeaderboardService serves the ranking projections. All three boards are
// read-only snapshots; ties beyond the ordering rule are broken by the store.
type LeaderboardService struct {
	boards leaderboard.Repository
	cycles cycle.Repository
}

func NewLeaderboardService(boards leaderboard.Repository, cycles cycle.Repository) *LeaderboardService {
	return &LeaderboardService{boards: boards, cycles: cycles}
}

func (s *LeaderboardService) Regional(ctx context.Context, regionID string, limit int) ([]*leaderboard.Entry, error) {
	id, err := uuid.Parse(regionID)
	if err != nil {
		return nil, apperr.Validation("invalid region id")
	}
	return s.boards.Regional(ctx, id, clampLimit(limit))
}

func (s *LeaderboardService) National(ctx context.Context, limit int) ([]*leaderboard.Entry, error) {
	return s.boards.National(ctx, clampLimit(limit))
}

// Weekly ranks verified submissions in the active cycle. No active cycle means
// an empty board, not an error.
func (s *LeaderboardService) Weekly(ctx context.Context, limit int) ([]*leaderboard.WeeklyEntry, error) {
	active, err := s.cycles.GetActive(ctx)
	if err != nil {
		if apperr.IsNotFound(err) {
			return []*leaderboard.WeeklyEntry{}, nil
		}
		return nil, err
	}
	return s.boards.Weekly(ctx, active.ID, clampLimit(limit))
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return defaultLeaderboardLimit
	}
	return limit
}
