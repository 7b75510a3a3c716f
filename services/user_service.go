package services

import (
	"context"

	"github.com/google/uuid"

	"shelfscout/internal/apperr"
	"shelfscout/internal/badge"
	"shelfscout/internal/stats"
	"shelfscout/internal/user"
	"shelfscout/internal/validation"
)

// UserService serves profile reads/updates and the per-user stats rollup.
type UserService struct {
	users  user.Repository
	stats  stats.Repository
	votes  validation.Repository
	badges badge.Repository
}

func NewUserService(
	users user.Repository,
	statsRepo stats.Repository,
	votes validation.Repository,
	badges badge.Repository,
) *UserService {
	return &UserService{users: users, stats: statsRepo, votes: votes, badges: badges}
}

func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *user.UpdateProfileRequest) (*user.User, error) {
	if len(req.Username) < 3 {
		return nil, apperr.Validation("username must be at least 3 characters")
	}

	taken, err := s.users.UsernameTaken(ctx, req.Username, userID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.Validation("username already taken")
	}

	return s.users.UpdateUsername(ctx, userID, req.Username)
}

func (s *UserService) GetBadges(ctx context.Context, userID uuid.UUID) ([]*badge.EarnedBadge, error) {
	return s.badges.ListByUser(ctx, userID)
}

func (s *UserService) GetStats(ctx context.Context, userID uuid.UUID) (*user.Stats, error) {
	crowns, err := s.stats.ActiveCrownCount(ctx, userID)
	if err != nil {
		return nil, err
	}

	breakdown, err := s.stats.SubmissionBreakdown(ctx, userID)
	if err != nil {
		return nil, err
	}

	voteStats, err := s.votes.Stats(ctx, userID)
	if err != nil {
		return nil, err
	}

	badgeCount, err := s.badges.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	st := &user.Stats{Crowns: crowns, Badges: badgeCount}
	st.Submissions.Total = breakdown.Total
	st.Submissions.Verified = breakdown.Verified
	st.Submissions.Rejected = breakdown.Rejected
	st.Submissions.Pending = breakdown.Pending
	st.Validations.Total = voteStats.Total
	st.Validations.Confirms = voteStats.Confirms
	st.Validations.Flags = voteStats.Flags
	return st, nil
}
