package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"shelfscout/internal/apperr"
	"shelfscout/internal/badge"
	"shelfscout/internal/cycle"
	"shelfscout/internal/stats"
)

// BadgeService evaluates the fixed achievement catalog against per-user
// aggregate counters. Awards are idempotent: the (user, badge) uniqueness
// guard turns repeat awards into silent no-ops.
type BadgeService struct {
	badges badge.Repository
	stats  stats.Repository
	cycles cycle.Repository
}

func NewBadgeService(badges badge.Repository, statsRepo stats.Repository, cycles cycle.Repository) *BadgeService {
	return &BadgeService{badges: badges, stats: statsRepo, cycles: cycles}
}

// CheckAndAward returns the names of badges newly awarded to the user.
func (s *BadgeService) CheckAndAward(ctx context.Context, userID uuid.UUID) ([]string, error) {
	unearned, err := s.badges.Unearned(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list unearned badges: %w", err)
	}
	if len(unearned) == 0 {
		return nil, nil
	}

	var (
		submissionCount int
		activeCrowns    int
		crownsEarned    int
		accuracy        *stats.ValidationAccuracy
		weeklyDefenses  int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		submissionCount, err = s.stats.SubmissionCount(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		activeCrowns, err = s.stats.ActiveCrownCount(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		crownsEarned, err = s.stats.CrownsEarned(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		accuracy, err = s.stats.ValidationAccuracy(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		weeklyDefenses, err = s.weeklyDefenses(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to gather badge counters: %w", err)
	}

	var awarded []string
	for _, b := range unearned {
		earned := false

		switch b.Criteria {
		case badge.CriteriaFirstSubmission:
			earned = submissionCount >= 1
		case badge.CriteriaCrownsEarned:
			earned = crownsEarned >= 1
		case badge.CriteriaAccurateValidations:
			earned = accuracy.Accurate >= 50
		case badge.CriteriaWeeklyDefenses:
			earned = weeklyDefenses >= 5
		case badge.CriteriaActiveCrowns:
			earned = activeCrowns >= 10
		}

		if !earned {
			continue
		}

		isNew, err := s.badges.Award(ctx, userID, b.ID)
		if err != nil {
			return awarded, err
		}
		if isNew {
			awarded = append(awarded, b.Name)
		}
	}

	return awarded, nil
}

func (s *BadgeService) weeklyDefenses(ctx context.Context, userID uuid.UUID) (int, error) {
	active, err := s.cycles.GetActive(ctx)
	if err != nil {
		if apperr.IsNotFound(err) {
			return 0, nil
		}
		return 0, err
	}
	return s.stats.WeeklyCrownDefenses(ctx, userID, active.ID)
}

func (s *BadgeService) GetUserBadges(ctx context.Context, userID uuid.UUID) ([]*badge.EarnedBadge, error) {
	return s.badges.ListByUser(ctx, userID)
}
