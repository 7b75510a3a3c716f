package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"shelfscout/internal/apperr"
	"shelfscout/internal/crown"
)

// CrownService owns the per-(item, region, cycle) lowest-price contention
// protocol and the append-only transfer ledger.
type CrownService struct {
	crowns crown.Repository
}

func NewCrownService(crowns crown.Repository) *CrownService {
	return &CrownService{crowns: crowns}
}

// CheckAndTransfer applies the transfer decision for a newly verified
// submission. The read of the current crown row and the decision+write are
// atomic with respect to other transfer attempts on the same triple; a lost
// race is retried transparently against the now-current row state.
func (s *CrownService) CheckAndTransfer(
	ctx context.Context,
	itemID, regionID, cycleID, userID, submissionID uuid.UUID,
	price decimal.Decimal,
) (*crown.Result, error) {
	key := crown.Key{ItemID: itemID, RegionID: regionID, CycleID: cycleID}

	var lastErr error
	for attempt := 0; attempt < crownTransferMaxRetries; attempt++ {
		if attempt > 0 {
			crownTransferRetries.Inc()
		}

		result := &crown.Result{}
		err := s.crowns.WithKeyLock(ctx, key, func(tx crown.Tx) error {
			return s.decide(ctx, tx, key, userID, submissionID, price, result)
		})
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, apperr.ErrConflict) {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("crown transfer kept losing races for item %s: %w", itemID, lastErr)
}

func (s *CrownService) decide(
	ctx context.Context,
	tx crown.Tx,
	key crown.Key,
	userID, submissionID uuid.UUID,
	price decimal.Decimal,
	result *crown.Result,
) error {
	current, err := tx.Current(ctx)
	if err != nil {
		return err
	}

	// First verified submission for the triple claims the crown outright.
	if current == nil {
		c := &crown.Crown{
			ID:           uuid.New(),
			ItemID:       key.ItemID,
			RegionID:     key.RegionID,
			CycleID:      key.CycleID,
			HolderID:     userID,
			SubmissionID: submissionID,
			LowestPrice:  price,
			Status:       crown.StatusActive,
		}
		if err := tx.Create(ctx, c); err != nil {
			return err
		}
		if err := tx.RecordTransfer(ctx, &crown.Transfer{
			ID:         uuid.New(),
			CrownID:    c.ID,
			FromUserID: nil,
			ToUserID:   userID,
			Price:      price,
		}); err != nil {
			return err
		}

		crownDecisions.WithLabelValues("claimed").Inc()
		result.Crown = c
		result.Transferred = true
		result.IsNew = true
		return nil
	}

	// Strictly lower price dethrones the holder.
	if price.LessThan(current.LowestPrice) {
		previousHolder := current.HolderID
		claimedAt := time.Now()

		if err := tx.Reassign(ctx, current.ID, userID, submissionID, price, claimedAt); err != nil {
			return err
		}
		if err := tx.RecordTransfer(ctx, &crown.Transfer{
			ID:         uuid.New(),
			CrownID:    current.ID,
			FromUserID: &previousHolder,
			ToUserID:   userID,
			Price:      price,
		}); err != nil {
			return err
		}

		crownDecisions.WithLabelValues("transferred").Inc()
		updated := *current
		updated.HolderID = userID
		updated.SubmissionID = submissionID
		updated.LowestPrice = price
		updated.Status = crown.StatusActive
		updated.ClaimedAt = claimedAt
		result.Crown = &updated
		result.Transferred = true
		return nil
	}

	// A near-tie that does not undercut marks the crown contested without a
	// ledger entry or ownership change.
	if price.Sub(current.LowestPrice).Abs().LessThanOrEqual(CrownContestThreshold) {
		if err := tx.MarkContested(ctx, current.ID); err != nil {
			return err
		}

		crownDecisions.WithLabelValues("contested").Inc()
		updated := *current
		updated.Status = crown.StatusContested
		result.Crown = &updated
		result.Contested = true
		return nil
	}

	crownDecisions.WithLabelValues("unchanged").Inc()
	result.Crown = current
	return nil
}

func (s *CrownService) GetCrowns(ctx context.Context, regionID uuid.UUID, cycleID *uuid.UUID) ([]*crown.Crown, error) {
	return s.crowns.GetByRegion(ctx, regionID, cycleID)
}

func (s *CrownService) GetUserCrowns(ctx context.Context, userID uuid.UUID) ([]*crown.Crown, error) {
	return s.crowns.GetByHolder(ctx, userID)
}

func (s *CrownService) GetHistory(ctx context.Context, crownID uuid.UUID) (*crown.History, error) {
	c, err := s.crowns.GetByID(ctx, crownID)
	if err != nil {
		return nil, err
	}

	transfers, err := s.crowns.Transfers(ctx, crownID)
	if err != nil {
		return nil, err
	}

	return &crown.History{Crown: c, Transfers: transfers}, nil
}
