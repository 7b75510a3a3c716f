package services

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"shelfscout/internal/apperr"
	"shelfscout/internal/cycle"
	"shelfscout/internal/store"
	"shelfscout/internal/submission"
)

// SubmissionService gates submission creation behind the active cycle, the
// item rotation, GPS proximity to the claimed store and the daily limit.
// Creation never mutates contested state; only consensus resolution does.
type SubmissionService struct {
	subs   submission.Repository
	cycles cycle.Repository
	stores store.Repository
	badges *BadgeService
}

func NewSubmissionService(
	subs submission.Repository,
	cycles cycle.Repository,
	stores store.Repository,
	badges *BadgeService,
) *SubmissionService {
	return &SubmissionService{subs: subs, cycles: cycles, stores: stores, badges: badges}
}

func (s *SubmissionService) Create(ctx context.Context, userID uuid.UUID, req *submission.CreateRequest) (*submission.CreateResponse, error) {
	storeID, err := uuid.Parse(req.StoreID)
	if err != nil {
		return nil, apperr.Validation("invalid store id")
	}
	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		return nil, apperr.Validation("invalid item id")
	}
	if !req.Price.GreaterThan(decimal.Zero) {
		return nil, apperr.Validation("price must be positive")
	}
	if req.GpsLat < -90 || req.GpsLat > 90 || req.GpsLng < -180 || req.GpsLng > 180 {
		return nil, apperr.Validation("invalid GPS coordinates")
	}

	active, err := s.cycles.GetActive(ctx)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Validation("no active weekly cycle")
		}
		return nil, err
	}

	inRotation, err := s.cycles.InRotation(ctx, active.ID, itemID)
	if err != nil {
		return nil, err
	}
	if !inRotation {
		return nil, apperr.Validation("item is not in this week's rotation")
	}

	distance, err := s.stores.DistanceTo(ctx, storeID, req.GpsLat, req.GpsLng)
	if err != nil {
		return nil, err
	}
	if distance > StoreProximityRadiusMeters {
		return nil, apperr.Validation("you must be within %.0fm of the store to submit a price", StoreProximityRadiusMeters)
	}

	count, err := s.subs.CountSince(ctx, userID, time.Now().Add(-24*time.Hour))
	if err != nil {
		return nil, err
	}
	if count >= DailySubmissionLimit {
		return nil, apperr.Validation("daily submission limit reached")
	}

	sub := &submission.Submission{
		ID:       uuid.New(),
		UserID:   userID,
		StoreID:  storeID,
		ItemID:   itemID,
		CycleID:  active.ID,
		Price:    req.Price,
		PhotoURL: req.PhotoURL,
		Status:   submission.StatusPending,
		GpsLat:   req.GpsLat,
		GpsLng:   req.GpsLng,
	}
	if err := s.subs.Create(ctx, sub); err != nil {
		return nil, err
	}

	// First Submission badge, at most. A failure here never unwinds the
	// created submission.
	awarded, err := s.badges.CheckAndAward(ctx, userID)
	if err != nil {
		log.Printf("badge evaluation failed after submission %s: %v", sub.ID, err)
		awarded = nil
	}

	return &submission.CreateResponse{Submission: sub, BadgesAwarded: awarded}, nil
}

func (s *SubmissionService) GetByID(ctx context.Context, id uuid.UUID) (*submission.Submission, error) {
	return s.subs.GetByID(ctx, id)
}

func (s *SubmissionService) GetByUser(ctx context.Context, userID uuid.UUID) ([]*submission.Submission, error) {
	return s.subs.GetByUser(ctx, userID)
}

func (s *SubmissionService) GetByStore(ctx context.Context, storeID uuid.UUID) ([]*submission.Submission, error) {
	return s.subs.GetByStore(ctx, storeID)
}
