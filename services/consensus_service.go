package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"shelfscout/internal/apperr"
	"shelfscout/internal/store"
	"shelfscout/internal/submission"
	"shelfscout/internal/validation"
)

// ConsensusService tallies validator votes, resolves submissions when a
// threshold is reached and fans out to the crown resolver, badge evaluator
// and trust engine.
type ConsensusService struct {
	subs   submission.Repository
	votes  validation.Repository
	stores store.Repository
	crowns *CrownService
	badges *BadgeService
	trust  *TrustService
}

func NewConsensusService(
	subs submission.Repository,
	votes validation.Repository,
	stores store.Repository,
	crowns *CrownService,
	badges *BadgeService,
	trust *TrustService,
) *ConsensusService {
	return &ConsensusService{
		subs:   subs,
		votes:  votes,
		stores: stores,
		crowns: crowns,
		badges: badges,
		trust:  trust,
	}
}

type VoteResult struct {
	Validation       *validation.Validation `json:"validation"`
	ConsensusReached bool                   `json:"consensus_reached"`
	Result           submission.Status      `json:"result"`
}

// SubmitVote records one validator's vote and re-tallies the submission. All
// preconditions are checked before anything is persisted; the duplicate-vote
// check additionally rides on the store's uniqueness constraint so that two
// concurrent votes from the same validator yield exactly one accepted vote.
func (s *ConsensusService) SubmitVote(
	ctx context.Context,
	submissionID, validatorID uuid.UUID,
	vote validation.Vote,
	reason *string,
) (*VoteResult, error) {
	if vote != validation.VoteConfirm && vote != validation.VoteFlag {
		return nil, apperr.Validation("vote must be 'confirm' or 'flag'")
	}

	sub, err := s.subs.GetByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	if sub.Status != submission.StatusPending {
		return nil, apperr.Validation("submission is no longer pending")
	}
	if sub.UserID == validatorID {
		return nil, apperr.Validation("cannot validate your own submission")
	}

	voted, err := s.votes.HasVoted(ctx, submissionID, validatorID)
	if err != nil {
		return nil, err
	}
	if voted {
		return nil, apperr.Validation("you have already voted on this submission")
	}

	v := &validation.Validation{
		ID:           uuid.New(),
		SubmissionID: submissionID,
		ValidatorID:  validatorID,
		Vote:         vote,
		Reason:       reason,
	}
	if err := s.votes.Create(ctx, v); err != nil {
		// The constraint catches the race the HasVoted read cannot.
		if errors.Is(err, apperr.ErrDuplicate) {
			return nil, apperr.Validation("you have already voted on this submission")
		}
		return nil, err
	}

	// The vote itself can complete the Trusted Validator badge. A failure
	// here never unwinds the recorded vote.
	if _, err := s.badges.CheckAndAward(ctx, validatorID); err != nil {
		log.Printf("badge evaluation failed for validator %s: %v", validatorID, err)
	}

	reached, result, err := s.checkConsensus(ctx, sub)
	if err != nil {
		return nil, err
	}

	return &VoteResult{Validation: v, ConsensusReached: reached, Result: result}, nil
}

// checkConsensus re-tallies all votes on the submission and applies the
// resolution rule: confirm threshold first, then flag threshold. Only the
// caller that wins the status transition runs the resolution cascade, so the
// fan-out fires exactly once per submission.
func (s *ConsensusService) checkConsensus(ctx context.Context, sub *submission.Submission) (bool, submission.Status, error) {
	tally, err := s.votes.CountVotes(ctx, sub.ID)
	if err != nil {
		return false, sub.Status, err
	}

	switch {
	case tally.Confirms >= ValidationThreshold:
		return s.resolve(ctx, sub, submission.StatusVerified)
	case tally.Flags >= ValidationThreshold:
		return s.resolve(ctx, sub, submission.StatusRejected)
	default:
		return false, submission.StatusPending, nil
	}
}

func (s *ConsensusService) resolve(ctx context.Context, sub *submission.Submission, status submission.Status) (bool, submission.Status, error) {
	resolved, err := s.subs.UpdateStatus(ctx, sub.ID, status)
	if err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			// A concurrent vote already resolved the submission; its caller
			// owns the cascade.
			current, err := s.subs.GetByID(ctx, sub.ID)
			if err != nil {
				return false, sub.Status, err
			}
			return true, current.Status, nil
		}
		return false, sub.Status, err
	}

	submissionsResolved.WithLabelValues(string(status)).Inc()

	if status == submission.StatusVerified {
		s.triggerCrownCheck(ctx, resolved)
	}
	s.fanOut(ctx, resolved)

	return true, status, nil
}

// triggerCrownCheck hands the verified submission to the crown resolver. The
// submission status is the durable source of truth: a crown failure here is a
// recoverable background error, reconcilable by replay, never a rollback.
func (s *ConsensusService) triggerCrownCheck(ctx context.Context, sub *submission.Submission) {
	st, err := s.stores.GetByID(ctx, sub.StoreID)
	if err != nil {
		log.Printf("crown check: failed to load store %s for submission %s: %v", sub.StoreID, sub.ID, err)
		return
	}
	if st.RegionID == nil {
		return
	}

	_, err = s.crowns.CheckAndTransfer(ctx, sub.ItemID, *st.RegionID, sub.CycleID, sub.UserID, sub.ID, sub.Price)
	if err != nil {
		log.Printf("crown check failed for submission %s: %v", sub.ID, err)
	}
}

// fanOut re-evaluates badges and trust for the submitter and every validator
// on the resolved submission. Each step is idempotent and independently
// retryable; failures are logged and never unwind the committed resolution.
func (s *ConsensusService) fanOut(ctx context.Context, sub *submission.Submission) {
	validators, err := s.votes.Validators(ctx, sub.ID)
	if err != nil {
		log.Printf("resolution fan-out: failed to list validators for submission %s: %v", sub.ID, err)
		return
	}

	affected := append([]uuid.UUID{sub.UserID}, validators...)
	for _, userID := range affected {
		if _, err := s.badges.CheckAndAward(ctx, userID); err != nil {
			log.Printf("resolution fan-out: badge evaluation failed for user %s: %v", userID, err)
		}
		if _, err := s.trust.Recalculate(ctx, userID); err != nil {
			log.Printf("resolution fan-out: trust recompute failed for user %s: %v", userID, err)
		}
	}
}

// GetQueue returns up to limit pending submissions the user can vote on,
// excluding their own and any they already voted on. Order is randomized; no
// deterministic bias toward any submission is promised.
func (s *ConsensusService) GetQueue(ctx context.Context, userID uuid.UUID, limit int) ([]*submission.Submission, error) {
	if limit <= 0 {
		limit = 5
	}
	subs, err := s.subs.PendingQueue(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load validation queue: %w", err)
	}
	return subs, nil
}

func (s *ConsensusService) GetStats(ctx context.Context, userID uuid.UUID) (*validation.Stats, error) {
	return s.votes.Stats(ctx, userID)
}
