package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shelfscout/internal/apperr"
	"shelfscout/internal/submission"
	"shelfscout/internal/validation"
)

func TestSubmitVoteRejectsInvalidVoteValue(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.consensus.SubmitVote(context.Background(), uuid.New(), uuid.New(), validation.Vote("maybe"), nil)
	assert.True(t, apperr.IsValidation(err))
}

func TestSubmitVoteRejectsSelfValidation(t *testing.T) {
	env := newTestEnv(t)

	submitter := env.addUser(t, "alice")
	regionID := uuid.New()
	st := env.addStore(regionID, 52.37, 4.89)
	sub := env.pendingSubmission(t, submitter, st.ID, uuid.New(), uuid.New(), "3.00")

	_, err := env.consensus.SubmitVote(context.Background(), sub.ID, submitter, validation.VoteConfirm, nil)
	assert.True(t, apperr.IsValidation(err))
}

func TestSubmitVoteRejectsDuplicateVote(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	submitter := env.addUser(t, "alice")
	validator := env.addUser(t, "bob")
	st := env.addStore(uuid.New(), 52.37, 4.89)
	sub := env.pendingSubmission(t, submitter, st.ID, uuid.New(), uuid.New(), "3.00")

	_, err := env.consensus.SubmitVote(ctx, sub.ID, validator, validation.VoteConfirm, nil)
	require.NoError(t, err)

	_, err = env.consensus.SubmitVote(ctx, sub.ID, validator, validation.VoteFlag, nil)
	assert.True(t, apperr.IsValidation(err))

	// The tally still holds exactly one vote.
	tally, err := env.votes.CountVotes(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, tally.Confirms)
	assert.Equal(t, 0, tally.Flags)
}

func TestSubmitVoteRejectsResolvedSubmission(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	submitter := env.addUser(t, "alice")
	st := env.addStore(uuid.New(), 52.37, 4.89)
	sub := env.pendingSubmission(t, submitter, st.ID, uuid.New(), uuid.New(), "3.00")
	env.confirmBy(t, sub.ID, 3)

	late := env.addUser(t, "late")
	_, err := env.consensus.SubmitVote(ctx, sub.ID, late, validation.VoteConfirm, nil)
	assert.True(t, apperr.IsValidation(err))
}

func TestThreeConfirmsVerifyAndCascade(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	regionID := uuid.New()
	itemID := uuid.New()
	c := env.startCycle(itemID)
	submitter := env.addUser(t, "alice")
	st := env.addStore(regionID, 52.37, 4.89)
	sub := env.pendingSubmission(t, submitter, st.ID, itemID, c.ID, "3.00")

	first := env.confirmBy(t, sub.ID, 2)
	assert.False(t, first.ConsensusReached)

	last := env.confirmBy(t, sub.ID, 1)
	assert.True(t, last.ConsensusReached)
	assert.Equal(t, submission.StatusVerified, last.Result)

	resolved, err := env.subs.GetByID(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, submission.StatusVerified, resolved.Status)
	assert.NotNil(t, resolved.VerifiedAt)

	// The verified submission claimed the crown for its triple.
	crowns := env.crowns.AllCrowns()
	require.Len(t, crowns, 1)
	assert.Equal(t, submitter, crowns[0].HolderID)

	// Badge fan-out reached the submitter.
	earned, err := env.badges.ListByUser(ctx, submitter)
	require.NoError(t, err)
	require.NotEmpty(t, earned)
	assert.Equal(t, "First Submission", earned[0].Name)

	// Trust recompute persisted: one verified out of one resolved submission
	// gives 1.00 + 0.50.
	u, err := env.users.GetByID(ctx, submitter)
	require.NoError(t, err)
	assert.Equal(t, "1.5", u.TrustScore.String())
}

func TestThreeFlagsRejectSubmission(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	submitter := env.addUser(t, "alice")
	st := env.addStore(uuid.New(), 52.37, 4.89)
	sub := env.pendingSubmission(t, submitter, st.ID, uuid.New(), uuid.New(), "3.00")

	last := env.flagBy(t, sub.ID, 3)
	assert.True(t, last.ConsensusReached)
	assert.Equal(t, submission.StatusRejected, last.Result)

	resolved, err := env.subs.GetByID(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, submission.StatusRejected, resolved.Status)
	assert.Nil(t, resolved.VerifiedAt)

	// Rejected submissions never reach the crown resolver.
	assert.Empty(t, env.crowns.AllCrowns())
}

func TestVerifiedSubmissionWithoutRegionSkipsCrown(t *testing.T) {
	env := newTestEnv(t)

	submitter := env.addUser(t, "alice")
	st := env.addStore(uuid.New(), 52.37, 4.89)
	st.RegionID = nil
	env.stores.Add(st)
	sub := env.pendingSubmission(t, submitter, st.ID, uuid.New(), uuid.New(), "3.00")

	last := env.confirmBy(t, sub.ID, 3)
	assert.True(t, last.ConsensusReached)
	assert.Empty(t, env.crowns.AllCrowns())
}

func TestQueueExcludesOwnAndVotedSubmissions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.addUser(t, "alice")
	bob := env.addUser(t, "bob")
	st := env.addStore(uuid.New(), 52.37, 4.89)

	own := env.pendingSubmission(t, alice, st.ID, uuid.New(), uuid.New(), "1.00")
	voted := env.pendingSubmission(t, bob, st.ID, uuid.New(), uuid.New(), "2.00")
	open := env.pendingSubmission(t, bob, st.ID, uuid.New(), uuid.New(), "3.00")

	_, err := env.consensus.SubmitVote(ctx, voted.ID, alice, validation.VoteConfirm, nil)
	require.NoError(t, err)

	queue, err := env.consensus.GetQueue(ctx, alice, 10)
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, open.ID, queue[0].ID)
	assert.NotEqual(t, own.ID, queue[0].ID)
}

func TestQueueDefaultsLimit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.addUser(t, "alice")
	bob := env.addUser(t, "bob")
	st := env.addStore(uuid.New(), 52.37, 4.89)
	for i := 0; i < 8; i++ {
		env.pendingSubmission(t, bob, st.ID, uuid.New(), uuid.New(), "3.00")
	}

	queue, err := env.consensus.GetQueue(ctx, alice, 0)
	require.NoError(t, err)
	assert.Len(t, queue, 5)
}
