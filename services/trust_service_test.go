package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shelfscout/internal/submission"
	"shelfscout/internal/validation"
)

func TestTrustScoreForEmptyHistoryIsBase(t *testing.T) {
	env := newTestEnv(t)

	userID := env.addUser(t, "newbie")
	score, err := env.trust.Recalculate(context.Background(), userID)
	require.NoError(t, err)

	assert.True(t, score.Equal(mustDecimal("1.00")))
}

func TestTrustScoreRewardsSubmissionAccuracy(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	userID := env.addUser(t, "alice")
	st := env.addStore(uuid.New(), 52.37, 4.89)

	// Three resolved submissions, two verified: 1.00 + (2/3)*0.50 = 1.33.
	for i, status := range []submission.Status{submission.StatusVerified, submission.StatusVerified, submission.StatusRejected} {
		sub := env.pendingSubmission(t, userID, st.ID, uuid.New(), uuid.New(), "3.00")
		_, err := env.subs.UpdateStatus(ctx, sub.ID, status)
		require.NoError(t, err, "submission %d", i)
	}

	score, err := env.trust.Recalculate(ctx, userID)
	require.NoError(t, err)
	assert.True(t, score.Equal(mustDecimal("1.33")), "got %s", score)

	u, err := env.users.GetByID(ctx, userID)
	require.NoError(t, err)
	assert.True(t, u.TrustScore.Equal(mustDecimal("1.33")))
}

func TestTrustScoreRewardsValidationAccuracy(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	submitter := env.addUser(t, "alice")
	validator := env.addUser(t, "bob")
	st := env.addStore(uuid.New(), 52.37, 4.89)

	// Two votes on resolved submissions, one matching the outcome:
	// 1.00 + (1/2)*0.30 = 1.15.
	verified := env.pendingSubmission(t, submitter, st.ID, uuid.New(), uuid.New(), "3.00")
	rejected := env.pendingSubmission(t, submitter, st.ID, uuid.New(), uuid.New(), "4.00")

	require.NoError(t, env.votes.Create(ctx, &validation.Validation{
		ID: uuid.New(), SubmissionID: verified.ID, ValidatorID: validator, Vote: validation.VoteConfirm,
	}))
	require.NoError(t, env.votes.Create(ctx, &validation.Validation{
		ID: uuid.New(), SubmissionID: rejected.ID, ValidatorID: validator, Vote: validation.VoteConfirm,
	}))

	_, err := env.subs.UpdateStatus(ctx, verified.ID, submission.StatusVerified)
	require.NoError(t, err)
	_, err = env.subs.UpdateStatus(ctx, rejected.ID, submission.StatusRejected)
	require.NoError(t, err)

	score, err := env.trust.Recalculate(ctx, validator)
	require.NoError(t, err)
	assert.True(t, score.Equal(mustDecimal("1.15")), "got %s", score)
}

func TestTrustScoreFlagPenaltyIsCapped(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	submitter := env.addUser(t, "spammer")
	st := env.addStore(uuid.New(), 52.37, 4.89)

	// 15 flags received would be a 1.20 penalty uncapped; the cap holds it at
	// 0.80, so the score lands on 1.00 - 0.80 = 0.20.
	for i := 0; i < 15; i++ {
		sub := env.pendingSubmission(t, submitter, st.ID, uuid.New(), uuid.New(), "3.00")
		flagger := env.addUser(t, "flagger-"+uuid.NewString()[:8])
		require.NoError(t, env.votes.Create(ctx, &validation.Validation{
			ID: uuid.New(), SubmissionID: sub.ID, ValidatorID: flagger, Vote: validation.VoteFlag,
		}))
	}

	score, err := env.trust.Recalculate(ctx, submitter)
	require.NoError(t, err)
	assert.True(t, score.Equal(mustDecimal("0.20")), "got %s", score)
}

func TestTrustScoreUpperBound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	userID := env.addUser(t, "perfect")
	st := env.addStore(uuid.New(), 52.37, 4.89)

	sub := env.pendingSubmission(t, userID, st.ID, uuid.New(), uuid.New(), "3.00")
	_, err := env.subs.UpdateStatus(ctx, sub.ID, submission.StatusVerified)
	require.NoError(t, err)

	other := env.pendingSubmission(t, env.addUser(t, "other"), st.ID, uuid.New(), uuid.New(), "4.00")
	require.NoError(t, env.votes.Create(ctx, &validation.Validation{
		ID: uuid.New(), SubmissionID: other.ID, ValidatorID: userID, Vote: validation.VoteConfirm,
	}))
	_, err = env.subs.UpdateStatus(ctx, other.ID, submission.StatusVerified)
	require.NoError(t, err)

	// Perfect on both axes: 1.00 + 0.50 + 0.30, comfortably under the 2.00
	// ceiling.
	score, err := env.trust.Recalculate(ctx, userID)
	require.NoError(t, err)
	assert.True(t, score.Equal(mustDecimal("1.80")), "got %s", score)
}
