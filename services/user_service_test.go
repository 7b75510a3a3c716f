package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shelfscout/internal/apperr"
	"shelfscout/internal/submission"
	"shelfscout/internal/user"
	"shelfscout/internal/validation"
)

func TestUpdateProfileRejectsTakenUsername(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.addUser(t, "alice")
	bobID := env.addUser(t, "bob")

	_, err := env.userSvc.UpdateProfile(ctx, bobID, &user.UpdateProfileRequest{Username: "alice"})
	assert.True(t, apperr.IsValidation(err))

	updated, err := env.userSvc.UpdateProfile(ctx, bobID, &user.UpdateProfileRequest{Username: "bobby"})
	require.NoError(t, err)
	assert.Equal(t, "bobby", updated.Username)
}

func TestUpdateProfileKeepingOwnUsernameIsAllowed(t *testing.T) {
	env := newTestEnv(t)

	aliceID := env.addUser(t, "alice")
	updated, err := env.userSvc.UpdateProfile(context.Background(), aliceID, &user.UpdateProfileRequest{Username: "alice"})
	require.NoError(t, err)
	assert.Equal(t, "alice", updated.Username)
}

func TestGetStatsRollsUpAllCounters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	userID := env.addUser(t, "alice")
	other := env.addUser(t, "bob")
	st := env.addStore(uuid.New(), 52.37, 4.89)

	verified := env.pendingSubmission(t, userID, st.ID, uuid.New(), uuid.New(), "3.00")
	_, err := env.subs.UpdateStatus(ctx, verified.ID, submission.StatusVerified)
	require.NoError(t, err)
	env.pendingSubmission(t, userID, st.ID, uuid.New(), uuid.New(), "4.00")

	theirs := env.pendingSubmission(t, other, st.ID, uuid.New(), uuid.New(), "5.00")
	require.NoError(t, env.votes.Create(ctx, &validation.Validation{
		ID: uuid.New(), SubmissionID: theirs.ID, ValidatorID: userID, Vote: validation.VoteFlag,
	}))

	_, err = env.crownSvc.CheckAndTransfer(ctx, uuid.New(), uuid.New(), uuid.New(), userID, verified.ID, mustDecimal("3.00"))
	require.NoError(t, err)

	_, err = env.badgeSvc.CheckAndAward(ctx, userID)
	require.NoError(t, err)

	stats, err := env.userSvc.GetStats(ctx, userID)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Crowns)
	assert.Equal(t, 2, stats.Submissions.Total)
	assert.Equal(t, 1, stats.Submissions.Verified)
	assert.Equal(t, 1, stats.Submissions.Pending)
	assert.Equal(t, 0, stats.Submissions.Rejected)
	assert.Equal(t, 1, stats.Validations.Total)
	assert.Equal(t, 1, stats.Validations.Flags)
	// First Submission and Crown Hunter.
	assert.Equal(t, 2, stats.Badges)
}
