package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstSubmissionBadge(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	userID := env.addUser(t, "alice")
	st := env.addStore(uuid.New(), 52.37, 4.89)
	env.pendingSubmission(t, userID, st.ID, uuid.New(), uuid.New(), "3.00")

	awarded, err := env.badgeSvc.CheckAndAward(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []string{"First Submission"}, awarded)
}

func TestBadgeAwardIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	userID := env.addUser(t, "alice")
	st := env.addStore(uuid.New(), 52.37, 4.89)
	env.pendingSubmission(t, userID, st.ID, uuid.New(), uuid.New(), "3.00")

	first, err := env.badgeSvc.CheckAndAward(ctx, userID)
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := env.badgeSvc.CheckAndAward(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, second)

	count, err := env.badges.CountByUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCrownHunterBadge(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	userID := env.addUser(t, "alice")
	_, err := env.crownSvc.CheckAndTransfer(ctx, uuid.New(), uuid.New(), uuid.New(), userID, uuid.New(), mustDecimal("3.00"))
	require.NoError(t, err)

	awarded, err := env.badgeSvc.CheckAndAward(ctx, userID)
	require.NoError(t, err)
	assert.Contains(t, awarded, "Crown Hunter")
}

func TestPriceKingBadgeNeedsTenActiveCrowns(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	userID := env.addUser(t, "hoarder")
	regionID, cycleID := uuid.New(), uuid.New()

	for i := 0; i < 9; i++ {
		_, err := env.crownSvc.CheckAndTransfer(ctx, uuid.New(), regionID, cycleID, userID, uuid.New(), mustDecimal("3.00"))
		require.NoError(t, err)
	}

	awarded, err := env.badgeSvc.CheckAndAward(ctx, userID)
	require.NoError(t, err)
	assert.NotContains(t, awarded, "Price King")

	_, err = env.crownSvc.CheckAndTransfer(ctx, uuid.New(), regionID, cycleID, userID, uuid.New(), mustDecimal("3.00"))
	require.NoError(t, err)

	awarded, err = env.badgeSvc.CheckAndAward(ctx, userID)
	require.NoError(t, err)
	assert.Contains(t, awarded, "Price King")
}

func TestWeeklyDefenseCountsWithoutActiveCycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// No active cycle: the evaluator treats weekly defenses as zero instead of
	// failing the whole pass.
	userID := env.addUser(t, "alice")
	st := env.addStore(uuid.New(), 52.37, 4.89)
	env.pendingSubmission(t, userID, st.ID, uuid.New(), uuid.New(), "3.00")

	awarded, err := env.badgeSvc.CheckAndAward(ctx, userID)
	require.NoError(t, err)
	assert.Contains(t, awarded, "First Submission")
	assert.NotContains(t, awarded, "Crown Defender")
}
