package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"shelfscout/internal/badge"
	"shelfscout/internal/crown"
	"shelfscout/internal/cycle"
	"shelfscout/internal/stats"
	"shelfscout/internal/store"
	"shelfscout/internal/submission"
	"shelfscout/internal/user"
	"shelfscout/internal/validation"
)

// testEnv wires the full service stack over the in-memory repositories.
type testEnv struct {
	users  *user.MemoryRepository
	cycles *cycle.MemoryRepository
	stores *store.MemoryRepository
	subs   *submission.MemoryRepository
	votes  *validation.MemoryRepository
	crowns *crown.MemoryRepository
	badges *badge.MemoryRepository
	stats  *stats.MemoryRepository

	auth        *AuthService
	submissions *SubmissionService
	consensus   *ConsensusService
	crownSvc    *CrownService
	badgeSvc    *BadgeService
	trust       *TrustService
	userSvc     *UserService
	storeSvc    *StoreService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	env := &testEnv{
		users:  user.NewMemoryRepository(),
		cycles: cycle.NewMemoryRepository(),
		stores: store.NewMemoryRepository(),
		votes:  validation.NewMemoryRepository(),
		crowns: crown.NewMemoryRepository(),
		badges: badge.NewMemoryRepository(),
	}
	env.subs = submission.NewMemoryRepository(env.votes)
	env.stats = stats.NewMemoryRepository(env.subs, env.votes, env.crowns, env.stores)

	env.badges.Seed(
		&badge.Badge{ID: uuid.New(), Name: "First Submission", Criteria: badge.CriteriaFirstSubmission, Rarity: badge.RarityCommon},
		&badge.Badge{ID: uuid.New(), Name: "Crown Hunter", Criteria: badge.CriteriaCrownsEarned, Rarity: badge.RarityUncommon},
		&badge.Badge{ID: uuid.New(), Name: "Trusted Validator", Criteria: badge.CriteriaAccurateValidations, Rarity: badge.RarityRare},
		&badge.Badge{ID: uuid.New(), Name: "Crown Defender", Criteria: badge.CriteriaWeeklyDefenses, Rarity: badge.RarityEpic},
		&badge.Badge{ID: uuid.New(), Name: "Price King", Criteria: badge.CriteriaActiveCrowns, Rarity: badge.RarityLegendary},
	)

	env.badgeSvc = NewBadgeService(env.badges, env.stats, env.cycles)
	env.trust = NewTrustService(env.stats, env.users)
	env.crownSvc = NewCrownService(env.crowns)
	env.auth = NewAuthService(env.users)
	env.submissions = NewSubmissionService(env.subs, env.cycles, env.stores, env.badgeSvc)
	env.consensus = NewConsensusService(env.subs, env.votes, env.stores, env.crownSvc, env.badgeSvc, env.trust)
	env.userSvc = NewUserService(env.users, env.stats, env.votes, env.badges)
	env.storeSvc = NewStoreService(env.stores)
	return env
}

func (env *testEnv) addUser(t *testing.T, username string) uuid.UUID {
	t.Helper()
	u := &user.User{
		ID:         uuid.New(),
		Email:      username + "@example.com",
		Username:   username,
		TrustScore: decimal.RequireFromString("1.00"),
	}
	require.NoError(t, env.users.Create(context.Background(), u))
	return u.ID
}

// startCycle installs an active weekly cycle with the given items in rotation.
func (env *testEnv) startCycle(itemIDs ...uuid.UUID) *cycle.WeeklyCycle {
	c := &cycle.WeeklyCycle{
		ID:         uuid.New(),
		WeekNumber: 34,
		StartDate:  time.Now().Add(-24 * time.Hour),
		EndDate:    time.Now().Add(6 * 24 * time.Hour),
		Active:     true,
	}
	env.cycles.SetActive(c)
	for _, itemID := range itemIDs {
		env.cycles.AddToRotation(c.ID, itemID)
	}
	return c
}

func (env *testEnv) addStore(regionID uuid.UUID, lat, lng float64) *store.Store {
	s := &store.Store{
		ID:       uuid.New(),
		Name:     "Test Market",
		Address:  "1 High Street",
		Lat:      lat,
		Lng:      lng,
		RegionID: &regionID,
	}
	env.stores.Add(s)
	return s
}

// pendingSubmission seeds a pending submission directly, bypassing the
// creation gates.
func (env *testEnv) pendingSubmission(t *testing.T, userID, storeID, itemID, cycleID uuid.UUID, price string) *submission.Submission {
	t.Helper()
	sub := &submission.Submission{
		ID:      uuid.New(),
		UserID:  userID,
		StoreID: storeID,
		ItemID:  itemID,
		CycleID: cycleID,
		Price:   decimal.RequireFromString(price),
		Status:  submission.StatusPending,
	}
	require.NoError(t, env.subs.Create(context.Background(), sub))
	return sub
}

// confirmBy casts confirm votes from n fresh validators and returns the last
// vote result.
func (env *testEnv) confirmBy(t *testing.T, submissionID uuid.UUID, n int) *VoteResult {
	t.Helper()
	var last *VoteResult
	for i := 0; i < n; i++ {
		validatorID := env.addUser(t, "validator-"+uuid.NewString()[:8])
		result, err := env.consensus.SubmitVote(context.Background(), submissionID, validatorID, validation.VoteConfirm, nil)
		require.NoError(t, err)
		last = result
	}
	return last
}

func (env *testEnv) flagBy(t *testing.T, submissionID uuid.UUID, n int) *VoteResult {
	t.Helper()
	var last *VoteResult
	for i := 0; i < n; i++ {
		validatorID := env.addUser(t, "validator-"+uuid.NewString()[:8])
		result, err := env.consensus.SubmitVote(context.Background(), submissionID, validatorID, validation.VoteFlag, nil)
		require.NoError(t, err)
		last = result
	}
	return last
}

func mustDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
