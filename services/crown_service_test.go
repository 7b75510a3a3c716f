package services

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstVerifiedSubmissionClaimsCrown(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	itemID, regionID, cycleID := uuid.New(), uuid.New(), uuid.New()
	holder := env.addUser(t, "alice")

	result, err := env.crownSvc.CheckAndTransfer(ctx, itemID, regionID, cycleID, holder, uuid.New(), mustDecimal("3.00"))
	require.NoError(t, err)

	assert.True(t, result.IsNew)
	assert.True(t, result.Transferred)
	assert.False(t, result.Contested)
	assert.Equal(t, holder, result.Crown.HolderID)
	assert.True(t, result.Crown.LowestPrice.Equal(mustDecimal("3.00")))

	transfers, err := env.crowns.Transfers(ctx, result.Crown.ID)
	require.NoError(t, err)
	require.Len(t, transfers, 1)
	assert.Nil(t, transfers[0].FromUserID)
	assert.Equal(t, holder, transfers[0].ToUserID)
}

func TestStrictlyLowerPriceTransfersCrown(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	itemID, regionID, cycleID := uuid.New(), uuid.New(), uuid.New()
	alice := env.addUser(t, "alice")
	bob := env.addUser(t, "bob")

	first, err := env.crownSvc.CheckAndTransfer(ctx, itemID, regionID, cycleID, alice, uuid.New(), mustDecimal("3.00"))
	require.NoError(t, err)

	result, err := env.crownSvc.CheckAndTransfer(ctx, itemID, regionID, cycleID, bob, uuid.New(), mustDecimal("2.50"))
	require.NoError(t, err)

	assert.True(t, result.Transferred)
	assert.False(t, result.IsNew)
	assert.Equal(t, bob, result.Crown.HolderID)
	assert.True(t, result.Crown.LowestPrice.Equal(mustDecimal("2.50")))

	transfers, err := env.crowns.Transfers(ctx, first.Crown.ID)
	require.NoError(t, err)
	require.Len(t, transfers, 2)
	require.NotNil(t, transfers[1].FromUserID)
	assert.Equal(t, alice, *transfers[1].FromUserID)
	assert.Equal(t, bob, transfers[1].ToUserID)
}

func TestNearTieMarksCrownContested(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	itemID, regionID, cycleID := uuid.New(), uuid.New(), uuid.New()
	alice := env.addUser(t, "alice")
	bob := env.addUser(t, "bob")

	first, err := env.crownSvc.CheckAndTransfer(ctx, itemID, regionID, cycleID, alice, uuid.New(), mustDecimal("3.00"))
	require.NoError(t, err)

	result, err := env.crownSvc.CheckAndTransfer(ctx, itemID, regionID, cycleID, bob, uuid.New(), mustDecimal("3.10"))
	require.NoError(t, err)

	assert.True(t, result.Contested)
	assert.False(t, result.Transferred)
	// Ownership and price never change on a contested mark.
	assert.Equal(t, alice, result.Crown.HolderID)
	assert.True(t, result.Crown.LowestPrice.Equal(mustDecimal("3.00")))

	// No ledger entry for contested marks.
	transfers, err := env.crowns.Transfers(ctx, first.Crown.ID)
	require.NoError(t, err)
	assert.Len(t, transfers, 1)
}

func TestHigherPriceOutsideThresholdIsNoOp(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	itemID, regionID, cycleID := uuid.New(), uuid.New(), uuid.New()
	alice := env.addUser(t, "alice")
	bob := env.addUser(t, "bob")

	_, err := env.crownSvc.CheckAndTransfer(ctx, itemID, regionID, cycleID, alice, uuid.New(), mustDecimal("3.00"))
	require.NoError(t, err)

	result, err := env.crownSvc.CheckAndTransfer(ctx, itemID, regionID, cycleID, bob, uuid.New(), mustDecimal("3.50"))
	require.NoError(t, err)

	assert.False(t, result.Transferred)
	assert.False(t, result.Contested)
	assert.Equal(t, alice, result.Crown.HolderID)
	assert.Equal(t, "active", string(result.Crown.Status))
}

func TestExactThresholdBoundaryIsContested(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	itemID, regionID, cycleID := uuid.New(), uuid.New(), uuid.New()
	alice := env.addUser(t, "alice")
	bob := env.addUser(t, "bob")

	_, err := env.crownSvc.CheckAndTransfer(ctx, itemID, regionID, cycleID, alice, uuid.New(), mustDecimal("3.00"))
	require.NoError(t, err)

	// Difference of exactly 0.25 still counts as contested.
	result, err := env.crownSvc.CheckAndTransfer(ctx, itemID, regionID, cycleID, bob, uuid.New(), mustDecimal("3.25"))
	require.NoError(t, err)

	assert.True(t, result.Contested)
}

func TestConcurrentTransfersKeepSingleHolderAndOrderedLedger(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	itemID, regionID, cycleID := uuid.New(), uuid.New(), uuid.New()

	prices := []string{"5.00", "4.50", "4.00", "3.50", "3.00", "2.50", "2.00", "1.50"}
	users := make([]uuid.UUID, len(prices))
	for i := range prices {
		users[i] = env.addUser(t, "racer-"+uuid.NewString()[:8])
	}

	var wg sync.WaitGroup
	for i, p := range prices {
		wg.Add(1)
		go func(userID uuid.UUID, price decimal.Decimal) {
			defer wg.Done()
			_, err := env.crownSvc.CheckAndTransfer(ctx, itemID, regionID, cycleID, userID, uuid.New(), price)
			assert.NoError(t, err)
		}(users[i], mustDecimal(p))
	}
	wg.Wait()

	crowns := env.crowns.AllCrowns()
	require.Len(t, crowns, 1)
	// The lowest price always ends up holding the crown, whatever the
	// interleaving.
	assert.True(t, crowns[0].LowestPrice.Equal(mustDecimal("1.50")))

	// The ledger records strictly decreasing prices.
	transfers, err := env.crowns.Transfers(ctx, crowns[0].ID)
	require.NoError(t, err)
	require.NotEmpty(t, transfers)
	for i := 1; i < len(transfers); i++ {
		assert.True(t, transfers[i].Price.LessThan(transfers[i-1].Price),
			"ledger entry %d (%s) must undercut entry %d (%s)",
			i, transfers[i].Price, i-1, transfers[i-1].Price)
	}
}

func TestGetHistoryReturnsCrownWithLedger(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	itemID, regionID, cycleID := uuid.New(), uuid.New(), uuid.New()
	alice := env.addUser(t, "alice")
	bob := env.addUser(t, "bob")

	first, err := env.crownSvc.CheckAndTransfer(ctx, itemID, regionID, cycleID, alice, uuid.New(), mustDecimal("3.00"))
	require.NoError(t, err)
	_, err = env.crownSvc.CheckAndTransfer(ctx, itemID, regionID, cycleID, bob, uuid.New(), mustDecimal("2.00"))
	require.NoError(t, err)

	history, err := env.crownSvc.GetHistory(ctx, first.Crown.ID)
	require.NoError(t, err)

	assert.Equal(t, bob, history.Crown.HolderID)
	require.Len(t, history.Transfers, 2)
	assert.Nil(t, history.Transfers[0].FromUserID)
	assert.Equal(t, bob, history.Transfers[1].ToUserID)
}
