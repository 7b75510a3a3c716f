package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shelfscout/internal/apperr"
	"shelfscout/internal/cycle"
)

func TestWeeklyLeaderboardEmptyWithoutActiveCycle(t *testing.T) {
	cycles := cycle.NewMemoryRepository()
	svc := NewLeaderboardService(nil, cycles)

	entries, err := svc.Weekly(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRegionalLeaderboardRejectsBadRegionID(t *testing.T) {
	svc := NewLeaderboardService(nil, cycle.NewMemoryRepository())

	_, err := svc.Regional(context.Background(), "not-a-uuid", 10)
	assert.True(t, apperr.IsValidation(err))
}
