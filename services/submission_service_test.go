package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shelfscout/internal/apperr"
	"shelfscout/internal/submission"
)

func validCreateRequest(storeID, itemID uuid.UUID, lat, lng float64) *submission.CreateRequest {
	return &submission.CreateRequest{
		StoreID: storeID.String(),
		ItemID:  itemID.String(),
		Price:   mustDecimal("3.00"),
		GpsLat:  lat,
		GpsLng:  lng,
	}
}

func TestCreateSubmissionHappyPath(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	itemID := uuid.New()
	env.startCycle(itemID)
	userID := env.addUser(t, "alice")
	st := env.addStore(uuid.New(), 52.37, 4.89)

	resp, err := env.submissions.Create(ctx, userID, validCreateRequest(st.ID, itemID, st.Lat, st.Lng))
	require.NoError(t, err)

	assert.Equal(t, submission.StatusPending, resp.Submission.Status)
	assert.Equal(t, userID, resp.Submission.UserID)
	assert.False(t, resp.Submission.SubmittedAt.IsZero())
	assert.Contains(t, resp.BadgesAwarded, "First Submission")
}

func TestCreateSubmissionRequiresActiveCycle(t *testing.T) {
	env := newTestEnv(t)

	userID := env.addUser(t, "alice")
	st := env.addStore(uuid.New(), 52.37, 4.89)

	_, err := env.submissions.Create(context.Background(), userID, validCreateRequest(st.ID, uuid.New(), st.Lat, st.Lng))
	require.True(t, apperr.IsValidation(err))
	assert.Contains(t, err.Error(), "no active weekly cycle")
}

func TestCreateSubmissionRequiresItemInRotation(t *testing.T) {
	env := newTestEnv(t)

	env.startCycle(uuid.New())
	userID := env.addUser(t, "alice")
	st := env.addStore(uuid.New(), 52.37, 4.89)

	_, err := env.submissions.Create(context.Background(), userID, validCreateRequest(st.ID, uuid.New(), st.Lat, st.Lng))
	require.True(t, apperr.IsValidation(err))
	assert.Contains(t, err.Error(), "rotation")
}

func TestCreateSubmissionEnforcesProximity(t *testing.T) {
	env := newTestEnv(t)

	itemID := uuid.New()
	env.startCycle(itemID)
	userID := env.addUser(t, "alice")
	st := env.addStore(uuid.New(), 52.37, 4.89)

	// Roughly 1.1km north of the store, well past the 150m radius.
	_, err := env.submissions.Create(context.Background(), userID, validCreateRequest(st.ID, itemID, st.Lat+0.01, st.Lng))
	require.True(t, apperr.IsValidation(err))
	assert.Contains(t, err.Error(), "150m")
}

func TestCreateSubmissionRejectsNonPositivePrice(t *testing.T) {
	env := newTestEnv(t)

	itemID := uuid.New()
	env.startCycle(itemID)
	userID := env.addUser(t, "alice")
	st := env.addStore(uuid.New(), 52.37, 4.89)

	req := validCreateRequest(st.ID, itemID, st.Lat, st.Lng)
	req.Price = mustDecimal("0.00")

	_, err := env.submissions.Create(context.Background(), userID, req)
	assert.True(t, apperr.IsValidation(err))
}

func TestCreateSubmissionRejectsOutOfRangeCoordinates(t *testing.T) {
	env := newTestEnv(t)

	itemID := uuid.New()
	env.startCycle(itemID)
	userID := env.addUser(t, "alice")
	st := env.addStore(uuid.New(), 52.37, 4.89)

	req := validCreateRequest(st.ID, itemID, 91.0, st.Lng)
	_, err := env.submissions.Create(context.Background(), userID, req)
	assert.True(t, apperr.IsValidation(err))
}

func TestCreateSubmissionEnforcesDailyLimit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	itemID := uuid.New()
	env.startCycle(itemID)
	userID := env.addUser(t, "alice")
	st := env.addStore(uuid.New(), 52.37, 4.89)

	for i := 0; i < DailySubmissionLimit; i++ {
		env.pendingSubmission(t, userID, st.ID, itemID, uuid.New(), "3.00")
	}

	_, err := env.submissions.Create(ctx, userID, validCreateRequest(st.ID, itemID, st.Lat, st.Lng))
	require.True(t, apperr.IsValidation(err))
	assert.Contains(t, err.Error(), "daily submission limit")
}
