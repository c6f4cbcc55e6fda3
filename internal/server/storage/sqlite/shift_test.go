package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/shiftkeeper/internal/models"
	"github.com/iudanet/shiftkeeper/internal/server/storage"
)

func newTestShift(ownerID, date string) *models.Shift {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &models.Shift{
		ID:             uuid.NewString(),
		OwnerID:        ownerID,
		Date:           date,
		Kind:           models.ShiftKindA,
		Notes:          "morning",
		OriginClientID: "client-1",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func TestShiftStorage_UpsertAndGet(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	owner := createTestUser(t, ctx, s)
	shift := newTestShift(owner, "2024-05-01")

	created, err := s.UpsertShift(ctx, shift)
	require.NoError(t, err)
	assert.True(t, created)

	got, err := s.GetShift(ctx, owner, shift.ID)
	require.NoError(t, err)
	assert.Equal(t, shift, got)

	// Повторная запись обновляет существующую
	shift.Kind = models.ShiftKindC
	shift.Notes = "night"
	shift.OriginClientID = "client-2"
	shift.UpdatedAt = shift.UpdatedAt.Add(time.Minute)

	created, err = s.UpsertShift(ctx, shift)
	require.NoError(t, err)
	assert.False(t, created)

	got, err = s.GetShift(ctx, owner, shift.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ShiftKindC, got.Kind)
	assert.Equal(t, "night", got.Notes)
	assert.Equal(t, "client-2", got.OriginClientID)
	assert.True(t, shift.UpdatedAt.Equal(got.UpdatedAt))
}

func TestShiftStorage_OtherOwnerIsInvisible(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	alice := createTestUser(t, ctx, s)
	bob := createTestUser(t, ctx, s)

	shift := newTestShift(alice, "2024-05-01")
	_, err := s.UpsertShift(ctx, shift)
	require.NoError(t, err)

	_, err = s.GetShift(ctx, bob, shift.ID)
	assert.ErrorIs(t, err, storage.ErrShiftNotFound)

	hijack := shift.Clone()
	hijack.OwnerID = bob
	_, err = s.UpsertShift(ctx, hijack)
	assert.ErrorIs(t, err, storage.ErrShiftNotFound)

	assert.ErrorIs(t, s.DeleteShift(ctx, bob, shift.ID), storage.ErrShiftNotFound)

	got, err := s.GetShift(ctx, alice, shift.ID)
	require.NoError(t, err)
	assert.Equal(t, alice, got.OwnerID)
}

func TestShiftStorage_ListAllowsDuplicateDates(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	owner := createTestUser(t, ctx, s)
	other := createTestUser(t, ctx, s)

	for _, sh := range []*models.Shift{
		newTestShift(owner, "2024-05-02"),
		newTestShift(owner, "2024-05-01"),
		newTestShift(owner, "2024-05-01"),
		newTestShift(other, "2024-05-01"),
	} {
		_, err := s.UpsertShift(ctx, sh)
		require.NoError(t, err)
	}

	shifts, err := s.ListShifts(ctx, owner)
	require.NoError(t, err)
	require.Len(t, shifts, 3)
	assert.Equal(t, "2024-05-01", shifts[0].Date)
	assert.Equal(t, "2024-05-01", shifts[1].Date)
	assert.Equal(t, "2024-05-02", shifts[2].Date)

	empty, err := s.ListShifts(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestShiftStorage_DeleteShift(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	owner := createTestUser(t, ctx, s)
	shift := newTestShift(owner, "2024-05-01")
	_, err := s.UpsertShift(ctx, shift)
	require.NoError(t, err)

	require.NoError(t, s.DeleteShift(ctx, owner, shift.ID))

	_, err = s.GetShift(ctx, owner, shift.ID)
	assert.ErrorIs(t, err, storage.ErrShiftNotFound)

	assert.ErrorIs(t, s.DeleteShift(ctx, owner, shift.ID), storage.ErrShiftNotFound)
}
