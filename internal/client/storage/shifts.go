package storage

import (
	"context"

	"github.com/iudanet/shiftkeeper/internal/models"
)

//go:generate moq -out shiftstorage_mock.go . ShiftStorage

// ShiftStorage is the Local Store: the client's cached copy of the user's shifts.
// Records are scoped by user id.
type ShiftStorage interface {
	// SaveShift stores or replaces a shift in the user's scope
	SaveShift(ctx context.Context, userID string, shift *models.Shift) error

	// GetShift retrieves a shift by ID
	// Returns ErrShiftNotFound if shift doesn't exist
	GetShift(ctx context.Context, userID, id string) (*models.Shift, error)

	// GetShiftByDate returns the oldest shift for a calendar date
	// Returns ErrShiftNotFound if there is none
	GetShiftByDate(ctx context.Context, userID, date string) (*models.Shift, error)

	// ListShifts returns all cached shifts of the user ordered by date
	ListShifts(ctx context.Context, userID string) ([]*models.Shift, error)

	// DeleteShift removes a shift; deleting a missing shift is not an error
	DeleteShift(ctx context.Context, userID, id string) error
}
