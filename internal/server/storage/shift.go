package storage

import (
	"context"

	"github.com/iudanet/shiftkeeper/internal/models"
)

// ShiftStorage хранилище смен на стороне сервера.
// Уникальность (owner, date) не проверяется: дубликаты схлопывает клиент.
type ShiftStorage interface {
	// UpsertShift вставляет или заменяет запись по ID.
	// Возвращает true, если запись была создана.
	// Returns ErrShiftNotFound if the id belongs to another owner
	UpsertShift(ctx context.Context, shift *models.Shift) (bool, error)

	// GetShift returns ErrShiftNotFound for missing records and records of other owners
	GetShift(ctx context.Context, ownerID, id string) (*models.Shift, error)

	// ListShifts returns all shifts of the owner ordered by date
	ListShifts(ctx context.Context, ownerID string) ([]*models.Shift, error)

	// DeleteShift returns ErrShiftNotFound if nothing was deleted
	DeleteShift(ctx context.Context, ownerID, id string) error
}
