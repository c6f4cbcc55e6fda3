package boltdb

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"go.etcd.io/bbolt"

	"github.com/iudanet/shiftkeeper/internal/client/storage"
	"github.com/iudanet/shiftkeeper/internal/models"
)

// SaveShift stores or replaces a shift in the user's bucket
func (s *Storage) SaveShift(ctx context.Context, userID string, shift *models.Shift) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	// Сериализуем запись в JSON
	data, err := json.Marshal(shift)
	if err != nil {
		return fmt.Errorf("failed to marshal shift: %w", err)
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := userBucket(tx, bucketShifts, userID, true)
		if err != nil {
			return err
		}

		// Сохраняем по ключу ID
		if err := bucket.Put([]byte(shift.ID), data); err != nil {
			return fmt.Errorf("failed to save shift: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}

	return nil
}

// GetShift retrieves a shift by ID
func (s *Storage) GetShift(ctx context.Context, userID, id string) (*models.Shift, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var shift *models.Shift

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket, err := userBucket(tx, bucketShifts, userID, false)
		if err != nil {
			return err
		}
		if bucket == nil {
			return storage.ErrShiftNotFound
		}

		data := bucket.Get([]byte(id))
		if data == nil {
			return storage.ErrShiftNotFound
		}

		shift = &models.Shift{}
		if err := json.Unmarshal(data, shift); err != nil {
			return fmt.Errorf("failed to unmarshal shift: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return shift, nil
}

// GetShiftByDate returns the oldest shift for a calendar date.
// При наличии дубликатов выбирается самая ранняя запись, как и при дедупликации.
func (s *Storage) GetShiftByDate(ctx context.Context, userID, date string) (*models.Shift, error) {
	shifts, err := s.ListShifts(ctx, userID)
	if err != nil {
		return nil, err
	}

	var found *models.Shift
	for _, shift := range shifts {
		if shift.Date != date {
			continue
		}
		if found == nil || shift.CreatedAt.Before(found.CreatedAt) ||
			(shift.CreatedAt.Equal(found.CreatedAt) && shift.ID < found.ID) {
			found = shift
		}
	}

	if found == nil {
		return nil, storage.ErrShiftNotFound
	}
	return found, nil
}

// ListShifts returns all cached shifts ordered by date, then id
func (s *Storage) ListShifts(ctx context.Context, userID string) ([]*models.Shift, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	shifts := make([]*models.Shift, 0)

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket, err := userBucket(tx, bucketShifts, userID, false)
		if err != nil {
			return err
		}
		if bucket == nil {
			// Нет bucket - возвращаем пустой список
			return nil
		}

		return bucket.ForEach(func(k, v []byte) error {
			var shift models.Shift
			if err := json.Unmarshal(v, &shift); err != nil {
				return fmt.Errorf("failed to unmarshal shift: %w", err)
			}
			shifts = append(shifts, &shift)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}

	sort.Slice(shifts, func(i, j int) bool {
		if shifts[i].Date != shifts[j].Date {
			return shifts[i].Date < shifts[j].Date
		}
		return shifts[i].ID < shifts[j].ID
	})

	return shifts, nil
}

// DeleteShift removes a shift from the local store
func (s *Storage) DeleteShift(ctx context.Context, userID, id string) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := userBucket(tx, bucketShifts, userID, false)
		if err != nil {
			return err
		}
		if bucket == nil {
			return nil
		}
		return bucket.Delete([]byte(id))
	})
	if err != nil {
		return fmt.Errorf("delete transaction failed: %w", err)
	}

	return nil
}
