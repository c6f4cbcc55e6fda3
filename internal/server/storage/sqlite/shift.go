package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/shiftkeeper/internal/models"
	"github.com/iudanet/shiftkeeper/internal/server/storage"
)

const shiftColumns = `id, owner_id, date, kind, notes, origin_client_id, created_at, updated_at`

// UpsertShift inserts or replaces a shift by id
func (s *Storage) UpsertShift(ctx context.Context, shift *models.Shift) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var ownerID string
	err = tx.QueryRowContext(ctx, `SELECT owner_id FROM shifts WHERE id = ?`, shift.ID).Scan(&ownerID)
	created := errors.Is(err, sql.ErrNoRows)
	if err != nil && !created {
		return false, fmt.Errorf("failed to check shift: %w", err)
	}

	// Чужая запись выглядит как отсутствующая
	if !created && ownerID != shift.OwnerID {
		return false, storage.ErrShiftNotFound
	}

	if created {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO shifts (`+shiftColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`,
			shift.ID,
			shift.OwnerID,
			shift.Date,
			string(shift.Kind),
			shift.Notes,
			shift.OriginClientID,
			shift.CreatedAt.UnixMilli(),
			shift.UpdatedAt.UnixMilli(),
		)
	} else {
		_, err = tx.ExecContext(ctx, `
			UPDATE shifts
			SET date = ?, kind = ?, notes = ?, origin_client_id = ?, created_at = ?, updated_at = ?
			WHERE id = ?
		`,
			shift.Date,
			string(shift.Kind),
			shift.Notes,
			shift.OriginClientID,
			shift.CreatedAt.UnixMilli(),
			shift.UpdatedAt.UnixMilli(),
			shift.ID,
		)
	}
	if err != nil {
		return false, fmt.Errorf("failed to save shift: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return created, nil
}

// GetShift retrieves a shift of the owner by id
func (s *Storage) GetShift(ctx context.Context, ownerID, id string) (*models.Shift, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+shiftColumns+` FROM shifts WHERE id = ? AND owner_id = ?`, id, ownerID)

	shift, err := scanShift(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrShiftNotFound
		}
		return nil, fmt.Errorf("failed to get shift: %w", err)
	}
	return shift, nil
}

// ListShifts returns every shift of the owner
func (s *Storage) ListShifts(ctx context.Context, ownerID string) ([]*models.Shift, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+shiftColumns+` FROM shifts WHERE owner_id = ? ORDER BY date, created_at, id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query shifts: %w", err)
	}
	defer rows.Close()

	shifts := make([]*models.Shift, 0)
	for rows.Next() {
		shift, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		shifts = append(shifts, shift)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shifts: %w", err)
	}

	return shifts, nil
}

// DeleteShift deletes a shift of the owner
func (s *Storage) DeleteShift(ctx context.Context, ownerID, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM shifts WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete shift: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrShiftNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanShift(row rowScanner) (*models.Shift, error) {
	var (
		shift     models.Shift
		kind      string
		createdAt int64
		updatedAt int64
	)

	err := row.Scan(
		&shift.ID,
		&shift.OwnerID,
		&shift.Date,
		&kind,
		&shift.Notes,
		&shift.OriginClientID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	shift.Kind = models.ShiftKind(kind)
	shift.CreatedAt = time.UnixMilli(createdAt).UTC()
	shift.UpdatedAt = time.UnixMilli(updatedAt).UTC()
	return &shift, nil
}
