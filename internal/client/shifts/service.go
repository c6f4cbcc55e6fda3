// Package shifts implements the UI-facing record operations: create-or-update
// by date, delete and list, with the local store acting as a write-through cache.
package shifts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	clientapi "github.com/iudanet/shiftkeeper/internal/client/api"
	"github.com/iudanet/shiftkeeper/internal/client/auth"
	"github.com/iudanet/shiftkeeper/internal/client/events"
	"github.com/iudanet/shiftkeeper/internal/client/remote"
	"github.com/iudanet/shiftkeeper/internal/client/storage"
	"github.com/iudanet/shiftkeeper/internal/models"
	"github.com/iudanet/shiftkeeper/internal/validation"
)

//go:generate moq -out service_mock.go . Service

// ErrNotAuthenticated is returned when there is no logged in user
var ErrNotAuthenticated = errors.New("not authenticated")

// Service определяет интерфейс операций над сменами для UI
type Service interface {
	SaveRecord(ctx context.Context, date string, kind models.ShiftKind, notes string) (*models.Shift, error)
	DeleteRecord(ctx context.Context, id string) error
	List(ctx context.Context) ([]*models.Shift, error)
}

// UserProvider returns the current user
type UserProvider interface {
	CurrentUser(ctx context.Context) (auth.User, error)
}

// Queue is the part of the Offline Queue used for deferred writes
type Queue interface {
	Enqueue(ctx context.Context, userID string, action models.QueueAction, payload *models.Shift) (*models.QueueItem, error)
	DiscardPending(ctx context.Context, userID, recordID string, action models.QueueAction) (int, error)
}

// Records keeps the local copy and the remote store in step for UI writes.
// Временная недоступность сервера не является ошибкой: мутация ставится в очередь.
type Records struct {
	users  UserProvider
	local  storage.ShiftStorage
	remote remote.Store
	queue  Queue
	bus    *events.Bus
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

var _ Service = (*Records)(nil)

// New creates the record service
func New(users UserProvider, local storage.ShiftStorage, remoteStore remote.Store, queue Queue, bus *events.Bus, logger *slog.Logger) *Records {
	return &Records{
		users:  users,
		local:  local,
		remote: remoteStore,
		queue:  queue,
		bus:    bus,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

func (r *Records) currentUser(ctx context.Context) (string, error) {
	user, err := r.users.CurrentUser(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get current user: %w", err)
	}
	if !user.IsAuthenticated {
		return "", ErrNotAuthenticated
	}
	return user.ID, nil
}

// SaveRecord creates the shift for date or updates the existing one.
// Returns the record as stored; if the server is unreachable the write is queued
// and the local version is returned.
func (r *Records) SaveRecord(ctx context.Context, date string, kind models.ShiftKind, notes string) (*models.Shift, error) {
	userID, err := r.currentUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := validation.ValidateDate(date); err != nil {
		return nil, fmt.Errorf("%w: %w", clientapi.ErrPermanent, err)
	}

	now := r.now().UTC().Truncate(time.Millisecond)

	previous, err := r.local.GetShiftByDate(ctx, userID, date)
	if err != nil && !errors.Is(err, storage.ErrShiftNotFound) {
		return nil, fmt.Errorf("failed to look up shift: %w", err)
	}

	var record *models.Shift
	if previous != nil {
		record = previous.Clone()
	} else {
		record = &models.Shift{
			ID:        r.newID(),
			OwnerID:   userID,
			Date:      date,
			CreatedAt: now,
		}
	}
	record.Kind = kind
	record.Notes = notes
	record.UpdatedAt = now

	if err := validation.ValidateShift(record); err != nil {
		return nil, fmt.Errorf("%w: %w", clientapi.ErrPermanent, err)
	}

	// Сначала локальная копия
	if err := r.local.SaveShift(ctx, userID, record); err != nil {
		return nil, fmt.Errorf("failed to save shift locally: %w", err)
	}

	stored, err := r.remote.Upsert(ctx, record)
	switch {
	case err == nil:
		if _, err := r.queue.DiscardPending(ctx, userID, record.ID, ""); err != nil {
			return nil, fmt.Errorf("failed to discard superseded changes: %w", err)
		}
		if err := r.local.SaveShift(ctx, userID, stored); err != nil {
			return nil, fmt.Errorf("failed to save shift locally: %w", err)
		}
		r.logger.Info("Shift saved", "id", stored.ID, "date", stored.Date)
		return stored, nil

	case errors.Is(err, clientapi.ErrTransient), errors.Is(err, remote.ErrNoCredentials):
		if _, qerr := r.queue.Enqueue(ctx, userID, models.QueueActionUpsert, record); qerr != nil {
			return nil, fmt.Errorf("failed to queue shift: %w", qerr)
		}
		r.logger.Warn("Shift saved offline", "id", record.ID, "date", record.Date, "error", err)
		r.bus.Notify(events.NoticeOfflineSave, record.ID, "saved offline, will sync when connected")
		return record, nil

	default:
		// Сервер отклонил запись: возвращаем локальное состояние
		if rerr := r.restore(ctx, userID, record.ID, previous); rerr != nil {
			r.logger.Error("Failed to roll back local shift", "id", record.ID, "error", rerr)
		}
		return nil, fmt.Errorf("failed to save shift: %w", err)
	}
}

// DeleteRecord removes the shift locally and remotely.
// Returns storage.ErrShiftNotFound if the shift is not in the local store.
func (r *Records) DeleteRecord(ctx context.Context, id string) error {
	userID, err := r.currentUser(ctx)
	if err != nil {
		return err
	}

	snapshot, err := r.local.GetShift(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("failed to get shift: %w", err)
	}

	if err := r.local.DeleteShift(ctx, userID, id); err != nil {
		return fmt.Errorf("failed to delete shift locally: %w", err)
	}

	err = r.remote.Delete(ctx, id, userID)
	switch {
	case err == nil:
		if _, err := r.queue.DiscardPending(ctx, userID, id, ""); err != nil {
			return fmt.Errorf("failed to discard superseded changes: %w", err)
		}
		r.logger.Info("Shift deleted", "id", id)
		return nil

	case errors.Is(err, clientapi.ErrTransient), errors.Is(err, remote.ErrNoCredentials):
		if _, qerr := r.queue.Enqueue(ctx, userID, models.QueueActionDelete, snapshot); qerr != nil {
			return fmt.Errorf("failed to queue delete: %w", qerr)
		}
		r.logger.Warn("Shift deleted offline", "id", id, "error", err)
		r.bus.Notify(events.NoticeOfflineSave, id, "deleted offline, will sync when connected")
		return nil

	default:
		if rerr := r.local.SaveShift(ctx, userID, snapshot); rerr != nil {
			r.logger.Error("Failed to restore local shift", "id", id, "error", rerr)
		}
		return fmt.Errorf("failed to delete shift: %w", err)
	}
}

// List returns the cached shifts of the current user ordered by date
func (r *Records) List(ctx context.Context) ([]*models.Shift, error) {
	userID, err := r.currentUser(ctx)
	if err != nil {
		return nil, err
	}

	shifts, err := r.local.ListShifts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	return shifts, nil
}

func (r *Records) restore(ctx context.Context, userID, id string, previous *models.Shift) error {
	if previous == nil {
		return r.local.DeleteShift(ctx, userID, id)
	}
	return r.local.SaveShift(ctx, userID, previous)
}
