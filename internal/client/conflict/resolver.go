package conflict

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	clientapi "github.com/iudanet/shiftkeeper/internal/client/api"
	"github.com/iudanet/shiftkeeper/internal/client/remote"
	"github.com/iudanet/shiftkeeper/internal/client/storage"
	"github.com/iudanet/shiftkeeper/internal/config"
	"github.com/iudanet/shiftkeeper/internal/models"
	"github.com/iudanet/shiftkeeper/internal/validation"
)

//go:generate moq -out queue_mock.go . Queue

// MergeSeparator separates local and remote notes in a merged record
const MergeSeparator = "\n--- merged ---\n"

var (
	// ErrConflictUnresolved is returned when the automatic policy declines a conflict
	ErrConflictUnresolved = errors.New("conflict requires manual resolution")

	// ErrInvalidResolution is returned when an action cannot be applied to a conflict
	ErrInvalidResolution = errors.New("invalid resolution for conflict")
)

// Queue is the part of the Offline Queue used to persist resolutions that could not be sent
type Queue interface {
	Enqueue(ctx context.Context, userID string, action models.QueueAction, payload *models.Shift) (*models.QueueItem, error)
	DiscardPending(ctx context.Context, userID, recordID string, action models.QueueAction) (int, error)
}

// Resolver decides and applies resolutions
type Resolver struct {
	local  storage.ShiftStorage
	remote remote.Store
	queue  Queue
	logger *slog.Logger
	now    func() time.Time
	policy string
}

// NewResolver creates a resolver. policy is config.DeleteEditPolicyEditWins or config.DeleteEditPolicyManual.
func NewResolver(local storage.ShiftStorage, remoteStore remote.Store, queue Queue, policy string, logger *slog.Logger) *Resolver {
	if policy == "" {
		policy = config.DeleteEditPolicyEditWins
	}
	return &Resolver{
		local:  local,
		remote: remoteStore,
		queue:  queue,
		logger: logger,
		now:    time.Now,
		policy: policy,
	}
}

// ResolveAutomatically applies the resolution policy for the conflict kind
func (r *Resolver) ResolveAutomatically(c models.Conflict) (models.Resolution, error) {
	switch c.Kind {
	case models.ConflictVersionMismatch:
		if c.LocalRecord.UpdatedAt.After(c.RemoteRecord.UpdatedAt) {
			return models.Resolution{Action: models.ResolutionKeepLocal, ResolvedRecord: c.LocalRecord.Clone()}, nil
		}
		return models.Resolution{Action: models.ResolutionKeepRemote, ResolvedRecord: c.RemoteRecord.Clone()}, nil

	case models.ConflictConcurrentEdit:
		merged := Merge(c.LocalRecord, c.RemoteRecord, r.now())
		if err := validation.ValidateShift(merged); err != nil {
			// Слияние, которое сервер не примет, решает пользователь
			return models.Resolution{}, fmt.Errorf("%w: merge of %s is not valid: %v", ErrConflictUnresolved, c.RecordID(), err)
		}
		return models.Resolution{Action: models.ResolutionMerge, ResolvedRecord: merged}, nil

	case models.ConflictDeleteEdit:
		if r.policy == config.DeleteEditPolicyManual {
			return models.Resolution{}, fmt.Errorf("%w: %s deleted on %s side", ErrConflictUnresolved, c.RecordID(), c.DeletedSide)
		}
		// Правка побеждает удаление: выживает отредактированная версия
		return models.Resolution{Action: models.ResolutionDuplicate, ResolvedRecord: survivor(c).Clone()}, nil
	}

	return models.Resolution{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidResolution, c.Kind)
}

// ResolveManually builds a resolution for an action chosen by the user.
// Для DeleteEdit сохранение удаленной стороны означает подтверждение удаления.
func (r *Resolver) ResolveManually(c models.Conflict, action models.ResolutionAction) (models.Resolution, error) {
	switch action {
	case models.ResolutionKeepLocal:
		record := c.LocalRecord.Clone()
		if c.Kind == models.ConflictDeleteEdit && c.DeletedSide == models.SideLocal {
			record = nil
		}
		return models.Resolution{Action: action, ResolvedRecord: record}, nil
	case models.ResolutionKeepRemote:
		record := c.RemoteRecord.Clone()
		if c.Kind == models.ConflictDeleteEdit && c.DeletedSide == models.SideRemote {
			record = nil
		}
		return models.Resolution{Action: action, ResolvedRecord: record}, nil
	case models.ResolutionMerge:
		if c.LocalRecord == nil || c.RemoteRecord == nil {
			return models.Resolution{}, fmt.Errorf("%w: merge needs both sides", ErrInvalidResolution)
		}
		merged := Merge(c.LocalRecord, c.RemoteRecord, r.now())
		if err := validation.ValidateShift(merged); err != nil {
			return models.Resolution{}, fmt.Errorf("%w: %v", ErrInvalidResolution, err)
		}
		return models.Resolution{Action: action, ResolvedRecord: merged}, nil
	case models.ResolutionDuplicate:
		if c.Kind != models.ConflictDeleteEdit {
			return models.Resolution{}, fmt.Errorf("%w: duplicate applies to delete/edit conflicts only", ErrInvalidResolution)
		}
		return models.Resolution{Action: action, ResolvedRecord: survivor(c).Clone()}, nil
	}
	return models.Resolution{}, fmt.Errorf("%w: unknown action %q", ErrInvalidResolution, action)
}

// Apply writes the resolved record to the stale store(s).
// Не отправленные на сервер изменения ставятся в очередь, решение не теряется.
// Если сервер отклонил решение (ErrPermanent), локальная копия не изменяется.
func (r *Resolver) Apply(ctx context.Context, c models.Conflict, res models.Resolution, ownerID string) error {
	id := c.RecordID()

	r.logger.Info("Applying conflict resolution",
		"id", id,
		"kind", c.Kind,
		"action", res.Action)

	switch res.Action {
	case models.ResolutionKeepLocal:
		if res.ResolvedRecord == nil {
			// Локальное удаление подтверждено
			if _, err := r.queue.DiscardPending(ctx, ownerID, id, ""); err != nil {
				return fmt.Errorf("failed to discard queued changes: %w", err)
			}
			if err := r.local.DeleteShift(ctx, ownerID, id); err != nil {
				return fmt.Errorf("failed to delete local shift: %w", err)
			}
			return r.deleteRemote(ctx, ownerID, id, c.RemoteRecord)
		}
		return r.pushRemote(ctx, ownerID, res.ResolvedRecord)

	case models.ResolutionKeepRemote:
		// Сервер побеждает: локальные отложенные изменения записи больше не нужны
		if _, err := r.queue.DiscardPending(ctx, ownerID, id, ""); err != nil {
			return fmt.Errorf("failed to discard queued changes: %w", err)
		}
		if res.ResolvedRecord == nil {
			if err := r.local.DeleteShift(ctx, ownerID, id); err != nil {
				return fmt.Errorf("failed to delete local shift: %w", err)
			}
			return nil
		}
		return r.saveLocal(ctx, ownerID, res.ResolvedRecord)

	case models.ResolutionMerge:
		if res.ResolvedRecord == nil {
			return fmt.Errorf("%w: merge without record", ErrInvalidResolution)
		}
		return r.pushRemote(ctx, ownerID, res.ResolvedRecord)

	case models.ResolutionDuplicate:
		if res.ResolvedRecord == nil {
			return fmt.Errorf("%w: duplicate without record", ErrInvalidResolution)
		}
		if c.DeletedSide == models.SideLocal {
			if _, err := r.queue.DiscardPending(ctx, ownerID, id, models.QueueActionDelete); err != nil {
				return fmt.Errorf("failed to discard queued delete: %w", err)
			}
			return r.saveLocal(ctx, ownerID, res.ResolvedRecord)
		}
		return r.pushRemote(ctx, ownerID, res.ResolvedRecord)
	}

	return fmt.Errorf("%w: unknown action %q", ErrInvalidResolution, res.Action)
}

func (r *Resolver) saveLocal(ctx context.Context, ownerID string, record *models.Shift) error {
	if err := r.local.SaveShift(ctx, ownerID, record); err != nil {
		return fmt.Errorf("failed to save local shift: %w", err)
	}
	return nil
}

// pushRemote отправляет запись на сервер и сохраняет принятую версию локально.
// При временной ошибке запись сохраняется локально и Upsert ставится в очередь.
func (r *Resolver) pushRemote(ctx context.Context, ownerID string, record *models.Shift) error {
	stored, err := r.remote.Upsert(ctx, record)
	if err == nil {
		// Отложенные изменения записи устарели относительно отправленного решения
		if _, derr := r.queue.DiscardPending(ctx, ownerID, record.ID, ""); derr != nil {
			return fmt.Errorf("failed to discard superseded changes: %w", derr)
		}
		// Сохраняем штамп origin, полученный от сервера
		return r.saveLocal(ctx, ownerID, stored)
	}
	if !errors.Is(err, clientapi.ErrTransient) {
		return fmt.Errorf("failed to push resolution: %w", err)
	}

	r.logger.Warn("Resolution queued for later delivery", "id", record.ID, "error", err)
	if err := r.saveLocal(ctx, ownerID, record); err != nil {
		return err
	}
	if _, qerr := r.queue.Enqueue(ctx, ownerID, models.QueueActionUpsert, record); qerr != nil {
		return fmt.Errorf("failed to queue resolution: %w", qerr)
	}
	return nil
}

func (r *Resolver) deleteRemote(ctx context.Context, ownerID, id string, snapshot *models.Shift) error {
	err := r.remote.Delete(ctx, id, ownerID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, clientapi.ErrTransient) {
		return fmt.Errorf("failed to delete remote shift: %w", err)
	}

	payload := snapshot.Clone()
	if payload == nil {
		payload = &models.Shift{ID: id, OwnerID: ownerID}
	}
	if _, qerr := r.queue.Enqueue(ctx, ownerID, models.QueueActionDelete, payload); qerr != nil {
		return fmt.Errorf("failed to queue delete: %w", qerr)
	}
	return nil
}

// survivor returns the edited side of a delete/edit conflict
func survivor(c models.Conflict) *models.Shift {
	if c.DeletedSide == models.SideLocal {
		return c.RemoteRecord
	}
	return c.LocalRecord
}

// Merge combines two concurrent edits without discarding content.
func Merge(local, remote *models.Shift, now time.Time) *models.Shift {
	merged := local.Clone()

	if merged.Kind == "" {
		merged.Kind = remote.Kind
	}

	switch {
	case local.Notes == remote.Notes:
	case strings.HasSuffix(local.Notes, MergeSeparator+remote.Notes):
		// Удаленные заметки уже слиты в локальную копию
	case strings.HasPrefix(remote.Notes, local.Notes+MergeSeparator):
		merged.Notes = remote.Notes
	case local.Notes == "":
		merged.Notes = remote.Notes
	case remote.Notes == "":
		merged.Notes = local.Notes
	default:
		merged.Notes = local.Notes + MergeSeparator + remote.Notes
	}

	if remote.CreatedAt.Before(local.CreatedAt) {
		merged.CreatedAt = remote.CreatedAt
	}
	merged.UpdatedAt = now.UTC().Truncate(time.Millisecond)

	return merged
}
