// Package sync orchestrates sync passes between the Local Store and the
// remote store: conflict detection and resolution, one-sided deltas,
// trigger coalescing and error backoff.
package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	stdsync "sync"
	"sync/atomic"
	"time"

	"github.com/iudanet/shiftkeeper/internal/client/auth"
	"github.com/iudanet/shiftkeeper/internal/client/conflict"
	"github.com/iudanet/shiftkeeper/internal/client/events"
	"github.com/iudanet/shiftkeeper/internal/client/queue"
	"github.com/iudanet/shiftkeeper/internal/client/remote"
	"github.com/iudanet/shiftkeeper/internal/client/storage"
	"github.com/iudanet/shiftkeeper/internal/config"
	"github.com/iudanet/shiftkeeper/internal/models"
)

//go:generate moq -out service_mock.go . Service

var (
	// ErrSyncInProgress is returned when a pass is running or the orchestrator is backing off
	ErrSyncInProgress = errors.New("sync already in progress")

	// ErrNotAuthenticated is returned when there is no logged in user; nothing is synced
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrConflictNotFound is returned for an unknown pending conflict
	ErrConflictNotFound = errors.New("conflict not found")
)

// Service определяет интерфейс оркестратора синхронизации для CLI
type Service interface {
	// TriggerSync выполняет проход синхронизации немедленно
	TriggerSync(ctx context.Context) (*models.SyncSummary, error)

	// ScheduleSync планирует проход с задержкой debounce
	ScheduleSync(ctx context.Context)

	// GetSyncStatistics возвращает снимок состояния синхронизации
	GetSyncStatistics(ctx context.Context) (*models.SyncStatistics, error)

	// PendingConflicts возвращает конфликты, ожидающие ручного решения
	PendingConflicts() []models.Conflict

	// ResolveConflict применяет выбранное пользователем решение
	ResolveConflict(ctx context.Context, recordID string, action models.ResolutionAction) error
}

// UserProvider returns the current user
type UserProvider interface {
	CurrentUser(ctx context.Context) (auth.User, error)
}

// Queue is the part of the Offline Queue used by the orchestrator
type Queue interface {
	Enqueue(ctx context.Context, userID string, action models.QueueAction, payload *models.Shift) (*models.QueueItem, error)
	Pending(ctx context.Context, userID string) ([]*models.QueueItem, error)
	DeadLetters(ctx context.Context, userID string) ([]*models.DeadLetter, error)
	Drain(ctx context.Context, userID string) (queue.DrainResult, error)
}

// Resolver decides and applies conflict resolutions
type Resolver interface {
	ResolveAutomatically(c models.Conflict) (models.Resolution, error)
	ResolveManually(c models.Conflict, action models.ResolutionAction) (models.Resolution, error)
	Apply(ctx context.Context, c models.Conflict, res models.Resolution, ownerID string) error
}

// Deps collects the collaborators of the orchestrator
type Deps struct {
	Users    UserProvider
	Local    storage.ShiftStorage
	Meta     storage.MetadataStorage
	Remote   remote.Store
	Queue    Queue
	Resolver Resolver
	Detector *conflict.Detector
	Bus      *events.Bus
}

// Orchestrator runs sync passes. Only one pass runs at a time; triggers
// arriving while a pass runs or during error backoff are dropped.
type Orchestrator struct {
	deps         Deps
	logger       *slog.Logger
	now          func() time.Time
	pending      map[string]models.Conflict // ожидают ручного решения, по id записи
	debounce     *time.Timer
	state        models.SyncState
	mu           stdsync.Mutex
	busy         atomic.Bool
	remoteCount  int
	errorBackoff time.Duration
	debounceWait time.Duration
}

var _ Service = (*Orchestrator)(nil)

// New creates an orchestrator
func New(deps Deps, cfg config.SyncConfig, logger *slog.Logger) *Orchestrator {
	errorBackoff := cfg.ErrorBackoff
	if errorBackoff <= 0 {
		errorBackoff = 30 * time.Second
	}
	debounceWait := cfg.Debounce
	if debounceWait < 0 {
		debounceWait = 0
	}
	return &Orchestrator{
		deps:         deps,
		logger:       logger,
		now:          time.Now,
		pending:      make(map[string]models.Conflict),
		state:        models.SyncStateIdle,
		errorBackoff: errorBackoff,
		debounceWait: debounceWait,
	}
}

// State returns the current state of the machine
func (o *Orchestrator) State() models.SyncState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Orchestrator) setState(state models.SyncState) {
	o.mu.Lock()
	prev := o.state
	o.state = state
	o.mu.Unlock()

	if prev != state {
		o.logger.Debug("Sync state changed", "from", prev, "to", state)
	}
}

// TriggerSync runs a sync pass now.
// Returns ErrSyncInProgress if a pass is running or the orchestrator is in error backoff.
func (o *Orchestrator) TriggerSync(ctx context.Context) (*models.SyncSummary, error) {
	if !o.busy.CompareAndSwap(false, true) {
		o.logger.Debug("Sync trigger coalesced")
		return nil, ErrSyncInProgress
	}
	release := true
	defer func() {
		if release {
			o.busy.Store(false)
		}
	}()

	user, err := o.deps.Users.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	if !user.IsAuthenticated {
		return nil, ErrNotAuthenticated
	}

	summary, err := o.run(ctx, user.ID)
	if err == nil {
		o.setState(models.SyncStateIdle)
		return summary, nil
	}

	if ctx.Err() != nil {
		o.setState(models.SyncStateIdle)
		return summary, err
	}

	// Ошибка ввода-вывода: держим флаг занятости до окончания backoff
	release = false
	o.enterBackoff(err)
	return summary, err
}

func (o *Orchestrator) enterBackoff(cause error) {
	o.setState(models.SyncStateErrorBackoff)
	o.logger.Error("Sync pass failed, backing off",
		"error", cause,
		"backoff", o.errorBackoff)

	time.AfterFunc(o.errorBackoff, func() {
		o.setState(models.SyncStateIdle)
		o.busy.Store(false)
		o.logger.Debug("Sync backoff finished")
	})
}

// ScheduleSync runs a pass after the debounce delay. Repeated calls within the
// delay collapse into a single pass.
func (o *Orchestrator) ScheduleSync(ctx context.Context) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.debounce != nil {
		o.debounce.Stop()
	}
	o.debounce = time.AfterFunc(o.debounceWait, func() {
		if ctx.Err() != nil {
			return
		}
		_, err := o.TriggerSync(ctx)
		if err != nil && !errors.Is(err, ErrSyncInProgress) && !errors.Is(err, ErrNotAuthenticated) {
			o.logger.Warn("Scheduled sync failed", "error", err)
		}
	})
}

// Stop cancels a scheduled pass
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.debounce != nil {
		o.debounce.Stop()
		o.debounce = nil
	}
}

// PendingConflicts returns conflicts waiting for a manual decision
func (o *Orchestrator) PendingConflicts() []models.Conflict {
	o.mu.Lock()
	defer o.mu.Unlock()

	result := make([]models.Conflict, 0, len(o.pending))
	for _, c := range o.pending {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].RecordID() < result[j].RecordID()
	})
	return result
}

// ResolveConflict applies a user-chosen resolution to a pending conflict
func (o *Orchestrator) ResolveConflict(ctx context.Context, recordID string, action models.ResolutionAction) error {
	if !o.busy.CompareAndSwap(false, true) {
		return ErrSyncInProgress
	}
	defer o.busy.Store(false)

	o.mu.Lock()
	c, ok := o.pending[recordID]
	o.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrConflictNotFound, recordID)
	}

	user, err := o.deps.Users.CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	if !user.IsAuthenticated {
		return ErrNotAuthenticated
	}

	res, err := o.deps.Resolver.ResolveManually(c, action)
	if err != nil {
		return err
	}
	if err := o.deps.Resolver.Apply(ctx, c, res, user.ID); err != nil {
		return fmt.Errorf("failed to apply resolution: %w", err)
	}

	// Обновляем множество известных на сервере записей
	known, err := o.deps.Meta.GetKnownRemoteIDs(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("failed to load known ids: %w", err)
	}
	if res.ResolvedRecord != nil {
		known[recordID] = struct{}{}
	} else {
		delete(known, recordID)
	}
	if err := o.deps.Meta.SaveKnownRemoteIDs(ctx, user.ID, setToSlice(known)); err != nil {
		return fmt.Errorf("failed to save known ids: %w", err)
	}

	o.mu.Lock()
	delete(o.pending, recordID)
	o.mu.Unlock()

	o.logger.Info("Conflict resolved manually", "id", recordID, "action", action)
	return nil
}

// GetSyncStatistics returns a snapshot of the sync state
func (o *Orchestrator) GetSyncStatistics(ctx context.Context) (*models.SyncStatistics, error) {
	stats := &models.SyncStatistics{State: o.State()}

	user, err := o.deps.Users.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	if user.ID == "" {
		return stats, nil
	}

	local, err := o.deps.Local.ListShifts(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list local shifts: %w", err)
	}
	stats.LocalCount = len(local)

	pending, err := o.deps.Queue.Pending(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to read queue: %w", err)
	}
	stats.QueuePending = len(pending)

	letters, err := o.deps.Queue.DeadLetters(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to read dead letters: %w", err)
	}
	stats.DeadLetters = len(letters)

	stats.LastSyncTime, err = o.deps.Meta.GetLastSyncTime(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get last sync time: %w", err)
	}

	o.mu.Lock()
	stats.RemoteCount = o.remoteCount
	stats.ConflictsPending = len(o.pending)
	o.mu.Unlock()

	return stats, nil
}

func setToSlice(set map[string]struct{}) []string {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
