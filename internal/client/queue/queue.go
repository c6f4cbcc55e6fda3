// Package queue implements the durable Offline Queue of pending remote mutations.
package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	clientapi "github.com/iudanet/shiftkeeper/internal/client/api"
	"github.com/iudanet/shiftkeeper/internal/client/events"
	"github.com/iudanet/shiftkeeper/internal/client/remote"
	"github.com/iudanet/shiftkeeper/internal/client/storage"
	"github.com/iudanet/shiftkeeper/internal/config"
	"github.com/iudanet/shiftkeeper/internal/models"
)

// ErrQueueExhausted marks an item removed after reaching the retry ceiling
var ErrQueueExhausted = errors.New("queue item exhausted retries")

const defaultMaxRetries = 3

// DrainResult итог одного прохода drain
type DrainResult struct {
	Processed int `json:"processed"` // успешно применено на сервере
	Errors    int `json:"errors"`    // перемещено в dead-letter
}

// Queue is the Offline Queue. Items are persisted in QueueStorage and
// applied through the Remote Store Client by Drain.
type Queue struct {
	store      storage.QueueStorage
	remote     remote.Store
	bus        *events.Bus
	logger     *slog.Logger
	now        func() time.Time
	drainMu    sync.Mutex
	maxRetries int
}

// New creates an Offline Queue
func New(store storage.QueueStorage, remoteStore remote.Store, bus *events.Bus, cfg config.QueueConfig, logger *slog.Logger) *Queue {
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	return &Queue{
		store:      store,
		remote:     remoteStore,
		bus:        bus,
		logger:     logger,
		now:        time.Now,
		maxRetries: maxRetries,
	}
}

// Enqueue durably appends a mutation to the tail of the user's queue
func (q *Queue) Enqueue(ctx context.Context, userID string, action models.QueueAction, payload *models.Shift) (*models.QueueItem, error) {
	if payload == nil || payload.ID == "" {
		return nil, fmt.Errorf("queue payload must have an id")
	}

	item := &models.QueueItem{
		ID:         uuid.NewString(),
		RecordID:   payload.ID,
		Action:     action,
		Payload:    payload.Clone(),
		EnqueuedAt: q.now().UTC(),
	}

	if err := q.store.AppendQueueItem(ctx, userID, item); err != nil {
		return nil, fmt.Errorf("failed to enqueue %s %s: %w", action, payload.ID, err)
	}

	q.logger.Info("Mutation queued",
		"id", item.RecordID,
		"action", item.Action,
		"seq", item.Seq)

	return item, nil
}

// Drain applies queued items in FIFO order.
// Обрабатываются только элементы, присутствовавшие в очереди на момент старта;
// параллельные Enqueue дописывают в хвост и будут обработаны следующим drain.
// Элементы, отброшенные через DiscardPending во время drain, не отправляются.
func (q *Queue) Drain(ctx context.Context, userID string) (DrainResult, error) {
	q.drainMu.Lock()
	defer q.drainMu.Unlock()

	var result DrainResult

	items, err := q.store.ListQueueItems(ctx, userID)
	if err != nil {
		return result, fmt.Errorf("failed to read queue: %w", err)
	}
	if len(items) == 0 {
		return result, nil
	}

	q.logger.Debug("Draining offline queue", "user_id", userID, "items", len(items))

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		// Перечитываем элемент: снимок мог устареть
		current, err := q.store.GetQueueItem(ctx, userID, item.Seq)
		if errors.Is(err, storage.ErrQueueItemNotFound) {
			q.logger.Debug("Queued mutation discarded during drain", "id", item.RecordID, "seq", item.Seq)
			continue
		}
		if err != nil {
			return result, fmt.Errorf("failed to read queue item: %w", err)
		}
		item = current

		applyErr := q.apply(ctx, userID, item)
		switch {
		case applyErr == nil:
			if err := q.store.RemoveQueueItem(ctx, userID, item.Seq); err != nil {
				return result, fmt.Errorf("failed to remove applied item: %w", err)
			}
			result.Processed++

		case errors.Is(applyErr, remote.ErrNoCredentials):
			// Без авторизации применять нечего - элементы остаются в очереди
			q.logger.Warn("Queue drain stopped: not authenticated")
			return result, applyErr

		case errors.Is(applyErr, clientapi.ErrPermanent):
			if err := q.deadLetter(ctx, userID, item, applyErr.Error()); err != nil {
				return result, err
			}
			result.Errors++

		default:
			exhausted, err := q.recordFailure(ctx, userID, item, applyErr)
			if err != nil {
				return result, err
			}
			if exhausted {
				result.Errors++
			}
		}
	}

	if result.Processed > 0 {
		q.bus.QueueDrained(result.Processed)
	}

	q.logger.Info("Offline queue drained",
		"user_id", userID,
		"processed", result.Processed,
		"errors", result.Errors)

	return result, nil
}

func (q *Queue) apply(ctx context.Context, userID string, item *models.QueueItem) error {
	if item.Action == models.QueueActionDelete {
		ownerID := userID
		if item.Payload != nil && item.Payload.OwnerID != "" {
			ownerID = item.Payload.OwnerID
		}
		return q.remote.Delete(ctx, item.RecordID, ownerID)
	}

	if item.Payload == nil {
		return fmt.Errorf("%w: queue item %s has no payload", clientapi.ErrPermanent, item.RecordID)
	}
	_, err := q.remote.Upsert(ctx, item.Payload)
	return err
}

// recordFailure увеличивает счетчик попыток; по достижении потолка элемент уходит в dead-letter
func (q *Queue) recordFailure(ctx context.Context, userID string, item *models.QueueItem, cause error) (bool, error) {
	item.RetryCount++
	item.LastError = cause.Error()

	if item.RetryCount >= q.maxRetries {
		reason := fmt.Sprintf("%v after %d attempts: %s", ErrQueueExhausted, item.RetryCount, item.LastError)
		if err := q.deadLetter(ctx, userID, item, reason); err != nil {
			return false, err
		}
		return true, nil
	}

	q.logger.Warn("Queued mutation failed, will retry",
		"id", item.RecordID,
		"action", item.Action,
		"retry_count", item.RetryCount,
		"error", cause)

	err := q.store.UpdateQueueItem(ctx, userID, item)
	if errors.Is(err, storage.ErrQueueItemNotFound) {
		// Элемент был отброшен во время drain
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to update queue item: %w", err)
	}
	return false, nil
}

func (q *Queue) deadLetter(ctx context.Context, userID string, item *models.QueueItem, reason string) error {
	letter := &models.DeadLetter{
		Item:     item,
		Reason:   reason,
		FailedAt: q.now().UTC(),
	}
	if err := q.store.SaveDeadLetter(ctx, userID, letter); err != nil {
		return fmt.Errorf("failed to save dead letter: %w", err)
	}
	if err := q.store.RemoveQueueItem(ctx, userID, item.Seq); err != nil {
		return fmt.Errorf("failed to remove dead-lettered item: %w", err)
	}

	q.logger.Error("Queued mutation dropped",
		"id", item.RecordID,
		"action", item.Action,
		"retry_count", item.RetryCount,
		"reason", reason)

	q.bus.Notify(events.NoticeQueueExhausted, item.RecordID,
		fmt.Sprintf("Change to shift %s could not be sent: %s", item.RecordID, reason))

	return nil
}

// Pending returns the items currently in the queue
func (q *Queue) Pending(ctx context.Context, userID string) ([]*models.QueueItem, error) {
	return q.store.ListQueueItems(ctx, userID)
}

// DiscardPending removes queued items for recordID with the given action.
// Пустой action удаляет все элементы записи. Возвращает число удаленных элементов.
func (q *Queue) DiscardPending(ctx context.Context, userID, recordID string, action models.QueueAction) (int, error) {
	items, err := q.store.ListQueueItems(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to read queue: %w", err)
	}

	removed := 0
	for _, item := range items {
		if item.RecordID != recordID || (action != "" && item.Action != action) {
			continue
		}
		if err := q.store.RemoveQueueItem(ctx, userID, item.Seq); err != nil {
			return removed, fmt.Errorf("failed to discard queue item: %w", err)
		}
		removed++
	}

	if removed > 0 {
		q.logger.Debug("Discarded queued mutations", "id", recordID, "action", action, "count", removed)
	}
	return removed, nil
}

// DeadLetters returns items dropped from the queue
func (q *Queue) DeadLetters(ctx context.Context, userID string) ([]*models.DeadLetter, error) {
	return q.store.ListDeadLetters(ctx, userID)
}

// ClearDeadLetters forgets all dropped items
func (q *Queue) ClearDeadLetters(ctx context.Context, userID string) error {
	return q.store.ClearDeadLetters(ctx, userID)
}
