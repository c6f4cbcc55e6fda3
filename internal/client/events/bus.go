// Package events is the client-side event bus. Core services publish sync
// lifecycle events and user-facing notices; the CLI subscribes to render them.
package events

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/iudanet/shiftkeeper/internal/models"
)

// Kind тип события шины
type Kind string

const (
	KindRemoteChange Kind = "remote_change"
	KindSyncComplete Kind = "sync_complete"
	KindQueueDrained Kind = "queue_drained"
	KindNotice       Kind = "notice"
)

// NoticeCode классифицирует уведомления для пользователя
type NoticeCode string

const (
	NoticeOfflineSave        NoticeCode = "offline_save"
	NoticeRestoredFromBackup NoticeCode = "restored_from_backup"
	NoticeQueueExhausted     NoticeCode = "queue_exhausted"
	NoticeManualConflict     NoticeCode = "manual_conflict"
	NoticeUpdatedElsewhere   NoticeCode = "updated_elsewhere"
)

// Event is a single bus message. Fields are populated depending on Kind.
type Event struct {
	At       time.Time
	Summary  *models.SyncSummary // KindSyncComplete
	Kind     Kind
	Notice   NoticeCode // KindNotice
	Message  string
	RecordID string
	Count    int // KindQueueDrained
}

const defaultBufferSize = 64

// Subscription is an active bus subscription.
type Subscription struct {
	ch     chan Event
	id     uint64
	closed bool
}

// C returns the channel for receiving events.
func (s *Subscription) C() <-chan Event {
	return s.ch
}

// Bus fans events out to subscribers without blocking publishers.
// Если буфер подписчика заполнен, событие для него отбрасывается.
type Bus struct {
	logger     *slog.Logger
	subs       map[uint64]*Subscription
	mu         sync.RWMutex
	nextID     uint64
	bufferSize int
}

// NewBus creates an event bus; bufferSize <= 0 selects the default.
func NewBus(logger *slog.Logger, bufferSize int) *Bus {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	return &Bus{
		logger:     logger,
		subs:       make(map[uint64]*Subscription),
		bufferSize: bufferSize,
	}
}

// Subscribe registers a new subscriber.
func (b *Bus) Subscribe() *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	sub := &Subscription{
		id: b.nextID,
		ch: make(chan Event, b.bufferSize),
	}
	b.subs[sub.id] = sub
	return sub
}

// Unsubscribe removes the subscription and closes its channel.
func (b *Bus) Unsubscribe(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if sub.closed {
		return
	}
	sub.closed = true
	delete(b.subs, sub.id)
	close(sub.ch)
}

// Publish delivers ev to every subscriber.
func (b *Bus) Publish(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subs {
		select {
		case sub.ch <- ev:
		default:
			b.logger.Debug("Event dropped, subscriber buffer full",
				"kind", ev.Kind,
				"subscription", sub.id)
		}
	}
}

// RemoteChange publishes onRemoteChange for a record changed by another client.
func (b *Bus) RemoteChange(recordID string) {
	b.Publish(Event{
		Kind:     KindRemoteChange,
		RecordID: recordID,
		Message:  "Shift updated elsewhere",
	})
}

// SyncComplete publishes onSyncComplete with the pass summary.
func (b *Bus) SyncComplete(summary *models.SyncSummary) {
	b.Publish(Event{
		Kind:    KindSyncComplete,
		Summary: summary,
		Message: fmt.Sprintf("Sync complete: %d synced, %d conflicts", summary.Synced, summary.Conflicts),
	})
}

// QueueDrained publishes onQueueDrained with the number of processed items.
func (b *Bus) QueueDrained(count int) {
	b.Publish(Event{
		Kind:    KindQueueDrained,
		Count:   count,
		Message: fmt.Sprintf("%d pending changes sent", count),
	})
}

// Notify publishes a user-visible notice.
func (b *Bus) Notify(code NoticeCode, recordID, message string) {
	b.Publish(Event{
		Kind:     KindNotice,
		Notice:   code,
		RecordID: recordID,
		Message:  message,
	})
}

// Count returns the number of active subscriptions.
func (b *Bus) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
