package storage

import (
	"context"

	"github.com/iudanet/shiftkeeper/internal/models"
)

//go:generate moq -out queuestorage_mock.go . QueueStorage

// QueueStorage is durable FIFO persistence for the offline queue.
// Items survive process restarts.
type QueueStorage interface {
	// AppendQueueItem assigns item.Seq and appends it to the tail of the user's queue
	AppendQueueItem(ctx context.Context, userID string, item *models.QueueItem) error

	// ListQueueItems returns items in FIFO order
	ListQueueItems(ctx context.Context, userID string) ([]*models.QueueItem, error)

	// GetQueueItem returns the item stored under seq
	// Returns ErrQueueItemNotFound if the item was removed
	GetQueueItem(ctx context.Context, userID string, seq uint64) (*models.QueueItem, error)

	// UpdateQueueItem rewrites an item in place (retry counters)
	// Returns ErrQueueItemNotFound if the item was removed
	UpdateQueueItem(ctx context.Context, userID string, item *models.QueueItem) error

	// RemoveQueueItem deletes an item by Seq; removing a missing item is not an error
	RemoveQueueItem(ctx context.Context, userID string, seq uint64) error

	// SaveDeadLetter persists an item that exhausted its retries
	SaveDeadLetter(ctx context.Context, userID string, letter *models.DeadLetter) error

	// ListDeadLetters returns dead letters in the order they failed
	ListDeadLetters(ctx context.Context, userID string) ([]*models.DeadLetter, error)

	// ClearDeadLetters removes all dead letters of the user
	ClearDeadLetters(ctx context.Context, userID string) error
}
