package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/shiftkeeper/internal/client/storage"
	"github.com/iudanet/shiftkeeper/internal/models"
)

// AppendQueueItem appends item to the tail of the user's queue.
// Seq берется из NextSequence bucket'а, поэтому порядок ключей совпадает с порядком добавления.
func (s *Storage) AppendQueueItem(ctx context.Context, userID string, item *models.QueueItem) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := userBucket(tx, bucketQueue, userID, true)
		if err != nil {
			return err
		}

		seq, err := bucket.NextSequence()
		if err != nil {
			return fmt.Errorf("failed to allocate queue sequence: %w", err)
		}
		item.Seq = seq

		data, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("failed to marshal queue item: %w", err)
		}

		return bucket.Put(seqKey(seq), data)
	})
	if err != nil {
		return fmt.Errorf("append queue item failed: %w", err)
	}

	return nil
}

// ListQueueItems returns the user's queue in FIFO order
func (s *Storage) ListQueueItems(ctx context.Context, userID string) ([]*models.QueueItem, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	items := make([]*models.QueueItem, 0)

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket, err := userBucket(tx, bucketQueue, userID, false)
		if err != nil {
			return err
		}
		if bucket == nil {
			return nil
		}

		// Курсор bbolt обходит ключи в порядке байтов: big-endian seq = FIFO
		return bucket.ForEach(func(k, v []byte) error {
			var item models.QueueItem
			if err := json.Unmarshal(v, &item); err != nil {
				return fmt.Errorf("failed to unmarshal queue item: %w", err)
			}
			items = append(items, &item)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list queue items: %w", err)
	}

	return items, nil
}

// GetQueueItem reads a single item by its sequence number
func (s *Storage) GetQueueItem(ctx context.Context, userID string, seq uint64) (*models.QueueItem, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var item models.QueueItem
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket, err := userBucket(tx, bucketQueue, userID, false)
		if err != nil {
			return err
		}
		if bucket == nil {
			return storage.ErrQueueItemNotFound
		}
		data := bucket.Get(seqKey(seq))
		if data == nil {
			return storage.ErrQueueItemNotFound
		}
		return json.Unmarshal(data, &item)
	})
	if err != nil {
		return nil, err
	}

	return &item, nil
}

// UpdateQueueItem rewrites an existing item
func (s *Storage) UpdateQueueItem(ctx context.Context, userID string, item *models.QueueItem) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to marshal queue item: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := userBucket(tx, bucketQueue, userID, false)
		if err != nil {
			return err
		}
		if bucket == nil || bucket.Get(seqKey(item.Seq)) == nil {
			return storage.ErrQueueItemNotFound
		}
		return bucket.Put(seqKey(item.Seq), data)
	})
}

// RemoveQueueItem deletes an item by its sequence number
func (s *Storage) RemoveQueueItem(ctx context.Context, userID string, seq uint64) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := userBucket(tx, bucketQueue, userID, false)
		if err != nil {
			return err
		}
		if bucket == nil {
			return nil
		}
		return bucket.Delete(seqKey(seq))
	})
}

// SaveDeadLetter persists an item removed from the active queue
func (s *Storage) SaveDeadLetter(ctx context.Context, userID string, letter *models.DeadLetter) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	data, err := json.Marshal(letter)
	if err != nil {
		return fmt.Errorf("failed to marshal dead letter: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := userBucket(tx, bucketDeadLetters, userID, true)
		if err != nil {
			return err
		}
		seq, err := bucket.NextSequence()
		if err != nil {
			return fmt.Errorf("failed to allocate dead letter sequence: %w", err)
		}
		return bucket.Put(seqKey(seq), data)
	})
}

// ListDeadLetters returns dead letters in the order they were saved
func (s *Storage) ListDeadLetters(ctx context.Context, userID string) ([]*models.DeadLetter, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	letters := make([]*models.DeadLetter, 0)

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket, err := userBucket(tx, bucketDeadLetters, userID, false)
		if err != nil {
			return err
		}
		if bucket == nil {
			return nil
		}
		return bucket.ForEach(func(k, v []byte) error {
			var letter models.DeadLetter
			if err := json.Unmarshal(v, &letter); err != nil {
				return fmt.Errorf("failed to unmarshal dead letter: %w", err)
			}
			letters = append(letters, &letter)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list dead letters: %w", err)
	}

	return letters, nil
}

// ClearDeadLetters drops the user's dead-letter bucket
func (s *Storage) ClearDeadLetters(ctx context.Context, userID string) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		parent := tx.Bucket(bucketDeadLetters)
		if parent == nil {
			return fmt.Errorf("dead_letters bucket not found")
		}
		if parent.Bucket([]byte(userID)) == nil {
			return nil
		}
		if err := parent.DeleteBucket([]byte(userID)); err != nil {
			return fmt.Errorf("failed to delete dead letters: %w", err)
		}
		return nil
	})
}
