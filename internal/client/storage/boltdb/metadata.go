package boltdb

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"

	"github.com/iudanet/shiftkeeper/internal/client/storage"
)

const (
	keyClientID          = "client_id"
	keyLastSyncPrefix    = "last_sync:"
	keyKnownRemotePrefix = "known_remote:"
)

// GetOrCreateClientID returns the persistent client id, generating it on first use
func (s *Storage) GetOrCreateClientID(ctx context.Context) (string, error) {
	if s.db == nil {
		return "", storage.ErrStorageClosed
	}

	var clientID string

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		if existing := bucket.Get([]byte(keyClientID)); existing != nil {
			clientID = string(existing)
			return nil
		}

		// Первый запуск клиента - генерируем идентификатор
		clientID = uuid.New().String()
		if err := bucket.Put([]byte(keyClientID), []byte(clientID)); err != nil {
			return fmt.Errorf("failed to save client id: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to get client id: %w", err)
	}

	return clientID, nil
}

// SaveLastSyncTime saves the time of the last successful sync
func (s *Storage) SaveLastSyncTime(ctx context.Context, userID string, t time.Time) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		// Храним unix millis в big-endian
		timestampBytes := make([]byte, 8)
		binary.BigEndian.PutUint64(timestampBytes, uint64(t.UnixMilli()))

		if err := bucket.Put([]byte(keyLastSyncPrefix+userID), timestampBytes); err != nil {
			return fmt.Errorf("failed to save last sync time: %w", err)
		}
		return nil
	})
}

// GetLastSyncTime retrieves the time of the last successful sync.
// Returns zero time if no sync has been performed yet
func (s *Storage) GetLastSyncTime(ctx context.Context, userID string) (time.Time, error) {
	if s.db == nil {
		return time.Time{}, storage.ErrStorageClosed
	}

	var result time.Time

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		timestampBytes := bucket.Get([]byte(keyLastSyncPrefix + userID))
		if timestampBytes == nil {
			// Синхронизации еще не было
			return nil
		}

		result = time.UnixMilli(int64(binary.BigEndian.Uint64(timestampBytes))).UTC()
		return nil
	})
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get last sync time: %w", err)
	}

	return result, nil
}

// SaveKnownRemoteIDs replaces the set of ids seen on the server at the last sync
func (s *Storage) SaveKnownRemoteIDs(ctx context.Context, userID string, ids []string) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to marshal known ids: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}
		if err := bucket.Put([]byte(keyKnownRemotePrefix+userID), data); err != nil {
			return fmt.Errorf("failed to save known ids: %w", err)
		}
		return nil
	})
}

// GetKnownRemoteIDs returns the set saved by SaveKnownRemoteIDs
func (s *Storage) GetKnownRemoteIDs(ctx context.Context, userID string) (map[string]struct{}, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	known := make(map[string]struct{})

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		data := bucket.Get([]byte(keyKnownRemotePrefix + userID))
		if data == nil {
			return nil
		}

		var ids []string
		if err := json.Unmarshal(data, &ids); err != nil {
			return fmt.Errorf("failed to unmarshal known ids: %w", err)
		}
		for _, id := range ids {
			known[id] = struct{}{}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get known ids: %w", err)
	}

	return known, nil
}
