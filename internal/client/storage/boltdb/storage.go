package boltdb

import (
	"context"
	"encoding/binary"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/shiftkeeper/internal/client/storage"
)

var (
	// BoltDB bucket names
	bucketAuth        = []byte("auth")
	bucketShifts      = []byte("shifts")
	bucketQueue       = []byte("queue")
	bucketDeadLetters = []byte("dead_letters")
	bucketMetadata    = []byte("metadata")
)

// Storage represents BoltDB storage implementation for client.
// It implements storage.AuthStorage, storage.ShiftStorage,
// storage.QueueStorage and storage.MetadataStorage.
type Storage struct {
	db *bbolt.DB
}

var (
	_ storage.AuthStorage     = (*Storage)(nil)
	_ storage.ShiftStorage    = (*Storage)(nil)
	_ storage.QueueStorage    = (*Storage)(nil)
	_ storage.MetadataStorage = (*Storage)(nil)
)

// New creates a new BoltDB storage instance
// dbPath is the path to the BoltDB database file
func New(ctx context.Context, dbPath string) (*Storage, error) {
	// Открываем BoltDB
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	s := &Storage{db: db}

	// Инициализируем buckets
	if err := s.initBuckets(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	return s, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// initBuckets создает необходимые buckets если они не существуют
func (s *Storage) initBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketAuth, bucketShifts, bucketQueue, bucketDeadLetters, bucketMetadata} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("failed to create %s bucket: %w", name, err)
			}
		}
		return nil
	})
}

// userBucket возвращает вложенный bucket пользователя, создавая его при записи.
// При чтении отсутствующий bucket возвращается как nil.
func userBucket(tx *bbolt.Tx, root []byte, userID string, create bool) (*bbolt.Bucket, error) {
	parent := tx.Bucket(root)
	if parent == nil {
		return nil, fmt.Errorf("%s bucket not found", root)
	}
	if !create {
		return parent.Bucket([]byte(userID)), nil
	}
	b, err := parent.CreateBucketIfNotExists([]byte(userID))
	if err != nil {
		return nil, fmt.Errorf("failed to create user bucket: %w", err)
	}
	return b, nil
}

func seqKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}
