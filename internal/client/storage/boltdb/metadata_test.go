package boltdb

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"
)

func TestGetOrCreateClientID_Stable(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "metadata_test.db")

	store, err := New(ctx, dbPath)
	require.NoError(t, err)

	first, err := store.GetOrCreateClientID(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, first)

	second, err := store.GetOrCreateClientID(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// Идентификатор переживает перезапуск
	require.NoError(t, store.Close())
	store, err = New(ctx, dbPath)
	require.NoError(t, err)
	defer store.Close()

	third, err := store.GetOrCreateClientID(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, third)
}

func TestSaveAndGetLastSyncTime(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	// Изначально синхронизации не было - нулевое время
	ts, err := store.GetLastSyncTime(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, ts.IsZero())

	expected := time.Date(2024, 5, 1, 10, 30, 0, 123_000_000, time.UTC)
	require.NoError(t, store.SaveLastSyncTime(ctx, "user-1", expected))

	got, err := store.GetLastSyncTime(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, expected.Equal(got))

	// Время другого пользователя не затронуто
	other, err := store.GetLastSyncTime(ctx, "user-2")
	require.NoError(t, err)
	assert.True(t, other.IsZero())
}

func TestKnownRemoteIDs(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	known, err := store.GetKnownRemoteIDs(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, known)

	require.NoError(t, store.SaveKnownRemoteIDs(ctx, "user-1", []string{"a", "b"}))
	known, err = store.GetKnownRemoteIDs(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, known, 2)
	assert.Contains(t, known, "a")
	assert.Contains(t, known, "b")

	// Повторное сохранение заменяет множество целиком
	require.NoError(t, store.SaveKnownRemoteIDs(ctx, "user-1", []string{"c"}))
	known, err = store.GetKnownRemoteIDs(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{"c": {}}, known)
}

func TestGetLastSyncTime_BucketMissing(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	// Удаляем bucket metadata напрямую
	err := store.db.Update(func(tx *bbolt.Tx) error {
		return tx.DeleteBucket(bucketMetadata)
	})
	require.NoError(t, err)

	_, err = store.GetLastSyncTime(ctx, "user-1")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "metadata bucket not found")

	err = store.SaveLastSyncTime(ctx, "user-1", time.Now())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "metadata bucket not found")
}
