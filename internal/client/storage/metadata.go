package storage

import (
	"context"
	"time"
)

//go:generate moq -out metadata_mock.go . MetadataStorage

// MetadataStorage defines interface for storing client metadata
type MetadataStorage interface {
	// GetOrCreateClientID returns the persistent identifier of this client instance.
	// It is generated once and reused across restarts.
	GetOrCreateClientID(ctx context.Context) (string, error)

	// SaveLastSyncTime saves the time of the last successful sync pass
	SaveLastSyncTime(ctx context.Context, userID string, t time.Time) error

	// GetLastSyncTime returns zero time if no sync has been performed yet
	GetLastSyncTime(ctx context.Context, userID string) (time.Time, error)

	// SaveKnownRemoteIDs stores ids present on the server at the last sync
	SaveKnownRemoteIDs(ctx context.Context, userID string, ids []string) error

	// GetKnownRemoteIDs returns an empty set if nothing was saved
	GetKnownRemoteIDs(ctx context.Context, userID string) (map[string]struct{}, error)
}
