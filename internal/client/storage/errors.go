package storage

import "errors"

// Common client storage errors
var (
	// ErrAuthNotFound indicates that no authentication data exists
	ErrAuthNotFound = errors.New("authentication data not found")

	// ErrShiftNotFound indicates that shift is not in the local store
	ErrShiftNotFound = errors.New("shift not found")

	// ErrQueueItemNotFound indicates that queue item was already removed
	ErrQueueItemNotFound = errors.New("queue item not found")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")
)
