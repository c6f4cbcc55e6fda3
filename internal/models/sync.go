package models

import "time"

// SyncState состояние машины синхронизации
type SyncState string

const (
	SyncStateIdle         SyncState = "idle"
	SyncStateFetching     SyncState = "fetching"
	SyncStateDetecting    SyncState = "detecting"
	SyncStateResolving    SyncState = "resolving"
	SyncStateApplying     SyncState = "applying"
	SyncStateErrorBackoff SyncState = "error_backoff"
)

// SyncSummary contains the outcome of one sync pass
type SyncSummary struct {
	StartedAt      time.Time `json:"started_at"`
	FinishedAt     time.Time `json:"finished_at"`
	Synced         int       `json:"synced"`          // количество примененных односторонних изменений
	Conflicts      int       `json:"conflicts"`       // количество обнаруженных конфликтов
	AutoResolved   int       `json:"auto_resolved"`   // разрешено автоматически
	ManualRequired int       `json:"manual_required"` // требует ручного разрешения
	Deduplicated   int       `json:"deduplicated"`    // удалено дубликатов (owner, date)
	FromBackup     bool      `json:"from_backup"`     // удаленное хранилище недоступно, использована локальная копия
}

// SyncStatistics snapshot of the client sync state for the UI
type SyncStatistics struct {
	LastSyncTime     time.Time `json:"last_sync_time"`
	State            SyncState `json:"state"`
	LocalCount       int       `json:"local_count"`
	RemoteCount      int       `json:"remote_count"`
	ConflictsPending int       `json:"conflicts_pending"`
	QueuePending     int       `json:"queue_pending"`
	DeadLetters      int       `json:"dead_letters"`
}
