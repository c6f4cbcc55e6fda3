package models

import "time"

// ConflictKind классификация расхождения локальной и удаленной копии
type ConflictKind string

const (
	ConflictConcurrentEdit  ConflictKind = "concurrent_edit"
	ConflictVersionMismatch ConflictKind = "version_mismatch"
	ConflictDeleteEdit      ConflictKind = "delete_edit"
)

// Side указывает на сторону синхронизации
type Side string

const (
	SideLocal  Side = "local"
	SideRemote Side = "remote"
)

// Conflict описывает обнаруженное расхождение одной записи.
// Вычисляется на каждом проходе синхронизации и не сохраняется.
// Для ConflictDeleteEdit удаленная сторона указана в DeletedSide;
// её запись содержит последний известный снимок (или nil).
type Conflict struct {
	DetectedAt   time.Time    `json:"detected_at"`
	LocalRecord  *Shift       `json:"local_record"`
	RemoteRecord *Shift       `json:"remote_record"`
	ID           string       `json:"id"`
	Kind         ConflictKind `json:"kind"`
	DeletedSide  Side         `json:"deleted_side,omitempty"`
}

// RecordID returns the id of the record the conflict is about.
func (c *Conflict) RecordID() string {
	if c.LocalRecord != nil {
		return c.LocalRecord.ID
	}
	if c.RemoteRecord != nil {
		return c.RemoteRecord.ID
	}
	return ""
}

// ResolutionAction решение по конфликту
type ResolutionAction string

const (
	ResolutionKeepLocal  ResolutionAction = "keep_local"
	ResolutionKeepRemote ResolutionAction = "keep_remote"
	ResolutionMerge      ResolutionAction = "merge"
	ResolutionDuplicate  ResolutionAction = "duplicate"
)

// Resolution результат разрешения конфликта, применяется сразу
type Resolution struct {
	ResolvedRecord *Shift           `json:"resolved_record,omitempty"`
	Action         ResolutionAction `json:"action"`
}
