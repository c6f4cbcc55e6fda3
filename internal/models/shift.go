package models

import "time"

// DateLayout формат календарной даты смены
const DateLayout = "2006-01-02"

// ShiftKind тип смены
type ShiftKind string

const (
	ShiftKindA ShiftKind = "A"
	ShiftKindB ShiftKind = "B"
	ShiftKindC ShiftKind = "C"
)

// IsValid reports whether k is one of the known shift kinds.
func (k ShiftKind) IsValid() bool {
	switch k {
	case ShiftKindA, ShiftKindB, ShiftKindC:
		return true
	}
	return false
}

// Shift представляет рабочую смену пользователя - единицу синхронизации.
// На одну пару (OwnerID, Date) в удаленном хранилище должна приходиться
// максимум одна авторитетная запись.
type Shift struct {
	CreatedAt      time.Time `json:"created_at"`       // CreatedAt время создания записи
	UpdatedAt      time.Time `json:"updated_at"`       // UpdatedAt время последнего изменения (LWW)
	ID             string    `json:"id"`               // ID уникальный идентификатор (UUID)
	OwnerID        string    `json:"owner_id"`         // OwnerID идентификатор владельца
	Date           string    `json:"date"`             // Date календарная дата в формате YYYY-MM-DD
	Kind           ShiftKind `json:"kind"`             // Kind тип смены
	Notes          string    `json:"notes"`            // Notes произвольные заметки
	OriginClientID string    `json:"origin_client_id"` // OriginClientID клиент, выполнивший последнюю запись
}

// SameContent reports whether two shifts carry the same user-visible content.
// Timestamps, ids and origin are not compared.
func (s *Shift) SameContent(other *Shift) bool {
	return s.Kind == other.Kind && s.Notes == other.Notes && s.Date == other.Date
}

// IsNewerThan сравнивает UpdatedAt двух записей.
// При равных UpdatedAt сравнивается ID для детерминизма.
func (s *Shift) IsNewerThan(other *Shift) bool {
	if s.UpdatedAt.After(other.UpdatedAt) {
		return true
	}
	if s.UpdatedAt.Before(other.UpdatedAt) {
		return false
	}
	return s.ID > other.ID
}

// Clone создает копию записи
func (s *Shift) Clone() *Shift {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
