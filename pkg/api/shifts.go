package api

import (
	"time"

	"github.com/iudanet/shiftkeeper/internal/models"
)

// ClientIDHeader заголовок с идентификатором клиента-инициатора запроса
const ClientIDHeader = "X-Client-ID"

// Shift представляет смену в формате API
type Shift struct {
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	ID             string    `json:"id"`
	OwnerID        string    `json:"owner_id"`
	Date           string    `json:"date"`
	Kind           string    `json:"kind"`
	Notes          string    `json:"notes"`
	OriginClientID string    `json:"origin_client_id"`
}

// ListShiftsResponse ответ на GET /api/v1/shifts
type ListShiftsResponse struct {
	Shifts []Shift `json:"shifts"`
}

// ChangeType тип изменения в потоке изменений
type ChangeType string

const (
	ChangeInsert ChangeType = "insert"
	ChangeUpdate ChangeType = "update"
	ChangeDelete ChangeType = "delete"
)

// ChangeEvent событие потока изменений /api/v1/shifts/changes.
// OriginClientID позволяет клиенту отбросить эхо собственных записей.
type ChangeEvent struct {
	At             time.Time  `json:"at"`
	Record         *Shift     `json:"record"`
	Type           ChangeType `json:"type"`
	OriginClientID string     `json:"origin_client_id"`
}

// ShiftFromModel converts a domain shift into its wire form.
func ShiftFromModel(s *models.Shift) Shift {
	return Shift{
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
		ID:             s.ID,
		OwnerID:        s.OwnerID,
		Date:           s.Date,
		Kind:           string(s.Kind),
		Notes:          s.Notes,
		OriginClientID: s.OriginClientID,
	}
}

// ToModel converts a wire shift into the domain type.
func (s Shift) ToModel() *models.Shift {
	return &models.Shift{
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
		ID:             s.ID,
		OwnerID:        s.OwnerID,
		Date:           s.Date,
		Kind:           models.ShiftKind(s.Kind),
		Notes:          s.Notes,
		OriginClientID: s.OriginClientID,
	}
}
