package conflict

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/shiftkeeper/internal/models"
)

var base = time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

func record(id string, updated time.Time, notes string) *models.Shift {
	return &models.Shift{
		ID:        id,
		OwnerID:   "user-1",
		Date:      "2024-05-01",
		Kind:      models.ShiftKindA,
		Notes:     notes,
		CreatedAt: base,
		UpdatedAt: updated,
	}
}

func TestDetector_Classify(t *testing.T) {
	d := NewDetector(0)
	assert.Equal(t, DefaultWindow, d.Window())

	tests := []struct {
		name     string
		kind     models.ConflictKind
		delta    time.Duration
		sameNote bool
		conflict bool
	}{
		{name: "differing content at 4:59", delta: 4*time.Minute + 59*time.Second, kind: models.ConflictConcurrentEdit, conflict: true},
		{name: "differing content at 5:01", delta: 5*time.Minute + time.Second, kind: models.ConflictVersionMismatch, conflict: true},
		{name: "exactly at window edge", delta: 5 * time.Minute, kind: models.ConflictVersionMismatch, conflict: true},
		{name: "identical content within window", delta: time.Minute, sameNote: true},
		{name: "identical timestamps", delta: 0},
		{name: "identical content outside window", delta: 10 * time.Minute, sameNote: true, kind: models.ConflictVersionMismatch, conflict: true},
		{name: "remote newer within window", delta: -2 * time.Minute, kind: models.ConflictConcurrentEdit, conflict: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			local := record("s1", base.Add(tt.delta), "local")
			remoteNotes := "remote"
			if tt.sameNote {
				remoteNotes = "local"
			}
			remote := record("s1", base, remoteNotes)

			kind, ok := d.Classify(local, remote)
			assert.Equal(t, tt.conflict, ok)
			assert.Equal(t, tt.kind, kind)
		})
	}
}

func TestDetector_Detect_JoinsByID(t *testing.T) {
	d := NewDetector(DefaultWindow)

	local := []*models.Shift{
		record("both", base.Add(time.Minute), "mine"),
		record("local-only", base, ""),
		record("same", base, "x"),
	}
	remote := []*models.Shift{
		record("both", base, "theirs"),
		record("remote-only", base, ""),
		record("same", base, "x"),
	}

	conflicts := d.Detect(local, remote)
	require.Len(t, conflicts, 1)
	c := conflicts[0]
	assert.Equal(t, "both", c.RecordID())
	assert.Equal(t, models.ConflictConcurrentEdit, c.Kind)
	assert.Equal(t, "mine", c.LocalRecord.Notes)
	assert.Equal(t, "theirs", c.RemoteRecord.Notes)
	assert.NotEmpty(t, c.ID)
	assert.False(t, c.DetectedAt.IsZero())
}

func TestDetector_DetectDeleteEdits(t *testing.T) {
	d := NewDetector(DefaultWindow)
	lastSync := base.Add(time.Hour)

	queuedDelete := &models.QueueItem{
		ID:         "q1",
		RecordID:   "deleted-here",
		Action:     models.QueueActionDelete,
		Payload:    record("deleted-here", base, "old"),
		EnqueuedAt: lastSync.Add(time.Minute),
	}
	staleDelete := &models.QueueItem{
		ID:         "q2",
		RecordID:   "stale",
		Action:     models.QueueActionDelete,
		Payload:    record("stale", base, ""),
		EnqueuedAt: lastSync.Add(time.Minute),
	}

	in := DeleteEditInput{
		LastSync: lastSync,
		KnownRemote: map[string]struct{}{
			"deleted-here":  {},
			"deleted-there": {},
			"unedited":      {},
			"stale":         {},
		},
		Local: []*models.Shift{
			record("deleted-there", lastSync.Add(2*time.Minute), "edited offline"),
			record("unedited", base, ""),
			record("never-synced", lastSync.Add(time.Minute), ""),
		},
		Remote: []*models.Shift{
			// Изменено на сервере после локального удаления
			record("deleted-here", lastSync.Add(3*time.Minute), "edited elsewhere"),
			// Изменено до удаления - удаление применяется штатно
			record("stale", lastSync, ""),
		},
		PendingDeletes: []*models.QueueItem{queuedDelete, staleDelete},
	}

	conflicts := d.DetectDeleteEdits(in)
	require.Len(t, conflicts, 2)

	assert.Equal(t, "deleted-here", conflicts[0].RecordID())
	assert.Equal(t, models.ConflictDeleteEdit, conflicts[0].Kind)
	assert.Equal(t, models.SideLocal, conflicts[0].DeletedSide)
	assert.Equal(t, "edited elsewhere", conflicts[0].RemoteRecord.Notes)

	assert.Equal(t, "deleted-there", conflicts[1].RecordID())
	assert.Equal(t, models.SideRemote, conflicts[1].DeletedSide)
	assert.Nil(t, conflicts[1].RemoteRecord)
}

func TestDetector_DetectDeleteEdits_FirstSync(t *testing.T) {
	d := NewDetector(DefaultWindow)

	// Без предыдущей синхронизации удаление на сервере определить нельзя
	conflicts := d.DetectDeleteEdits(DeleteEditInput{
		KnownRemote: map[string]struct{}{"s1": {}},
		Local:       []*models.Shift{record("s1", base, "")},
	})
	assert.Empty(t, conflicts)
}
