// Package conflict detects divergence between the local and remote copies of
// shift records and resolves it.
package conflict

import (
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/shiftkeeper/internal/models"
)

// DefaultWindow is the concurrent edit window
const DefaultWindow = 5 * time.Minute

// Detector classifies local/remote record pairs
type Detector struct {
	now    func() time.Time
	window time.Duration
}

// NewDetector creates a detector; window <= 0 selects DefaultWindow
func NewDetector(window time.Duration) *Detector {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Detector{
		now:    time.Now,
		window: window,
	}
}

// Window returns the concurrent edit window
func (d *Detector) Window() time.Duration {
	return d.window
}

// Classify returns the conflict kind for a pair of copies of the same record.
// Пара без конфликта возвращает false.
func (d *Detector) Classify(local, remote *models.Shift) (models.ConflictKind, bool) {
	delta := local.UpdatedAt.Sub(remote.UpdatedAt)
	if delta < 0 {
		delta = -delta
	}

	switch {
	case delta > 0 && delta < d.window && !local.SameContent(remote):
		return models.ConflictConcurrentEdit, true
	case delta >= d.window:
		return models.ConflictVersionMismatch, true
	default:
		return "", false
	}
}

// Detect joins local and remote by id and returns conflicts for pairs present on both sides.
// Записи только с одной стороны конфликтами не являются.
func (d *Detector) Detect(local, remote []*models.Shift) []models.Conflict {
	remoteByID := make(map[string]*models.Shift, len(remote))
	for _, r := range remote {
		remoteByID[r.ID] = r
	}

	var conflicts []models.Conflict
	for _, l := range local {
		r, ok := remoteByID[l.ID]
		if !ok {
			continue
		}
		kind, isConflict := d.Classify(l, r)
		if !isConflict {
			continue
		}
		conflicts = append(conflicts, d.newConflict(kind, l, r, ""))
	}
	return conflicts
}

// DeleteEditInput is the state needed to find delete/edit conflicts
type DeleteEditInput struct {
	LastSync       time.Time
	KnownRemote    map[string]struct{} // ids present remotely at LastSync
	Local          []*models.Shift
	Remote         []*models.Shift
	PendingDeletes []*models.QueueItem // queued local deletes
}

// DetectDeleteEdits finds records deleted on one side and edited on the other:
//   - a queued local delete whose remote copy was updated after the delete was enqueued;
//   - a record known remotely at LastSync, now gone remotely, edited locally after LastSync.
func (d *Detector) DetectDeleteEdits(in DeleteEditInput) []models.Conflict {
	remoteByID := make(map[string]*models.Shift, len(in.Remote))
	for _, r := range in.Remote {
		remoteByID[r.ID] = r
	}

	var conflicts []models.Conflict
	seen := make(map[string]bool)

	for _, item := range in.PendingDeletes {
		if item.Action != models.QueueActionDelete || seen[item.RecordID] {
			continue
		}
		r, ok := remoteByID[item.RecordID]
		if !ok || !r.UpdatedAt.After(item.EnqueuedAt) {
			continue
		}
		seen[item.RecordID] = true
		conflicts = append(conflicts, d.newConflict(models.ConflictDeleteEdit, item.Payload, r, models.SideLocal))
	}

	if in.LastSync.IsZero() {
		return conflicts
	}

	for _, l := range in.Local {
		if seen[l.ID] {
			continue
		}
		if _, known := in.KnownRemote[l.ID]; !known {
			continue
		}
		if _, present := remoteByID[l.ID]; present {
			continue
		}
		if !l.UpdatedAt.After(in.LastSync) {
			continue
		}
		seen[l.ID] = true
		conflicts = append(conflicts, d.newConflict(models.ConflictDeleteEdit, l, nil, models.SideRemote))
	}

	return conflicts
}

func (d *Detector) newConflict(kind models.ConflictKind, local, remote *models.Shift, deleted models.Side) models.Conflict {
	return models.Conflict{
		ID:           uuid.NewString(),
		Kind:         kind,
		LocalRecord:  local,
		RemoteRecord: remote,
		DeletedSide:  deleted,
		DetectedAt:   d.now().UTC(),
	}
}
