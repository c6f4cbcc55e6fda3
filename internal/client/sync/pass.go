package sync

import (
	"context"
	"errors"
	"fmt"
	"sort"

	clientapi "github.com/iudanet/shiftkeeper/internal/client/api"
	"github.com/iudanet/shiftkeeper/internal/client/conflict"
	"github.com/iudanet/shiftkeeper/internal/client/events"
	"github.com/iudanet/shiftkeeper/internal/models"
)

// run executes a single sync pass: fetch, dedupe, detect, resolve, apply, deltas.
func (o *Orchestrator) run(ctx context.Context, userID string) (*models.SyncSummary, error) {
	summary := &models.SyncSummary{StartedAt: o.now().UTC()}
	o.logger.Info("Starting sync", "user_id", userID)

	// 1. Получение удаленных данных
	o.setState(models.SyncStateFetching)
	remoteShifts, err := o.deps.Remote.ListByOwner(ctx, userID)
	if err != nil {
		summary.FromBackup = true
		summary.FinishedAt = o.now().UTC()
		o.deps.Bus.Notify(events.NoticeRestoredFromBackup, "",
			"remote store unavailable, showing local copy")
		return summary, fmt.Errorf("failed to fetch remote shifts: %w", err)
	}

	remoteShifts, summary.Deduplicated, err = o.dedupe(ctx, userID, remoteShifts)
	if err != nil {
		return summary, err
	}

	o.mu.Lock()
	o.remoteCount = len(remoteShifts)
	o.mu.Unlock()

	local, err := o.deps.Local.ListShifts(ctx, userID)
	if err != nil {
		return summary, fmt.Errorf("failed to list local shifts: %w", err)
	}

	queued, err := o.deps.Queue.Pending(ctx, userID)
	if err != nil {
		return summary, fmt.Errorf("failed to read queue: %w", err)
	}

	lastSync, err := o.deps.Meta.GetLastSyncTime(ctx, userID)
	if err != nil {
		return summary, fmt.Errorf("failed to get last sync time: %w", err)
	}

	known, err := o.deps.Meta.GetKnownRemoteIDs(ctx, userID)
	if err != nil {
		return summary, fmt.Errorf("failed to load known ids: %w", err)
	}

	// 2. Обнаружение конфликтов
	o.setState(models.SyncStateDetecting)
	conflicts := withoutQueuedWrites(o.deps.Detector.Detect(local, remoteShifts), queued)
	conflicts = append(conflicts, o.deps.Detector.DetectDeleteEdits(conflict.DeleteEditInput{
		LastSync:       lastSync,
		KnownRemote:    known,
		Local:          local,
		Remote:         remoteShifts,
		PendingDeletes: pendingDeletes(queued),
	})...)
	summary.Conflicts = len(conflicts)

	// 3. Разрешение
	o.setState(models.SyncStateResolving)
	type decision struct {
		conflict   models.Conflict
		resolution models.Resolution
	}
	var decisions []decision
	manual := make(map[string]models.Conflict)
	handled := make(map[string]bool, len(conflicts))

	for _, c := range conflicts {
		id := c.RecordID()
		handled[id] = true

		res, err := o.deps.Resolver.ResolveAutomatically(c)
		if errors.Is(err, conflict.ErrConflictUnresolved) {
			manual[id] = c
			summary.ManualRequired++
			o.deps.Bus.Notify(events.NoticeManualConflict, id,
				fmt.Sprintf("%s conflict needs a manual decision", c.Kind))
			continue
		}
		if err != nil {
			return summary, fmt.Errorf("failed to resolve conflict for %s: %w", id, err)
		}
		decisions = append(decisions, decision{conflict: c, resolution: res})
	}

	// 4. Применение решений и односторонних изменений
	o.setState(models.SyncStateApplying)
	nextKnown := make(map[string]struct{}, len(remoteShifts))
	for _, r := range remoteShifts {
		nextKnown[r.ID] = struct{}{}
	}

	for _, d := range decisions {
		id := d.conflict.RecordID()
		if err := o.deps.Resolver.Apply(ctx, d.conflict, d.resolution, userID); err != nil {
			if !errors.Is(err, clientapi.ErrPermanent) {
				return summary, fmt.Errorf("failed to apply resolution for %s: %w", id, err)
			}
			// Сервер отклонил решение: конфликт остается за пользователем, проход продолжается
			o.logger.Warn("Resolution rejected by server",
				"id", id,
				"action", d.resolution.Action,
				"error", err)
			manual[id] = d.conflict
			summary.ManualRequired++
			o.deps.Bus.Notify(events.NoticeManualConflict, id,
				fmt.Sprintf("%s conflict needs a manual decision: %v", d.conflict.Kind, err))
			continue
		}
		summary.AutoResolved++

		if d.resolution.ResolvedRecord != nil {
			nextKnown[id] = struct{}{}
		} else {
			delete(nextKnown, id)
		}
		if d.resolution.Action == models.ResolutionMerge || d.conflict.Kind == models.ConflictDeleteEdit {
			o.deps.Bus.Notify(events.NoticeUpdatedElsewhere, id,
				fmt.Sprintf("record resolved with %s", d.resolution.Action))
		}
	}

	for id, c := range manual {
		// Запись, удаленная на сервере, остается известной до ручного решения
		if c.DeletedSide == models.SideRemote {
			nextKnown[id] = struct{}{}
		}
	}

	o.mu.Lock()
	o.pending = manual
	o.mu.Unlock()

	pushed, err := o.applyDeltas(ctx, userID, local, remoteShifts, queued, known, handled, summary)
	if err != nil {
		return summary, err
	}
	for _, id := range pushed {
		nextKnown[id] = struct{}{}
	}

	if err := o.deps.Meta.SaveKnownRemoteIDs(ctx, userID, setToSlice(nextKnown)); err != nil {
		return summary, fmt.Errorf("failed to save known ids: %w", err)
	}
	if err := o.deps.Meta.SaveLastSyncTime(ctx, userID, summary.StartedAt); err != nil {
		return summary, fmt.Errorf("failed to save last sync time: %w", err)
	}

	summary.FinishedAt = o.now().UTC()
	o.deps.Bus.SyncComplete(summary)

	o.logger.Info("Sync completed",
		"synced", summary.Synced,
		"conflicts", summary.Conflicts,
		"auto_resolved", summary.AutoResolved,
		"manual_required", summary.ManualRequired,
		"deduplicated", summary.Deduplicated)

	return summary, nil
}

// applyDeltas применяет изменения, присутствующие только на одной стороне,
// и обновляет локальные копии, расхождение которых не является конфликтом.
// Возвращает id записей, отправленных на сервер.
func (o *Orchestrator) applyDeltas(
	ctx context.Context,
	userID string,
	local, remoteShifts []*models.Shift,
	queued []*models.QueueItem,
	known map[string]struct{},
	handled map[string]bool,
	summary *models.SyncSummary,
) ([]string, error) {
	localByID := make(map[string]*models.Shift, len(local))
	for _, l := range local {
		localByID[l.ID] = l
	}
	remoteByID := make(map[string]*models.Shift, len(remoteShifts))
	for _, r := range remoteShifts {
		remoteByID[r.ID] = r
	}
	queuedIDs := make(map[string]models.QueueAction, len(queued))
	for _, item := range queued {
		queuedIDs[item.RecordID] = item.Action
	}

	for _, r := range remoteShifts {
		if handled[r.ID] {
			continue
		}
		_, isQueued := queuedIDs[r.ID]
		l, exists := localByID[r.ID]
		switch {
		case !exists:
			if isQueued {
				// Локальное удаление ожидает отправки
				continue
			}
			if err := o.deps.Local.SaveShift(ctx, userID, r); err != nil {
				return nil, fmt.Errorf("failed to save remote shift locally: %w", err)
			}
			summary.Synced++
		case isQueued:
			// Локальная версия будет отправлена при drain
			continue
		case !l.SameContent(r) || !l.UpdatedAt.Equal(r.UpdatedAt):
			if err := o.deps.Local.SaveShift(ctx, userID, r); err != nil {
				return nil, fmt.Errorf("failed to refresh local shift: %w", err)
			}
			summary.Synced++
		}
	}

	var pushed []string
	for _, l := range local {
		if handled[l.ID] {
			continue
		}
		if _, ok := remoteByID[l.ID]; ok {
			continue
		}
		if _, isQueued := queuedIDs[l.ID]; isQueued {
			continue
		}
		if _, wasKnown := known[l.ID]; wasKnown {
			// Запись удалена на сервере и не менялась локально
			if err := o.deps.Local.DeleteShift(ctx, userID, l.ID); err != nil {
				return nil, fmt.Errorf("failed to delete local shift: %w", err)
			}
			summary.Synced++
			continue
		}

		ok, err := o.push(ctx, userID, l)
		if err != nil {
			return nil, err
		}
		if ok {
			pushed = append(pushed, l.ID)
		}
		summary.Synced++
	}

	return pushed, nil
}

// push отправляет локальную запись на сервер; временная ошибка ставит Upsert в очередь
func (o *Orchestrator) push(ctx context.Context, userID string, record *models.Shift) (bool, error) {
	stored, err := o.deps.Remote.Upsert(ctx, record)
	if err == nil {
		if err := o.deps.Local.SaveShift(ctx, userID, stored); err != nil {
			return false, fmt.Errorf("failed to save pushed shift: %w", err)
		}
		return true, nil
	}
	if !errors.Is(err, clientapi.ErrTransient) {
		return false, fmt.Errorf("failed to push shift %s: %w", record.ID, err)
	}

	o.logger.Warn("Push deferred to queue", "id", record.ID, "error", err)
	if _, err := o.deps.Queue.Enqueue(ctx, userID, models.QueueActionUpsert, record); err != nil {
		return false, fmt.Errorf("failed to queue shift: %w", err)
	}
	return false, nil
}

// dedupe оставляет одну запись на пару (owner, date): самую раннюю по CreatedAt,
// при равенстве - с меньшим ID. Лишние записи удаляются с обеих сторон.
func (o *Orchestrator) dedupe(ctx context.Context, userID string, shifts []*models.Shift) ([]*models.Shift, int, error) {
	byDate := make(map[string][]*models.Shift)
	for _, s := range shifts {
		byDate[s.Date] = append(byDate[s.Date], s)
	}

	kept := make([]*models.Shift, 0, len(shifts))
	removed := 0
	for _, group := range byDate {
		sort.Slice(group, func(i, j int) bool {
			if !group[i].CreatedAt.Equal(group[j].CreatedAt) {
				return group[i].CreatedAt.Before(group[j].CreatedAt)
			}
			return group[i].ID < group[j].ID
		})
		kept = append(kept, group[0])

		for _, extra := range group[1:] {
			o.logger.Warn("Removing duplicate shift",
				"id", extra.ID,
				"date", extra.Date,
				"kept", group[0].ID)

			if err := o.deleteRemote(ctx, userID, extra); err != nil {
				return nil, removed, err
			}
			if err := o.deps.Local.DeleteShift(ctx, userID, extra.ID); err != nil {
				return nil, removed, fmt.Errorf("failed to delete duplicate locally: %w", err)
			}
			removed++
		}
	}

	sort.Slice(kept, func(i, j int) bool {
		if kept[i].Date != kept[j].Date {
			return kept[i].Date < kept[j].Date
		}
		return kept[i].ID < kept[j].ID
	})
	return kept, removed, nil
}

func (o *Orchestrator) deleteRemote(ctx context.Context, userID string, record *models.Shift) error {
	err := o.deps.Remote.Delete(ctx, record.ID, userID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, clientapi.ErrTransient) {
		return fmt.Errorf("failed to delete duplicate %s: %w", record.ID, err)
	}
	if _, err := o.deps.Queue.Enqueue(ctx, userID, models.QueueActionDelete, record); err != nil {
		return fmt.Errorf("failed to queue duplicate delete: %w", err)
	}
	return nil
}

// withoutQueuedWrites убирает конфликты по записям, чья версия в очереди уже
// включает удаленную копию: такую запись доставит drain, а повторное слияние
// было бы лишним. Конфликт с изменениями, которых нет в очереди, остается.
func withoutQueuedWrites(conflicts []models.Conflict, queued []*models.QueueItem) []models.Conflict {
	latest := make(map[string]*models.QueueItem)
	for _, item := range queued {
		if !item.Action.IsWrite() || item.Payload == nil {
			continue
		}
		// Очередь упорядочена FIFO, последний элемент записи - самый свежий
		latest[item.RecordID] = item
	}
	if len(latest) == 0 {
		return conflicts
	}

	kept := conflicts[:0]
	for _, c := range conflicts {
		item, ok := latest[c.RecordID()]
		if ok && c.Kind == models.ConflictConcurrentEdit && c.RemoteRecord != nil &&
			conflict.Merge(item.Payload, c.RemoteRecord, item.EnqueuedAt).SameContent(item.Payload) {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}

func pendingDeletes(items []*models.QueueItem) []*models.QueueItem {
	var deletes []*models.QueueItem
	for _, item := range items {
		if item.Action == models.QueueActionDelete {
			deletes = append(deletes, item)
		}
	}
	return deletes
}
