package cli

import (
	"context"
	"errors"
	"fmt"

	clientsync "github.com/iudanet/shiftkeeper/internal/client/sync"
	"github.com/iudanet/shiftkeeper/internal/models"
)

func (c *Cli) runSync(ctx context.Context) error {
	if _, err := c.requireUser(ctx); err != nil {
		return err
	}

	c.io.Println("=== Synchronization ===")

	summary, err := c.syncService.TriggerSync(ctx)
	if err != nil {
		if errors.Is(err, clientsync.ErrSyncInProgress) {
			c.io.Println("Synchronization is already running or backing off, try again later.")
			return nil
		}
		if summary != nil && summary.FromBackup {
			c.io.Println("⚠️  Server unavailable, showing the local copy.")
		}
		return fmt.Errorf("synchronization failed: %w", err)
	}

	if err := summaryTmpl.Execute(c.io, summary); err != nil {
		return fmt.Errorf("failed to render summary: %w", err)
	}
	if summary.ManualRequired > 0 {
		c.io.Println()
		c.io.Println("Run 'shiftkeeper conflicts' to review conflicts that need your decision.")
	}
	return nil
}

func (c *Cli) runStats(ctx context.Context) error {
	stats, err := c.syncService.GetSyncStatistics(ctx)
	if err != nil {
		return fmt.Errorf("failed to get sync statistics: %w", err)
	}
	return statsTmpl.Execute(c.io, stats)
}

func (c *Cli) runDrain(ctx context.Context) error {
	user, err := c.requireUser(ctx)
	if err != nil {
		return err
	}

	result, err := c.queue.Drain(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("failed to drain queue: %w", err)
	}

	pending, err := c.queue.Pending(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("failed to read queue: %w", err)
	}

	c.io.Printf("Delivered: %d\n", result.Processed)
	c.io.Printf("Failed permanently: %d\n", result.Errors)
	c.io.Printf("Still queued: %d\n", len(pending))
	return nil
}

func (c *Cli) runDeadLetters(ctx context.Context, clear bool) error {
	user, err := c.requireUser(ctx)
	if err != nil {
		return err
	}

	if clear {
		if err := c.queue.ClearDeadLetters(ctx, user.ID); err != nil {
			return fmt.Errorf("failed to clear dead letters: %w", err)
		}
		c.io.Println("✓ Dead letters cleared")
		return nil
	}

	letters, err := c.queue.DeadLetters(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("failed to read dead letters: %w", err)
	}
	if len(letters) == 0 {
		c.io.Println("No failed changes.")
		return nil
	}

	c.io.Printf("Found %d failed change(s):\n", len(letters))
	for i, l := range letters {
		c.io.Printf("%d. %s %s (%s) after %d attempt(s): %s\n",
			i+1, l.Item.Action, l.Item.RecordID, l.FailedAt.Format("2006-01-02 15:04:05"), l.Item.RetryCount, l.Reason)
	}
	return nil
}

// runConflicts выполняет проход синхронизации и показывает конфликты,
// ожидающие ручного решения
func (c *Cli) runConflicts(ctx context.Context) error {
	if err := c.refreshConflicts(ctx); err != nil {
		return err
	}

	conflicts := c.syncService.PendingConflicts()
	if len(conflicts) == 0 {
		c.io.Println("No conflicts need your decision.")
		return nil
	}

	c.io.Printf("Found %d conflict(s):\n", len(conflicts))
	for i, conflict := range conflicts {
		view := struct {
			models.Conflict
			RecordID string
			Index    int
		}{Conflict: conflict, RecordID: conflict.RecordID(), Index: i + 1}
		if err := conflictTmpl.Execute(c.io, view); err != nil {
			return fmt.Errorf("failed to render conflict: %w", err)
		}
	}
	c.io.Println()
	c.io.Println("Resolve with 'shiftkeeper resolve <record-id> keep_local|keep_remote|merge|duplicate'.")
	return nil
}

func (c *Cli) runResolve(ctx context.Context, recordID, action string) error {
	if err := c.refreshConflicts(ctx); err != nil {
		return err
	}

	if err := c.syncService.ResolveConflict(ctx, recordID, models.ResolutionAction(action)); err != nil {
		return fmt.Errorf("failed to resolve conflict: %w", err)
	}
	c.io.Printf("✓ Conflict for %s resolved with %s\n", recordID, action)
	return nil
}

// refreshConflicts: конфликты вычисляются заново на каждом проходе
func (c *Cli) refreshConflicts(ctx context.Context) error {
	if _, err := c.requireUser(ctx); err != nil {
		return err
	}
	if _, err := c.syncService.TriggerSync(ctx); err != nil && !errors.Is(err, clientsync.ErrSyncInProgress) {
		return fmt.Errorf("synchronization failed: %w", err)
	}
	return nil
}
