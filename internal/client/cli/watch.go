package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/iudanet/shiftkeeper/internal/client/events"
)

// runWatch запускает фоновые процессы сессии и печатает события до отмены ctx
func (c *Cli) runWatch(ctx context.Context) error {
	if _, err := c.requireUser(ctx); err != nil {
		return err
	}

	sub := c.bus.Subscribe()
	defer c.bus.Unsubscribe(sub)

	if err := c.runner.Start(ctx); err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}

	c.io.Println("Watching for changes, press Ctrl+C to stop.")
	for {
		select {
		case <-ctx.Done():
			c.io.Println("Stopped.")
			return nil
		case ev, ok := <-sub.C():
			if !ok {
				return nil
			}
			c.io.Println(formatEvent(ev))
		}
	}
}

func formatEvent(ev events.Event) string {
	at := ev.At.Local().Format(time.TimeOnly)
	switch ev.Kind {
	case events.KindRemoteChange:
		return fmt.Sprintf("[%s] %s", at, ev.Message)
	case events.KindSyncComplete:
		s := ev.Summary
		if s == nil {
			return fmt.Sprintf("[%s] %s", at, ev.Message)
		}
		return fmt.Sprintf("[%s] sync complete: synced %d, conflicts %d, auto-resolved %d, manual %d",
			at, s.Synced, s.Conflicts, s.AutoResolved, s.ManualRequired)
	case events.KindQueueDrained:
		return fmt.Sprintf("[%s] delivered %d queued change(s)", at, ev.Count)
	case events.KindNotice:
		if ev.RecordID != "" {
			return fmt.Sprintf("[%s] %s: %s (%s)", at, ev.Notice, ev.Message, ev.RecordID)
		}
		return fmt.Sprintf("[%s] %s: %s", at, ev.Notice, ev.Message)
	}
	return fmt.Sprintf("[%s] %s", at, ev.Kind)
}
