package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/iudanet/shiftkeeper/internal/client/storage"
	"github.com/iudanet/shiftkeeper/internal/models"
)

func (c *Cli) runSave(ctx context.Context, date, kind, notes string) error {
	if _, err := c.requireUser(ctx); err != nil {
		return err
	}

	shift, err := c.shifts.SaveRecord(ctx, date, models.ShiftKind(strings.ToUpper(kind)), notes)
	if err != nil {
		return fmt.Errorf("failed to save shift: %w", err)
	}

	c.io.Println("✓ Shift saved")
	if err := shiftTmpl.Execute(c.io, shift); err != nil {
		return fmt.Errorf("failed to render shift: %w", err)
	}
	return nil
}

func (c *Cli) runDelete(ctx context.Context, id string) error {
	if _, err := c.requireUser(ctx); err != nil {
		return err
	}

	if err := c.shifts.DeleteRecord(ctx, id); err != nil {
		if errors.Is(err, storage.ErrShiftNotFound) {
			return fmt.Errorf("shift not found with ID: %s", id)
		}
		return fmt.Errorf("failed to delete shift: %w", err)
	}

	c.io.Printf("✓ Shift %s deleted\n", id)
	return nil
}

func (c *Cli) runList(ctx context.Context) error {
	if _, err := c.requireUser(ctx); err != nil {
		return err
	}

	c.io.Println("=== Shifts ===")
	c.io.Println()

	list, err := c.shifts.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list shifts: %w", err)
	}

	if len(list) == 0 {
		c.io.Println("No shifts found.")
		c.io.Println()
		c.io.Println("Use 'shiftkeeper save <date> --kind A' to add your first shift.")
		return nil
	}

	c.io.Printf("Found %d shift(s):\n", len(list))
	c.io.Println()
	for _, s := range list {
		c.io.Printf("%s  %s  %s", s.Date, s.Kind, s.ID)
		if s.Notes != "" {
			c.io.Printf("  %s", firstLine(s.Notes))
		}
		c.io.Println()
	}
	return nil
}

// runGet показывает смену за дату
func (c *Cli) runGet(ctx context.Context, date string) error {
	if _, err := c.requireUser(ctx); err != nil {
		return err
	}

	list, err := c.shifts.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list shifts: %w", err)
	}

	for _, s := range list {
		if s.Date == date {
			if err := shiftTmpl.Execute(c.io, s); err != nil {
				return fmt.Errorf("failed to render shift: %w", err)
			}
			return nil
		}
	}
	return fmt.Errorf("no shift on %s", date)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " …"
	}
	return s
}
