package cli

import (
	"context"
	"fmt"
	"time"
)

func (c *Cli) runRegister(ctx context.Context) error {
	c.io.Println("=== Registration ===")
	c.io.Println()

	username, err := c.io.ReadInput("Username: ")
	if err != nil {
		return fmt.Errorf("failed to read username: %w", err)
	}

	password, err := c.getPassword("Password (min 8 chars): ")
	if err != nil {
		return err
	}

	// Подтверждение нужно только при интерактивном вводе
	if c.passwordFromPrompt() {
		confirm, err := c.io.ReadPassword("Confirm password: ")
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		if password != confirm {
			return fmt.Errorf("passwords do not match")
		}
	}

	user, err := c.authService.Register(ctx, username, password)
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	c.io.Println()
	c.io.Println("✓ Registration successful!")
	c.io.Printf("User ID:  %s\n", user.ID)
	c.io.Printf("Username: %s\n", user.Username)
	return nil
}

func (c *Cli) runLogin(ctx context.Context) error {
	c.io.Println("=== Login ===")
	c.io.Println()

	username, err := c.io.ReadInput("Username: ")
	if err != nil {
		return fmt.Errorf("failed to read username: %w", err)
	}

	password, err := c.getPassword("Password: ")
	if err != nil {
		return err
	}

	user, err := c.authService.Login(ctx, username, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	c.io.Println()
	c.io.Println("✓ Login successful!")
	c.io.Printf("Username: %s\n", user.Username)
	c.io.Printf("Session expires: %s\n", user.ExpiresAt.Format(time.RFC3339))
	return nil
}

func (c *Cli) runLogout(ctx context.Context) error {
	c.io.Println("=== Logout ===")

	if err := c.authService.Logout(ctx); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}

	c.io.Println("✓ Logout successful!")
	c.io.Println("Your local session has been deleted.")
	return nil
}

func (c *Cli) runStatus(ctx context.Context) error {
	c.io.Println("=== Status ===")
	c.io.Println()

	user, err := c.authService.CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("failed to check authentication: %w", err)
	}

	if !user.IsAuthenticated {
		c.io.Println("Status: Not authenticated")
		if user.Username != "" {
			c.io.Printf("Session of %s has expired.\n", user.Username)
		}
		c.io.Println()
		c.io.Println("Run 'shiftkeeper login' to authenticate.")
		return nil
	}

	c.io.Println("Status: Authenticated")
	c.io.Printf("Username: %s\n", user.Username)
	c.io.Printf("Session expires: %s\n", user.ExpiresAt.Format(time.RFC3339))

	stats, err := c.syncService.GetSyncStatistics(ctx)
	if err != nil {
		// Не прерываем выполнение
		c.io.Printf("\nWarning: failed to get sync statistics: %v\n", err)
		return nil
	}

	c.io.Println()
	if stats.QueuePending > 0 {
		c.io.Printf("⚠️  Pending sync: %d change(s) waiting to be delivered\n", stats.QueuePending)
		c.io.Println("Run 'shiftkeeper drain' or 'shiftkeeper sync' when online.")
	} else {
		c.io.Println("✓ No changes waiting for delivery")
	}
	if stats.DeadLetters > 0 {
		c.io.Printf("⚠️  %d change(s) failed permanently, see 'shiftkeeper dead-letters'\n", stats.DeadLetters)
	}
	return nil
}
