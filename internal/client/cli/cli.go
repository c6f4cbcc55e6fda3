// Package cli implements the shiftkeeper client commands on top of the sync engine.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/iudanet/shiftkeeper/internal/client/auth"
	"github.com/iudanet/shiftkeeper/internal/client/events"
	"github.com/iudanet/shiftkeeper/internal/client/iocli"
	"github.com/iudanet/shiftkeeper/internal/client/queue"
	"github.com/iudanet/shiftkeeper/internal/client/shifts"
	clientsync "github.com/iudanet/shiftkeeper/internal/client/sync"
	"github.com/iudanet/shiftkeeper/internal/models"
)

//go:generate moq -out cli_mock.go . QueueService Runner

// PasswordEnv переменная окружения с паролем пользователя
const PasswordEnv = "SHIFTKEEPER_PASSWORD"

// Passwords источники пароля для register/login
type Passwords struct {
	FromFile string
}

// QueueService is the part of the Offline Queue exposed to the CLI
type QueueService interface {
	Drain(ctx context.Context, userID string) (queue.DrainResult, error)
	Pending(ctx context.Context, userID string) ([]*models.QueueItem, error)
	DeadLetters(ctx context.Context, userID string) ([]*models.DeadLetter, error)
	ClearDeadLetters(ctx context.Context, userID string) error
}

// Runner starts the background workers of a client session
type Runner interface {
	Start(ctx context.Context) error
}

// Cli holds the services the commands operate on
type Cli struct {
	io          iocli.IO
	authService auth.Manager
	shifts      shifts.Service
	syncService clientsync.Service
	queue       QueueService
	runner      Runner
	bus         *events.Bus
	passwords   Passwords
}

// Deps collects the services used by the commands
type Deps struct {
	IO        iocli.IO
	Auth      auth.Manager
	Shifts    shifts.Service
	Sync      clientsync.Service
	Queue     QueueService
	Runner    Runner
	Bus       *events.Bus
	Passwords Passwords
}

// New creates the command handler
func New(deps Deps) *Cli {
	return &Cli{
		io:          deps.IO,
		authService: deps.Auth,
		shifts:      deps.Shifts,
		syncService: deps.Sync,
		queue:       deps.Queue,
		runner:      deps.Runner,
		bus:         deps.Bus,
		passwords:   deps.Passwords,
	}
}

// requireUser returns the logged in user or a hint to log in
func (c *Cli) requireUser(ctx context.Context) (auth.User, error) {
	user, err := c.authService.CurrentUser(ctx)
	if err != nil {
		return auth.User{}, fmt.Errorf("failed to check authentication: %w", err)
	}
	if !user.IsAuthenticated {
		return auth.User{}, errNotLoggedIn
	}
	return user, nil
}

var errNotLoggedIn = errors.New("not authenticated. Please run 'shiftkeeper login' first")

// getPassword retrieves the password from various sources with priority:
// 1. Environment variable SHIFTKEEPER_PASSWORD
// 2. File given by --password-file
// 3. Interactive prompt (fallback)
func (c *Cli) getPassword(prompt string) (string, error) {
	// Priority 1: Environment variable
	if envPassword := os.Getenv(PasswordEnv); envPassword != "" {
		return envPassword, nil
	}

	// Priority 2: File
	if c.passwords.FromFile != "" {
		content, err := os.ReadFile(c.passwords.FromFile)
		if err != nil {
			return "", fmt.Errorf("failed to read password file: %w", err)
		}
		// Убираем trailing newline/whitespace
		password := strings.TrimSpace(string(content))
		if password == "" {
			return "", fmt.Errorf("password file is empty")
		}
		return password, nil
	}

	// Priority 3: Interactive prompt
	password, err := c.io.ReadPassword(prompt)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	return password, nil
}

// passwordFromPrompt reports whether the password will be read interactively
func (c *Cli) passwordFromPrompt() bool {
	return os.Getenv(PasswordEnv) == "" && c.passwords.FromFile == ""
}
