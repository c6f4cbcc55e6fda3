// Package remote implements the Remote Store Client: retried writes against the
// backend with origin stamping, and single-attempt reads.
package remote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	clientapi "github.com/iudanet/shiftkeeper/internal/client/api"
	"github.com/iudanet/shiftkeeper/internal/config"
	"github.com/iudanet/shiftkeeper/internal/models"
	"github.com/iudanet/shiftkeeper/pkg/api"
)

//go:generate moq -out api_mock.go . API TokenSource
//go:generate moq -out store_mock.go . Store

// ErrNoCredentials is returned when there is no logged in user to act for
var ErrNoCredentials = errors.New("no credentials")

// API is the subset of the HTTP client used for shift operations
type API interface {
	ListShifts(ctx context.Context, accessToken string) ([]api.Shift, error)
	UpsertShift(ctx context.Context, accessToken string, shift api.Shift) (*api.Shift, error)
	DeleteShift(ctx context.Context, accessToken, id string) error
}

// TokenSource returns the current access token or an error wrapping ErrNoCredentials
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// Store is the Remote Store Client contract used by the queue, resolver and orchestrator
type Store interface {
	Upsert(ctx context.Context, record *models.Shift) (*models.Shift, error)
	Delete(ctx context.Context, id, ownerID string) error
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Shift, error)
}

// Client wraps the HTTP API with retry and origin stamping
type Client struct {
	api       API
	tokens    TokenSource
	logger    *slog.Logger
	sleep     func(ctx context.Context, d time.Duration) error
	clientID  string
	baseDelay time.Duration
	attempts  int
}

var _ Store = (*Client)(nil)

// New creates a Remote Store Client.
// clientID is stamped as OriginClientID on every write.
func New(apiClient API, tokens TokenSource, clientID string, retry config.RetryConfig, logger *slog.Logger) *Client {
	attempts := retry.Attempts
	if attempts <= 0 {
		attempts = 1
	}
	return &Client{
		api:       apiClient,
		tokens:    tokens,
		logger:    logger,
		sleep:     sleepContext,
		clientID:  clientID,
		baseDelay: retry.BaseDelay,
		attempts:  attempts,
	}
}

// ClientID returns the id stamped on writes
func (c *Client) ClientID() string {
	return c.clientID
}

// Upsert creates or replaces record on the server.
// Returns the stored record as seen by the server.
func (c *Client) Upsert(ctx context.Context, record *models.Shift) (*models.Shift, error) {
	stamped := record.Clone()
	stamped.OriginClientID = c.clientID

	var stored *api.Shift
	err := c.withRetry(ctx, "upsert", stamped.ID, func(token string) error {
		var err error
		stored, err = c.api.UpsertShift(ctx, token, api.ShiftFromModel(stamped))
		return err
	})
	if err != nil {
		return nil, err
	}

	if stored == nil || stored.ID == "" {
		return stamped, nil
	}
	return stored.ToModel(), nil
}

// Delete removes record id on the server. A record that is already gone is not an error.
func (c *Client) Delete(ctx context.Context, id, ownerID string) error {
	return c.withRetry(ctx, "delete", id, func(token string) error {
		err := c.api.DeleteShift(ctx, token, id)
		if err != nil && clientapi.IsNotFound(err) {
			c.logger.Debug("Shift already deleted on server", "id", id, "owner_id", ownerID)
			return nil
		}
		return err
	})
}

// ListByOwner fetches all remote shifts of ownerID. Single attempt: callers fall back to local data.
func (c *Client) ListByOwner(ctx context.Context, ownerID string) ([]*models.Shift, error) {
	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	shifts, err := c.api.ListShifts(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to list remote shifts: %w", err)
	}

	result := make([]*models.Shift, 0, len(shifts))
	for _, s := range shifts {
		// Сервер фильтрует по токену, но проверяем владельца явно
		if s.OwnerID != "" && s.OwnerID != ownerID {
			continue
		}
		result = append(result, s.ToModel())
	}
	return result, nil
}

// withRetry выполняет запись с линейной задержкой attempt*baseDelay между попытками.
// Постоянные ошибки возвращаются сразу.
func (c *Client) withRetry(ctx context.Context, op, id string, fn func(token string) error) error {
	var lastErr error

	for attempt := 1; attempt <= c.attempts; attempt++ {
		token, err := c.tokens.AccessToken(ctx)
		if err != nil {
			return err
		}

		lastErr = fn(token)
		if lastErr == nil {
			return nil
		}
		if errors.Is(lastErr, clientapi.ErrPermanent) {
			c.logger.Warn("Remote write rejected",
				"op", op,
				"id", id,
				"error", lastErr)
			return lastErr
		}

		c.logger.Warn("Remote write failed",
			"op", op,
			"id", id,
			"attempt", attempt,
			"max_attempts", c.attempts,
			"error", lastErr)

		if attempt == c.attempts {
			break
		}
		if err := c.sleep(ctx, time.Duration(attempt)*c.baseDelay); err != nil {
			return fmt.Errorf("%s %s interrupted: %w: %w", op, id, clientapi.ErrTransient, err)
		}
	}

	if !errors.Is(lastErr, clientapi.ErrTransient) {
		lastErr = fmt.Errorf("%w: %w", clientapi.ErrTransient, lastErr)
	}
	return fmt.Errorf("%s %s failed after %d attempts: %w", op, id, c.attempts, lastErr)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
