// Package session wires the client components together and owns their lifecycle.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	clientapi "github.com/iudanet/shiftkeeper/internal/client/api"
	"github.com/iudanet/shiftkeeper/internal/client/auth"
	"github.com/iudanet/shiftkeeper/internal/client/conflict"
	"github.com/iudanet/shiftkeeper/internal/client/connectivity"
	"github.com/iudanet/shiftkeeper/internal/client/events"
	"github.com/iudanet/shiftkeeper/internal/client/queue"
	"github.com/iudanet/shiftkeeper/internal/client/realtime"
	"github.com/iudanet/shiftkeeper/internal/client/remote"
	"github.com/iudanet/shiftkeeper/internal/client/shifts"
	"github.com/iudanet/shiftkeeper/internal/client/storage/boltdb"
	clientsync "github.com/iudanet/shiftkeeper/internal/client/sync"
	"github.com/iudanet/shiftkeeper/internal/config"
)

// Session is the composition root of the client
type Session struct {
	API      *clientapi.Client
	Bus      *events.Bus
	Auth     *auth.Service
	Remote   *remote.Client
	Queue    *queue.Queue
	Sync     *clientsync.Orchestrator
	Shifts   *shifts.Records
	Monitor  *connectivity.Monitor
	Listener *realtime.Listener

	db     *boltdb.Storage
	logger *slog.Logger
	cfg    config.ClientConfig
	cancel context.CancelFunc
	group  *errgroup.Group
	runCtx context.Context
	mu     sync.Mutex
}

// Open opens the local database and constructs every component.
// Фоновые процессы не запускаются до вызова Start.
func Open(ctx context.Context, cfg config.ClientConfig, logger *slog.Logger) (*Session, error) {
	db, err := boltdb.New(ctx, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	clientID, err := db.GetOrCreateClientID(ctx)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to get client id: %w", err)
	}

	s := &Session{
		db:     db,
		logger: logger,
		cfg:    cfg,
		runCtx: context.Background(),
	}

	s.API = clientapi.NewClient(cfg.ServerURL)
	s.API.SetClientID(clientID)
	s.Bus = events.NewBus(logger, 0)
	s.Auth = auth.NewService(s.API, db, logger)
	s.Remote = remote.New(s.API, s.Auth, clientID, cfg.Retry, logger)
	s.Queue = queue.New(db, s.Remote, s.Bus, cfg.Queue, logger)

	resolver := conflict.NewResolver(db, s.Remote, s.Queue, cfg.Sync.DeleteEditPolicy, logger)
	s.Sync = clientsync.New(clientsync.Deps{
		Users:    s.Auth,
		Local:    db,
		Meta:     db,
		Remote:   s.Remote,
		Queue:    s.Queue,
		Resolver: resolver,
		Detector: conflict.NewDetector(cfg.Sync.ConflictWindow),
		Bus:      s.Bus,
	}, cfg.Sync, logger)

	s.Shifts = shifts.New(s.Auth, db, s.Remote, s.Queue, s.Bus, logger)
	s.Monitor = connectivity.New(s.API, cfg.Connectivity, s.onConnectivityRestored, logger)

	if cfg.Realtime.Enabled {
		s.Listener, err = realtime.New(cfg.ServerURL, s.Auth, clientID, s.Bus, s.onRemoteChange, cfg.Realtime, logger)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to create realtime listener: %w", err)
		}
	}

	logger.Debug("Session opened", "client_id", clientID, "server", cfg.ServerURL)
	return s, nil
}

// ClientID returns the persistent id of this client instance
func (s *Session) ClientID() string {
	return s.Remote.ClientID()
}

// Start runs the background workers: realtime listener, connectivity monitor,
// periodic drain and periodic sync. A startup sync pass is triggered immediately.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.group != nil {
		return errors.New("session already started")
	}

	runCtx, cancel := context.WithCancel(ctx)
	group, groupCtx := errgroup.WithContext(runCtx)
	s.cancel = cancel
	s.group = group
	s.runCtx = groupCtx

	if s.Listener != nil {
		group.Go(func() error {
			return s.Listener.Run(groupCtx)
		})
	}

	group.Go(func() error {
		return s.Monitor.Run(groupCtx)
	})

	group.Go(func() error {
		s.every(groupCtx, s.cfg.Queue.DrainInterval, s.drain)
		return nil
	})

	group.Go(func() error {
		s.syncOnce(groupCtx)
		s.every(groupCtx, s.cfg.Sync.Interval, s.syncOnce)
		return nil
	})

	s.logger.Info("Session started")
	return nil
}

// Wait blocks until the workers stop
func (s *Session) Wait() error {
	s.mu.Lock()
	group := s.group
	s.mu.Unlock()

	if group == nil {
		return nil
	}
	return group.Wait()
}

// Close stops the workers and closes the local database
func (s *Session) Close() error {
	s.mu.Lock()
	cancel, group := s.cancel, s.group
	s.mu.Unlock()

	s.Sync.Stop()

	var errs []error
	if cancel != nil {
		cancel()
		if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
			errs = append(errs, err)
		}
	}

	if err := s.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close database: %w", err))
	}

	s.logger.Debug("Session closed")
	return errors.Join(errs...)
}

func (s *Session) every(ctx context.Context, interval time.Duration, fn func(context.Context)) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn(ctx)
		}
	}
}

func (s *Session) currentUserID(ctx context.Context) (string, bool) {
	user, err := s.Auth.CurrentUser(ctx)
	if err != nil {
		s.logger.Warn("Failed to get current user", "error", err)
		return "", false
	}
	return user.ID, user.IsAuthenticated
}

func (s *Session) drain(ctx context.Context) {
	userID, ok := s.currentUserID(ctx)
	if !ok {
		return
	}

	result, err := s.Queue.Drain(ctx, userID)
	if err != nil {
		s.logger.Warn("Queue drain failed", "error", err)
		return
	}
	if result.Processed > 0 || result.Errors > 0 {
		s.logger.Info("Queue drained", "processed", result.Processed, "errors", result.Errors)
	}
}

func (s *Session) syncOnce(ctx context.Context) {
	_, err := s.Sync.TriggerSync(ctx)
	switch {
	case err == nil:
	case errors.Is(err, clientsync.ErrSyncInProgress), errors.Is(err, clientsync.ErrNotAuthenticated):
		s.logger.Debug("Sync skipped", "reason", err)
	default:
		s.logger.Warn("Sync failed", "error", err)
	}
}

// onConnectivityRestored: сначала доставляем очередь, затем синхронизируемся
func (s *Session) onConnectivityRestored() {
	s.mu.Lock()
	ctx, group := s.runCtx, s.group
	s.mu.Unlock()

	if group == nil {
		return
	}
	group.Go(func() error {
		s.drain(ctx)
		s.syncOnce(ctx)
		return nil
	})
}

func (s *Session) onRemoteChange() {
	s.mu.Lock()
	ctx := s.runCtx
	s.mu.Unlock()

	s.Sync.ScheduleSync(ctx)
}
