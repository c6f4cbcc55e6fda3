// Package connectivity polls the server health endpoint and reports
// offline to online transitions.
package connectivity

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/iudanet/shiftkeeper/internal/config"
)

//go:generate moq -out checker_mock.go . Checker

// Checker performs a single reachability probe
type Checker interface {
	Health(ctx context.Context) error
}

// Monitor tracks server reachability
type Monitor struct {
	checker    Checker
	logger     *slog.Logger
	onRestored func()
	interval   time.Duration
	timeout    time.Duration
	mu         sync.RWMutex
	online     bool
	known      bool
}

// New creates a monitor. onRestored is called on every offline to online transition.
func New(checker Checker, cfg config.ConnectivityConfig, onRestored func(), logger *slog.Logger) *Monitor {
	interval := cfg.CheckInterval
	if interval <= 0 {
		interval = 15 * time.Second
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Monitor{
		checker:    checker,
		logger:     logger,
		onRestored: onRestored,
		interval:   interval,
		timeout:    timeout,
	}
}

// Online returns the result of the last probe
func (m *Monitor) Online() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.online
}

// Check probes the server once and returns whether it is reachable.
// Первая проверка только фиксирует состояние, без события восстановления.
func (m *Monitor) Check(ctx context.Context) bool {
	checkCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	err := m.checker.Health(checkCtx)
	online := err == nil

	m.mu.Lock()
	wasOnline, wasKnown := m.online, m.known
	m.online, m.known = online, true
	m.mu.Unlock()

	switch {
	case online && wasKnown && !wasOnline:
		m.logger.Info("Connectivity restored")
		if m.onRestored != nil {
			m.onRestored()
		}
	case !online && (wasOnline || !wasKnown):
		m.logger.Warn("Server unreachable", "error", err)
	}

	return online
}

// Run polls until ctx is cancelled
func (m *Monitor) Run(ctx context.Context) error {
	m.Check(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}
