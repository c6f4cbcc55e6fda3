package connectivity

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/iudanet/shiftkeeper/internal/config"
)

func newTestMonitor(online *atomic.Bool, restored *atomic.Int32) *Monitor {
	checker := &CheckerMock{
		HealthFunc: func(ctx context.Context) error {
			if online.Load() {
				return nil
			}
			return errors.New("connection refused")
		},
	}
	return New(checker, config.ConnectivityConfig{CheckInterval: 10 * time.Millisecond, Timeout: time.Second},
		func() { restored.Add(1) }, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestMonitor_Transitions(t *testing.T) {
	var online atomic.Bool
	var restored atomic.Int32
	m := newTestMonitor(&online, &restored)
	ctx := context.Background()

	assert.False(t, m.Check(ctx))
	assert.False(t, m.Online())
	assert.Equal(t, int32(0), restored.Load())

	online.Store(true)
	assert.True(t, m.Check(ctx))
	assert.Equal(t, int32(1), restored.Load())

	// Повторная успешная проверка не генерирует событие
	assert.True(t, m.Check(ctx))
	assert.Equal(t, int32(1), restored.Load())

	online.Store(false)
	m.Check(ctx)
	online.Store(true)
	m.Check(ctx)
	assert.Equal(t, int32(2), restored.Load())
}

func TestMonitor_FirstCheckOnlineIsNotRestore(t *testing.T) {
	var online atomic.Bool
	var restored atomic.Int32
	online.Store(true)
	m := newTestMonitor(&online, &restored)

	assert.True(t, m.Check(context.Background()))
	assert.Equal(t, int32(0), restored.Load())
}

func TestMonitor_Run(t *testing.T) {
	var online atomic.Bool
	var restored atomic.Int32
	m := newTestMonitor(&online, &restored)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	time.Sleep(30 * time.Millisecond)
	online.Store(true)

	assert.Eventually(t, func() bool { return restored.Load() == 1 }, 2*time.Second, 5*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}
