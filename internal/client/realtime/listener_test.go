package realtime

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/shiftkeeper/internal/client/events"
	"github.com/iudanet/shiftkeeper/internal/client/remote"
	"github.com/iudanet/shiftkeeper/internal/config"
	"github.com/iudanet/shiftkeeper/pkg/api"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func staticToken() *remote.TokenSourceMock {
	return &remote.TokenSourceMock{
		AccessTokenFunc: func(ctx context.Context) (string, error) {
			return "token", nil
		},
	}
}

func TestChangesURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "http://localhost:8080", want: "ws://localhost:8080/api/v1/shifts/changes"},
		{in: "https://example.com/", want: "wss://example.com/api/v1/shifts/changes"},
		{in: "https://example.com/prefix", want: "wss://example.com/prefix/api/v1/shifts/changes"},
		{in: "ftp://example.com", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ChangesURL(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHandleEvent_EchoSuppression(t *testing.T) {
	bus := events.NewBus(testLogger(), 4)
	sub := bus.Subscribe()

	triggered := 0
	l, err := New("http://localhost:8080", staticToken(), "client-1", bus, func() { triggered++ },
		config.RealtimeConfig{}, testLogger())
	require.NoError(t, err)

	own := api.ChangeEvent{Type: api.ChangeUpdate, OriginClientID: "client-1", Record: &api.Shift{ID: "s1"}}
	assert.False(t, l.HandleEvent(own))
	assert.Equal(t, 0, triggered)
	assert.Len(t, sub.C(), 0)

	peer := api.ChangeEvent{Type: api.ChangeUpdate, OriginClientID: "client-2", Record: &api.Shift{ID: "s1"}}
	assert.True(t, l.HandleEvent(peer))
	assert.Equal(t, 1, triggered)

	ev := <-sub.C()
	assert.Equal(t, events.KindRemoteChange, ev.Kind)
	assert.Equal(t, "s1", ev.RecordID)
}

func TestBackoff_Bounded(t *testing.T) {
	l, err := New("http://localhost", staticToken(), "c", events.NewBus(testLogger(), 1), nil,
		config.RealtimeConfig{ReconnectBaseDelay: time.Second, ReconnectMaxDelay: 30 * time.Second}, testLogger())
	require.NoError(t, err)

	for attempt := 0; attempt < 10; attempt++ {
		d := l.backoff(attempt)
		assert.LessOrEqual(t, d, 30*time.Second)
		assert.Greater(t, d, time.Duration(0))
	}
	assert.LessOrEqual(t, l.backoff(0), time.Second)
	assert.GreaterOrEqual(t, l.backoff(20), 24*time.Second)
}

func TestRun_ReceivesPeerChanges(t *testing.T) {
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/shifts/changes", r.URL.Path)
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		for _, origin := range []string{"client-1", "client-2"} {
			data, _ := json.Marshal(api.ChangeEvent{
				Type:           api.ChangeInsert,
				OriginClientID: origin,
				Record:         &api.Shift{ID: "s-" + origin},
				At:             time.Now(),
			})
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		}

		// Держим соединение до закрытия клиентом
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	bus := events.NewBus(testLogger(), 4)
	sub := bus.Subscribe()
	triggered := make(chan struct{}, 4)

	l, err := New(server.URL, staticToken(), "client-1", bus, func() { triggered <- struct{}{} },
		config.RealtimeConfig{ReconnectBaseDelay: 10 * time.Millisecond, ReconnectMaxDelay: 50 * time.Millisecond},
		testLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	select {
	case <-triggered:
	case <-time.After(5 * time.Second):
		t.Fatal("peer change not received")
	}

	ev := <-sub.C()
	assert.Equal(t, "s-client-2", ev.RecordID)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("listener did not stop")
	}

	// Собственное эхо не вызвало обновление
	assert.Len(t, triggered, 0)
}
