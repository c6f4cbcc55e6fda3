// Package realtime subscribes to the server change feed and turns changes made
// by other clients into refresh triggers.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/iudanet/shiftkeeper/internal/client/events"
	"github.com/iudanet/shiftkeeper/internal/client/remote"
	"github.com/iudanet/shiftkeeper/internal/config"
	"github.com/iudanet/shiftkeeper/pkg/api"
)

const (
	changesPath = "/api/v1/shifts/changes"

	// pongWait время ожидания сообщений или ping от сервера
	pongWait = 60 * time.Second

	writeWait = 10 * time.Second
)

// Listener is the Realtime Change Listener
type Listener struct {
	tokens    remote.TokenSource
	bus       *events.Bus
	logger    *slog.Logger
	dialer    *websocket.Dialer
	trigger   func()
	sleep     func(ctx context.Context, d time.Duration) error
	url       string
	clientID  string
	baseDelay time.Duration
	maxDelay  time.Duration
}

// New creates a listener for the server at serverURL.
// trigger is invoked for every change made by another client.
func New(serverURL string, tokens remote.TokenSource, clientID string, bus *events.Bus, trigger func(), cfg config.RealtimeConfig, logger *slog.Logger) (*Listener, error) {
	wsURL, err := ChangesURL(serverURL)
	if err != nil {
		return nil, err
	}

	baseDelay := cfg.ReconnectBaseDelay
	if baseDelay <= 0 {
		baseDelay = time.Second
	}
	maxDelay := cfg.ReconnectMaxDelay
	if maxDelay < baseDelay {
		maxDelay = baseDelay
	}

	return &Listener{
		tokens:    tokens,
		bus:       bus,
		logger:    logger,
		dialer:    &websocket.Dialer{HandshakeTimeout: 10 * time.Second, Proxy: http.ProxyFromEnvironment},
		trigger:   trigger,
		sleep:     sleepContext,
		url:       wsURL,
		clientID:  clientID,
		baseDelay: baseDelay,
		maxDelay:  maxDelay,
	}, nil
}

// ChangesURL converts the server base URL into the websocket change feed URL
func ChangesURL(serverURL string) (string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return "", fmt.Errorf("invalid server url: %w", err)
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported server url scheme %q", u.Scheme)
	}

	u.Path = strings.TrimSuffix(u.Path, "/") + changesPath
	return u.String(), nil
}

// Run keeps the subscription alive until ctx is cancelled.
// Переподключение с экспоненциальной задержкой и jitter.
func (l *Listener) Run(ctx context.Context) error {
	attempt := 0
	for {
		connected, err := l.listen(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if connected {
			attempt = 0
		}

		delay := l.backoff(attempt)
		attempt++

		l.logger.Warn("Change feed disconnected, reconnecting",
			"error", err,
			"delay", delay)

		if err := l.sleep(ctx, delay); err != nil {
			return nil
		}
	}
}

// listen держит одно соединение; возвращает true, если соединение было установлено
func (l *Listener) listen(ctx context.Context) (bool, error) {
	token, err := l.tokens.AccessToken(ctx)
	if err != nil {
		return false, err
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)

	conn, resp, err := l.dialer.DialContext(ctx, l.url, header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return false, fmt.Errorf("failed to connect change feed: %w", err)
	}
	defer func() { _ = conn.Close() }()

	l.logger.Info("Subscribed to change feed", "url", l.url)

	// Закрываем соединение при отмене контекста, чтобы прервать ReadMessage
	stop := context.AfterFunc(ctx, func() {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
		_ = conn.Close()
	})
	defer stop()

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPingHandler(func(appData string) error {
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		err := conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(writeWait))
		if errors.Is(err, websocket.ErrCloseSent) {
			return nil
		}
		return err
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return true, err
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))

		var ev api.ChangeEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			l.logger.Warn("Malformed change event", "error", err)
			continue
		}
		l.HandleEvent(ev)
	}
}

// HandleEvent applies echo suppression and reports whether the event came from a peer.
func (l *Listener) HandleEvent(ev api.ChangeEvent) bool {
	recordID := ""
	if ev.Record != nil {
		recordID = ev.Record.ID
	}

	if ev.OriginClientID == l.clientID {
		// Эхо собственной записи
		l.logger.Debug("Ignoring own change", "id", recordID, "type", ev.Type)
		return false
	}

	l.logger.Info("Shift changed by another client", "id", recordID, "type", ev.Type)
	l.bus.RemoteChange(recordID)
	if l.trigger != nil {
		l.trigger()
	}
	return true
}

func (l *Listener) backoff(attempt int) time.Duration {
	delay := l.baseDelay
	for i := 0; i < attempt && delay < l.maxDelay; i++ {
		delay *= 2
	}
	if delay > l.maxDelay {
		delay = l.maxDelay
	}
	// jitter до 20%
	jitter := time.Duration(rand.Int64N(int64(delay)/5 + 1))
	return delay - jitter
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
