// Package changefeed рассылает события изменения смен подписанным клиентам по websocket.
package changefeed

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/iudanet/shiftkeeper/pkg/api"
)

// Config configures the hub
type Config struct {
	// BufferSize размер буфера событий на одну подписку
	BufferSize int
	// PingInterval как часто отправлять ping клиенту
	PingInterval time.Duration
	// WriteTimeout таймаут записи в websocket
	WriteTimeout time.Duration
}

// DefaultConfig returns default hub settings.
// PingInterval меньше pongWait клиента (60s).
func DefaultConfig() Config {
	return Config{
		BufferSize:   64,
		PingInterval: 30 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
}

// Subscription подписка одного соединения на изменения владельца
type Subscription struct {
	created time.Time
	ch      chan api.ChangeEvent
	done    chan struct{}
	ID      string
	OwnerID string
	mu      sync.Mutex
	closed  bool
}

// C returns the channel with change events.
func (s *Subscription) C() <-chan api.ChangeEvent {
	return s.ch
}

// Close closes the subscription.
func (s *Subscription) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.done)
	close(s.ch)
}

// Hub manages change feed subscriptions grouped by owner
type Hub struct {
	logger   *slog.Logger
	subs     map[string]map[string]*Subscription // owner -> id -> sub
	upgrader websocket.Upgrader
	config   Config
	mu       sync.RWMutex
}

// NewHub creates a hub
func NewHub(cfg Config, logger *slog.Logger) *Hub {
	def := DefaultConfig()
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = def.BufferSize
	}
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = def.PingInterval
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = def.WriteTimeout
	}

	return &Hub{
		logger: logger,
		subs:   make(map[string]map[string]*Subscription),
		config: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Клиент - CLI, а не браузер; доступ ограничен токеном
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Subscribe creates a subscription for owner's changes
func (h *Hub) Subscribe(ownerID string) *Subscription {
	sub := &Subscription{
		ID:      uuid.NewString(),
		OwnerID: ownerID,
		ch:      make(chan api.ChangeEvent, h.config.BufferSize),
		done:    make(chan struct{}),
		created: time.Now(),
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.subs[ownerID] == nil {
		h.subs[ownerID] = make(map[string]*Subscription)
	}
	h.subs[ownerID][sub.ID] = sub
	return sub
}

// Unsubscribe removes and closes the subscription
func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	owned, ok := h.subs[sub.OwnerID]
	if ok {
		delete(owned, sub.ID)
		if len(owned) == 0 {
			delete(h.subs, sub.OwnerID)
		}
	}
	h.mu.Unlock()

	sub.Close()
}

// Publish sends the event to every subscription of the owner.
// Медленный подписчик теряет событие: клиент все равно сверяется полной синхронизацией.
func (h *Hub) Publish(ownerID string, ev api.ChangeEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, sub := range h.subs[ownerID] {
		select {
		case sub.ch <- ev:
		default:
			h.logger.Warn("Change feed buffer full, dropping event",
				"subscription", sub.ID,
				"owner_id", ownerID,
				"type", ev.Type)
		}
	}
}

// Count returns the number of active subscriptions.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := 0
	for _, owned := range h.subs {
		n += len(owned)
	}
	return n
}

// Close closes all subscriptions; open connections finish on their own.
func (h *Hub) Close() {
	h.mu.Lock()
	subs := h.subs
	h.subs = make(map[string]map[string]*Subscription)
	h.mu.Unlock()

	for _, owned := range subs {
		for _, sub := range owned {
			sub.Close()
		}
	}
}

// ServeWS upgrades the request and streams owner's change events until the client goes away.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, ownerID string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrader уже ответил клиенту
		h.logger.Warn("Websocket upgrade failed", "error", err)
		return
	}
	defer func() { _ = conn.Close() }()

	sub := h.Subscribe(ownerID)
	defer h.Unsubscribe(sub)

	h.logger.Info("Change feed subscribed", "owner_id", ownerID, "subscription", sub.ID)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Читаем входящие кадры только ради close/pong
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	h.forward(ctx, conn, sub)

	h.logger.Info("Change feed unsubscribed", "owner_id", ownerID, "subscription", sub.ID)
}

func (h *Hub) forward(ctx context.Context, conn *websocket.Conn, sub *Subscription) {
	ticker := time.NewTicker(h.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.done:
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(h.config.WriteTimeout))
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(h.config.WriteTimeout)); err != nil {
				return
			}
		case ev, ok := <-sub.ch:
			if !ok {
				return
			}
			msg, err := json.Marshal(ev)
			if err != nil {
				h.logger.Error("Failed to encode change event", "error", err)
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(h.config.WriteTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		}
	}
}
