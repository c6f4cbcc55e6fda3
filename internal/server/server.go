// Package server собирает HTTP API удаленного хранилища смен: маршруты, middleware и жизненный цикл.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/shiftkeeper/internal/config"
	"github.com/iudanet/shiftkeeper/internal/server/changefeed"
	"github.com/iudanet/shiftkeeper/internal/server/handlers"
	"github.com/iudanet/shiftkeeper/internal/server/middleware"
	"github.com/iudanet/shiftkeeper/internal/server/storage"
	"github.com/iudanet/shiftkeeper/internal/server/storage/sqlite"
)

const (
	healthPath      = "/api/v1/health"
	shutdownTimeout = 10 * time.Second
)

// Store объединяет хранилища, нужные API
type Store interface {
	storage.UserStorage
	storage.ShiftStorage
	handlers.Pinger
}

// Server HTTP сервер shiftkeeper
type Server struct {
	logger  *slog.Logger
	hub     *changefeed.Hub
	limiter *middleware.RateLimiter
	handler http.Handler
}

// New builds the router with all handlers and middleware.
// Close must be called to release the rate limiter and change feed.
func New(cfg *config.ServerConfig, store Store, version string, logger *slog.Logger) *Server {
	jwtConfig := handlers.JWTConfig{
		Secret:         []byte(cfg.JWTSecret),
		AccessTokenTTL: cfg.AccessTokenTTL,
	}

	s := &Server{
		logger:  logger,
		hub:     changefeed.NewHub(changefeed.DefaultConfig(), logger),
		limiter: middleware.NewRateLimiter(cfg.AuthRateLimit, logger),
	}

	authHandler := handlers.NewAuthHandler(logger, store, jwtConfig)
	shiftHandler := handlers.NewShiftHandler(logger, store, s.hub)
	healthHandler := handlers.NewHealthHandler(logger, store, version)

	requireAuth := middleware.AuthMiddleware(logger, jwtConfig)

	mux := http.NewServeMux()

	// Публичные маршруты; auth ограничены по частоте
	mux.Handle("POST /api/v1/auth/register", s.limiter.Middleware(http.HandlerFunc(authHandler.Register)))
	mux.Handle("POST /api/v1/auth/login", s.limiter.Middleware(http.HandlerFunc(authHandler.Login)))
	mux.HandleFunc("GET "+healthPath, healthHandler.Health)

	mux.Handle("GET /api/v1/shifts", requireAuth(http.HandlerFunc(shiftHandler.List)))
	mux.Handle("GET /api/v1/shifts/changes", requireAuth(http.HandlerFunc(shiftHandler.Changes)))
	mux.Handle("PUT /api/v1/shifts/{id}", requireAuth(http.HandlerFunc(shiftHandler.Upsert)))
	mux.Handle("DELETE /api/v1/shifts/{id}", requireAuth(http.HandlerFunc(shiftHandler.Delete)))

	var handler http.Handler = mux
	handler = middleware.RecoveryMiddleware(logger)(handler)
	handler = middleware.LoggingWithSkip(logger, []string{healthPath})(handler)
	s.handler = handler

	return s
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Close stops background goroutines and disconnects change feed subscribers
func (s *Server) Close() {
	s.limiter.Stop()
	s.hub.Close()
}

// Run открывает хранилище и обслуживает запросы до отмены ctx, затем корректно останавливается.
func Run(ctx context.Context, cfg *config.ServerConfig, version string, logger *slog.Logger) error {
	store, err := sqlite.New(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Error("Failed to close storage", "error", cerr)
		}
	}()

	srv := New(cfg, store, version, logger)
	defer srv.Close()

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Websocket соединения не отслеживаются Shutdown: закрываем их через hub
	httpServer.RegisterOnShutdown(srv.hub.Close)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server listening", "addr", cfg.Addr, "version", version)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logger.Info("Server stopped")
	return nil
}
