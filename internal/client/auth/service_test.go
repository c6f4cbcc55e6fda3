package auth

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/shiftkeeper/internal/client/api"
	"github.com/iudanet/shiftkeeper/internal/client/remote"
	"github.com/iudanet/shiftkeeper/internal/client/storage/boltdb"
	pkgapi "github.com/iudanet/shiftkeeper/pkg/api"
)

// newTestService поднимает тестовый сервер авторизации и BoltDB хранилище
func newTestService(t *testing.T, handler http.HandlerFunc) (*Service, *boltdb.Storage) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store, err := boltdb.New(context.Background(), filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return NewService(api.NewClient(server.URL), store, slog.New(slog.NewTextHandler(io.Discard, nil))), store
}

func authHandler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/auth/register":
			var req pkgapi.RegisterRequest
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(pkgapi.RegisterResponse{UserID: "user-1", Message: "ok"})
		case "/api/v1/auth/login":
			var req pkgapi.LoginRequest
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			if req.Password != "password123" {
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(pkgapi.ErrorResponse{Error: "invalid credentials"})
				return
			}
			_ = json.NewEncoder(w).Encode(pkgapi.TokenResponse{AccessToken: "jwt-token", UserID: "user-1", ExpiresIn: 3600})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func TestService_RegisterLogsIn(t *testing.T) {
	s, _ := newTestService(t, authHandler(t))
	ctx := context.Background()

	user, err := s.Register(ctx, "alice", "password123")
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
	assert.True(t, user.IsAuthenticated)

	current, err := s.CurrentUser(ctx)
	require.NoError(t, err)
	assert.True(t, current.IsAuthenticated)
	assert.Equal(t, "alice", current.Username)

	token, err := s.AccessToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", token)
}

func TestService_Register_Validation(t *testing.T) {
	s, _ := newTestService(t, authHandler(t))

	_, err := s.Register(context.Background(), "a", "password123")
	assert.ErrorContains(t, err, "invalid username")

	_, err = s.Register(context.Background(), "alice", "short")
	assert.ErrorContains(t, err, "invalid password")
}

func TestService_Login_InvalidCredentials(t *testing.T) {
	s, _ := newTestService(t, authHandler(t))
	ctx := context.Background()

	_, err := s.Login(ctx, "alice", "wrong-password")
	require.Error(t, err)
	assert.ErrorIs(t, err, api.ErrPermanent)

	current, err := s.CurrentUser(ctx)
	require.NoError(t, err)
	assert.False(t, current.IsAuthenticated)
}

func TestService_ExpiredToken(t *testing.T) {
	s, _ := newTestService(t, authHandler(t))
	ctx := context.Background()

	_, err := s.Login(ctx, "alice", "password123")
	require.NoError(t, err)

	// Через два часа токен истек
	s.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	current, err := s.CurrentUser(ctx)
	require.NoError(t, err)
	assert.False(t, current.IsAuthenticated)
	assert.Equal(t, "user-1", current.ID)

	_, err = s.AccessToken(ctx)
	assert.ErrorIs(t, err, remote.ErrNoCredentials)
}

func TestService_Logout(t *testing.T) {
	s, _ := newTestService(t, authHandler(t))
	ctx := context.Background()

	assert.ErrorIs(t, s.Logout(ctx), ErrNotLoggedIn)

	_, err := s.Login(ctx, "alice", "password123")
	require.NoError(t, err)
	require.NoError(t, s.Logout(ctx))

	_, err = s.AccessToken(ctx)
	assert.ErrorIs(t, err, remote.ErrNoCredentials)
}
