package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/iudanet/shiftkeeper/internal/client/remote"
	"github.com/iudanet/shiftkeeper/internal/client/storage"
	"github.com/iudanet/shiftkeeper/internal/validation"
	pkgapi "github.com/iudanet/shiftkeeper/pkg/api"
)

// ErrNotLoggedIn is returned by Logout when there is no session
var ErrNotLoggedIn = errors.New("not logged in")

// API is the part of the HTTP client used for authentication
type API interface {
	Register(ctx context.Context, req pkgapi.RegisterRequest) (*pkgapi.RegisterResponse, error)
	Login(ctx context.Context, req pkgapi.LoginRequest) (*pkgapi.TokenResponse, error)
}

// Service предоставляет функции авторизации
type Service struct {
	apiClient API
	authStore storage.AuthStorage
	logger    *slog.Logger
	now       func() time.Time
}

var (
	_ Manager            = (*Service)(nil)
	_ remote.TokenSource = (*Service)(nil)
)

// NewService создает новый сервис авторизации
func NewService(apiClient API, authStore storage.AuthStorage, logger *slog.Logger) *Service {
	return &Service{
		apiClient: apiClient,
		authStore: authStore,
		logger:    logger,
		now:       time.Now,
	}
}

// Register регистрирует нового пользователя и сразу выполняет вход
func (s *Service) Register(ctx context.Context, username, password string) (*User, error) {
	// Валидация входных данных
	if err := validation.ValidateUsername(username); err != nil {
		return nil, fmt.Errorf("invalid username: %w", err)
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, fmt.Errorf("invalid password: %w", err)
	}

	resp, err := s.apiClient.Register(ctx, pkgapi.RegisterRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		return nil, fmt.Errorf("registration failed: %w", err)
	}

	s.logger.Info("User registered", "username", username, "user_id", resp.UserID)

	return s.Login(ctx, username, password)
}

// Login выполняет аутентификацию и сохраняет токен в локальном хранилище
func (s *Service) Login(ctx context.Context, username, password string) (*User, error) {
	if err := validation.ValidateUsername(username); err != nil {
		return nil, fmt.Errorf("invalid username: %w", err)
	}
	if password == "" {
		return nil, fmt.Errorf("invalid password: password cannot be empty")
	}

	resp, err := s.apiClient.Login(ctx, pkgapi.LoginRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}

	expiresAt := s.now().Add(time.Duration(resp.ExpiresIn) * time.Second)
	authData := &storage.AuthData{
		Username:    username,
		UserID:      resp.UserID,
		AccessToken: resp.AccessToken,
		ExpiresAt:   expiresAt.Unix(),
	}
	if err := s.authStore.SaveAuth(ctx, authData); err != nil {
		return nil, fmt.Errorf("failed to save auth data: %w", err)
	}

	s.logger.Info("Logged in", "username", username, "user_id", resp.UserID)

	return &User{
		ID:              resp.UserID,
		Username:        username,
		ExpiresAt:       time.Unix(authData.ExpiresAt, 0),
		IsAuthenticated: true,
	}, nil
}

// Logout удаляет локальные данные авторизации.
// Локальные смены и очередь сохраняются и будут отправлены после следующего входа.
func (s *Service) Logout(ctx context.Context) error {
	err := s.authStore.DeleteAuth(ctx)
	if errors.Is(err, storage.ErrAuthNotFound) {
		return ErrNotLoggedIn
	}
	if err != nil {
		return fmt.Errorf("failed to delete local auth data: %w", err)
	}
	return nil
}

// CurrentUser returns the logged in user. An expired token is reported as not authenticated.
func (s *Service) CurrentUser(ctx context.Context) (User, error) {
	authData, err := s.authStore.GetAuth(ctx)
	if errors.Is(err, storage.ErrAuthNotFound) {
		return User{}, nil
	}
	if err != nil {
		return User{}, fmt.Errorf("failed to get auth data: %w", err)
	}

	user := User{
		ID:        authData.UserID,
		Username:  authData.Username,
		ExpiresAt: time.Unix(authData.ExpiresAt, 0),
	}
	user.IsAuthenticated = authData.AccessToken != "" && s.now().Before(user.ExpiresAt)
	return user, nil
}

// AccessToken returns the stored token for the Remote Store Client
func (s *Service) AccessToken(ctx context.Context) (string, error) {
	authData, err := s.authStore.GetAuth(ctx)
	if errors.Is(err, storage.ErrAuthNotFound) {
		return "", fmt.Errorf("%w: not logged in", remote.ErrNoCredentials)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get auth data: %w", err)
	}

	if authData.AccessToken == "" || !s.now().Before(time.Unix(authData.ExpiresAt, 0)) {
		return "", fmt.Errorf("%w: session expired, please login again", remote.ErrNoCredentials)
	}
	return authData.AccessToken, nil
}
