package auth

import (
	"context"
	"time"
)

//go:generate moq -out service_mock.go . Manager

// Manager defines authentication operations used by the CLI
type Manager interface {
	// Register регистрирует нового пользователя и выполняет вход
	Register(ctx context.Context, username, password string) (*User, error)

	// Login выполняет аутентификацию и сохраняет токен локально
	Login(ctx context.Context, username, password string) (*User, error)

	// Logout удаляет локальные данные авторизации
	Logout(ctx context.Context) error

	// CurrentUser returns the logged in user; IsAuthenticated is false when there is none
	CurrentUser(ctx context.Context) (User, error)

	// AccessToken returns the current token or an error wrapping remote.ErrNoCredentials
	AccessToken(ctx context.Context) (string, error)
}

// User описывает текущего пользователя клиента
type User struct {
	ExpiresAt       time.Time
	ID              string
	Username        string
	IsAuthenticated bool
}
