package validation

import (
	"fmt"
	"regexp"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

const (
	MinUsernameLen = 3
	MaxUsernameLen = 64
	MinPasswordLen = 8
)

// ValidateUsername проверяет формат имени пользователя:
// латинские буквы, цифры, '_', '.', '-' длиной 3-64 символа
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}
	if len(username) < MinUsernameLen {
		return fmt.Errorf("username must be at least %d characters long", MinUsernameLen)
	}
	if len(username) > MaxUsernameLen {
		return fmt.Errorf("username must not exceed %d characters", MaxUsernameLen)
	}
	if !usernamePattern.MatchString(username) {
		return fmt.Errorf("username can only contain letters, numbers, '_', '.' and '-'")
	}
	return nil
}

// ValidatePassword проверяет минимальную длину пароля учетной записи
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}
	if len(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLen)
	}
	return nil
}
