package config

import (
	"fmt"
	"os"
	"time"
)

// ServerConfig конфигурация сервера
type ServerConfig struct {
	Addr           string          `yaml:"addr"`
	DBPath         string          `yaml:"db_path"`
	JWTSecret      string          `yaml:"jwt_secret"`
	LogLevel       string          `yaml:"log_level"`
	LogFormat      string          `yaml:"log_format"`
	AccessTokenTTL time.Duration   `yaml:"access_token_ttl"`
	AuthRateLimit  RateLimitConfig `yaml:"auth_rate_limit"`
}

// RateLimitConfig ограничение частоты запросов к auth эндпоинтам
type RateLimitConfig struct {
	Window   time.Duration `yaml:"window"`
	Requests int           `yaml:"requests"`
}

// DefaultServerConfig returns the server defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:           ":8080",
		DBPath:         "shiftkeeper.db",
		LogLevel:       "info",
		LogFormat:      "json",
		AccessTokenTTL: 24 * time.Hour,
		AuthRateLimit: RateLimitConfig{
			Window:   time.Minute,
			Requests: 20,
		},
	}
}

// LoadServerConfig reads path (optional) over the defaults and applies environment overrides.
func LoadServerConfig(path string) (*ServerConfig, error) {
	cfg := DefaultServerConfig()

	if err := loadYAML(path, &cfg); err != nil {
		return nil, err
	}

	if v := os.Getenv("SHIFTKEEPER_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("SHIFTKEEPER_SERVER_DB"); v != "" {
		cfg.DBPath = v
	}
	// Секрет лучше передавать через окружение, а не через файл
	if v := os.Getenv("SHIFTKEEPER_JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks required server settings.
func (c *ServerConfig) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	if c.DBPath == "" {
		return fmt.Errorf("db_path is required")
	}
	if len(c.JWTSecret) < 16 {
		return fmt.Errorf("jwt_secret must be at least 16 characters (set SHIFTKEEPER_JWT_SECRET)")
	}
	if c.AccessTokenTTL <= 0 {
		return fmt.Errorf("access_token_ttl must be positive")
	}
	if c.AuthRateLimit.Requests <= 0 || c.AuthRateLimit.Window <= 0 {
		return fmt.Errorf("auth_rate_limit requires positive requests and window")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}
