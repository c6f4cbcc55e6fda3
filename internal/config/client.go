package config

import (
	"fmt"
	"os"
	"time"
)

// DeleteEdit policies
const (
	DeleteEditPolicyEditWins = "edit-wins"
	DeleteEditPolicyManual   = "manual"
)

// ClientConfig конфигурация клиента синхронизации
type ClientConfig struct {
	ServerURL    string             `yaml:"server_url"`
	DBPath       string             `yaml:"db_path"`
	LogLevel     string             `yaml:"log_level"`
	LogFormat    string             `yaml:"log_format"`
	Sync         SyncConfig         `yaml:"sync"`
	Retry        RetryConfig        `yaml:"retry"`
	Queue        QueueConfig        `yaml:"queue"`
	Realtime     RealtimeConfig     `yaml:"realtime"`
	Connectivity ConnectivityConfig `yaml:"connectivity"`
}

// SyncConfig параметры оркестрации синхронизации
type SyncConfig struct {
	DeleteEditPolicy string        `yaml:"delete_edit_policy"`
	Interval         time.Duration `yaml:"interval"`        // периодическая синхронизация
	Debounce         time.Duration `yaml:"debounce"`        // задержка для триггеров от realtime
	ErrorBackoff     time.Duration `yaml:"error_backoff"`   // пауза после ошибки ввода-вывода
	ConflictWindow   time.Duration `yaml:"conflict_window"` // окно одновременного редактирования
}

// RetryConfig параметры повторов записи на сервер
type RetryConfig struct {
	BaseDelay time.Duration `yaml:"base_delay"` // задержка = attempt * BaseDelay
	Attempts  int           `yaml:"attempts"`
}

// QueueConfig параметры offline очереди
type QueueConfig struct {
	DrainInterval time.Duration `yaml:"drain_interval"`
	MaxRetries    int           `yaml:"max_retries"`
}

// RealtimeConfig параметры подписки на изменения
type RealtimeConfig struct {
	ReconnectBaseDelay time.Duration `yaml:"reconnect_base_delay"`
	ReconnectMaxDelay  time.Duration `yaml:"reconnect_max_delay"`
	Enabled            bool          `yaml:"enabled"`
}

// ConnectivityConfig параметры проверки доступности сервера
type ConnectivityConfig struct {
	CheckInterval time.Duration `yaml:"check_interval"`
	Timeout       time.Duration `yaml:"timeout"`
}

// DefaultClientConfig returns the client configuration used when no file is given.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		ServerURL: "http://localhost:8080",
		DBPath:    "shiftkeeper-client.db",
		LogLevel:  "info",
		LogFormat: "text",
		Sync: SyncConfig{
			DeleteEditPolicy: DeleteEditPolicyEditWins,
			Interval:         5 * time.Minute,
			Debounce:         2 * time.Second,
			ErrorBackoff:     30 * time.Second,
			ConflictWindow:   5 * time.Minute,
		},
		Retry: RetryConfig{
			BaseDelay: time.Second,
			Attempts:  3,
		},
		Queue: QueueConfig{
			DrainInterval: time.Minute,
			MaxRetries:    3,
		},
		Realtime: RealtimeConfig{
			ReconnectBaseDelay: time.Second,
			ReconnectMaxDelay:  30 * time.Second,
			Enabled:            true,
		},
		Connectivity: ConnectivityConfig{
			CheckInterval: 15 * time.Second,
			Timeout:       5 * time.Second,
		},
	}
}

// LoadClientConfig reads the YAML file at path (optional) on top of the defaults
// and applies SHIFTKEEPER_* environment overrides.
func LoadClientConfig(path string) (*ClientConfig, error) {
	cfg := DefaultClientConfig()

	if err := loadYAML(path, &cfg); err != nil {
		return nil, err
	}

	// Переменные окружения имеют приоритет над файлом
	if v := os.Getenv("SHIFTKEEPER_SERVER_URL"); v != "" {
		cfg.ServerURL = v
	}
	if v := os.Getenv("SHIFTKEEPER_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("SHIFTKEEPER_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for values the engine cannot work with.
func (c *ClientConfig) Validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("server_url is required")
	}
	if c.DBPath == "" {
		return fmt.Errorf("db_path is required")
	}
	if c.Retry.Attempts < 1 {
		return fmt.Errorf("retry.attempts must be at least 1")
	}
	if c.Retry.BaseDelay < 0 {
		return fmt.Errorf("retry.base_delay must not be negative")
	}
	if c.Queue.MaxRetries < 1 {
		return fmt.Errorf("queue.max_retries must be at least 1")
	}
	if c.Sync.ConflictWindow <= 0 {
		return fmt.Errorf("sync.conflict_window must be positive")
	}
	switch c.Sync.DeleteEditPolicy {
	case DeleteEditPolicyEditWins, DeleteEditPolicyManual:
	default:
		return fmt.Errorf("sync.delete_edit_policy must be %q or %q", DeleteEditPolicyEditWins, DeleteEditPolicyManual)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}
