package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadClientConfig_Defaults(t *testing.T) {
	cfg, err := LoadClientConfig("")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.ServerURL)
	assert.Equal(t, 3, cfg.Retry.Attempts)
	assert.Equal(t, time.Second, cfg.Retry.BaseDelay)
	assert.Equal(t, 3, cfg.Queue.MaxRetries)
	assert.Equal(t, 5*time.Minute, cfg.Sync.ConflictWindow)
	assert.Equal(t, DeleteEditPolicyEditWins, cfg.Sync.DeleteEditPolicy)
}

func TestLoadClientConfig_FileAndEnv(t *testing.T) {
	path := writeFile(t, `
server_url: https://shifts.example.com
db_path: /tmp/shifts.db
sync:
  debounce: 500ms
  delete_edit_policy: manual
retry:
  base_delay: 250ms
realtime:
  enabled: false
`)
	t.Setenv("SHIFTKEEPER_DB_PATH", "/var/lib/shifts.db")

	cfg, err := LoadClientConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://shifts.example.com", cfg.ServerURL)
	assert.Equal(t, "/var/lib/shifts.db", cfg.DBPath)
	assert.Equal(t, 500*time.Millisecond, cfg.Sync.Debounce)
	assert.Equal(t, DeleteEditPolicyManual, cfg.Sync.DeleteEditPolicy)
	assert.Equal(t, 250*time.Millisecond, cfg.Retry.BaseDelay)
	assert.False(t, cfg.Realtime.Enabled)
	// не указанные в файле значения остаются по умолчанию
	assert.Equal(t, 3, cfg.Retry.Attempts)
}

func TestLoadClientConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{name: "bad policy", content: "sync:\n  delete_edit_policy: tombstone\n", errMsg: "delete_edit_policy"},
		{name: "zero attempts", content: "retry:\n  attempts: 0\n", errMsg: "retry.attempts"},
		{name: "bad level", content: "log_level: loud\n", errMsg: "log_level"},
		{name: "broken yaml", content: "sync: [", errMsg: "failed to parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadClientConfig(writeFile(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoadServerConfig(t *testing.T) {
	_, err := LoadServerConfig("")
	require.Error(t, err, "secret is required")

	t.Setenv("SHIFTKEEPER_JWT_SECRET", "0123456789abcdef0123")
	cfg, err := LoadServerConfig(writeFile(t, "addr: 127.0.0.1:9090\naccess_token_ttl: 1h\n"))
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9090", cfg.Addr)
	assert.Equal(t, time.Hour, cfg.AccessTokenTTL)
	assert.Equal(t, 20, cfg.AuthRateLimit.Requests)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "warn", "json")

	logger.Info("hidden")
	logger.Warn("visible", "key", "value")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"key":"value"`)
}
