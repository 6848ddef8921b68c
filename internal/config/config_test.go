package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "courtbook.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/api", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Timeout())
	assert.Equal(t, "file", cfg.Session.Store)
	assert.NotEmpty(t, cfg.Session.Path)
	assert.Equal(t, 1500*time.Millisecond, cfg.LoginRedirectDelay())
	assert.Equal(t, 5, cfg.Console.PageSize)
	assert.Zero(t, cfg.BookingMaxAdvance())
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("COURTBOOK_TEST_API", "https://courts.example.com/api")
	path := writeConfig(t, `
api:
  base_url: ${COURTBOOK_TEST_API}
  timeout_seconds: 3
session:
  store: Redis
  path: /tmp/tok
redis:
  address: localhost:6379
booking:
  min_advance_minutes: 15
  max_advance_days: 14
console:
  login_redirect_delay_ms: -1
  timezone: Europe/Vilnius
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://courts.example.com/api", cfg.API.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Timeout())
	assert.Equal(t, "redis", cfg.Session.Store)
	assert.Equal(t, 15*time.Minute, cfg.BookingMinAdvance())
	assert.Equal(t, 14*24*time.Hour, cfg.BookingMaxAdvance())
	assert.Zero(t, cfg.LoginRedirectDelay())

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Vilnius", loc.String())
}

func TestLoadUsesEnvPath(t *testing.T) {
	path := writeConfig(t, "api:\n  base_url: http://env-path/api\n")
	t.Setenv("COURTBOOK_CONFIG_PATH", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://env-path/api", cfg.API.BaseURL)
}

func TestLoadRejectsBadSettings(t *testing.T) {
	tests := map[string]string{
		"unknown store":      "session:\n  store: cookie\n",
		"redis without addr": "session:\n  store: redis\n",
		"bad timezone":       "console:\n  timezone: Mars/Olympus\n",
		"malformed yaml":     "api: [\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}
