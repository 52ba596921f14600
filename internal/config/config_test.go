package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/casebot/internal/config"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.DatabasePath)
	assert.NotEmpty(t, cfg.Actor)
	assert.Equal(t, "http://localhost:8090", cfg.Gateway.BaseURL)
	assert.Equal(t, 24*time.Hour, cfg.Window())
	assert.Equal(t, 5*time.Minute, cfg.PollInterval())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
database_path: /tmp/cases.db
actor: paralegal
gateway:
  base_url: https://gateway.internal:9443
channels:
  notifications: chan-notify
  case_forum: chan-cases
  contact_forum: chan-contacts
tasks:
  due_soon_hours: 48
  poll_interval_min: 10
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/cases.db", cfg.DatabasePath)
	assert.Equal(t, "paralegal", cfg.Actor)
	assert.Equal(t, "https://gateway.internal:9443", cfg.Gateway.BaseURL)
	assert.Equal(t, "chan-notify", cfg.Channels.Notifications)
	assert.Equal(t, "chan-cases", cfg.Channels.CaseForum)
	assert.Equal(t, "chan-contacts", cfg.Channels.ContactForum)
	assert.Equal(t, 48*time.Hour, cfg.Window())
	assert.Equal(t, 10*time.Minute, cfg.PollInterval())
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("actor: paralegal\n"), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "paralegal", cfg.Actor)
	assert.Equal(t, 24*time.Hour, cfg.Window())
	assert.Equal(t, 5*time.Minute, cfg.PollInterval())
}
