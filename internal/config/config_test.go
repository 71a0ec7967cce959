package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
env: local
http_server:
  address: "localhost:5001"
storage:
  driver: sqlite
  dsn: ":memory:"
webhook:
  url: "https://script.google.com/macros/s/YOUR_DEPLOYMENT_ID/exec"
session:
  secret: "test-secret"
`

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()

	path := filepath.Join(dir, "local.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, t.TempDir(), sampleConfig)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "localhost:5001", cfg.Address)
	assert.Equal(t, 30*time.Second, cfg.HTTPServer.Timeout)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, "cnc_session", cfg.Session.Name)
	assert.Contains(t, cfg.Webhook.URL, "YOUR_DEPLOYMENT_ID")
}

func TestLoad_MissingSecret(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "env: local\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, sampleConfig)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *Config, 4)
	err := Watch(ctx, slog.Default(), path, func(cfg *Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})
	require.NoError(t, err)

	updated := sampleConfig + "\n" + `cors:
  allowed_origins: ["http://floor.local"]
`
	updated = strings.Replace(updated, "https://script.google.com/macros/s/YOUR_DEPLOYMENT_ID/exec", "https://example.com/hook", 1)
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o644))

	select {
	case cfg := <-reloaded:
		assert.Equal(t, "https://example.com/hook", cfg.Webhook.URL)
	case <-time.After(5 * time.Second):
		t.Fatal("config was not reloaded")
	}
}
