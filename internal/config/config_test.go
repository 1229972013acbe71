// config_test.go - tests for configuration loading and overrides
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigCreatesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "SlideExplainer.yaml")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.FileExists(t, path)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "./data/uploads", cfg.Storage.InboxDirectory)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	assert.Equal(t, 10, cfg.Explainer.GenerationTimeoutSeconds)

	// The written file must round-trip to the same settings.
	reloaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, reloaded)
}

func TestLoadConfigReadsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 9090
storage:
  inboxDirectory: /srv/inbox
  allowedExtensions: "pptx"
explainer:
  scanIntervalSeconds: 5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "/srv/inbox", cfg.Storage.InboxDirectory)
	assert.Equal(t, 5*time.Second, cfg.ScanInterval())
	// Unset fields keep their defaults.
	assert.Equal(t, "0.0.0.0", cfg.Server.BindAddress)
	assert.Equal(t, "./data/outputs", cfg.Storage.OutboxDirectory)
}

func TestLoadConfigRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a mapping"), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_MODEL", "gpt-4o")
	t.Setenv("EXPLAINER_INBOX_DIR", "/tmp/in")
	t.Setenv("EXPLAINER_OUTBOX_DIR", "/tmp/out")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.OpenAI.APIKey)
	assert.Equal(t, "gpt-4o", cfg.OpenAI.Model)
	assert.Equal(t, "/tmp/in", cfg.Storage.InboxDirectory)
	assert.Equal(t, "/tmp/out", cfg.Storage.OutboxDirectory)
}

func TestAPIKeyNeverWrittenToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := DefaultConfig()
	cfg.OpenAI.APIKey = "sk-secret"
	require.NoError(t, cfg.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "sk-secret")
}

func TestAllowedExtensionSet(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.AllowedExtensions = " .PPTX , ppt,, pdf "

	set := cfg.AllowedExtensionSet()
	assert.Equal(t, map[string]bool{"pptx": true, "ppt": true, "pdf": true}, set)
}

func TestDurationHelpers(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 10*time.Second, cfg.GenerationTimeout())
	assert.Equal(t, 60*time.Second, cfg.RateLimitCooldown())
	assert.Equal(t, time.Second, cfg.SubmitDelay())
	assert.Equal(t, 10*time.Second, cfg.ScanInterval())
	assert.Equal(t, "0.0.0.0:8080", cfg.GetServerAddr())
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := DefaultConfig()
	cfg.Storage.InboxDirectory = filepath.Join(base, "in")
	cfg.Storage.OutboxDirectory = filepath.Join(base, "out", "nested")

	require.NoError(t, cfg.EnsureDirectories())
	assert.DirExists(t, cfg.Storage.InboxDirectory)
	assert.DirExists(t, cfg.Storage.OutboxDirectory)
}
