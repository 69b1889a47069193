package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "minitasks", cfg.Name)
	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "*", cfg.Server.AllowedOrigin)
	assert.Equal(t, "data/minitasks.db", cfg.Store.DatabasePath)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Server.Port, cfg.Server.Port)
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
server:
  port: "8080"
  allowed_origin: "http://localhost:5173"
store:
  database_path: /tmp/tasks.db
logging:
  level: debug
`)
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "http://localhost:5173", cfg.Server.AllowedOrigin)
	assert.Equal(t, "/tmp/tasks.db", cfg.Store.DatabasePath)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Unset fields keep defaults.
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [broken"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("MINITASKS_ORIGIN", "https://tasks.example.com")
	t.Setenv("MINITASKS_DB", "/var/lib/minitasks/tasks.db")
	t.Setenv("MINITASKS_LOG", "warn")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.Server.Port)
	assert.Equal(t, ":9999", cfg.Addr())
	assert.Equal(t, "https://tasks.example.com", cfg.Server.AllowedOrigin)
	assert.Equal(t, "/var/lib/minitasks/tasks.db", cfg.Store.DatabasePath)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestEnvOverridesWinOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: \"8080\"\n"), 0644))
	t.Setenv("PORT", "7777")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "7777", cfg.Server.Port)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Server.Port = "4000"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "4000", loaded.Server.Port)
}

func TestDurationFallbacks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.ReadTimeout = "not-a-duration"
	cfg.Server.ShutdownTimeout = "30s"

	assert.Equal(t, 10*time.Second, cfg.GetReadTimeout())
	assert.Equal(t, 10*time.Second, cfg.GetWriteTimeout())
	assert.Equal(t, 30*time.Second, cfg.GetShutdownTimeout())
}
