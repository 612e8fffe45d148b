package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
storage:
  database_path: /tmp/budgets.db
server:
  port: 9090
  allowed_origins:
    - https://budget.example.com
observability:
  logging:
    level: debug
    format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/budgets.db", cfg.Storage.DatabasePath)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"https://budget.example.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "debug", cfg.Observability.Logging.Level)
	assert.Equal(t, "json", cfg.Observability.Logging.Format)
}

func TestLoad_ExpandsEnvVars(t *testing.T) {
	t.Setenv("TEST_BUDGET_DB", "/data/expanded.db")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "storage:\n  database_path: ${TEST_BUDGET_DB}\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/expanded.db", cfg.Storage.DatabasePath)
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "brandbudget.db", cfg.Storage.DatabasePath)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.NotEmpty(t, cfg.Server.AllowedOrigins)
	assert.Equal(t, "info", cfg.Observability.Logging.Level)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("BUDGET_DB_PATH", "/env/budget.db")
	t.Setenv("BUDGET_API_PORT", "7070")
	t.Setenv("BUDGET_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg := LoadFromEnv()

	assert.Equal(t, "/env/budget.db", cfg.Storage.DatabasePath)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.Server.AllowedOrigins)
}

func TestLoadOrEnvWithPath_FallsBack(t *testing.T) {
	cfg := LoadOrEnvWithPath(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.NotNil(t, cfg)
	assert.NotEmpty(t, cfg.Storage.DatabasePath)
}
