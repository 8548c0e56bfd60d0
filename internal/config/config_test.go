package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_DATA_HOME", dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)
	cfg, err := Load(LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, BackendSQLite, cfg.Backend)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 30*24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "dev", cfg.Log.Mode)
	assert.True(t, cfg.Log.Redact)
	assert.Equal(t, 30*time.Second, cfg.LLM.Timeout)
	assert.Empty(t, cfg.LLM.Provider)
}

func TestLoadEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("ECOQUEST_BACKEND", "redis")
	t.Setenv("ECOQUEST_REDIS_ADDR", "cache:6380")
	t.Setenv("ECOQUEST_AUTH_TOKEN_TTL", "2h")
	t.Setenv("ECOQUEST_LLM_PROVIDER", "gemini")
	t.Setenv("ECOQUEST_LLM_GEMINI_API_KEY", "g-key")

	cfg, err := Load(LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, BackendRedis, cfg.Backend)
	assert.Equal(t, "cache:6380", cfg.Redis.Addr)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "g-key", cfg.LLM.Gemini.APIKey)
}

func TestLoadDiscoveredFile(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "ecoquest"), 0o755))
	yaml := "backend: memory\nserver:\n  addr: \":9090\"\n  allowed_origins:\n    - https://eco.example\nlog:\n  mode: prod\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ecoquest", "ecoquest.yaml"), []byte(yaml), 0o644))

	cfg, err := Load(LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.Backend)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, []string{"https://eco.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "prod", cfg.Log.Mode)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	isolate(t)
	_, err := Load(LoadOptions{File: filepath.Join(t.TempDir(), "nope.yaml")})
	assert.Error(t, err)
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("ECOQUEST_DB", "/env/path.db")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("db", "", "")
	fs.String("backend", "", "")
	require.NoError(t, fs.Parse([]string{"--db", "/flag/path.db"}))

	cfg, err := Load(LoadOptions{Flags: fs})
	require.NoError(t, err)
	assert.Equal(t, "/flag/path.db", cfg.DB)
	assert.Equal(t, BackendSQLite, cfg.Backend, "unchanged flags must not override")
}

func TestValidate(t *testing.T) {
	isolate(t)
	t.Setenv("ECOQUEST_BACKEND", "postgres")
	_, err := Load(LoadOptions{})
	assert.ErrorContains(t, err, "unknown backend")
}
