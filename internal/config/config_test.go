package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"CONFIG_FILE", "PORT", "STORAGE", "JWT_SECRET", "ALLOWED_ORIGINS",
		"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE",
		"AI_PROVIDER", "AI_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY", "AI_MODEL",
		"AI_BASE_URL", "AI_TIMEOUT_SEC", "AI_RPM", "LOG_LEVEL", "LOG_FILE",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_EnvDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DB_PORT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, "gemini", cfg.AI.Provider)
	assert.Equal(t, "gemini-2.0-flash", cfg.AI.Model)
	assert.Empty(t, cfg.AI.APIKey)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
}

func TestLoad_RequiresSecret(t *testing.T) {
	clearEnv(t)

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9000"
jwt_secret: from-file
db:
  host: db.internal
  name: boards
ai:
  provider: openai
  api_key: file-key
log:
  level: debug
`), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "9100")
	t.Setenv("OPENAI_API_KEY", "env-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Port)
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, "openai", cfg.AI.Provider)
	assert.Equal(t, "env-key", cfg.AI.APIKey)
	assert.Equal(t, "gpt-4o-mini", cfg.AI.Model)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Contains(t, cfg.ConnString(), "host=db.internal port=5432")
}

func TestLoad_BadFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	assert.Error(t, err)
}
