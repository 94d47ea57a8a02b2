package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("ENV", "development")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "savorista", cfg.DBName)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr())
	assert.Equal(t, 10, cfg.RateLimit)
	assert.Equal(t, []string{"https://cuisine-voyage.com"}, cfg.AllowedOrigins)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("DB_NAME", "recettes")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "3")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.ServerPort)
	assert.Equal(t, "recettes", cfg.DBName)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, 3, cfg.RateLimit)
}

func TestSecretFromFile(t *testing.T) {
	dir := t.TempDir()
	keyFile := filepath.Join(dir, "api_key")
	require.NoError(t, os.WriteFile(keyFile, []byte("file-secret\n"), 0o600))

	t.Setenv("ENV", "development")
	t.Setenv("API_KEY", "")
	t.Setenv("API_KEY_FILE", keyFile)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "file-secret", cfg.APIKey, "file content is trimmed")
}

func TestSecretEnvWinsOverFile(t *testing.T) {
	dir := t.TempDir()
	keyFile := filepath.Join(dir, "api_key")
	require.NoError(t, os.WriteFile(keyFile, []byte("file-secret"), 0o600))

	t.Setenv("ENV", "development")
	t.Setenv("API_KEY", "env-secret")
	t.Setenv("API_KEY_FILE", keyFile)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "env-secret", cfg.APIKey)
}

func TestLoadConfigProductionRequiresSecrets(t *testing.T) {
	t.Setenv("CI", "false")
	t.Setenv("ENV", "production")
	t.Setenv("API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("DB_PASSWORD", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API_KEY")
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestInvalidRateLimit(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "beaucoup")

	_, err := LoadConfig()
	assert.Error(t, err)
}
