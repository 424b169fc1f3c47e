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
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"MARKET_PORT", "GIN_MODE", "MARKET_DATABASE_DSN", "MARKET_TOKEN_SECRET",
		"MARKET_ADMIN_USERNAME", "MARKET_ADMIN_PASSWORD_HASH", "MARKET_ALLOWED_ORIGINS",
		"MARKET_REDIS_ADDR", "MARKET_REDIS_DB", "MARKET_LEGACY_EVENTS", "MARKET_PUBLIC_URL",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
app:
  port: 9090
database:
  dsn: "host=db"
session:
  ttl: 12h
  token_secret: s3cret
admin:
  username: root
  password_hash: "$2a$10$abc"
throttle:
  max_failures: 3
  window: 1m
realtime:
  kafka_brokers: ["k1:9092"]
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "host=db", cfg.DSN)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 3, cfg.ThrottleFailures)
	assert.Equal(t, time.Minute, cfg.ThrottleWindow)
	assert.Equal(t, []string{"k1:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "order-events", cfg.KafkaTopic)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 30*time.Second, cfg.PollInterval)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFile_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("MARKET_DATABASE_DSN", "host=override")
	t.Setenv("MARKET_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := LoadFile(writeConfig(t, "database:\n  dsn: host=file\n"))
	require.NoError(t, err)

	assert.Equal(t, "host=override", cfg.DSN)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestLoadFile_Errors(t *testing.T) {
	clearEnv(t)

	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)

	_, err = LoadFile(writeConfig(t, "session:\n  ttl: forever\n"))
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	clearEnv(t)
	cfg := Default()

	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 5, cfg.ThrottleFailures)
	assert.Equal(t, 20, cfg.ReconnectRetries)
	assert.Equal(t, "market:orders", cfg.EventChannel)
	assert.Equal(t, "http://localhost:8080", cfg.PublicURL)
	assert.Error(t, cfg.Validate(), "default config has no DSN or secret")
}
