package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	assert.Equal(t, 3, cfg.AuthorizationRetries)
	assert.Equal(t, 3, cfg.Analytics.MaxAttempts)
	assert.Equal(t, 5*time.Second, cfg.Analytics.Timeout)
	assert.Empty(t, cfg.Analytics.StreamDriver)
	assert.Empty(t, cfg.Auth.JWTSecret)
	assert.Less(t, cfg.Server.RequestTimeout, cfg.Server.WriteTimeout)
}

func TestLoad_RequestTimeoutStaysBelowWriteTimeout(t *testing.T) {
	t.Run("longer request timeout is clamped", func(t *testing.T) {
		t.Setenv("SERVER_WRITE_TIMEOUT", "30s")
		t.Setenv("SERVER_REQUEST_TIMEOUT", "60s")

		cfg := Load(filepath.Join(t.TempDir(), "missing.env"))

		assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
		assert.Equal(t, 20*time.Second, cfg.Server.RequestTimeout)
	})

	t.Run("shorter request timeout is kept", func(t *testing.T) {
		t.Setenv("SERVER_WRITE_TIMEOUT", "30s")
		t.Setenv("SERVER_REQUEST_TIMEOUT", "25s")

		cfg := Load(filepath.Join(t.TempDir(), "missing.env"))

		assert.Equal(t, 25*time.Second, cfg.Server.RequestTimeout)
	})
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "Postgres")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("ANALYTICS_STREAM_DRIVER", "kafka")
	t.Setenv("AUTHORIZATION_RETRIES", "5")
	t.Setenv("ANALYTICS_BACKOFF", "2s")

	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))

	assert.Equal(t, StoragePostgres, cfg.Storage)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Analytics.KafkaBrokers)
	assert.Equal(t, StreamKafka, cfg.Analytics.StreamDriver)
	assert.Equal(t, 5, cfg.AuthorizationRetries)
	assert.Equal(t, 2*time.Second, cfg.Analytics.Backoff)
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("BI_PUSH_URL=http://bi.local/push\nJWT_SECRET_KEY=s3cret\n"), 0o600))

	cfg := Load(path)

	assert.Equal(t, "http://bi.local/push", cfg.Analytics.BIPushURL)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
}
