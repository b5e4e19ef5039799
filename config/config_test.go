package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("JWT_SECRET", "  s3cret ")

	cfg := LoadConfig()

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.False(t, cfg.Database.UseSSL)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.False(t, cfg.PublicTopics)
	assert.Empty(t, cfg.Storage.Backend)
	assert.Empty(t, cfg.MQ.Backend)
	assert.Equal(t, "ncnews.events", cfg.MQ.Channel)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "18080")
	t.Setenv("DB_DRIVER", "pgx")
	t.Setenv("DB_USE_SSL", "true")
	t.Setenv("JWT_TTL", "90m")
	t.Setenv("PUBLIC_TOPICS", "1")
	t.Setenv("STORAGE_BACKEND", "MinIO")
	t.Setenv("STORAGE_PUBLIC_URL", "http://cdn.local/")

	cfg := LoadConfig()

	assert.Equal(t, 18080, cfg.ServerPort)
	assert.Equal(t, "pgx", cfg.Database.Driver)
	assert.True(t, cfg.Database.UseSSL)
	assert.Equal(t, 90*time.Minute, cfg.Auth.TokenTTL)
	assert.True(t, cfg.PublicTopics)
	assert.Equal(t, "minio", cfg.Storage.Backend)
	assert.Equal(t, "http://cdn.local", cfg.Storage.PublicURL)
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("JWT_TTL", "forever")
	t.Setenv("PUBLIC_TOPICS", "maybe")

	cfg := LoadConfig()

	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.False(t, cfg.PublicTopics)
}
