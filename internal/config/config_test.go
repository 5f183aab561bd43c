package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"SERVER_PORT", "DB_DRIVER", "JWT_EXPIRY", "CATALOG_BASE_URL", "CORS_ORIGINS", "REDIS_DB",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "3000", cfg.ServerPort)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, 50*time.Minute, cfg.JWTExpiry)
	assert.Equal(t, "https://swapi.dev/api", cfg.CatalogBaseURL)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, 0, cfg.RedisDB)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("JWT_EXPIRY", "10m")
	t.Setenv("CATALOG_BASE_URL", "http://catalog.local/api/")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("REDIS_DB", "3")

	cfg := Load()

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 10*time.Minute, cfg.JWTExpiry)
	assert.Equal(t, "http://catalog.local/api", cfg.CatalogBaseURL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, 3, cfg.RedisDB)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("JWT_EXPIRY", "soon")
	t.Setenv("REDIS_DB", "two")
	t.Setenv("CATALOG_RATE_LIMIT", "fast")

	cfg := Load()

	assert.Equal(t, 50*time.Minute, cfg.JWTExpiry)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, 5.0, cfg.CatalogRateLimit)
}
