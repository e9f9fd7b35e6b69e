package config_test

import (
	"testing"
	"time"

	"civicreport/backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := config.Load()

	assert.Error(t, err)
}

func TestRead_DoesNotNeedJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	cfg, err := config.Read()

	require.NoError(t, err)
	assert.Equal(t, config.DefaultTokenTTL, cfg.TokenTTL)
}

func TestLoad_DefaultsAndOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("TOKEN_TTL", "1h")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.DBHost)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Contains(t, cfg.DSN(), "host=db.internal")
	assert.Contains(t, cfg.DSN(), "TimeZone=Europe/Rome")
}

func TestRead_AllowedOrigins(t *testing.T) {
	t.Setenv("WS_ALLOWED_ORIGINS", " https://app.example.com, ,https://admin.example.com ")

	cfg, err := config.Read()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.AllowedOrigins)

	t.Setenv("WS_ALLOWED_ORIGINS", "")
	cfg, err = config.Read()
	require.NoError(t, err)
	assert.Empty(t, cfg.AllowedOrigins)
}

func TestLoad_RejectsBadRedisDB(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("REDIS_DB", "two")

	_, err := config.Load()

	assert.Error(t, err)
}

func TestServiceArea_IsClosedEnough(t *testing.T) {
	assert.GreaterOrEqual(t, len(config.ServiceArea), 3, "a polygon needs at least three vertices")
	assert.Equal(t, 1, config.MinReportImages)
	assert.Equal(t, 3, config.MaxReportImages)
}
