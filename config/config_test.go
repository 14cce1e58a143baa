package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	cfg, err := fromViper(newViper())
	require.NoError(t, err)

	assert.Equal(t, "10000", cfg.Port)
	assert.Equal(t, "infinity", cfg.MongoDB)
	assert.Equal(t, 168*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 5*time.Minute, cfg.ProfileCacheTTL)
	assert.Equal(t, "local", cfg.StorageDriver)
	assert.Equal(t, 90*24*time.Hour, cfg.AnalyticsRetention)
	assert.Equal(t, 10, cfg.AuthRatePerMinute)
	assert.Empty(t, cfg.RedisAddr)
	assert.False(t, cfg.IsProduction())
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("PORT", "8080")
	t.Setenv("APP_ENV", "production")
	t.Setenv("STORAGE_DRIVER", "S3")
	t.Setenv("ANALYTICS_RETENTION_DAYS", "30")
	t.Setenv("PROFANITY_WORDS", " darn, heck ,,")

	cfg, err := fromViper(newViper())
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "s3", cfg.StorageDriver)
	assert.Equal(t, 30*24*time.Hour, cfg.AnalyticsRetention)
	assert.Equal(t, []string{"darn", "heck"}, cfg.ProfanityWords)
}

func TestSecretIsRequired(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := fromViper(newViper())
	assert.ErrorIs(t, err, ErrMissingSecret)
}
