package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Raj051299/cms-mobile-app/internal/config"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := config.FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "sqlite", cfg.Store)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
	assert.Equal(t, time.UTC, cfg.ReportLocation())
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("CMS_ENV", "PROD")
	t.Setenv("CMS_STORE", "memory")
	t.Setenv("CMS_SESSION_TTL", "30m")
	t.Setenv("CMS_LOGIN_RATE_PER_MIN", "3")
	t.Setenv("CMS_REPORT_TZ", "America/New_York")

	cfg, err := config.FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "memory", cfg.Store)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 3, cfg.LoginRatePerMinute)
	assert.Equal(t, "America/New_York", cfg.ReportLocation().String())
}

func TestFromEnv_UnknownValuesFailSoft(t *testing.T) {
	t.Setenv("CMS_ENV", "staging")
	t.Setenv("CMS_STORE", "mongo")
	t.Setenv("CMS_REPORT_TZ", "Not/AZone")

	cfg, err := config.FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "sqlite", cfg.Store)
	assert.Equal(t, time.UTC, cfg.ReportLocation())
}

func TestFromEnv_BadDuration(t *testing.T) {
	t.Setenv("CMS_SESSION_TTL", "forever")

	_, err := config.FromEnv()
	require.Error(t, err)
}
