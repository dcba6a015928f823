package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "/api", cfg.APIPrefix)
	assert.Equal(t, 15*time.Minute, cfg.Scheduler.CacheTTL)
	assert.Equal(t, 64, cfg.Scheduler.MaxCourses)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, RateLimitConfig{Enabled: true, Lightweight: 60, FileProcessing: 20, AI: 10}, cfg.RateLimit)
	assert.Equal(t, "studentools-api", cfg.Telemetry.ServiceName)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ENV", EnvProduction)
	t.Setenv("ALLOWED_ORIGINS", "https://studentools.app, ,http://localhost:3000")
	t.Setenv("TIMETABLE_CACHE_TTL", "not-a-duration")
	t.Setenv("ENABLE_TIMETABLE_CACHE", "true")
	t.Setenv("RATE_LIMIT_AI", "3")
	t.Setenv("FEEDBACK_MAIL_TO", "owner@example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvProduction, cfg.Env)
	assert.Equal(t, []string{"https://studentools.app", "http://localhost:3000"}, cfg.CORS.AllowedOrigins)
	assert.True(t, cfg.Scheduler.CacheEnabled)
	assert.Equal(t, 15*time.Minute, cfg.Scheduler.CacheTTL, "invalid durations fall back")
	assert.Equal(t, 3, cfg.RateLimit.AI)
	assert.Equal(t, "owner@example.com", cfg.Feedback.MailTo)
}
