package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"APP_PORT", "GO_ENV", "LOG_FILE_PATH", "CORS_ALLOWED_ORIGINS", "SESSION_TTL_MINUTES",
		"NATS_URL", "REDIS_URL", "ANALYSIS_DELAY_MS", "OTEL_ENABLED", "OTEL_EXPORTER_OTLP_ENDPOINT",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := Load()

	assert.Equal(t, "3000", cfg.App.Port)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "logs/app.log", cfg.App.LogFilePath)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, 60*time.Minute, cfg.App.SessionTTL)
	assert.Equal(t, 3*time.Second, cfg.Analysis.Delay)
	assert.False(t, cfg.Telemetry.Enabled)
	assert.Empty(t, cfg.Messaging.NatsURL)
	assert.Empty(t, cfg.Messaging.RedisURL)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("APP_PORT", "8080")
	t.Setenv("GO_ENV", "production")
	t.Setenv("SESSION_TTL_MINUTES", "5")
	t.Setenv("ANALYSIS_DELAY_MS", "0")
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("NATS_URL", "nats://localhost:4222")

	cfg := Load()

	assert.Equal(t, "8080", cfg.App.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 5*time.Minute, cfg.App.SessionTTL)
	assert.Equal(t, time.Duration(0), cfg.Analysis.Delay)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "nats://localhost:4222", cfg.Messaging.NatsURL)
}

func TestGetEnvAsDuration(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{"milliseconds", "250", 250 * time.Millisecond},
		{"zero", "0", 0},
		{"negative falls back", "-1", time.Second},
		{"garbage falls back", "soon", time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_DELAY_MS", tt.value)
			assert.Equal(t, tt.want, getEnvAsDuration("TEST_DELAY_MS", time.Millisecond, time.Second))
		})
	}
}
