package config

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.False(t, cfg.Tracing.Enabled)
	assert.Equal(t, 120, cfg.RateLimit.MutationsPerMinute)
	assert.Empty(t, cfg.Seed.Path)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.False(t, cfg.CORS.AllowAllOrigins)
	assert.Empty(t, cfg.CORS.AllowedOrigins)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "console")
	t.Setenv("SEED_PATH", "/etc/campus/seed.yaml")
	t.Setenv("RATE_LIMIT_MUTATIONS", "0")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://campus.example.edu,http://localhost:5173")
	t.Setenv("SERVER_SHUTDOWN_TIMEOUT", "3s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, "/etc/campus/seed.yaml", cfg.Seed.Path)
	assert.Equal(t, 0, cfg.RateLimit.MutationsPerMinute)
	assert.Equal(t, []string{"https://campus.example.edu", "http://localhost:5173"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		message string
	}{
		{"port out of range", "SERVER_PORT", "70000", "SERVER_PORT"},
		{"unknown log format", "LOG_FORMAT", "xml", "LOG_FORMAT"},
		{"sample rate too high", "TRACING_SAMPLE_RATE", "1.5", "TRACING_SAMPLE_RATE"},
		{"negative rate limit", "RATE_LIMIT_MUTATIONS", "-1", "RATE_LIMIT_MUTATIONS"},
		{"non numeric port", "SERVER_PORT", "abc", "Port"},
		{"zero shutdown timeout", "SERVER_SHUTDOWN_TIMEOUT", "0s", "SERVER_SHUTDOWN_TIMEOUT"},
		{"base url with path", "SERVER_BASE_URL", "https://campus.example.edu/api", "SERVER_BASE_URL"},
		{"origin without scheme", "CORS_ALLOWED_ORIGINS", "campus.example.edu", "CORS_ALLOWED_ORIGINS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestNewLoggerTo_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, LoggingConfig{Level: "warn", Format: "json"})

	logger.Info().Msg("dropped")
	logger.Warn().Str("event_id", "event1").Msg("kept")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "kept", entry["message"])
	assert.Equal(t, "event1", entry["event_id"])
	assert.Equal(t, "campus-events", entry["service"])
}

func TestNewLoggerTo_UnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, LoggingConfig{Level: "loud"})

	logger.Debug().Msg("hidden")
	logger.Info().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
