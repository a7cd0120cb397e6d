package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sales-record-engine/internal/config"
)

func TestNewLogger_Levels(t *testing.T) {
	testCases := []struct {
		name              string
		logLevel          string
		expectedSlogLevel slog.Level
	}{
		{"DebugLevel", "debug", slog.LevelDebug},
		{"InfoLevel", "info", slog.LevelInfo},
		{"WarnLevel", "WARN", slog.LevelWarn},
		{"ErrorLevel", "error", slog.LevelError},
		{"DefaultToInfo", "unknown", slog.LevelInfo},
		{"EmptyToInfo", "", slog.LevelInfo},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &config.Config{Logging: config.LoggingConfig{Level: tc.logLevel}}

			logger := newLogger(&bytes.Buffer{}, cfg)
			require.NotNil(t, logger)

			ctx := context.Background()
			assert.True(t, logger.Enabled(ctx, tc.expectedSlogLevel))
			if tc.expectedSlogLevel > slog.LevelDebug {
				assert.False(t, logger.Enabled(ctx, tc.expectedSlogLevel-4), "level below %s should be disabled", tc.expectedSlogLevel)
			}
		})
	}
}

func TestNewLogger_HandlerByEnvironment(t *testing.T) {
	t.Run("ProductionWritesJSON", func(t *testing.T) {
		var buf bytes.Buffer
		cfg := &config.Config{
			Application: config.ApplicationConfig{Env: "production", Name: "sales-record-engine"},
			Logging:     config.LoggingConfig{Level: "info"},
		}

		newLogger(&buf, cfg)

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "logger initialized", line["msg"])
		assert.Equal(t, "sales-record-engine", line["app"])
	})

	t.Run("DevelopmentWritesText", func(t *testing.T) {
		var buf bytes.Buffer
		cfg := &config.Config{
			Application: config.ApplicationConfig{Env: "development", Name: "dev"},
			Logging:     config.LoggingConfig{Level: "info"},
		}

		newLogger(&buf, cfg)

		assert.Contains(t, buf.String(), `msg="logger initialized"`)
		assert.Contains(t, buf.String(), "app=dev")
	})
}
