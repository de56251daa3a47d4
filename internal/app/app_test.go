package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prompt-studio/internal/app"
	"prompt-studio/internal/config"
)

func TestNewLoggerLevels(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		level   string
		enabled slog.Level
		hidden  slog.Level
	}{
		{level: "debug", enabled: slog.LevelDebug, hidden: slog.LevelDebug - 1},
		{level: "info", enabled: slog.LevelInfo, hidden: slog.LevelDebug},
		{level: "WARN", enabled: slog.LevelWarn, hidden: slog.LevelInfo},
		{level: "error", enabled: slog.LevelError, hidden: slog.LevelWarn},
		{level: "bogus", enabled: slog.LevelInfo, hidden: slog.LevelDebug},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.level, func(t *testing.T) {
			t.Parallel()

			logger := app.NewLogger(&bytes.Buffer{}, tc.level)
			assert.True(t, logger.Enabled(context.Background(), tc.enabled))
			assert.False(t, logger.Enabled(context.Background(), tc.hidden))
		})
	}
}

func TestNewLoggerWritesJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	app.NewLogger(&buf, "info").Info("prompt generated", "framework", "cinematic")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "prompt generated", line["msg"])
	assert.Equal(t, "cinematic", line["framework"])
}

func TestImageLimiter(t *testing.T) {
	t.Parallel()

	assert.Nil(t, app.ImageLimiter(0))

	lim := app.ImageLimiter(6)
	require.NotNil(t, lim)
	assert.Equal(t, 6, lim.Burst())
	assert.InDelta(t, 0.1, float64(lim.Limit()), 1e-9)
}

func TestNewWiresServices(t *testing.T) {
	t.Parallel()

	cfg := config.Config{
		GeminiAPIKey: "k",
		HTTPTimeout:  time.Second,
		Settings:     config.DefaultSettings(),
	}
	a := app.New(cfg, nil)

	require.NotNil(t, a.Studio)
	require.NotNil(t, a.Gemini)
	require.NotNil(t, a.HTTPClient)
	assert.Equal(t, time.Second, a.HTTPClient.Timeout)
	assert.NotNil(t, a.Logger)
}
