package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prompt-studio/internal/config"
)

func writeSettings(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "studio.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadRequiresAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("STUDIO_CONFIG", "")
	t.Setenv("MAX_CONCURRENT", "0")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "not-a-number")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "key", cfg.GeminiAPIKey)
	assert.Equal(t, ":8080", cfg.WebAddr)
	assert.Equal(t, 1, cfg.MaxConcurrent)
	assert.Equal(t, 180*time.Second, cfg.RequestTimeout)
	assert.Equal(t, config.DefaultSettings(), cfg.Settings)
	assert.Error(t, cfg.RequireTelegram())
}

func TestLoadReadsSettingsFile(t *testing.T) {
	path := writeSettings(t, `
[models]
text = "gemini-2.5-pro"

[limits]
video_poll_seconds = 5
`)
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("STUDIO_CONFIG", path)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.NoError(t, cfg.RequireTelegram())
	assert.Equal(t, "gemini-2.5-pro", cfg.Settings.Models.Text)
	assert.Equal(t, 5*time.Second, cfg.Settings.Limits.VideoPollInterval())
	assert.Equal(t, 3, cfg.Settings.Limits.StoryboardConcurrency)
	assert.Equal(t, 5*1024*1024, cfg.Settings.Limits.MaxImageBytes)
}

func TestLoadSettingsErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		body string
	}{
		{name: "malformed", body: "[limits\n"},
		{name: "unknown key", body: "[limits]\nbogus = 1\n"},
		{name: "zero poll interval", body: "[limits]\nvideo_poll_seconds = 0\n"},
		{name: "top_p out of range", body: "[generation]\ntop_p = 1.5\n"},
		{name: "zero concurrency", body: "[limits]\nstoryboard_concurrency = 0\n"},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			_, err := config.LoadSettings(writeSettings(t, testCase.body))
			require.Error(t, err)
		})
	}

	_, err := config.LoadSettings(filepath.Join(t.TempDir(), "missing.toml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestSampling(t *testing.T) {
	t.Parallel()

	temp, topP := config.GenerationSettings{}.Sampling(0.8, 0.95)
	assert.InDelta(t, 0.8, temp, 1e-9)
	assert.InDelta(t, 0.95, topP, 1e-9)

	temp, topP = config.GenerationSettings{Temperature: 0.3, TopP: 0.5}.Sampling(0.8, 0.95)
	assert.InDelta(t, 0.3, temp, 1e-9)
	assert.InDelta(t, 0.5, topP, 1e-9)
}
