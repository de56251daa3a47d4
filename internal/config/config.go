package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const defaultMaxImageBytes = 5 * 1024 * 1024

type Config struct {
	TelegramToken string
	GeminiAPIKey  string

	LogLevel string
	Debug    bool

	PreferIPv4 bool

	WebAddr          string
	MaxConcurrent    int
	RequestTimeout   time.Duration
	HTTPTimeout      time.Duration
	GeminiBaseURL    string
	GeminiAPIVersion string

	SettingsFile string
	Settings     Settings
}

// Settings is the optional TOML file named by STUDIO_CONFIG.
type Settings struct {
	Models     ModelSettings      `toml:"models"`
	Generation GenerationSettings `toml:"generation"`
	Limits     LimitSettings      `toml:"limits"`
}

type ModelSettings struct {
	Text  string `toml:"text"`
	Image string `toml:"image"`
	Video string `toml:"video"`
}

// GenerationSettings override the per-framework sampling when non-zero.
type GenerationSettings struct {
	Temperature float64 `toml:"temperature"`
	TopP        float64 `toml:"top_p"`
}

type LimitSettings struct {
	VideoPollSeconds       int `toml:"video_poll_seconds"`
	ImageRequestsPerMinute int `toml:"image_requests_per_minute"`
	StoryboardConcurrency  int `toml:"storyboard_concurrency"`
	ResultTTLMinutes       int `toml:"result_ttl_minutes"`
	MaxImageBytes          int `toml:"max_image_bytes"`
}

func (l LimitSettings) VideoPollInterval() time.Duration {
	return time.Duration(l.VideoPollSeconds) * time.Second
}

func (l LimitSettings) ResultTTL() time.Duration {
	return time.Duration(l.ResultTTLMinutes) * time.Minute
}

func Load() (Config, error) {
	cfg := Config{
		LogLevel:         strings.ToLower(strings.TrimSpace(getEnv("LOG_LEVEL", "info"))),
		Debug:            getEnvBool("DEBUG", false),
		PreferIPv4:       getEnvBool("PREFER_IPV4", true),
		WebAddr:          getEnv("WEB_ADDR", ":8080"),
		MaxConcurrent:    getEnvInt("MAX_CONCURRENT", 4),
		RequestTimeout:   time.Duration(getEnvInt("REQUEST_TIMEOUT_SECONDS", 180)) * time.Second,
		HTTPTimeout:      time.Duration(getEnvInt("HTTP_TIMEOUT_SECONDS", 180)) * time.Second,
		GeminiBaseURL:    strings.TrimSpace(getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com")),
		GeminiAPIVersion: strings.TrimSpace(getEnv("GEMINI_API_VERSION", "v1beta")),
		SettingsFile:     strings.TrimSpace(os.Getenv("STUDIO_CONFIG")),
		Settings:         DefaultSettings(),
	}

	cfg.TelegramToken = strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN"))
	cfg.GeminiAPIKey = strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))

	if cfg.GeminiAPIKey == "" {
		return Config{}, errors.New("GEMINI_API_KEY is required")
	}

	if cfg.SettingsFile != "" {
		settings, err := LoadSettings(cfg.SettingsFile)
		if err != nil {
			return Config{}, err
		}
		cfg.Settings = settings
	}

	if cfg.MaxConcurrent < 1 {
		cfg.MaxConcurrent = 1
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 180 * time.Second
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 180 * time.Second
	}

	return cfg, nil
}

// RequireTelegram is checked by the bot only; the web and CLI front ends run
// without a token.
func (c Config) RequireTelegram() error {
	if c.TelegramToken == "" {
		return errors.New("TELEGRAM_BOT_TOKEN is required")
	}
	return nil
}

func DefaultSettings() Settings {
	return Settings{
		Generation: GenerationSettings{},
		Limits: LimitSettings{
			VideoPollSeconds:       10,
			ImageRequestsPerMinute: 10,
			StoryboardConcurrency:  3,
			ResultTTLMinutes:       120,
			MaxImageBytes:          defaultMaxImageBytes,
		},
	}
}

// LoadSettings decodes path over DefaultSettings, so absent keys keep their
// defaults.
func LoadSettings(path string) (Settings, error) {
	file, err := os.Open(path)
	if err != nil {
		return Settings{}, fmt.Errorf("open settings file %q: %w", path, err)
	}
	defer file.Close()

	settings := DefaultSettings()
	decoder := toml.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&settings); err != nil {
		return Settings{}, fmt.Errorf("decode settings file %q: %w", path, err)
	}

	if err := settings.validate(); err != nil {
		return Settings{}, fmt.Errorf("settings file %q: %w", path, err)
	}
	return settings, nil
}

func (s Settings) validate() error {
	switch {
	case s.Generation.Temperature < 0 || s.Generation.Temperature > 2:
		return fmt.Errorf("generation.temperature %v out of range [0, 2]", s.Generation.Temperature)
	case s.Generation.TopP < 0 || s.Generation.TopP > 1:
		return fmt.Errorf("generation.top_p %v out of range [0, 1]", s.Generation.TopP)
	case s.Limits.VideoPollSeconds < 1:
		return errors.New("limits.video_poll_seconds must be positive")
	case s.Limits.ImageRequestsPerMinute < 0:
		return errors.New("limits.image_requests_per_minute must not be negative")
	case s.Limits.StoryboardConcurrency < 1:
		return errors.New("limits.storyboard_concurrency must be positive")
	case s.Limits.ResultTTLMinutes < 1:
		return errors.New("limits.result_ttl_minutes must be positive")
	case s.Limits.MaxImageBytes < 1:
		return errors.New("limits.max_image_bytes must be positive")
	}
	return nil
}

// Sampling returns the configured override or the given framework defaults.
func (g GenerationSettings) Sampling(temperature, topP float64) (float64, float64) {
	if g.Temperature > 0 {
		temperature = g.Temperature
	}
	if g.TopP > 0 {
		topP = g.TopP
	}
	return temperature, topP
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
