// Package app wires configuration into the clients and services shared by the
// bot, web and CLI binaries.
package app

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"prompt-studio/internal/config"
	"prompt-studio/internal/gemini"
	"prompt-studio/internal/httpclient"
	"prompt-studio/internal/studio"
)

type App struct {
	Config     config.Config
	Logger     *slog.Logger
	HTTPClient *http.Client
	Gemini     *gemini.Client
	Studio     *studio.Service
}

func New(cfg config.Config, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	hc := httpclient.New(httpclient.Options{
		PreferIPv4: cfg.PreferIPv4,
		Timeout:    cfg.HTTPTimeout,
	})

	gem := gemini.New(gemini.Options{
		APIKey:       cfg.GeminiAPIKey,
		BaseURL:      cfg.GeminiBaseURL,
		APIVersion:   cfg.GeminiAPIVersion,
		TextModel:    cfg.Settings.Models.Text,
		ImageModel:   cfg.Settings.Models.Image,
		VideoModel:   cfg.Settings.Models.Video,
		HTTPClient:   hc,
		Logger:       logger,
		ImageLimiter: ImageLimiter(cfg.Settings.Limits.ImageRequestsPerMinute),
	})

	svc := studio.New(studio.Options{
		Backend:    gem,
		Generation: cfg.Settings.Generation,
		Limits:     cfg.Settings.Limits,
		Logger:     logger,
	})

	return &App{
		Config:     cfg,
		Logger:     logger,
		HTTPClient: hc,
		Gemini:     gem,
		Studio:     svc,
	}
}

// ImageLimiter allows perMinute image calls per minute with a burst of one
// minute's quota. Zero disables pacing.
func ImageLimiter(perMinute int) *rate.Limiter {
	if perMinute <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
}
