package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"prompt-studio/internal/app"
	"prompt-studio/internal/config"
	"prompt-studio/internal/handlers"
	"prompt-studio/internal/session"
	"prompt-studio/internal/telegram"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := cfg.RequireTelegram(); err != nil {
		panic(err)
	}

	logger := app.NewLogger(os.Stdout, cfg.LogLevel)
	a := app.New(cfg, logger)

	tg, err := telegram.New(telegram.Options{
		Token:      cfg.TelegramToken,
		HTTPClient: a.HTTPClient,
		Logger:     logger,
		Debug:      cfg.Debug,
	})
	if err != nil {
		logger.Error("telegram init failed", "err", err)
		os.Exit(1)
	}

	handler := handlers.New(handlers.Options{
		Telegram:       tg,
		Studio:         a.Studio,
		Sessions:       session.NewStore(),
		Videos:         a.Gemini,
		Logger:         logger,
		RequestTimeout: cfg.RequestTimeout,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("bot started", "username", tg.Username(), "max_concurrent", cfg.MaxConcurrent)

	updates := tg.Updates(telegram.UpdatesOptions{
		Timeout: 30 * time.Second,
	})
	defer tg.StopUpdates()

	sem := make(chan struct{}, cfg.MaxConcurrent)
	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return
		case update, ok := <-updates:
			if !ok {
				logger.Info("updates channel closed")
				return
			}

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return
			}

			go func(update telegram.Update) {
				defer func() { <-sem }()

				if err := handler.HandleUpdate(ctx, update); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error("handle update failed", "update_id", update.UpdateID, "err", err)
				}
			}(update)
		}
	}
}
