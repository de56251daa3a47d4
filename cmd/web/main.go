package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"prompt-studio/internal/api"
	"prompt-studio/internal/app"
	"prompt-studio/internal/config"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := app.NewLogger(os.Stdout, cfg.LogLevel)
	a := app.New(cfg, logger)

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := api.NewRouter(api.Options{
		Studio:         a.Studio,
		Logger:         logger,
		RequestTimeout: cfg.RequestTimeout,
		MaxUploadBytes: api.UploadLimit(a.Studio.ImageLimit()),
	})

	srv := &http.Server{
		Addr:              cfg.WebAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 30*time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		logger.Info("web started", "addr", cfg.WebAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", "err", err)
	}
}
