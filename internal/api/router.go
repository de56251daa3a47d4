// Package api is the JSON HTTP front end of the studio.
package api

import (
	"io"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"prompt-studio/internal/studio"
)

// multipartOverhead leaves room for form fields and part headers around the
// image itself.
const multipartOverhead = 1 << 20

// UploadLimit is the request body cap for a form carrying one image of at
// most maxImageBytes.
func UploadLimit(maxImageBytes int) int64 {
	return int64(maxImageBytes) + multipartOverhead
}

type Options struct {
	Studio         *studio.Service
	Logger         *slog.Logger
	RequestTimeout time.Duration
	// MaxUploadBytes caps multipart bodies. Zero derives it from the studio's
	// image limit.
	MaxUploadBytes int64
}

type Handler struct {
	studio         *studio.Service
	logger         *slog.Logger
	requestTimeout time.Duration
	maxUploadBytes int64
}

func NewRouter(opts Options) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	h := &Handler{
		studio:         opts.Studio,
		logger:         logger,
		requestTimeout: opts.RequestTimeout,
		maxUploadBytes: opts.MaxUploadBytes,
	}
	if h.requestTimeout <= 0 {
		h.requestTimeout = 180 * time.Second
	}
	if h.maxUploadBytes <= 0 {
		h.maxUploadBytes = UploadLimit(opts.Studio.ImageLimit())
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))

	api := r.Group("/api")
	{
		api.GET("/health", h.health)
		api.GET("/frameworks", h.listFrameworks)
		api.GET("/options", h.listOptions)

		api.POST("/prompts", h.createPrompt)
		api.GET("/prompts/latest", h.latestPrompt)
		api.GET("/prompts/:id", h.getPrompt)
		api.POST("/prompts/:id/refine", h.refinePrompt)
		api.GET("/prompts/:id/export", h.exportPrompt)
		api.POST("/prompts/:id/storyboard", h.renderStoryboard)

		api.POST("/sections/parse", h.parseSections)

		api.POST("/images", h.generateImage)
		api.POST("/images/upscale", h.upscaleImage)

		api.GET("/videos/ws", h.videoSocket)
	}

	return r
}
