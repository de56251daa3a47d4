// Package handlers is the Telegram front end of the studio.
package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"prompt-studio/internal/mediagroup"
	"prompt-studio/internal/session"
	"prompt-studio/internal/studio"
	"prompt-studio/internal/telegram"
)

const (
	defaultRequestTimeout = 180 * time.Second
	defaultVideoTimeout   = 15 * time.Minute
)

// VideoFetcher downloads a finished video by URI.
type VideoFetcher interface {
	FetchVideo(ctx context.Context, uri string) ([]byte, error)
}

type Options struct {
	Telegram *telegram.Client
	Studio   *studio.Service
	Sessions *session.Store
	Videos   VideoFetcher
	Logger   *slog.Logger

	// AlbumDebounce is how long an album must be quiet before the extra
	// images are reported as ignored.
	AlbumDebounce time.Duration

	// RequestTimeout bounds every action except video generation, which
	// uses VideoTimeout.
	RequestTimeout time.Duration
	VideoTimeout   time.Duration
}

type Handler struct {
	tg       *telegram.Client
	studio   *studio.Service
	sessions *session.Store
	videos   VideoFetcher
	albums   *mediagroup.Aggregator
	logger   *slog.Logger

	requestTimeout time.Duration
	videoTimeout   time.Duration
}

func New(opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	requestTimeout := opts.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}
	videoTimeout := opts.VideoTimeout
	if videoTimeout <= 0 {
		videoTimeout = defaultVideoTimeout
	}

	h := &Handler{
		tg:       opts.Telegram,
		studio:   opts.Studio,
		sessions: opts.Sessions,
		videos:   opts.Videos,
		logger:   logger,

		requestTimeout: requestTimeout,
		videoTimeout:   videoTimeout,
	}
	h.albums = mediagroup.New(mediagroup.Options{
		Debounce: opts.AlbumDebounce,
		OnFlush:  h.albumFlushed,
	})
	return h
}

// HandleUpdate routes one update. It blocks until the action finishes; the
// caller bounds concurrency.
func (h *Handler) HandleUpdate(ctx context.Context, update telegram.Update) error {
	if update.CallbackQuery != nil {
		return h.handleCallback(ctx, update.CallbackQuery)
	}
	if update.Message == nil || update.Message.From == nil {
		return nil
	}

	msg := update.Message
	chatID := msg.Chat.ID
	userID := msg.From.ID

	if msg.IsCommand() {
		return h.handleCommand(ctx, chatID, userID, msg)
	}

	if (len(msg.Photo) > 0 || msg.Document != nil) && !h.albums.Add(mediagroup.Item{
		ChatID:       chatID,
		UserID:       userID,
		MediaGroupID: msg.MediaGroupID,
	}) {
		return nil
	}

	if len(msg.Photo) > 0 {
		return h.handlePhoto(ctx, chatID, userID, msg)
	}

	if msg.Document != nil && strings.HasPrefix(msg.Document.MimeType, "image/") {
		return h.handleImageFile(ctx, chatID, userID, msg.Document.FileID, int64(msg.Document.FileSize), msg.Caption)
	}

	if msg.Text != "" {
		return h.handleText(ctx, chatID, userID, msg.Text)
	}

	return nil
}

func (h *Handler) handleCommand(ctx context.Context, chatID, userID int64, msg *tgbotapi.Message) error {
	args := strings.TrimSpace(msg.CommandArguments())

	switch msg.Command() {
	case "start", "help":
		return h.send(chatID, helpText())
	case "frameworks", "settings":
		return h.openSettings(chatID, userID, menuForCommand(msg.Command()))
	case "prompt":
		return h.generate(ctx, chatID, userID, args, nil)
	case "concise":
		if args == "" {
			st := h.sessions.Update(chatID, userID, func(st *session.Settings) { st.Concise = !st.Concise })
			return h.send(chatID, "Concise mode: "+onOff(st.Concise))
		}
		concise := true
		return h.generate(ctx, chatID, userID, args, &flags{concise: &concise})
	case "copilot":
		if args == "" {
			st := h.sessions.Update(chatID, userID, func(st *session.Settings) { st.CoPilot = !st.CoPilot })
			return h.send(chatID, "Co-pilot mode: "+onOff(st.CoPilot))
		}
		coPilot := true
		return h.generate(ctx, chatID, userID, args, &flags{coPilot: &coPilot})
	case "refine":
		return h.refine(ctx, chatID, userID, args)
	case "export":
		return h.export(chatID, userID, args)
	case "image":
		return h.generateImage(ctx, chatID, userID, args)
	case "upscale":
		h.sessions.Update(chatID, userID, func(st *session.Settings) { st.Awaiting = session.AwaitingUpscale })
		return h.send(chatID, "📷 Send the image to upscale. Add a caption to guide the result.")
	case "style":
		return h.style(chatID, userID, args)
	case "storyboard":
		return h.storyboard(ctx, chatID, userID, args)
	case "video":
		return h.video(ctx, chatID, userID, args)
	case "reset":
		h.sessions.Reset(chatID, userID)
		return h.send(chatID, "✅ Settings reset.")
	case "cancel":
		h.sessions.Update(chatID, userID, func(st *session.Settings) { st.Awaiting = session.AwaitingNothing })
		return h.send(chatID, "OK.")
	default:
		return h.send(chatID, "❌ Unknown command. Use /help.")
	}
}

// handleText treats plain text as a subject for the current framework.
func (h *Handler) handleText(ctx context.Context, chatID, userID int64, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return h.generate(ctx, chatID, userID, text, nil)
}

func (h *Handler) handlePhoto(ctx context.Context, chatID, userID int64, msg *tgbotapi.Message) error {
	photo := msg.Photo[len(msg.Photo)-1]
	return h.handleImageFile(ctx, chatID, userID, photo.FileID, int64(photo.FileSize), msg.Caption)
}

func (h *Handler) handleImageFile(ctx context.Context, chatID, userID int64, fileID string, size int64, caption string) error {
	st := h.sessions.Get(chatID, userID)

	switch st.Awaiting {
	case session.AwaitingStyle:
		return h.saveStyle(ctx, chatID, userID, fileID, size)
	case session.AwaitingUpscale:
		return h.upscale(ctx, chatID, userID, fileID, size, caption)
	}

	// An image with a caption is a prompt request with a one-off style reference.
	if caption = strings.TrimSpace(caption); caption != "" {
		img, err := h.download(ctx, fileID, size)
		if err != nil {
			return h.sendError(chatID, err)
		}
		return h.generateWithStyle(ctx, chatID, userID, caption, nil, &img)
	}

	return h.send(chatID, "📷 Use /style or /upscale first, or add a caption describing the subject.")
}

func (h *Handler) albumFlushed(g mediagroup.Group) {
	if g.Count < 2 {
		return
	}
	text := fmt.Sprintf("ℹ️ Only the first image of an album is used; %d more were ignored.", g.Count-1)
	if err := h.send(g.ChatID, text); err != nil {
		h.logger.Warn("album notice failed", "chat_id", g.ChatID, "err", err)
	}
}

func (h *Handler) download(ctx context.Context, fileID string, size int64) (studio.Image, error) {
	// Reject by reported size before downloading; the type is checked after.
	if size > 0 {
		if err := h.studio.ValidateImage("image/jpeg", size); err != nil {
			return studio.Image{}, err
		}
	}

	data, mimeType, err := h.tg.DownloadFile(ctx, fileID)
	if err != nil {
		h.logger.Error("telegram download failed", "err", err)
		return studio.Image{}, fmt.Errorf("download image: %w", err)
	}
	if err := h.studio.ValidateImage(mimeType, int64(len(data))); err != nil {
		return studio.Image{}, err
	}
	return studio.Image{MimeType: mimeType, Data: data}, nil
}

func (h *Handler) send(chatID int64, text string) error {
	_, err := h.tg.SendText(chatID, text)
	return err
}

func (h *Handler) sendError(chatID int64, err error) error {
	return h.send(chatID, "❌ "+studio.UserMessage(err))
}

func ownerKey(userID int64) string {
	return fmt.Sprintf("tg:%d", userID)
}
