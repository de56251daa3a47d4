package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"prompt-studio/internal/framework"
	"prompt-studio/internal/prompt"
	"prompt-studio/internal/sections"
	"prompt-studio/internal/session"
	"prompt-studio/internal/studio"
)

// flags force request options regardless of the chat settings.
type flags struct {
	concise *bool
	coPilot *bool
}

func (h *Handler) generate(ctx context.Context, chatID, userID int64, args string, force *flags) error {
	st := h.sessions.Get(chatID, userID)

	var style *studio.Image
	if st.StyleFileID != "" {
		img, err := h.download(ctx, st.StyleFileID, 0)
		if err != nil {
			h.logger.Warn("style reference unavailable", "user_id", userID, "err", err)
			h.sessions.Update(chatID, userID, func(st *session.Settings) {
				st.StyleFileID = ""
				st.StyleMimeType = ""
			})
			_ = h.send(chatID, "⚠️ The saved style image could not be loaded and was cleared.")
		} else {
			style = &img
		}
	}

	return h.generateWithStyle(ctx, chatID, userID, args, force, style)
}

func (h *Handler) generateWithStyle(ctx context.Context, chatID, userID int64, args string, force *flags, style *studio.Image) error {
	st := h.sessions.Get(chatID, userID)
	req := prompt.ParseArgs(args, st.Request())
	if force != nil {
		if force.concise != nil {
			req.Concise = *force.concise
		}
		if force.coPilot != nil {
			req.CoPilot = *force.coPilot
		}
	}
	if strings.TrimSpace(req.Subject) == "" {
		return h.send(chatID, "❌ Please describe a subject.\nExample: /prompt a lighthouse in a storm")
	}

	h.tg.SendTyping(chatID)

	ctx, cancel := context.WithTimeout(ctx, h.requestTimeout)
	defer cancel()

	result, err := h.studio.Generate(ctx, ownerKey(userID), req, style)
	if err != nil {
		return h.sendError(chatID, err)
	}

	h.sessions.Update(chatID, userID, func(st *session.Settings) { st.LastResultID = result.ID })
	return h.sendResult(chatID, result)
}

func (h *Handler) refine(ctx context.Context, chatID, userID int64, feedback string) error {
	st := h.sessions.Get(chatID, userID)
	if st.LastResultID == "" {
		return h.send(chatID, "❌ Nothing to refine yet. Generate a prompt first.")
	}
	if strings.TrimSpace(feedback) == "" {
		return h.send(chatID, "❌ Say what should change.\nExample: /refine make it night time")
	}

	h.tg.SendTyping(chatID)

	ctx, cancel := context.WithTimeout(ctx, h.requestTimeout)
	defer cancel()

	result, err := h.studio.Refine(ctx, ownerKey(userID), st.LastResultID, feedback)
	if err != nil {
		return h.sendError(chatID, err)
	}

	h.sessions.Update(chatID, userID, func(st *session.Settings) { st.LastResultID = result.ID })
	return h.sendResult(chatID, result)
}

func (h *Handler) export(chatID, userID int64, format string) error {
	st := h.sessions.Get(chatID, userID)
	if st.LastResultID == "" {
		return h.send(chatID, "❌ Nothing to export yet. Generate a prompt first.")
	}
	if strings.TrimSpace(format) == "" {
		format = st.ExportFormat
	}

	f, err := sections.ParseFormat(format)
	if err != nil {
		return h.sendError(chatID, err)
	}
	out, err := h.studio.Export(ownerKey(userID), st.LastResultID, string(f))
	if err != nil {
		return h.sendError(chatID, err)
	}

	if asDocument(out, f) {
		name := fmt.Sprintf("prompt-%s.%s", st.LastResultID, fileExt(f))
		return h.tg.SendDocument(chatID, name, []byte(out), "📄 Export ("+string(f)+")")
	}
	return h.send(chatID, out)
}

func (h *Handler) generateImage(ctx context.Context, chatID, userID int64, args string) error {
	st := h.sessions.Get(chatID, userID)
	imagePrompt, ar := splitAspectRatio(args, st.AspectRatio)
	if imagePrompt == "" {
		return h.send(chatID, "❌ Please describe the image.\nExample: /image 9:16 a neon street at night")
	}

	h.tg.SendTyping(chatID)
	_ = h.send(chatID, "🎨 Generating image, please wait...")

	ctx, cancel := context.WithTimeout(ctx, h.requestTimeout)
	defer cancel()

	images, err := h.studio.GenerateImage(ctx, ownerKey(userID), imagePrompt, ar)
	if err != nil {
		return h.sendError(chatID, err)
	}
	return h.sendImages(chatID, images, fmt.Sprintf("✅ Done! %q (%s)", imagePrompt, ar))
}

func (h *Handler) upscale(ctx context.Context, chatID, userID int64, fileID string, size int64, hint string) error {
	h.sessions.Update(chatID, userID, func(st *session.Settings) { st.Awaiting = session.AwaitingNothing })

	h.tg.SendTyping(chatID)

	ctx, cancel := context.WithTimeout(ctx, h.requestTimeout)
	defer cancel()

	img, err := h.download(ctx, fileID, size)
	if err != nil {
		return h.sendError(chatID, err)
	}

	images, err := h.studio.UpscaleImage(ctx, ownerKey(userID), img, hint)
	if err != nil {
		return h.sendError(chatID, err)
	}
	return h.sendImages(chatID, images, "✅ Upscaled.")
}

func (h *Handler) style(chatID, userID int64, args string) error {
	switch strings.ToLower(strings.TrimSpace(args)) {
	case "clear", "off", "none":
		h.sessions.Update(chatID, userID, func(st *session.Settings) {
			st.StyleFileID = ""
			st.StyleMimeType = ""
			st.Awaiting = session.AwaitingNothing
		})
		return h.send(chatID, "✅ Style reference cleared.")
	}

	h.sessions.Update(chatID, userID, func(st *session.Settings) { st.Awaiting = session.AwaitingStyle })
	limit := studio.HumanSize(int64(h.studio.ImageLimit()))
	return h.send(chatID, "🖼 Send an image to use as the style reference (under "+limit+"). /cancel to abort.")
}

func (h *Handler) saveStyle(ctx context.Context, chatID, userID int64, fileID string, size int64) error {
	img, err := h.download(ctx, fileID, size)
	if err != nil {
		return h.sendError(chatID, err)
	}

	h.sessions.Update(chatID, userID, func(st *session.Settings) {
		st.StyleFileID = fileID
		st.StyleMimeType = img.MimeType
		st.Awaiting = session.AwaitingNothing
	})
	return h.send(chatID, "✅ Style reference saved. It will be used for the next prompts. /style clear removes it.")
}

func (h *Handler) storyboard(ctx context.Context, chatID, userID int64, args string) error {
	st := h.sessions.Get(chatID, userID)
	if st.LastResultID == "" {
		return h.send(chatID, "❌ Generate a storyboard prompt first: /prompt storyboard <subject>")
	}

	ar := strings.TrimSpace(args)
	if ar == "" {
		ar = st.AspectRatio
	}

	h.tg.SendTyping(chatID)
	_ = h.send(chatID, "🎞 Rendering storyboard panels, please wait...")

	ctx, cancel := context.WithTimeout(ctx, h.requestTimeout)
	defer cancel()

	panels, err := h.studio.RenderStoryboard(ctx, ownerKey(userID), st.LastResultID, ar)
	if err != nil {
		return h.sendError(chatID, err)
	}

	for _, p := range panels {
		if err := h.sendImages(chatID, p.Images, panelCaption(p)); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) video(ctx context.Context, chatID, userID int64, args string) error {
	st := h.sessions.Get(chatID, userID)
	videoPrompt, ar := splitAspectRatio(args, st.AspectRatio)
	if videoPrompt == "" {
		return h.send(chatID, "❌ Please describe the video.\nExample: /video 16:9 a paper boat in the rain")
	}

	statusID, err := h.tg.SendText(chatID, "🎬 Starting video generation...")
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, h.videoTimeout)
	defer cancel()

	final, err := h.studio.GenerateVideo(ctx, ownerKey(userID), videoPrompt, ar, func(p studio.VideoProgress) {
		if err := h.tg.EditText(chatID, statusID, videoStatusText(p)); err != nil {
			h.logger.Debug("video status edit failed", "err", err)
		}
	})
	if err != nil {
		return h.sendError(chatID, err)
	}

	h.tg.SendUploading(chatID)

	clips := make([][]byte, len(final.VideoURIs))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, uri := range final.VideoURIs {
		i, uri := i, uri
		eg.Go(func() error {
			data, err := h.videos.FetchVideo(egCtx, uri)
			if err != nil {
				return err
			}
			clips[i] = data
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		h.logger.Error("video download failed", "user_id", userID, "err", err)
		return h.send(chatID, "❌ The video was generated but could not be downloaded.\n"+strings.Join(final.VideoURIs, "\n"))
	}

	for i, data := range clips {
		name := fmt.Sprintf("video-%d.mp4", i+1)
		if err := h.tg.SendVideo(chatID, name, data, fmt.Sprintf("✅ %q (%s)", videoPrompt, final.Elapsed.Round(time.Second))); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) sendResult(chatID int64, result studio.Result) error {
	if err := h.send(chatID, resultText(result)); err != nil {
		return err
	}
	if result.Framework == framework.Storyboard && !result.Concise && result.CoPilot == nil {
		return h.send(chatID, "🎞 Use /storyboard to render the panels.")
	}
	return nil
}

func (h *Handler) sendImages(chatID int64, images []string, caption string) error {
	for i, img := range images {
		sendCaption := ""
		if i == 0 {
			sendCaption = caption
		}
		if err := h.tg.SendPhotoDataURL(chatID, img, sendCaption); err != nil {
			return err
		}
	}
	return nil
}
