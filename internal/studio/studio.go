// Package studio runs the user-facing actions: prompt generation and
// refinement, image generation and upscaling, storyboard rendering and video
// generation. Each action is tracked per owner so a second submission of the
// same action fails fast while the first one is still pending.
package studio

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"prompt-studio/internal/config"
	"prompt-studio/internal/framework"
	"prompt-studio/internal/gemini"
	"prompt-studio/internal/prompt"
	"prompt-studio/internal/sections"
)

// MaxImageBytes is the upload limit used when Limits.MaxImageBytes is unset.
const MaxImageBytes = 5 * 1024 * 1024

// Backend is the subset of the Gemini client the studio calls.
type Backend interface {
	Generate(ctx context.Context, req gemini.GenerateRequest) (gemini.Response, error)
	GenerateImage(ctx context.Context, prompt, aspectRatio string) ([]string, error)
	UpscaleImage(ctx context.Context, image gemini.ImageInput, hint string) ([]string, error)
	StartVideo(ctx context.Context, prompt, aspectRatio string) (gemini.Operation, error)
	PollVideo(ctx context.Context, name string, interval time.Duration, onPoll func(gemini.Operation)) (gemini.Operation, error)
}

type Options struct {
	Backend    Backend
	Generation config.GenerationSettings
	Limits     config.LimitSettings
	Logger     *slog.Logger
}

type Service struct {
	backend    Backend
	generation config.GenerationSettings
	limits     config.LimitSettings
	tracker    *Tracker
	results    *resultStore
	logger     *slog.Logger
}

// Image is an uploaded image, already read into memory.
type Image struct {
	MimeType string
	Data     []byte
}

type Panel struct {
	Index  int      `json:"index"`
	Title  string   `json:"title"`
	Prompt string   `json:"prompt"`
	Images []string `json:"images"`
}

type VideoProgress struct {
	Operation string        `json:"operation"`
	Attempt   int           `json:"attempt"`
	Done      bool          `json:"done"`
	VideoURIs []string      `json:"video_uris,omitempty"`
	Error     string        `json:"error,omitempty"`
	Elapsed   time.Duration `json:"elapsed"`
}

func New(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	limits := opts.Limits
	defaults := config.DefaultSettings().Limits
	if limits.VideoPollSeconds <= 0 {
		limits.VideoPollSeconds = defaults.VideoPollSeconds
	}
	if limits.StoryboardConcurrency <= 0 {
		limits.StoryboardConcurrency = defaults.StoryboardConcurrency
	}
	if limits.ResultTTLMinutes <= 0 {
		limits.ResultTTLMinutes = defaults.ResultTTLMinutes
	}
	if limits.MaxImageBytes <= 0 {
		limits.MaxImageBytes = MaxImageBytes
	}

	return &Service{
		backend:    opts.Backend,
		generation: opts.Generation,
		limits:     limits,
		tracker:    NewTracker(),
		results:    newResultStore(limits.ResultTTL()),
		logger:     logger,
	}
}

func (s *Service) Tracker() *Tracker { return s.tracker }

// ImageLimit is the configured upload limit in bytes.
func (s *Service) ImageLimit() int {
	return s.limits.MaxImageBytes
}

// ValidateImage rejects anything that is not image/* or is larger than the
// configured limit. Front ends call it before downloading or reading uploads.
func (s *Service) ValidateImage(mimeType string, size int64) error {
	return validateImage(mimeType, size, s.limits.MaxImageBytes)
}

func validateImage(mimeType string, size int64, limit int) error {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if !strings.HasPrefix(mimeType, "image/") {
		return fmt.Errorf("%w: %q", ErrUnsupportedImageType, mimeType)
	}
	if size <= 0 {
		return fmt.Errorf("%w: empty file", ErrUnsupportedImageType)
	}
	if size > int64(limit) {
		return &ImageTooLargeError{Size: size, Limit: int64(limit)}
	}
	return nil
}

func (s *Service) Generate(ctx context.Context, owner string, req prompt.Request, style *Image) (Result, error) {
	var inline *gemini.ImageInput
	if style != nil {
		if err := validateImage(style.MimeType, int64(len(style.Data)), s.limits.MaxImageBytes); err != nil {
			return Result{}, err
		}
		req.StyleReference = true
		inline = &gemini.ImageInput{
			DataBase64: base64.StdEncoding.EncodeToString(style.Data),
			MimeType:   style.MimeType,
		}
	}

	in, err := prompt.Build(req)
	if err != nil {
		return Result{}, err
	}

	done, err := s.tracker.Begin(owner, ActionGenerate)
	if err != nil {
		return Result{}, err
	}
	defer done()

	return s.run(ctx, owner, "", in, inline)
}

func (s *Service) Refine(ctx context.Context, owner, resultID, feedback string) (Result, error) {
	prev, err := s.Result(owner, resultID)
	if err != nil {
		return Result{}, err
	}

	in, err := prompt.BuildRefine(prev.Instruction, prev.Raw, feedback)
	if err != nil {
		return Result{}, err
	}

	done, err := s.tracker.Begin(owner, ActionRefine)
	if err != nil {
		return Result{}, err
	}
	defer done()

	return s.run(ctx, owner, prev.ID, in, nil)
}

func (s *Service) run(ctx context.Context, owner, parentID string, in prompt.Instruction, image *gemini.ImageInput) (Result, error) {
	temperature, topP := s.generation.Sampling(in.Temperature, in.TopP)

	started := time.Now()
	resp, err := s.backend.Generate(ctx, gemini.GenerateRequest{
		Instruction: in.Text,
		Image:       image,
		Schema:      in.Schema,
		Temperature: temperature,
		TopP:        topP,
	})
	if err != nil {
		s.logger.Error("generate failed", "owner", owner, "framework", in.Framework, "err", err)
		return Result{}, wrapGeneration(err)
	}

	result := newResult(owner, parentID, in, resp.Text)
	s.results.put(result)

	s.logger.Info("prompt generated",
		"owner", owner,
		"result_id", result.ID,
		"framework", in.Framework,
		"mode", in.Mode,
		"sections", len(result.Sections),
		"duration", time.Since(started).Round(time.Millisecond),
	)
	return result, nil
}

func (s *Service) GenerateImage(ctx context.Context, owner, imagePrompt, aspectRatio string) ([]string, error) {
	imagePrompt = strings.TrimSpace(imagePrompt)
	if imagePrompt == "" {
		return nil, gemini.ErrEmptyPrompt
	}
	ar, err := normalizeOptionalAspectRatio(aspectRatio)
	if err != nil {
		return nil, err
	}

	done, err := s.tracker.Begin(owner, ActionGenerateImage)
	if err != nil {
		return nil, err
	}
	defer done()

	images, err := s.backend.GenerateImage(ctx, imagePrompt, ar)
	if err != nil {
		s.logger.Error("image generation failed", "owner", owner, "err", err)
		return nil, wrapGeneration(err)
	}
	s.logger.Info("image generated", "owner", owner, "images", len(images), "aspect_ratio", ar)
	return images, nil
}

func (s *Service) UpscaleImage(ctx context.Context, owner string, img Image, hint string) ([]string, error) {
	if err := validateImage(img.MimeType, int64(len(img.Data)), s.limits.MaxImageBytes); err != nil {
		return nil, err
	}

	done, err := s.tracker.Begin(owner, ActionUpscaleImage)
	if err != nil {
		return nil, err
	}
	defer done()

	images, err := s.backend.UpscaleImage(ctx, gemini.ImageInput{
		DataBase64: base64.StdEncoding.EncodeToString(img.Data),
		MimeType:   img.MimeType,
	}, hint)
	if err != nil {
		s.logger.Error("upscale failed", "owner", owner, "err", err)
		return nil, wrapGeneration(err)
	}
	return images, nil
}

// RenderStoryboard generates one image per panel of a storyboard result, in
// parallel, bounded by the configured storyboard concurrency.
func (s *Service) RenderStoryboard(ctx context.Context, owner, resultID, aspectRatio string) ([]Panel, error) {
	result, err := s.Result(owner, resultID)
	if err != nil {
		return nil, err
	}
	ar, err := normalizeOptionalAspectRatio(aspectRatio)
	if err != nil {
		return nil, err
	}

	styleGuide, panels := storyboardPanels(result)
	if len(panels) == 0 {
		return nil, ErrNotStoryboard
	}

	done, err := s.tracker.Begin(owner, ActionStoryboard)
	if err != nil {
		return nil, err
	}
	defer done()

	out := make([]Panel, len(panels))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(s.limits.StoryboardConcurrency)

	for i, sec := range panels {
		i, sec := i, sec
		eg.Go(func() error {
			framePrompt := prompt.BuildStoryboardFrame(sec, styleGuide, ar)

			logger := s.logger.With("owner", owner, "result_id", result.ID, "panel", i+1)
			logger.Info("rendering storyboard panel")

			images, err := s.backend.GenerateImage(egCtx, framePrompt, ar)
			if err != nil {
				return fmt.Errorf("panel %d: %w", i+1, err)
			}
			out[i] = Panel{Index: i + 1, Title: sec.Title, Prompt: framePrompt, Images: images}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		s.logger.Error("storyboard failed", "owner", owner, "result_id", result.ID, "err", err)
		return nil, wrapGeneration(err)
	}
	return out, nil
}

// GenerateVideo starts a video job and blocks until it finishes, reporting
// every poll to onProgress.
func (s *Service) GenerateVideo(ctx context.Context, owner, videoPrompt, aspectRatio string, onProgress func(VideoProgress)) (VideoProgress, error) {
	videoPrompt = strings.TrimSpace(videoPrompt)
	if videoPrompt == "" {
		return VideoProgress{}, gemini.ErrEmptyPrompt
	}
	ar, err := normalizeOptionalAspectRatio(aspectRatio)
	if err != nil {
		return VideoProgress{}, err
	}

	done, err := s.tracker.Begin(owner, ActionGenerateVideo)
	if err != nil {
		return VideoProgress{}, err
	}
	defer done()

	started := time.Now()
	op, err := s.backend.StartVideo(ctx, videoPrompt, ar)
	if err != nil {
		s.logger.Error("video start failed", "owner", owner, "err", err)
		return VideoProgress{}, wrapGeneration(err)
	}

	report := func(attempt int, op gemini.Operation) VideoProgress {
		p := VideoProgress{
			Operation: op.Name,
			Attempt:   attempt,
			Done:      op.Done,
			VideoURIs: op.VideoURIs,
			Error:     op.Error,
			Elapsed:   time.Since(started).Round(time.Second),
		}
		if onProgress != nil {
			onProgress(p)
		}
		return p
	}
	report(0, op)

	attempt := 0
	final, err := s.backend.PollVideo(ctx, op.Name, s.limits.VideoPollInterval(), func(op gemini.Operation) {
		attempt++
		report(attempt, op)
	})
	progress := VideoProgress{
		Operation: final.Name,
		Attempt:   attempt,
		Done:      final.Done,
		VideoURIs: final.VideoURIs,
		Error:     final.Error,
		Elapsed:   time.Since(started).Round(time.Second),
	}
	if err != nil {
		s.logger.Error("video generation failed", "owner", owner, "operation", op.Name, "err", err)
		return progress, wrapGeneration(err)
	}

	s.logger.Info("video generated", "owner", owner, "operation", op.Name, "polls", attempt, "elapsed", progress.Elapsed)
	return progress, nil
}

// Result returns a stored result. Results of other owners are reported as
// not found.
func (s *Service) Result(owner, id string) (Result, error) {
	r, ok := s.results.get(strings.TrimSpace(id))
	if !ok || r.Owner != owner {
		return Result{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return r, nil
}

func (s *Service) Latest(owner string) (Result, error) {
	r, ok := s.results.latest(owner)
	if !ok {
		return Result{}, ErrNotFound
	}
	return r, nil
}

func (s *Service) Export(owner, id, format string) (string, error) {
	r, err := s.Result(owner, id)
	if err != nil {
		return "", err
	}
	return ExportResult(r, format)
}

func ExportResult(r Result, format string) (string, error) {
	f, err := sections.ParseFormat(format)
	if err != nil {
		return "", err
	}
	return sections.Export(r.Sections, r.Raw, f)
}

func storyboardPanels(r Result) (string, []sections.Section) {
	if r.Framework != framework.Storyboard || r.Concise || r.Instruction.CoPilot {
		return "", nil
	}

	var styleGuide string
	var panels []sections.Section
	for _, sec := range r.Sections {
		switch {
		case sec.Title == "STYLE GUIDE":
			styleGuide = sec.Content
		case strings.HasPrefix(sec.Title, "PANEL ") && strings.TrimSpace(sec.Content) != "":
			panels = append(panels, sec)
		}
	}
	return styleGuide, panels
}

func normalizeOptionalAspectRatio(value string) (string, error) {
	if strings.TrimSpace(value) == "" {
		return "", nil
	}
	ar := prompt.NormalizeAspectRatio(value)
	if ar == "" {
		return "", fmt.Errorf("%w: %q", prompt.ErrInvalidAspectRatio, value)
	}
	return ar, nil
}

func wrapGeneration(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrGeneration, err)
}
