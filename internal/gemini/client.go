package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"golang.org/x/time/rate"
)

const (
	DefaultTextModel  = "gemini-2.5-flash"
	DefaultImageModel = "gemini-2.5-flash-image"
	DefaultVideoModel = "veo-3.0-generate-001"
)

var (
	ErrEmptyPrompt     = errors.New("prompt is empty")
	ErrNoCandidates    = errors.New("model returned no content")
	ErrAPI             = errors.New("gemini API error")
	ErrOperationFailed = errors.New("operation failed")
)

// APIError carries a non-2xx answer from the API. It matches ErrAPI.
type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gemini API %s: %s", e.Status, e.Body)
}

func (e *APIError) Unwrap() error { return ErrAPI }

type Options struct {
	APIKey     string
	BaseURL    string
	APIVersion string
	TextModel  string
	ImageModel string
	VideoModel string
	HTTPClient *http.Client
	Logger     *slog.Logger

	// ImageLimiter paces image-model calls, which have a much lower quota
	// than text generation.
	ImageLimiter *rate.Limiter
}

type Client struct {
	apiKey     string
	baseURL    string
	apiVersion string
	textModel  string
	imageModel string
	videoModel string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

func New(opts Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com"
	}

	apiVersion := strings.TrimSpace(opts.APIVersion)
	if apiVersion == "" {
		apiVersion = "v1beta"
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		apiKey:     opts.APIKey,
		baseURL:    baseURL,
		apiVersion: apiVersion,
		textModel:  firstNonEmpty(opts.TextModel, DefaultTextModel),
		imageModel: firstNonEmpty(opts.ImageModel, DefaultImageModel),
		videoModel: firstNonEmpty(opts.VideoModel, DefaultVideoModel),
		httpClient: opts.HTTPClient,
		limiter:    opts.ImageLimiter,
		logger:     logger,
	}
}

// Generate sends one instruction, optionally with an attached image, to the
// text model. With a schema the model is asked for JSON matching it.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (Response, error) {
	instruction := strings.TrimSpace(req.Instruction)
	if instruction == "" {
		return Response{}, ErrEmptyPrompt
	}

	parts := []part{{Text: instruction}}
	if req.Image != nil && req.Image.DataBase64 != "" {
		parts = append(parts, part{InlineData: &blob{
			Data:     stripDataURLPrefix(req.Image.DataBase64),
			MimeType: req.Image.MimeType,
		}})
	}

	cfg := generationConfig{
		Temperature: req.Temperature,
		TopP:        req.TopP,
	}
	if req.Schema != nil {
		cfg.ResponseMimeType = "application/json"
		cfg.ResponseSchema = req.Schema
	}

	model := firstNonEmpty(req.Model, c.textModel)
	resp, err := c.generateContent(ctx, model, generateContentRequest{
		Contents:         []content{{Role: "user", Parts: parts}},
		GenerationConfig: cfg,
	})
	if err != nil {
		return Response{}, err
	}
	if strings.TrimSpace(resp.Text) == "" {
		return Response{}, ErrNoCandidates
	}

	resp.Text = strings.TrimSpace(resp.Text)
	return resp, nil
}

// GenerateImage returns the generated images as data URLs.
func (c *Client) GenerateImage(ctx context.Context, prompt, aspectRatio string) ([]string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}
	if aspectRatio == "" {
		aspectRatio = "1:1"
	}

	req := generateContentRequest{
		Contents: []content{
			{Role: "user", Parts: []part{{Text: fmt.Sprintf("Generate a high quality image: %s", prompt)}}},
		},
		GenerationConfig: generationConfig{
			ResponseModalities: []string{"IMAGE"},
			ImageConfig:        &imageConfig{AspectRatio: aspectRatio},
		},
	}

	return c.generateImages(ctx, req)
}

// UpscaleImage asks the image model for a sharper, higher resolution version
// of image without changing its content.
func (c *Client) UpscaleImage(ctx context.Context, image ImageInput, hint string) ([]string, error) {
	if image.DataBase64 == "" {
		return nil, ErrEmptyPrompt
	}

	text := "Upscale this image to a higher resolution. Sharpen fine detail and remove compression artifacts. " +
		"Keep composition, colors, subjects and any text exactly as they are."
	if hint = strings.TrimSpace(hint); hint != "" {
		text += "\nAdditional guidance: " + hint
	}

	mime := image.MimeType
	if mime == "" {
		mime = "image/png"
	}
	inline, ok := dataURLToInlineData(image.DataBase64, mime)
	if !ok {
		return nil, ErrEmptyPrompt
	}

	req := generateContentRequest{
		Contents: []content{
			{Role: "user", Parts: []part{{Text: text}, {InlineData: &inline}}},
		},
		GenerationConfig: generationConfig{
			ResponseModalities: []string{"IMAGE"},
		},
	}

	return c.generateImages(ctx, req)
}

func (c *Client) generateImages(ctx context.Context, req generateContentRequest) ([]string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	resp, err := c.generateContent(ctx, c.imageModel, req)
	if err != nil && req.GenerationConfig.ImageConfig != nil {
		if isUnknownFieldError(err, "imageConfig") {
			c.logger.Warn("imageConfig rejected, retrying without it", "model", c.imageModel)
			req.GenerationConfig.ImageConfig = nil
			resp, err = c.generateContent(ctx, c.imageModel, req)
		}
	}
	if err != nil {
		return nil, err
	}
	if len(resp.Images) == 0 {
		return nil, ErrNoCandidates
	}
	return resp.Images, nil
}

func (c *Client) generateContent(ctx context.Context, model string, payload generateContentRequest) (Response, error) {
	url := fmt.Sprintf("%s/%s/models/%s:generateContent", c.baseURL, c.apiVersion, model)

	var decoded generateContentResponse
	if err := c.do(ctx, http.MethodPost, url, payload, &decoded); err != nil {
		return Response{}, err
	}

	text, images := extractParts(decoded)
	c.logger.Debug("gemini response", "model", model, "text_len", len(text), "images", len(images))

	return Response{
		Text:   text,
		Images: images,
	}, nil
}

func (c *Client) do(ctx context.Context, method, url string, payload, out any) error {
	if c.httpClient == nil {
		return errors.New("http client is nil")
	}

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		httpReq.Header.Set("content-type", "application/json")
	}
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	defer httpResp.Body.Close()

	rawBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode >= 400 {
		return &APIError{
			StatusCode: httpResp.StatusCode,
			Status:     httpResp.Status,
			Body:       strings.TrimSpace(string(rawBody)),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(rawBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func extractParts(resp generateContentResponse) (string, []string) {
	if len(resp.Candidates) == 0 {
		return "", nil
	}

	var textBuilder strings.Builder
	var images []string

	for _, p := range resp.Candidates[0].Content.Parts {
		if p.Thought {
			continue
		}
		if p.Text != "" {
			textBuilder.WriteString(p.Text)
		}
		if p.InlineData != nil && p.InlineData.Data != "" && p.InlineData.MimeType != "" {
			images = append(images, fmt.Sprintf("data:%s;base64,%s", p.InlineData.MimeType, p.InlineData.Data))
		}
	}

	return textBuilder.String(), images
}

type generateContentRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig,omitempty"`
}

type generationConfig struct {
	Temperature        float64      `json:"temperature,omitempty"`
	TopP               float64      `json:"topP,omitempty"`
	ResponseMimeType   string       `json:"responseMimeType,omitempty"`
	ResponseSchema     *Schema      `json:"responseSchema,omitempty"`
	ResponseModalities []string     `json:"responseModalities,omitempty"`
	ImageConfig        *imageConfig `json:"imageConfig,omitempty"`
}

type imageConfig struct {
	AspectRatio string `json:"aspectRatio,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text       string `json:"text,omitempty"`
	Thought    bool   `json:"thought,omitempty"`
	InlineData *blob  `json:"inlineData,omitempty"`
}

type blob struct {
	Data     string `json:"data"`
	MimeType string `json:"mimeType"`
}

type generateContentResponse struct {
	Candidates []candidate `json:"candidates"`
}

type candidate struct {
	Content content `json:"content"`
}

var dataURLRegex = regexp.MustCompile(`^data:([^;]+);base64,`)

func dataURLToInlineData(dataURL string, fallbackMime string) (blob, bool) {
	dataURL = strings.TrimSpace(dataURL)
	if dataURL == "" {
		return blob{}, false
	}

	mime := fallbackMime
	if matches := dataURLRegex.FindStringSubmatch(dataURL); len(matches) == 2 {
		mime = matches[1]
	}

	data := stripDataURLPrefix(dataURL)
	if data == "" {
		return blob{}, false
	}

	return blob{
		Data:     data,
		MimeType: mime,
	}, true
}

func stripDataURLPrefix(value string) string {
	if idx := strings.IndexByte(value, ','); idx >= 0 {
		return value[idx+1:]
	}
	return value
}

func isUnknownFieldError(err error, field string) bool {
	message := err.Error()
	return strings.Contains(message, "Unknown name") && strings.Contains(message, field)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
