package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"prompt-studio/internal/framework"
	"prompt-studio/internal/prompt"
	"prompt-studio/internal/sections"
	"prompt-studio/internal/studio"
)

type generateRequest struct {
	Framework   string            `json:"framework" form:"framework"`
	Subject     string            `json:"subject" form:"subject"`
	Fields      map[string]string `json:"fields" form:"-"`
	OutputType  string            `json:"output_type" form:"output_type"`
	AspectRatio string            `json:"aspect_ratio" form:"aspect_ratio"`
	Concise     bool              `json:"concise" form:"concise"`
	CoPilot     bool              `json:"copilot" form:"copilot"`
	AudioMood   string            `json:"audio_mood" form:"audio_mood"`
	CameraShots []string          `json:"camera_shots" form:"camera_shots"`
}

func (r generateRequest) toPrompt() prompt.Request {
	id := framework.ID(strings.TrimSpace(r.Framework))
	if id == "" {
		id = framework.Cinematic
	}
	return prompt.Request{
		Framework:   id,
		Subject:     r.Subject,
		Fields:      r.Fields,
		OutputType:  r.OutputType,
		AspectRatio: r.AspectRatio,
		Concise:     r.Concise,
		CoPilot:     r.CoPilot,
		AudioMood:   r.AudioMood,
		CameraShots: splitCSV(r.CameraShots),
	}
}

type refineRequest struct {
	Feedback string `json:"feedback"`
}

type storyboardRequest struct {
	AspectRatio string `json:"aspect_ratio"`
}

type parseRequest struct {
	Raw       string   `json:"raw"`
	Framework string   `json:"framework"`
	Mode      string   `json:"mode"`
	Titles    []string `json:"titles"`
}

type parseResponse struct {
	Mode     sections.Mode      `json:"mode"`
	Sections []sections.Section `json:"sections"`
	JSON     string             `json:"json,omitempty"`
}

type imageRequest struct {
	Prompt      string `json:"prompt"`
	AspectRatio string `json:"aspect_ratio"`
}

type imagesResponse struct {
	Images []string `json:"images"`
}

type frameworkView struct {
	ID      framework.ID  `json:"id"`
	Name    string        `json:"name"`
	Medium  string        `json:"medium"`
	Mode    sections.Mode `json:"mode"`
	Summary string        `json:"summary"`
	Titles  []string      `json:"titles"`
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) listFrameworks(c *gin.Context) {
	all := framework.All()
	out := make([]frameworkView, 0, len(all))
	for _, fw := range all {
		out = append(out, frameworkView{
			ID:      fw.ID,
			Name:    fw.Name,
			Medium:  string(fw.Medium),
			Mode:    fw.Mode,
			Summary: fw.Summary,
			Titles:  fw.Titles(),
		})
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) listOptions(c *gin.Context) {
	formats := make([]string, 0, len(sections.Formats()))
	for _, f := range sections.Formats() {
		formats = append(formats, string(f))
	}
	c.JSON(http.StatusOK, gin.H{
		"camera_shots":   prompt.CameraShots(),
		"audio_moods":    prompt.AudioMoods(),
		"aspect_ratios":  prompt.AspectRatios(),
		"export_formats": formats,
	})
}

func (h *Handler) createPrompt(c *gin.Context) {
	var req generateRequest
	var style *studio.Image

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
		if err := c.ShouldBind(&req); err != nil {
			h.formError(c, err, "invalid multipart form")
			return
		}
		if raw := strings.TrimSpace(c.PostForm("fields")); raw != "" {
			if err := json.Unmarshal([]byte(raw), &req.Fields); err != nil {
				badRequest(c, "fields must be a JSON object")
				return
			}
		}
		if header, err := c.FormFile("style_image"); err == nil {
			img, err := h.readImage(header)
			if err != nil {
				writeError(c, err)
				return
			}
			style = &img
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.requestTimeout)
	defer cancel()

	result, err := h.studio.Generate(ctx, owner(c), req.toPrompt(), style)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *Handler) latestPrompt(c *gin.Context) {
	result, err := h.studio.Latest(owner(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) getPrompt(c *gin.Context) {
	result, err := h.studio.Result(owner(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) refinePrompt(c *gin.Context) {
	var req refineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.requestTimeout)
	defer cancel()

	result, err := h.studio.Refine(ctx, owner(c), c.Param("id"), req.Feedback)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *Handler) exportPrompt(c *gin.Context) {
	format := c.DefaultQuery("format", string(sections.FormatText))
	out, err := h.studio.Export(owner(c), c.Param("id"), format)
	if err != nil {
		writeError(c, err)
		return
	}

	f, _ := sections.ParseFormat(format)
	c.Data(http.StatusOK, contentType(f), []byte(out))
}

func (h *Handler) renderStoryboard(c *gin.Context) {
	var req storyboardRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid JSON body")
			return
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.requestTimeout)
	defer cancel()

	panels, err := h.studio.RenderStoryboard(ctx, owner(c), c.Param("id"), req.AspectRatio)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"panels": panels})
}

func (h *Handler) parseSections(c *gin.Context) {
	var req parseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}

	mode := sections.ModeText
	titles := req.Titles
	if req.Framework != "" {
		fw, ok := framework.Lookup(req.Framework)
		if !ok {
			writeError(c, prompt.ErrUnknownFramework)
			return
		}
		mode = fw.Mode
		if len(titles) == 0 {
			titles = fw.Titles()
		}
	}
	if req.Mode != "" {
		m, ok := sections.ParseMode(req.Mode)
		if !ok {
			badRequest(c, "mode must be text or json")
			return
		}
		mode = m
	}

	resp := parseResponse{
		Mode:     mode,
		Sections: sections.Parse(req.Raw, mode, titles),
	}
	if resp.Sections == nil {
		resp.Sections = []sections.Section{}
	}
	if mode == sections.ModeJSON && sections.IsJSON(req.Raw) {
		resp.JSON = sections.PrettyJSON(req.Raw)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) generateImage(c *gin.Context) {
	var req imageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.requestTimeout)
	defer cancel()

	images, err := h.studio.GenerateImage(ctx, owner(c), req.Prompt, req.AspectRatio)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, imagesResponse{Images: images})
}

func (h *Handler) upscaleImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)

	header, err := c.FormFile("image")
	if err != nil {
		h.formError(c, err, "missing image")
		return
	}
	img, err := h.readImage(header)
	if err != nil {
		writeError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.requestTimeout)
	defer cancel()

	images, err := h.studio.UpscaleImage(ctx, owner(c), img, c.PostForm("hint"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, imagesResponse{Images: images})
}

// formError reports a body cut off by the upload cap as an oversized image and
// anything else as a plain bad request.
func (h *Handler) formError(c *gin.Context, err error, message string) {
	if bodyTooLarge(err) {
		writeError(c, &studio.ImageTooLargeError{Limit: int64(h.studio.ImageLimit())})
		return
	}
	badRequest(c, message)
}

func bodyTooLarge(err error) bool {
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		return true
	}
	// mime/multipart does not wrap every read error.
	return strings.Contains(err.Error(), "http: request body too large")
}

// readImage validates the declared type and size before reading the body.
func (h *Handler) readImage(header *multipart.FileHeader) (studio.Image, error) {
	mimeType := strings.TrimSpace(header.Header.Get("Content-Type"))
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	if err := h.studio.ValidateImage(mimeType, header.Size); err != nil {
		return studio.Image{}, err
	}

	file, err := header.Open()
	if err != nil {
		return studio.Image{}, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return studio.Image{}, err
	}
	return studio.Image{MimeType: mimeType, Data: data}, nil
}

func contentType(f sections.Format) string {
	switch f {
	case sections.FormatJSON:
		return "application/json; charset=utf-8"
	case sections.FormatYAML:
		return "application/yaml; charset=utf-8"
	case sections.FormatMarkdown:
		return "text/markdown; charset=utf-8"
	}
	return "text/plain; charset=utf-8"
}

func splitCSV(values []string) []string {
	var out []string
	for _, v := range values {
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
