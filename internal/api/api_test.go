package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prompt-studio/internal/api"
	"prompt-studio/internal/config"
	"prompt-studio/internal/gemini"
	"prompt-studio/internal/studio"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeBackend struct {
	mu       sync.Mutex
	text     string
	requests []gemini.GenerateRequest
	polls    []gemini.Operation
}

func (f *fakeBackend) Generate(ctx context.Context, req gemini.GenerateRequest) (gemini.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	return gemini.Response{Text: f.text}, nil
}

func (f *fakeBackend) GenerateImage(ctx context.Context, p, ar string) ([]string, error) {
	return []string{"data:image/png;base64,QUJD"}, nil
}

func (f *fakeBackend) UpscaleImage(ctx context.Context, image gemini.ImageInput, hint string) ([]string, error) {
	return []string{"data:" + image.MimeType + ";base64," + image.DataBase64}, nil
}

func (f *fakeBackend) StartVideo(ctx context.Context, p, ar string) (gemini.Operation, error) {
	return gemini.Operation{Name: "operations/v1"}, nil
}

func (f *fakeBackend) PollVideo(ctx context.Context, name string, interval time.Duration, onPoll func(gemini.Operation)) (gemini.Operation, error) {
	var last gemini.Operation
	for _, op := range f.polls {
		onPoll(op)
		last = op
	}
	return last, nil
}

func newServer(t *testing.T, backend *fakeBackend) *gin.Engine {
	t.Helper()
	return api.NewRouter(api.Options{
		Studio:         studio.New(studio.Options{Backend: backend}),
		RequestTimeout: 5 * time.Second,
	})
}

func doJSON(t *testing.T, r http.Handler, method, path, clientID string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if clientID != "" {
		req.Header.Set("X-Client-ID", clientID)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealthAndCatalogs(t *testing.T) {
	t.Parallel()

	r := newServer(t, &fakeBackend{})

	w := doJSON(t, r, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/frameworks", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	fws := decode[[]map[string]any](t, w)
	require.Len(t, fws, 10)
	assert.Equal(t, "cinematic", fws[0]["id"])

	w = doJSON(t, r, http.MethodGet, "/api/options", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	opts := decode[map[string]json.RawMessage](t, w)
	assert.Contains(t, opts, "camera_shots")
	assert.Contains(t, opts, "audio_moods")
	assert.Contains(t, opts, "aspect_ratios")
	assert.JSONEq(t, `["text","markdown","json","yaml"]`, string(opts["export_formats"]))
}

func TestCreatePromptAndFetch(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{text: `{"scene":"a fox","camera":"low angle"}`}
	r := newServer(t, backend)

	w := doJSON(t, r, http.MethodPost, "/api/prompts", "alice", map[string]any{
		"framework": "motion",
		"subject":   "a fox in snow",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	created := decode[studio.Result](t, w)
	require.NotEmpty(t, created.ID)
	require.Len(t, created.Sections, 2)
	assert.Equal(t, "SCENE", created.Sections[0].Title)
	assert.Equal(t, "a fox", created.Sections[0].Content)

	w = doJSON(t, r, http.MethodGet, "/api/prompts/"+created.ID, "alice", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/prompts/latest", "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created.ID, decode[studio.Result](t, w).ID)

	w = doJSON(t, r, http.MethodGet, "/api/prompts/"+created.ID, "bob", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/prompts/"+created.ID+"/export?format=markdown", "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/markdown"))
	assert.Equal(t, "**SCENE:**\na fox\n\n**CAMERA:**\nlow angle", w.Body.String())

	w = doJSON(t, r, http.MethodPost, "/api/prompts/"+created.ID+"/refine", "alice", map[string]string{
		"feedback": "make it night",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, created.ID, decode[studio.Result](t, w).ParentID)
}

func TestErrorStatuses(t *testing.T) {
	t.Parallel()

	r := newServer(t, &fakeBackend{text: "CONTEXT: x"})

	testCases := []struct {
		name   string
		method string
		path   string
		body   any
		status int
	}{
		{
			name:   "empty subject",
			method: http.MethodPost,
			path:   "/api/prompts",
			body:   map[string]string{"framework": "cinematic"},
			status: http.StatusBadRequest,
		},
		{
			name:   "unknown framework",
			method: http.MethodPost,
			path:   "/api/prompts",
			body:   map[string]string{"framework": "opera", "subject": "x"},
			status: http.StatusBadRequest,
		},
		{
			name:   "bad aspect ratio",
			method: http.MethodPost,
			path:   "/api/prompts",
			body:   map[string]string{"subject": "x", "aspect_ratio": "7:5"},
			status: http.StatusBadRequest,
		},
		{
			name:   "missing result",
			method: http.MethodGet,
			path:   "/api/prompts/nope",
			status: http.StatusNotFound,
		},
		{
			name:   "no latest",
			method: http.MethodGet,
			path:   "/api/prompts/latest",
			status: http.StatusNotFound,
		},
		{
			name:   "empty image prompt",
			method: http.MethodPost,
			path:   "/api/images",
			body:   map[string]string{"prompt": " "},
			status: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			w := doJSON(t, r, tc.method, tc.path, "carol", tc.body)
			assert.Equal(t, tc.status, w.Code, w.Body.String())
			assert.NotEmpty(t, decode[map[string]string](t, w)["error"])
		})
	}
}

func TestParseSections(t *testing.T) {
	t.Parallel()

	r := newServer(t, &fakeBackend{})

	w := doJSON(t, r, http.MethodPost, "/api/sections/parse", "", map[string]any{
		"raw":    "INTRO: hello\nOUTRO: bye",
		"titles": []string{"INTRO", "OUTRO"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Mode     string `json:"mode"`
		Sections []struct {
			Title   string `json:"title"`
			Content string `json:"content"`
		} `json:"sections"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "text", resp.Mode)
	require.Len(t, resp.Sections, 2)
	assert.Equal(t, "INTRO", resp.Sections[0].Title)
	assert.Equal(t, "hello", resp.Sections[0].Content)

	w = doJSON(t, r, http.MethodPost, "/api/sections/parse", "", map[string]any{
		"raw":  `{"b":"2","a":"1"}`,
		"mode": "json",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Sections, 2)
	assert.Equal(t, "B", resp.Sections[0].Title)
	assert.Equal(t, "2", resp.Sections[0].Content)

	w = doJSON(t, r, http.MethodPost, "/api/sections/parse", "", map[string]any{"raw": "x", "mode": "xml"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpscaleRejectsNonImage(t *testing.T) {
	t.Parallel()

	r := newServer(t, &fakeBackend{})

	upload := func(mimeType string) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="image"; filename="f"`)
		h.Set("Content-Type", mimeType)
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, _ = part.Write([]byte("ABC"))
		require.NoError(t, mw.WriteField("hint", "sharper"))
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/images/upscale", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := upload("text/plain")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid file type. Please upload an image.", decode[map[string]string](t, w)["error"])

	w = upload("image/png")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []any{"data:image/png;base64,QUJD"}, decode[map[string]any](t, w)["images"])
}

func TestVideoSocketStreamsProgress(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{polls: []gemini.Operation{
		{Name: "operations/v1"},
		{Name: "operations/v1", Done: true, VideoURIs: []string{"https://example.test/v.mp4"}},
	}}
	srv := httptest.NewServer(newServer(t, backend))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/videos/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(map[string]string{"prompt": "a comet", "aspect_ratio": "16:9"}))

	var statuses []string
	var last map[string]any
	for {
		var ev map[string]any
		if err := conn.ReadJSON(&ev); err != nil {
			break
		}
		statuses = append(statuses, ev["status"].(string))
		last = ev
	}

	assert.Equal(t, []string{"started", "polling", "polling", "completed"}, statuses)
	require.NotNil(t, last)
	assert.Equal(t, true, last["done"])
	assert.Equal(t, "https://example.test/v.mp4", last["video_uri"])
	assert.Equal(t, []any{"https://example.test/v.mp4"}, last["video_uris"])
}

func uploadStyle(t *testing.T, r http.Handler, image []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("framework", "photoreal"))
	require.NoError(t, mw.WriteField("subject", "a lighthouse"))
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="style_image"; filename="style.png"`)
	h.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(image)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/prompts", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-Client-ID", "alice")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUploadsFollowConfiguredImageLimit(t *testing.T) {
	t.Parallel()

	serverWithLimit := func(limit int) *gin.Engine {
		svc := studio.New(studio.Options{
			Backend: &fakeBackend{text: "SUBJECT: a lighthouse"},
			Limits:  config.LimitSettings{MaxImageBytes: limit},
		})
		return api.NewRouter(api.Options{
			Studio:         svc,
			RequestTimeout: 5 * time.Second,
			MaxUploadBytes: api.UploadLimit(svc.ImageLimit()),
		})
	}

	testCases := []struct {
		name     string
		limit    int
		size     int
		code     int
		expected string
	}{
		{
			name:  "raised limit accepts image above the default",
			limit: 10 << 20,
			size:  6 << 20,
			code:  http.StatusCreated,
		},
		{
			name:     "lowered limit rejects by declared size",
			limit:    1 << 10,
			size:     2 << 10,
			code:     http.StatusBadRequest,
			expected: "File is too large. Please upload an image under 1KB.",
		},
		{
			name:     "body over the upload cap",
			limit:    1 << 10,
			size:     2 << 20,
			code:     http.StatusBadRequest,
			expected: "File is too large. Please upload an image under 1KB.",
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			w := uploadStyle(t, serverWithLimit(testCase.limit), bytes.Repeat([]byte{0x89}, testCase.size))
			require.Equal(t, testCase.code, w.Code, w.Body.String())
			if testCase.expected != "" {
				assert.Equal(t, testCase.expected, decode[map[string]string](t, w)["error"])
			}
		})
	}
}

func TestUploadLimitDefaultsFromStudio(t *testing.T) {
	t.Parallel()

	svc := studio.New(studio.Options{
		Backend: &fakeBackend{},
		Limits:  config.LimitSettings{MaxImageBytes: 1 << 10},
	})
	r := api.NewRouter(api.Options{Studio: svc})

	w := uploadStyle(t, r, bytes.Repeat([]byte{0x89}, 2<<20))
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Contains(t, decode[map[string]string](t, w)["error"], "File is too large")
	assert.Equal(t, int64(1<<10+1<<20), api.UploadLimit(1<<10))
}
