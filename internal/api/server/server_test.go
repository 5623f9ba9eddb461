package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"audio-pipeline/internal/api/handlers"
	"audio-pipeline/internal/api/middleware"
	"audio-pipeline/internal/api/routes"
	"audio-pipeline/internal/app/api/provider"
	"audio-pipeline/internal/app/logging"
	"audio-pipeline/internal/app/orchestrator"
	"audio-pipeline/internal/app/resolver"
	"audio-pipeline/internal/app/testutil"
)

func newTestRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	return newTestRouterWithCORS(t, middleware.CORSConfig{})
}

func newTestRouterWithCORS(t *testing.T, cors middleware.CORSConfig) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	workRoot, library := t.TempDir(), t.TempDir()
	testutil.WriteAudio(t, library, "greeting.wav", "hello")
	testutil.WriteAudio(t, library, "farewell.wav", "bye")
	store := testutil.SetupTestStore(t)

	backend := testutil.NewMockProvider(provider.BackendWhisper)
	backend.EchoPrefix = "heard: "

	registry := provider.NewProviderRegistry()
	require.NoError(t, registry.RegisterProvider(provider.BackendWhisper, backend))

	res := resolver.New(workRoot, library, nil, nil)
	orch := orchestrator.New(res, registry, orchestrator.NewRecorder(store, nil, nil), nil, nil, nil, orchestrator.Options{})

	frontend, err := logging.NewFrontendLogger(filepath.Join(t.TempDir(), "frontend.log"))
	require.NoError(t, err)
	t.Cleanup(func() { frontend.Close() })

	logger := zap.NewNop()
	router := NewRouter(&routes.Handlers{
		Audio:    handlers.NewAudioHandler(workRoot, library, nil, logger),
		Files:    handlers.NewFilesHandler(library, nil, logger),
		Process:  handlers.NewProcessHandler(orch, res, logger),
		Log:      handlers.NewLogHandler(frontend),
		Backends: handlers.NewBackendsHandler(registry, orch.Stats()),
	}, cors, logger)
	return router, workRoot
}

func TestRouter_ProcessAudioEndToEnd(t *testing.T) {
	router, workRoot := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/process-audio",
		bytes.NewBufferString(`{"model":"onDevice","files":["greeting.wav"]}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `[{"filename":"greeting.wav","transcription":"heard: hello"}]`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	entries, err := os.ReadDir(workRoot)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRouter_AbortedBatchStatus(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/process-audio",
		bytes.NewBufferString(`{"model":"whisper","files":["missing.wav"],"policy":"abort"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error"`)
}

func TestRouter_MissingFileAbortsByDefault(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/process-audio",
		bytes.NewBufferString(`{"model":"whisper","files":["greeting.wav","missing.wav","farewell.wav"]}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), "an error object, not a result array")
	assert.Contains(t, body["error"], "missing.wav")
}

func TestRouter_HealthMetricsAndCORS(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "audio_pipeline_http_requests_total")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/log", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_RestrictedCORS(t *testing.T) {
	router, _ := newTestRouterWithCORS(t, middleware.NewCORSConfig(
		[]string{"https://app.example.com/", " https://app.example.com"}, []string{"x-client-version"}))

	req := httptest.NewRequest(http.MethodOptions, "/api/process-audio", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Origin", rec.Header().Get("Vary"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "X-Client-Version")
	assert.Equal(t, "3600", rec.Header().Get("Access-Control-Max-Age"))

	req = httptest.NewRequest(http.MethodOptions, "/api/process-audio", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_SwaggerSpec(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	paths, ok := doc["paths"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, paths, "/api/process-audio")
	assert.Contains(t, paths, "/api/backends")
}

func TestRouter_RecoversFromPanics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router, _ := newTestRouter(t)
	router.GET("/panic", func(c *gin.Context) { panic("boom") })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal server error")
}
