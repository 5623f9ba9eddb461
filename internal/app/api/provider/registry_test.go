package provider

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "audio-pipeline/internal/app/errors"
)

// MockTranscriptionProvider implements TranscriptionProvider interface for testing
type MockTranscriptionProvider struct {
	id              BackendID
	transcriptFunc  func(string) (string, error)
	validateFunc    func() error
	healthCheckFunc func(context.Context) error
}

func (m *MockTranscriptionProvider) TranscriptWithOptions(ctx context.Context, request *TranscriptionRequest) (*TranscriptionResponse, error) {
	text := "mock transcription result"
	if m.transcriptFunc != nil {
		var err error
		if text, err = m.transcriptFunc(request.InputFilePath); err != nil {
			return nil, err
		}
	}
	return &TranscriptionResponse{Text: text, ProcessingTime: 100 * time.Millisecond, ModelUsed: "mock-model"}, nil
}

func (m *MockTranscriptionProvider) GetProviderInfo() ProviderInfo {
	return ProviderInfo{Name: m.id, DisplayName: "Mock Provider", Type: ProviderTypeLocal}
}

func (m *MockTranscriptionProvider) ValidateConfiguration() error {
	if m.validateFunc != nil {
		return m.validateFunc()
	}
	return nil
}

func (m *MockTranscriptionProvider) HealthCheck(ctx context.Context) error {
	if m.healthCheckFunc != nil {
		return m.healthCheckFunc(ctx)
	}
	return nil
}

func TestParseBackendID(t *testing.T) {
	cases := map[string]BackendID{
		"deepgram":   BackendDeepgram,
		"Hosted":     BackendDeepgram,
		"WHISPER":    BackendWhisper,
		"ondevice":   BackendWhisper,
		" local ":    BackendWhisper,
		"openai":     BackendOpenAI,
		"ElevenLabs": BackendElevenLabs,
	}
	for name, want := range cases {
		got, err := ParseBackendID(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseBackendID("gpt-9000")
	assert.Equal(t, apperrors.KindInvalidModel, apperrors.KindOf(err))
}

func TestRegistry_RegisterProvider(t *testing.T) {
	registry := NewProviderRegistry()

	require.NoError(t, registry.RegisterProvider(BackendWhisper, &MockTranscriptionProvider{id: BackendWhisper}))
	assert.Equal(t, BackendWhisper, registry.DefaultProvider(), "first provider becomes default")

	err := registry.RegisterProvider(BackendWhisper, &MockTranscriptionProvider{id: BackendWhisper})
	assert.Error(t, err, "duplicate registration")

	err = registry.RegisterProvider("mystery", &MockTranscriptionProvider{})
	assert.Error(t, err)

	err = registry.RegisterProvider(BackendOpenAI, nil)
	assert.Error(t, err)

	err = registry.RegisterProvider(BackendOpenAI, &MockTranscriptionProvider{
		validateFunc: func() error { return errors.New("missing key") },
	})
	assert.ErrorContains(t, err, "missing key")
	assert.Equal(t, []BackendID{BackendWhisper}, registry.ListProviders())
}

func TestRegistry_Lookup(t *testing.T) {
	registry := NewProviderRegistry()

	_, _, err := registry.Lookup("")
	assert.Equal(t, apperrors.KindBackendUnavailable, apperrors.KindOf(err), "empty registry has no default")

	require.NoError(t, registry.RegisterProvider(BackendWhisper, &MockTranscriptionProvider{id: BackendWhisper}))
	require.NoError(t, registry.RegisterProvider(BackendDeepgram, &MockTranscriptionProvider{id: BackendDeepgram}))
	require.NoError(t, registry.SetDefaultProvider(BackendDeepgram))

	id, p, err := registry.Lookup("")
	require.NoError(t, err)
	assert.Equal(t, BackendDeepgram, id)
	assert.NotNil(t, p)

	id, _, err = registry.Lookup("OnDevice")
	require.NoError(t, err)
	assert.Equal(t, BackendWhisper, id)

	_, _, err = registry.Lookup("nope")
	assert.Equal(t, apperrors.KindInvalidModel, apperrors.KindOf(err))

	_, _, err = registry.Lookup("openai")
	assert.Equal(t, apperrors.KindBackendUnavailable, apperrors.KindOf(err), "known but not configured")

	assert.Error(t, registry.SetDefaultProvider(BackendOpenAI))
}

func TestRegistry_HealthCheckAll(t *testing.T) {
	registry := NewProviderRegistry()
	down := errors.New("down")
	require.NoError(t, registry.RegisterProvider(BackendWhisper, &MockTranscriptionProvider{}))
	require.NoError(t, registry.RegisterProvider(BackendOpenAI, &MockTranscriptionProvider{
		healthCheckFunc: func(context.Context) error { return down },
	}))

	results := registry.HealthCheckAll(context.Background())
	assert.Len(t, results, 2)
	assert.NoError(t, results[BackendWhisper])
	assert.Equal(t, down, results[BackendOpenAI])
}

func TestProviderMetrics(t *testing.T) {
	m := NewProviderMetrics()
	m.RecordSuccess(BackendWhisper, 100)
	m.RecordSuccess(BackendWhisper, 200)
	m.RecordFailure(BackendWhisper, string(apperrors.KindBackendError))

	stats := m.GetProviderMetrics(BackendWhisper)
	assert.Equal(t, int64(3), stats.TotalRequests)
	assert.Equal(t, int64(2), stats.SuccessfulRequests)
	assert.Equal(t, int64(1), stats.ErrorBreakdown["backend_error"])
	assert.InDelta(t, 2.0/3.0, stats.SuccessRate, 0.0001)
	assert.InDelta(t, 120.0, stats.AverageLatencyMs, 0.0001)

	empty := m.GetProviderMetrics(BackendOpenAI)
	assert.Zero(t, empty.TotalRequests)
}

func TestConfigManager_LoadConfig(t *testing.T) {
	t.Setenv("TEST_DG_KEY", "secret")
	path := filepath.Join(t.TempDir(), "backends.yaml")
	doc := `
default_backend: hosted
backends:
  Hosted:
    api_key: ${TEST_DG_KEY}
    timeout_sec: 30
  local:
    model_path: /models/ggml-base.en.bin
  openai:
    enabled: false
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	cfg, err := NewConfigManager(path).LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "deepgram", cfg.DefaultBackend)
	assert.Equal(t, "secret", cfg.For(BackendDeepgram).APIKey)
	assert.Equal(t, 30*time.Second, cfg.For(BackendDeepgram).Timeout(time.Minute))
	assert.Equal(t, "/models/ggml-base.en.bin", cfg.For(BackendWhisper).ModelPath)
	assert.False(t, cfg.For(BackendOpenAI).IsEnabled())
	assert.True(t, cfg.For(BackendElevenLabs).IsEnabled())
}

func TestConfigManager_Errors(t *testing.T) {
	cfg, err := NewConfigManager(filepath.Join(t.TempDir(), "missing.yaml")).LoadConfig()
	require.NoError(t, err)
	assert.Empty(t, cfg.Backends)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backends:\n  siri: {}\n"), 0644))
	_, err = NewConfigManager(path).LoadConfig()
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("default_backend: openai\nbackends:\n  openai:\n    enabled: false\n"), 0644))
	_, err = NewConfigManager(path).LoadConfig()
	assert.ErrorContains(t, err, "disabled")
}
