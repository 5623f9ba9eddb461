package testutil

import (
	"context"
	"os"
	"sync"
	"time"

	"audio-pipeline/internal/app/api/provider"
)

// MockProvider is a configurable provider.TranscriptionProvider.
//
// The transcript of a request is chosen in this order: ErrorMap, ResponseMap (both keyed by
// file name), EchoPrefix followed by the staged bytes, DefaultResponse.
type MockProvider struct {
	ID              provider.BackendID
	DefaultResponse string
	EchoPrefix      string
	Latency         time.Duration
	ResponseMap     map[string]string
	ErrorMap        map[string]error
	HealthErr       error

	mu    sync.Mutex
	calls []TranscriptionCall
}

// TranscriptionCall records one request seen by a MockProvider.
type TranscriptionCall struct {
	FileName      string
	InputFilePath string
	RelPath       string
	Timestamp     time.Time
}

// NewMockProvider creates a MockProvider for id with sensible defaults.
func NewMockProvider(id provider.BackendID) *MockProvider {
	return &MockProvider{
		ID:              id,
		DefaultResponse: "This is a mock transcription result.",
		ResponseMap:     make(map[string]string),
		ErrorMap:        make(map[string]error),
	}
}

// TranscriptWithOptions implements provider.TranscriptionProvider.
func (m *MockProvider) TranscriptWithOptions(ctx context.Context, req *provider.TranscriptionRequest) (*provider.TranscriptionResponse, error) {
	m.mu.Lock()
	m.calls = append(m.calls, TranscriptionCall{
		FileName:      req.FileName,
		InputFilePath: req.InputFilePath,
		RelPath:       req.RelPath,
		Timestamp:     time.Now(),
	})
	m.mu.Unlock()

	if m.Latency > 0 {
		select {
		case <-time.After(m.Latency):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err, ok := m.ErrorMap[req.FileName]; ok {
		return nil, err
	}
	if text, ok := m.ResponseMap[req.FileName]; ok {
		return &provider.TranscriptionResponse{Text: text, ModelUsed: string(m.ID)}, nil
	}
	if m.EchoPrefix != "" {
		data, err := os.ReadFile(req.InputFilePath)
		if err != nil {
			return nil, provider.Failed(m.ID, "read_failed", err, "cannot read staged file")
		}
		return &provider.TranscriptionResponse{Text: m.EchoPrefix + string(data), ModelUsed: string(m.ID)}, nil
	}
	return &provider.TranscriptionResponse{Text: m.DefaultResponse, ModelUsed: string(m.ID)}, nil
}

// GetProviderInfo implements provider.TranscriptionProvider.
func (m *MockProvider) GetProviderInfo() provider.ProviderInfo {
	return provider.ProviderInfo{
		Name:        m.ID,
		DisplayName: "Mock " + string(m.ID),
		Type:        provider.ProviderTypeLocal,
	}
}

// ValidateConfiguration implements provider.TranscriptionProvider.
func (m *MockProvider) ValidateConfiguration() error {
	return nil
}

// HealthCheck implements provider.TranscriptionProvider.
func (m *MockProvider) HealthCheck(context.Context) error {
	return m.HealthErr
}

// Calls returns the requests seen so far, in arrival order.
func (m *MockProvider) Calls() []TranscriptionCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]TranscriptionCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns how many requests were seen.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}
