package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"audio-pipeline/internal/app/api/provider"
)

const maxUploadBytes = 1 << 30

// ElevenLabsSTTProvider implements the TranscriptionProvider interface for ElevenLabs Speech-to-Text API
type ElevenLabsSTTProvider struct {
	config ElevenLabsConfig
	client *http.Client
}

// ElevenLabsConfig represents configuration for ElevenLabs STT provider
type ElevenLabsConfig struct {
	APIKey   string        `yaml:"api_key"`
	BaseURL  string        `yaml:"base_url"`
	Model    string        `yaml:"model"`
	Language string        `yaml:"language"`
	Timeout  time.Duration `yaml:"-"`
}

// ElevenLabsResponse represents the response from ElevenLabs STT API
type ElevenLabsResponse struct {
	LanguageCode string `json:"language_code"`
	Text         string `json:"text"`
}

// NewElevenLabsSTTProvider creates a new ElevenLabs STT provider
func NewElevenLabsSTTProvider(config ElevenLabsConfig) *ElevenLabsSTTProvider {
	if config.BaseURL == "" {
		config.BaseURL = "https://api.elevenlabs.io/v1"
	}
	if config.Model == "" {
		config.Model = "scribe_v1"
	}
	if config.Timeout == 0 {
		config.Timeout = 2 * time.Minute
	}

	return &ElevenLabsSTTProvider{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}
}

// TranscriptWithOptions implements the enhanced transcription interface
func (el *ElevenLabsSTTProvider) TranscriptWithOptions(ctx context.Context, request *provider.TranscriptionRequest) (*provider.TranscriptionResponse, error) {
	startTime := time.Now()

	fileInfo, err := os.Stat(request.InputFilePath)
	if err != nil {
		return nil, provider.Failed(provider.BackendElevenLabs, "file_not_found", err, "input file not found")
	}
	if fileInfo.Size() > maxUploadBytes {
		return nil, provider.Failed(provider.BackendElevenLabs, "file_too_large", nil, "file size exceeds 1GB limit")
	}

	httpReq, err := el.createHTTPRequest(ctx, request)
	if err != nil {
		return nil, err
	}

	resp, err := el.client.Do(httpReq)
	if err != nil {
		return nil, provider.Unavailable(provider.BackendElevenLabs, "network_error", err, "failed to call ElevenLabs API")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, el.handleHTTPError(resp)
	}

	var elevenLabsResp ElevenLabsResponse
	if err := json.NewDecoder(resp.Body).Decode(&elevenLabsResp); err != nil {
		return nil, provider.Failed(provider.BackendElevenLabs, "response_parse_error", err, "failed to parse API response")
	}

	return &provider.TranscriptionResponse{
		Text:           elevenLabsResp.Text,
		Language:       elevenLabsResp.LanguageCode,
		ProcessingTime: time.Since(startTime),
		ModelUsed:      el.config.Model,
	}, nil
}

// createHTTPRequest creates the HTTP request for the ElevenLabs API
func (el *ElevenLabsSTTProvider) createHTTPRequest(ctx context.Context, request *provider.TranscriptionRequest) (*http.Request, error) {
	file, err := os.Open(request.InputFilePath)
	if err != nil {
		return nil, provider.Failed(provider.BackendElevenLabs, "file_open_error", err, "failed to open audio file")
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	name := request.FileName
	if name == "" {
		name = filepath.Base(request.InputFilePath)
	}
	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		return nil, provider.Failed(provider.BackendElevenLabs, "form_creation_error", err, "failed to create form")
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, provider.Failed(provider.BackendElevenLabs, "file_copy_error", err, "failed to copy file data")
	}

	writer.WriteField("model_id", el.config.Model)
	language := request.Language
	if language == "" {
		language = el.config.Language
	}
	if language != "" {
		writer.WriteField("language_code", language)
	}
	writer.Close()

	url := fmt.Sprintf("%s/speech-to-text", el.config.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return nil, provider.Failed(provider.BackendElevenLabs, "request_creation_error", err, "failed to create HTTP request")
	}

	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("xi-api-key", el.config.APIKey)
	req.Header.Set("User-Agent", "audio-pipeline/1.0")

	return req, nil
}

// handleHTTPError handles HTTP error responses
func (el *ElevenLabsSTTProvider) handleHTTPError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return provider.Failed(provider.BackendElevenLabs, "authentication_failed", nil,
			"ElevenLabs API key is invalid or missing")
	case http.StatusTooManyRequests:
		e := provider.Failed(provider.BackendElevenLabs, "rate_limit_exceeded", nil, "ElevenLabs API rate limit exceeded")
		e.Retryable = true
		return e
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return provider.Unavailable(provider.BackendElevenLabs, "server_unavailable", nil,
			fmt.Sprintf("ElevenLabs unavailable (HTTP %d)", resp.StatusCode))
	default:
		return provider.Failed(provider.BackendElevenLabs, "api_error", nil,
			fmt.Sprintf("unexpected HTTP status %d: %s", resp.StatusCode, string(body)))
	}
}

// GetProviderInfo returns metadata about the ElevenLabs provider
func (el *ElevenLabsSTTProvider) GetProviderInfo() provider.ProviderInfo {
	return provider.ProviderInfo{
		Name:             provider.BackendElevenLabs,
		DisplayName:      "ElevenLabs Speech-to-Text",
		Type:             provider.ProviderTypeRemote,
		DefaultModel:     el.config.Model,
		RequiresInternet: true,
		RequiresAPIKey:   true,
	}
}

// ValidateConfiguration validates the provider configuration
func (el *ElevenLabsSTTProvider) ValidateConfiguration() error {
	if el.config.APIKey == "" {
		return fmt.Errorf("ElevenLabs API key is required")
	}
	return nil
}

// HealthCheck performs a health check on the provider
func (el *ElevenLabsSTTProvider) HealthCheck(ctx context.Context) error {
	if err := el.ValidateConfiguration(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, el.config.BaseURL+"/user", nil)
	if err != nil {
		return err
	}
	req.Header.Set("xi-api-key", el.config.APIKey)

	resp, err := el.client.Do(req)
	if err != nil {
		return provider.Unavailable(provider.BackendElevenLabs, "network_error", err, "ElevenLabs API unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return provider.Failed(provider.BackendElevenLabs, "authentication_failed", nil, "ElevenLabs API key is invalid")
	}
	if resp.StatusCode >= 500 {
		return provider.Unavailable(provider.BackendElevenLabs, "server_unavailable", nil,
			fmt.Sprintf("ElevenLabs returned HTTP %d", resp.StatusCode))
	}
	return nil
}
