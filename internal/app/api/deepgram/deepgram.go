// Package deepgram transcribes audio with the hosted Deepgram API.
// Deepgram pulls the audio itself, so staged files are published through a public tunnel
// in front of this service's /audio route.
package deepgram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"audio-pipeline/internal/app/api/provider"
)

const defaultListenURL = "https://api.deepgram.com/v1/listen"

// listenParams are the feature flags sent with every request.
var listenParams = map[string]string{
	"punctuate":       "true",
	"language":        "en",
	"model":           "nova-3",
	"summarize":       "v2",
	"topics":          "true",
	"sentiment":       "true",
	"intents":         "true",
	"entities":        "true",
	"detect_entities": "true",
	"smart_format":    "true",
}

// URLPublisher resolves the public base URL this service is reachable at.
type URLPublisher interface {
	PublicURL(ctx context.Context) (string, error)
}

// Config represents configuration for the Deepgram provider
type Config struct {
	APIKey    string
	ListenURL string
	Timeout   time.Duration
}

// Client implements provider.TranscriptionProvider on top of Deepgram's pre-recorded API.
type Client struct {
	config    Config
	publisher URLPublisher
	client    *http.Client
	logger    *zap.Logger
}

type listenResponse struct {
	Results struct {
		Channels []struct {
			Alternatives []struct {
				Transcript string `json:"transcript"`
			} `json:"alternatives"`
		} `json:"channels"`
	} `json:"results"`
}

// NewClient creates a Deepgram client that publishes files through publisher.
func NewClient(config Config, publisher URLPublisher, logger *zap.Logger) *Client {
	if config.ListenURL == "" {
		config.ListenURL = defaultListenURL
	}
	if config.Timeout == 0 {
		config.Timeout = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		config:    config,
		publisher: publisher,
		client:    &http.Client{Timeout: config.Timeout},
		logger:    logger,
	}
}

// AudioURL builds the public URL of a staged file.
func AudioURL(publicBase, relPath string) (string, error) {
	return url.JoinPath(publicBase, "audio", relPath)
}

// TranscriptWithOptions publishes the staged file URL to Deepgram and extracts the first transcript.
func (c *Client) TranscriptWithOptions(ctx context.Context, request *provider.TranscriptionRequest) (*provider.TranscriptionResponse, error) {
	startTime := time.Now()

	public, err := c.publisher.PublicURL(ctx)
	if err != nil {
		return nil, provider.Unavailable(provider.BackendDeepgram, "no_tunnel", err, "no public URL for audio")
	}

	relPath := request.RelPath
	if relPath == "" {
		relPath = request.FileName
	}
	audioURL, err := AudioURL(public, relPath)
	if err != nil {
		return nil, provider.Unavailable(provider.BackendDeepgram, "bad_public_url", err, "cannot build audio URL")
	}

	payload, _ := json.Marshal(map[string]string{"url": audioURL})

	endpoint, err := url.Parse(c.config.ListenURL)
	if err != nil {
		return nil, provider.Unavailable(provider.BackendDeepgram, "bad_endpoint", err, "invalid Deepgram endpoint")
	}
	q := endpoint.Query()
	for k, v := range listenParams {
		q.Set(k, v)
	}
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(payload))
	if err != nil {
		return nil, provider.Unavailable(provider.BackendDeepgram, "request_creation_error", err, "failed to create request")
	}
	req.Header.Set("Authorization", "Token "+c.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	c.logger.Info("sending audio URL to Deepgram", zap.String("url", audioURL))

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, provider.Unavailable(provider.BackendDeepgram, "network_error", err, "failed to call Deepgram API")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, provider.Unavailable(provider.BackendDeepgram, "read_error", err, "failed to read Deepgram response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, provider.Failed(provider.BackendDeepgram, "api_error", nil,
			fmt.Sprintf("Deepgram API error (HTTP %d): %s", resp.StatusCode, truncate(string(body), 512)))
	}

	var parsed listenResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, provider.Failed(provider.BackendDeepgram, "response_parse_error", err, "failed to parse Deepgram response")
	}

	return &provider.TranscriptionResponse{
		Text:           parsed.firstTranscript(),
		Language:       listenParams["language"],
		ProcessingTime: time.Since(startTime),
		ModelUsed:      listenParams["model"],
	}, nil
}

// firstTranscript returns results.channels[0].alternatives[0].transcript, or "" when absent.
func (r *listenResponse) firstTranscript() string {
	if len(r.Results.Channels) == 0 || len(r.Results.Channels[0].Alternatives) == 0 {
		return ""
	}
	return r.Results.Channels[0].Alternatives[0].Transcript
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// GetProviderInfo returns metadata about the Deepgram provider
func (c *Client) GetProviderInfo() provider.ProviderInfo {
	return provider.ProviderInfo{
		Name:             provider.BackendDeepgram,
		DisplayName:      "Deepgram (hosted)",
		Type:             provider.ProviderTypeRemote,
		DefaultModel:     listenParams["model"],
		RequiresInternet: true,
		RequiresAPIKey:   true,
	}
}

// ValidateConfiguration validates the provider configuration
func (c *Client) ValidateConfiguration() error {
	if c.config.APIKey == "" {
		return fmt.Errorf("Deepgram API key is required")
	}
	if c.publisher == nil {
		return fmt.Errorf("Deepgram requires a tunnel URL publisher")
	}
	return nil
}

// HealthCheck verifies a public tunnel is currently advertised
func (c *Client) HealthCheck(ctx context.Context) error {
	if err := c.ValidateConfiguration(); err != nil {
		return err
	}
	_, err := c.publisher.PublicURL(ctx)
	return err
}
