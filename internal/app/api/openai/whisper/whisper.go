package whisper

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/sashabaranov/go-openai"

	"audio-pipeline/internal/app/api/provider"
	"audio-pipeline/internal/app/util/files"
)

// RemoteTranscriber implements remote transcription using the OpenAI API.
type RemoteTranscriber struct {
	client *openai.Client
	model  string
}

// NewRemoteTranscriber creates a new RemoteTranscriber instance. An empty model selects whisper-1.
func NewRemoteTranscriber(client *openai.Client, model string) *RemoteTranscriber {
	if model == "" {
		model = openai.Whisper1
	}
	return &RemoteTranscriber{client: client, model: model}
}

// TranscriptWithOptions uploads the staged file to the OpenAI transcription endpoint.
func (rt *RemoteTranscriber) TranscriptWithOptions(ctx context.Context, request *provider.TranscriptionRequest) (*provider.TranscriptionResponse, error) {
	startTime := time.Now()

	if !files.IsRegularFile(request.InputFilePath) {
		return nil, provider.Failed(provider.BackendOpenAI, "file_not_found", nil,
			fmt.Sprintf("input file not found: %s", request.InputFilePath))
	}

	req := openai.AudioRequest{
		Model:    rt.model,
		FilePath: request.InputFilePath,
		Language: request.Language,
	}
	resp, err := rt.client.CreateTranscription(ctx, req)
	if err != nil {
		return nil, classify(err)
	}

	return &provider.TranscriptionResponse{
		Text:           resp.Text,
		Language:       resp.Language,
		ProcessingTime: time.Since(startTime),
		ModelUsed:      rt.model,
	}, nil
}

// classify maps transport failures to unavailable and everything the API answered to a backend error.
func classify(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return provider.Unavailable(provider.BackendOpenAI, "network_error", err, "createTranscription failed")
	}
	return provider.Failed(provider.BackendOpenAI, "api_error", err, "createTranscription failed")
}

// GetProviderInfo returns metadata about the OpenAI provider
func (rt *RemoteTranscriber) GetProviderInfo() provider.ProviderInfo {
	return provider.ProviderInfo{
		Name:             provider.BackendOpenAI,
		DisplayName:      "OpenAI Whisper API",
		Type:             provider.ProviderTypeRemote,
		DefaultModel:     rt.model,
		RequiresInternet: true,
		RequiresAPIKey:   true,
	}
}

// ValidateConfiguration checks the client is set
func (rt *RemoteTranscriber) ValidateConfiguration() error {
	if rt.client == nil {
		return fmt.Errorf("openai client is not configured")
	}
	return nil
}

// HealthCheck lists models as a cheap authenticated round trip
func (rt *RemoteTranscriber) HealthCheck(ctx context.Context) error {
	if err := rt.ValidateConfiguration(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if _, err := rt.client.ListModels(ctx); err != nil {
		return classify(err)
	}
	return nil
}
