package openai

import (
	"github.com/sashabaranov/go-openai"

	apperrors "audio-pipeline/internal/app/errors"
)

// NewClient builds an OpenAI client. baseURL may be empty to use the public API.
func NewClient(apiKey, baseURL string) (*openai.Client, error) {
	if apiKey == "" {
		return nil, apperrors.Wrap(apperrors.ErrMissingAPIKey, "OPENAI_API_KEY is not set")
	}
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(config), nil
}
