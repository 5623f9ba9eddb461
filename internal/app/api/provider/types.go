package provider

import (
	"strings"
	"time"

	apperrors "audio-pipeline/internal/app/errors"
)

// BackendID identifies one transcription backend. The set is closed.
type BackendID string

const (
	// BackendDeepgram is the hosted ASR reached through a public tunnel URL.
	BackendDeepgram BackendID = "deepgram"
	// BackendWhisper is the on-device whisper.cpp model.
	BackendWhisper BackendID = "whisper"
	// BackendOpenAI is the OpenAI whisper-1 API.
	BackendOpenAI BackendID = "openai"
	// BackendElevenLabs is the ElevenLabs speech-to-text API.
	BackendElevenLabs BackendID = "elevenlabs"
)

// backendNames maps every accepted lower-case name onto its backend.
var backendNames = map[string]BackendID{
	"deepgram":   BackendDeepgram,
	"hosted":     BackendDeepgram,
	"whisper":    BackendWhisper,
	"ondevice":   BackendWhisper,
	"local":      BackendWhisper,
	"openai":     BackendOpenAI,
	"elevenlabs": BackendElevenLabs,
}

// AllBackends lists the known identifiers in display order.
var AllBackends = []BackendID{BackendWhisper, BackendDeepgram, BackendOpenAI, BackendElevenLabs}

// ParseBackendID resolves a name case-insensitively. Unknown names fail with invalid_model.
func ParseBackendID(name string) (BackendID, error) {
	id, ok := backendNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", apperrors.InvalidModel(name)
	}
	return id, nil
}

// ProviderType defines the type of transcription provider
type ProviderType string

const (
	ProviderTypeLocal  ProviderType = "local"
	ProviderTypeRemote ProviderType = "remote"
)

// TranscriptionRequest describes one staged file to transcribe
type TranscriptionRequest struct {
	// InputFilePath is the local path of the staged bytes
	InputFilePath string `json:"input_file_path"`

	// FileName is the user facing name of the file
	FileName string `json:"file_name"`

	// RelPath is the staged file's path below the working-area root, used to publish it
	RelPath string `json:"rel_path,omitempty"`

	Language string `json:"language,omitempty"`
}

// TranscriptionResponse represents the response from a transcription provider
type TranscriptionResponse struct {
	Text           string        `json:"text"`
	Language       string        `json:"language,omitempty"`
	ProcessingTime time.Duration `json:"processing_time,omitempty"`
	ModelUsed      string        `json:"model_used,omitempty"`
}

// ProviderInfo contains metadata about a transcription provider
type ProviderInfo struct {
	Name             BackendID    `json:"name"`
	DisplayName      string       `json:"display_name"`
	Type             ProviderType `json:"type"`
	DefaultModel     string       `json:"default_model,omitempty"`
	RequiresInternet bool         `json:"requires_internet"`
	RequiresAPIKey   bool         `json:"requires_api_key"`
	RequiresBinary   bool         `json:"requires_binary"`
}

// TranscriptionError represents provider-specific errors
type TranscriptionError struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Provider  BackendID      `json:"provider"`
	Retryable bool           `json:"retryable"`
	ErrKind   apperrors.Kind `json:"kind"`
	Cause     error          `json:"-"`
}

func (e *TranscriptionError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *TranscriptionError) Unwrap() error {
	return e.Cause
}

// Kind lets errors.KindOf classify provider failures.
func (e *TranscriptionError) Kind() apperrors.Kind {
	return e.ErrKind
}

// Unavailable builds a retryable error for a backend that could not be reached.
func Unavailable(id BackendID, code string, cause error, message string) *TranscriptionError {
	return &TranscriptionError{
		Code:      code,
		Message:   message,
		Provider:  id,
		Retryable: true,
		ErrKind:   apperrors.KindBackendUnavailable,
		Cause:     cause,
	}
}

// Failed builds an error for a backend that was reached but reported failure.
func Failed(id BackendID, code string, cause error, message string) *TranscriptionError {
	return &TranscriptionError{
		Code:     code,
		Message:  message,
		Provider: id,
		ErrKind:  apperrors.KindBackendError,
		Cause:    cause,
	}
}
