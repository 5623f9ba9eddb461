// Package dto holds the request and response bodies of the HTTP API.
package dto

import "audio-pipeline/internal/app/api/provider"

// ProcessAudioRequest is the JSON form of POST /api/process-audio.
type ProcessAudioRequest struct {
	Model   string   `json:"model"`
	Files   []string `json:"files" binding:"required,min=1,dive,required"`
	IsAzure bool     `json:"isAzure"`
	// Policy is "abort" or "isolate"; empty uses BATCH_FAILURE_POLICY.
	Policy string `json:"policy"`
}

// LogRequest is the body of POST /api/log.
type LogRequest struct {
	Level     string                 `json:"level" binding:"omitempty,oneof=log info warn error debug"`
	Message   string                 `json:"message" binding:"required"`
	Metadata  map[string]interface{} `json:"metadata"`
	Timestamp string                 `json:"timestamp,omitempty"`
}

// BackendStatus describes one registered backend.
type BackendStatus struct {
	ID          provider.BackendID     `json:"id"`
	DisplayName string                 `json:"display_name"`
	Type        provider.ProviderType  `json:"type"`
	Default     bool                   `json:"default"`
	Healthy     bool                   `json:"healthy"`
	Error       string                 `json:"error,omitempty"`
	Stats       provider.ProviderStats `json:"stats"`
}

// BackendsResponse is the body of GET /api/backends.
type BackendsResponse struct {
	Default  provider.BackendID `json:"default"`
	Backends []BackendStatus    `json:"backends"`
}
