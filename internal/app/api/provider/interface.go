package provider

import (
	"context"
)

// TranscriptionProvider is the single capability every backend implements:
// take a staged local file, return its transcript.
type TranscriptionProvider interface {
	// TranscriptWithOptions transcribes request.InputFilePath.
	// Failures carry an error kind (backend_unavailable, backend_error, ...).
	TranscriptWithOptions(ctx context.Context, request *TranscriptionRequest) (*TranscriptionResponse, error)

	// GetProviderInfo returns static metadata about the backend
	GetProviderInfo() ProviderInfo

	// ValidateConfiguration checks the backend can be used at all
	ValidateConfiguration() error

	// HealthCheck verifies the backend is reachable right now
	HealthCheck(ctx context.Context) error
}

// ProviderRegistry manages the transcription backends of the process
type ProviderRegistry interface {
	// RegisterProvider registers a backend under its identifier
	RegisterProvider(id BackendID, provider TranscriptionProvider) error

	// Lookup resolves a user supplied name (case-insensitive, aliases, "" for default)
	Lookup(name string) (BackendID, TranscriptionProvider, error)

	// ListProviders lists registered identifiers in a stable order
	ListProviders() []BackendID

	// DefaultProvider returns the identifier used for an empty name
	DefaultProvider() BackendID

	// SetDefaultProvider sets the default backend
	SetDefaultProvider(id BackendID) error

	// HealthCheckAll probes every registered backend concurrently
	HealthCheckAll(ctx context.Context) map[BackendID]error
}

// ProviderMetrics records per-backend outcomes
type ProviderMetrics interface {
	// RecordSuccess records a successful transcription
	RecordSuccess(id BackendID, latencyMs int64)

	// RecordFailure records a failed transcription
	RecordFailure(id BackendID, errorType string)

	// GetProviderMetrics returns metrics for a backend
	GetProviderMetrics(id BackendID) ProviderStats
}

// ProviderStats contains statistics for a specific backend
type ProviderStats struct {
	Provider           BackendID        `json:"provider"`
	TotalRequests      int64            `json:"total_requests"`
	SuccessfulRequests int64            `json:"successful_requests"`
	FailedRequests     int64            `json:"failed_requests"`
	SuccessRate        float64          `json:"success_rate"`
	AverageLatencyMs   float64          `json:"average_latency_ms"`
	LastUsed           int64            `json:"last_used_timestamp"`
	ErrorBreakdown     map[string]int64 `json:"error_breakdown"`
}
