package provider

import (
	"sync"
	"time"

	"audio-pipeline/internal/app/metrics"
)

// DefaultProviderMetrics keeps in-memory per-backend statistics and mirrors
// every observation into the process Prometheus collectors.
type DefaultProviderMetrics struct {
	mu            sync.RWMutex
	providerStats map[BackendID]*ProviderStats
}

// NewProviderMetrics creates a new provider metrics instance
func NewProviderMetrics() *DefaultProviderMetrics {
	return &DefaultProviderMetrics{
		providerStats: make(map[BackendID]*ProviderStats),
	}
}

// RecordSuccess records a successful transcription
func (m *DefaultProviderMetrics) RecordSuccess(id BackendID, latencyMs int64) {
	metrics.BackendDuration.WithLabelValues(string(id)).Observe(float64(latencyMs) / 1000)

	m.mu.Lock()
	defer m.mu.Unlock()

	stats := m.getOrCreateStats(id)
	stats.TotalRequests++
	stats.SuccessfulRequests++
	stats.LastUsed = time.Now().Unix()

	// Weighted average favoring recent results
	if stats.AverageLatencyMs == 0 {
		stats.AverageLatencyMs = float64(latencyMs)
	} else {
		stats.AverageLatencyMs = (stats.AverageLatencyMs * 0.8) + (float64(latencyMs) * 0.2)
	}

	stats.SuccessRate = float64(stats.SuccessfulRequests) / float64(stats.TotalRequests)
}

// RecordFailure records a failed transcription
func (m *DefaultProviderMetrics) RecordFailure(id BackendID, errorType string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := m.getOrCreateStats(id)
	stats.TotalRequests++
	stats.FailedRequests++
	stats.LastUsed = time.Now().Unix()
	stats.ErrorBreakdown[errorType]++
	stats.SuccessRate = float64(stats.SuccessfulRequests) / float64(stats.TotalRequests)
}

// GetProviderMetrics returns metrics for a specific provider
func (m *DefaultProviderMetrics) GetProviderMetrics(id BackendID) ProviderStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats, exists := m.providerStats[id]
	if !exists {
		return ProviderStats{Provider: id, ErrorBreakdown: map[string]int64{}}
	}

	// Return a copy to avoid race conditions
	out := *stats
	out.ErrorBreakdown = make(map[string]int64, len(stats.ErrorBreakdown))
	for k, v := range stats.ErrorBreakdown {
		out.ErrorBreakdown[k] = v
	}
	return out
}

// getOrCreateStats gets existing stats or creates new ones (must be called with lock held)
func (m *DefaultProviderMetrics) getOrCreateStats(id BackendID) *ProviderStats {
	stats, exists := m.providerStats[id]
	if !exists {
		stats = &ProviderStats{
			Provider:       id,
			ErrorBreakdown: make(map[string]int64),
		}
		m.providerStats[id] = stats
	}
	return stats
}
