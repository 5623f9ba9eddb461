package provider

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	apperrors "audio-pipeline/internal/app/errors"
)

// DefaultProviderRegistry implements ProviderRegistry interface
type DefaultProviderRegistry struct {
	mu        sync.RWMutex
	providers map[BackendID]TranscriptionProvider
	default_  BackendID
}

// NewProviderRegistry creates a new provider registry
func NewProviderRegistry() *DefaultProviderRegistry {
	return &DefaultProviderRegistry{
		providers: make(map[BackendID]TranscriptionProvider),
	}
}

// RegisterProvider registers a new transcription provider
func (r *DefaultProviderRegistry) RegisterProvider(id BackendID, provider TranscriptionProvider) error {
	if _, err := ParseBackendID(string(id)); err != nil {
		return fmt.Errorf("cannot register backend: %w", err)
	}
	if provider == nil {
		return fmt.Errorf("provider cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Check for duplicate registration
	if _, exists := r.providers[id]; exists {
		return fmt.Errorf("provider '%s' already registered", id)
	}

	// Validate the provider configuration
	if err := provider.ValidateConfiguration(); err != nil {
		return fmt.Errorf("provider validation failed: %w", err)
	}

	r.providers[id] = provider

	// Set as default if it's the first provider
	if r.default_ == "" {
		r.default_ = id
	}

	return nil
}

// Lookup resolves name to a registered backend. An empty name selects the default.
func (r *DefaultProviderRegistry) Lookup(name string) (BackendID, TranscriptionProvider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var id BackendID
	if strings.TrimSpace(name) == "" {
		if r.default_ == "" {
			return "", nil, apperrors.WithKind(apperrors.KindBackendUnavailable, apperrors.ErrMissingConfig, "no default backend set")
		}
		id = r.default_
	} else {
		parsed, err := ParseBackendID(name)
		if err != nil {
			return "", nil, err
		}
		id = parsed
	}

	provider, exists := r.providers[id]
	if !exists {
		return "", nil, apperrors.WithKind(apperrors.KindBackendUnavailable, apperrors.ErrBackendUnavailable,
			"backend %q is not configured", id)
	}

	return id, provider, nil
}

// ListProviders returns a list of all registered provider names
func (r *DefaultProviderRegistry) ListProviders() []BackendID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]BackendID, 0, len(r.providers))
	for id := range r.providers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// DefaultProvider returns the default backend identifier
func (r *DefaultProviderRegistry) DefaultProvider() BackendID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.default_
}

// SetDefaultProvider sets the default provider
func (r *DefaultProviderRegistry) SetDefaultProvider(id BackendID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[id]; !exists {
		return fmt.Errorf("provider '%s' not found", id)
	}

	r.default_ = id
	return nil
}

// HealthCheckAll performs health checks on all registered providers
func (r *DefaultProviderRegistry) HealthCheckAll(ctx context.Context) map[BackendID]error {
	r.mu.RLock()
	providers := make(map[BackendID]TranscriptionProvider, len(r.providers))
	for id, provider := range r.providers {
		providers[id] = provider
	}
	r.mu.RUnlock()

	results := make(map[BackendID]error)
	var wg sync.WaitGroup
	var mu sync.Mutex

	for id, provider := range providers {
		wg.Add(1)
		go func(id BackendID, provider TranscriptionProvider) {
			defer wg.Done()

			err := provider.HealthCheck(ctx)

			mu.Lock()
			results[id] = err
			mu.Unlock()
		}(id, provider)
	}

	wg.Wait()
	return results
}
