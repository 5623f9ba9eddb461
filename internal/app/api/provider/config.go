package provider

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// BackendsFile is the optional backends.yaml document
type BackendsFile struct {
	// Backend used when a request names none
	DefaultBackend string `yaml:"default_backend"`

	// Per-backend overrides keyed by backend name or alias
	Backends map[string]BackendConfig `yaml:"backends"`
}

// BackendConfig represents configuration for a single backend
type BackendConfig struct {
	// Enabled defaults to true when omitted
	Enabled *bool `yaml:"enabled,omitempty"`

	// API key (can be environment variable reference like ${OPENAI_API_KEY})
	APIKey string `yaml:"api_key,omitempty"`

	// Base URL override, mainly for tests and self-hosted gateways
	BaseURL string `yaml:"base_url,omitempty"`

	Model    string `yaml:"model,omitempty"`
	Language string `yaml:"language,omitempty"`

	// whisper.cpp only
	BinaryPath string `yaml:"binary_path,omitempty"`
	ModelPath  string `yaml:"model_path,omitempty"`

	// deepgram only
	TunnelAPIURL string `yaml:"tunnel_api_url,omitempty"`

	TimeoutSec int `yaml:"timeout_sec,omitempty"`
}

// IsEnabled reports whether the backend should be registered
func (c BackendConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// Timeout returns the configured timeout or fallback
func (c BackendConfig) Timeout(fallback time.Duration) time.Duration {
	if c.TimeoutSec > 0 {
		return time.Duration(c.TimeoutSec) * time.Second
	}
	return fallback
}

// ConfigManager loads the backends file
type ConfigManager struct {
	configPath string
	config     *BackendsFile
}

// NewConfigManager creates a new configuration manager
func NewConfigManager(configPath string) *ConfigManager {
	return &ConfigManager{
		configPath: configPath,
	}
}

// LoadConfig loads configuration from the YAML file. A missing file yields an empty configuration.
func (cm *ConfigManager) LoadConfig() (*BackendsFile, error) {
	if cm.configPath == "" {
		cm.config = &BackendsFile{Backends: map[string]BackendConfig{}}
		return cm.config, nil
	}

	data, err := os.ReadFile(cm.configPath)
	if os.IsNotExist(err) {
		cm.config = &BackendsFile{Backends: map[string]BackendConfig{}}
		return cm.config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config BackendsFile
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	cm.expandEnvironmentVariables(&config)

	normalized, err := cm.validateConfig(&config)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	cm.config = normalized
	return normalized, nil
}

// For returns the settings of one backend, or the zero value.
func (f *BackendsFile) For(id BackendID) BackendConfig {
	if f == nil || f.Backends == nil {
		return BackendConfig{}
	}
	return f.Backends[string(id)]
}

// expandEnvironmentVariables expands environment variable references in the config
func (cm *ConfigManager) expandEnvironmentVariables(config *BackendsFile) {
	config.DefaultBackend = os.ExpandEnv(config.DefaultBackend)
	for name, bc := range config.Backends {
		bc.APIKey = os.ExpandEnv(bc.APIKey)
		bc.BaseURL = os.ExpandEnv(bc.BaseURL)
		bc.BinaryPath = os.ExpandEnv(bc.BinaryPath)
		bc.ModelPath = os.ExpandEnv(bc.ModelPath)
		bc.TunnelAPIURL = os.ExpandEnv(bc.TunnelAPIURL)
		config.Backends[name] = bc
	}
}

// validateConfig checks names and rekeys aliases onto canonical identifiers
func (cm *ConfigManager) validateConfig(config *BackendsFile) (*BackendsFile, error) {
	out := &BackendsFile{Backends: make(map[string]BackendConfig, len(config.Backends))}

	if config.DefaultBackend != "" {
		id, err := ParseBackendID(config.DefaultBackend)
		if err != nil {
			return nil, fmt.Errorf("default backend: %w", err)
		}
		out.DefaultBackend = string(id)
	}

	for name, bc := range config.Backends {
		id, err := ParseBackendID(name)
		if err != nil {
			return nil, err
		}
		if _, dup := out.Backends[string(id)]; dup {
			return nil, fmt.Errorf("backend '%s' configured twice", id)
		}
		if bc.TimeoutSec < 0 {
			return nil, fmt.Errorf("backend '%s' has invalid timeout", id)
		}
		out.Backends[string(id)] = bc
	}

	if out.DefaultBackend != "" && !out.For(BackendID(out.DefaultBackend)).IsEnabled() {
		return nil, fmt.Errorf("default backend '%s' is disabled", out.DefaultBackend)
	}

	return out, nil
}
