package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadEnv loads environment variables from .env file if it exists.
// Variables already present in the environment win over the file.
func LoadEnv() error {
	envPaths := []string{
		".env",
		".env.local",
		"../.env",
		"../../.env",
	}

	// Look for .env file, but don't fail if not found (environment variables might be set system-wide)
	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return fmt.Errorf("error loading %s file: %w", envPath, err)
			}
			break
		}
	}

	return nil
}

// BlobConfig locates the remote audio container.
type BlobConfig struct {
	Endpoint  string `validate:"omitempty,hostname_port|hostname"`
	AccessKey string `validate:"required_with=Endpoint"`
	SecretKey string `validate:"required_with=Endpoint"`
	Container string `validate:"required_with=Endpoint"`
	UseSSL    bool
}

// Enabled reports whether a remote store is configured at all.
func (b BlobConfig) Enabled() bool {
	return b.Endpoint != ""
}

// Config is everything the server and CLI read from the environment.
type Config struct {
	Environment string
	Host        string
	Port        string

	// CORSAllowedOrigins is empty for "*".
	CORSAllowedOrigins []string
	CORSAllowedHeaders []string

	WorkDir         string `validate:"required"`
	LocalFolderPath string
	DBConnStr       string `validate:"required"`
	Blob            BlobConfig

	TunnelAPIURL     string `validate:"omitempty,url"`
	DeepgramAPIKey   string
	OpenAIAPIKey     string
	ElevenLabsAPIKey string
	WhisperBinary    string
	WhisperModel     string
	BackendsFile     string

	DefaultBackend string
	BatchWorkers   int    `validate:"gte=1,lte=100"`
	FailurePolicy  string `validate:"oneof=isolate abort"`

	RedisURL string        `validate:"omitempty,url"`
	CacheTTL time.Duration `validate:"gte=0"`

	LogFile         string
	FrontendLogFile string
}

// Load builds a Config from the environment. Call LoadEnv first to pick up a .env file.
func Load() (*Config, error) {
	workers, err := intEnv("BATCH_WORKERS", DefaultBatchWorkers)
	if err != nil {
		return nil, err
	}
	ttl, err := durationEnv("CACHE_TTL", DefaultCacheTTL)
	if err != nil {
		return nil, err
	}
	useSSL, err := boolEnv("BLOB_USE_SSL", true)
	if err != nil {
		return nil, err
	}

	return &Config{
		Environment: getEnvOrDefault("ENVIRONMENT", DefaultEnvironment),
		Host:        getEnvOrDefault("HOST", DefaultHost),
		Port:        getEnvOrDefault("PORT", DefaultPort),

		CORSAllowedOrigins: listEnv("CORS_ALLOWED_ORIGINS"),
		CORSAllowedHeaders: listEnv("CORS_ALLOWED_HEADERS"),

		WorkDir:         getEnvOrDefault("WORK_DIR", DefaultWorkDir),
		LocalFolderPath: strings.TrimSpace(os.Getenv("LOCAL_FOLDER_PATH")),
		DBConnStr:       getEnvOrDefault("DB_CONN_STR", DefaultDBConnStr),
		Blob: BlobConfig{
			Endpoint:  strings.TrimSpace(os.Getenv("BLOB_ENDPOINT")),
			AccessKey: strings.TrimSpace(os.Getenv("BLOB_ACCESS_KEY")),
			SecretKey: strings.TrimSpace(os.Getenv("BLOB_SECRET_KEY")),
			Container: strings.TrimSpace(os.Getenv("CONTAINER_NAME")),
			UseSSL:    useSSL,
		},

		TunnelAPIURL:     getEnvOrDefault("TUNNEL_API_URL", DefaultTunnelAPIURL),
		DeepgramAPIKey:   strings.TrimSpace(os.Getenv("DEEPGRAM_API_KEY")),
		OpenAIAPIKey:     strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		ElevenLabsAPIKey: strings.TrimSpace(os.Getenv("ELEVENLABS_API_KEY")),
		WhisperBinary:    getEnvOrDefault("WHISPER_CPP_BINARY", DefaultWhisperBinary),
		WhisperModel:     getEnvOrDefault("WHISPER_CPP_MODEL", DefaultWhisperModel),
		BackendsFile:     getEnvOrDefault("BACKENDS_CONFIG", DefaultBackendsFile),

		DefaultBackend: strings.TrimSpace(os.Getenv("DEFAULT_BACKEND")),
		BatchWorkers:   workers,
		FailurePolicy:  strings.ToLower(getEnvOrDefault("BATCH_FAILURE_POLICY", DefaultFailurePolicy)),

		RedisURL: strings.TrimSpace(os.Getenv("REDIS_URL")),
		CacheTTL: ttl,

		LogFile:         getEnvOrDefault("LOG_FILE", DefaultLogFile),
		FrontendLogFile: getEnvOrDefault("FRONTEND_LOG_FILE", DefaultFrontendLogFile),
	}, nil
}

// InitializeConfig loads .env, then the environment, then validates the result.
func InitializeConfig() (*Config, error) {
	if err := LoadEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Address is the host:port the HTTP server listens on.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// IsDevelopment reports whether verbose development logging is wanted.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "" || c.Environment == "development" || c.Environment == "dev"
}

// getEnvOrDefault returns environment variable value or default
func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// listEnv splits a comma separated variable, dropping empty entries.
func listEnv(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func intEnv(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return n, nil
}

func boolEnv(key string, def bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return b, nil
}

// durationEnv accepts Go durations ("12h") or a bare number of seconds.
func durationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return d, nil
}
