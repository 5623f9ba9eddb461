package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allVars = []string{
	"ENVIRONMENT", "HOST", "PORT", "WORK_DIR", "LOCAL_FOLDER_PATH", "DB_CONN_STR",
	"BLOB_ENDPOINT", "BLOB_ACCESS_KEY", "BLOB_SECRET_KEY", "CONTAINER_NAME", "BLOB_USE_SSL",
	"TUNNEL_API_URL", "DEEPGRAM_API_KEY", "OPENAI_API_KEY", "ELEVENLABS_API_KEY",
	"WHISPER_CPP_BINARY", "WHISPER_CPP_MODEL", "BACKENDS_CONFIG", "DEFAULT_BACKEND",
	"BATCH_WORKERS", "BATCH_FAILURE_POLICY", "REDIS_URL", "CACHE_TTL", "LOG_FILE", "FRONTEND_LOG_FILE",
	"CORS_ALLOWED_ORIGINS", "CORS_ALLOWED_HEADERS",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range allVars {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultWorkDir, cfg.WorkDir)
	assert.Equal(t, DefaultDBConnStr, cfg.DBConnStr)
	assert.Equal(t, DefaultTunnelAPIURL, cfg.TunnelAPIURL)
	assert.Equal(t, DefaultBatchWorkers, cfg.BatchWorkers)
	assert.Equal(t, "abort", cfg.FailurePolicy)
	assert.Empty(t, cfg.CORSAllowedOrigins)
	assert.Equal(t, DefaultCacheTTL, cfg.CacheTTL)
	assert.Equal(t, "127.0.0.1:5000", cfg.Address())
	assert.False(t, cfg.Blob.Enabled())
	assert.True(t, cfg.Blob.UseSSL)
	assert.True(t, cfg.IsDevelopment())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8080")
	t.Setenv("LOCAL_FOLDER_PATH", "/srv/audio")
	t.Setenv("BLOB_ENDPOINT", "localhost:9000")
	t.Setenv("BLOB_ACCESS_KEY", "minio")
	t.Setenv("BLOB_SECRET_KEY", "minio123")
	t.Setenv("CONTAINER_NAME", "audio")
	t.Setenv("BLOB_USE_SSL", "false")
	t.Setenv("BATCH_WORKERS", "4")
	t.Setenv("BATCH_FAILURE_POLICY", "Isolate")
	t.Setenv("CACHE_TTL", "3600")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, ,https://b.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/srv/audio", cfg.LocalFolderPath)
	assert.True(t, cfg.Blob.Enabled())
	assert.False(t, cfg.Blob.UseSSL)
	assert.Equal(t, 4, cfg.BatchWorkers)
	assert.Equal(t, "isolate", cfg.FailurePolicy)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.False(t, cfg.IsDevelopment())
	assert.NoError(t, cfg.Validate())

	t.Setenv("CACHE_TTL", "90m")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, cfg.CacheTTL)
}

func TestLoad_ParseErrors(t *testing.T) {
	testCases := []struct {
		key, value string
	}{
		{"BATCH_WORKERS", "many"},
		{"CACHE_TTL", "forever"},
		{"BLOB_USE_SSL", "maybe"},
	}
	for _, tc := range testCases {
		t.Run(tc.key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tc.key, tc.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.key)
		})
	}
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name          string
		mutate        func(c *Config)
		errorContains string
	}{
		{"bad policy", func(c *Config) { c.FailurePolicy = "retry" }, "BATCH_FAILURE_POLICY must be one of isolate, abort"},
		{"zero workers", func(c *Config) { c.BatchWorkers = 0 }, "BATCH_WORKERS"},
		{"bad port", func(c *Config) { c.Port = "http" }, "PORT"},
		{"port out of range", func(c *Config) { c.Port = "70000" }, "PORT"},
		{"blob without container", func(c *Config) {
			c.Blob = BlobConfig{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b"}
		}, "CONTAINER_NAME is required when BLOB_ENDPOINT is set"},
		{"negative ttl", func(c *Config) { c.CacheTTL = -time.Second }, "CACHE_TTL must not be negative"},
		{"empty work dir", func(c *Config) { c.WorkDir = "" }, "WORK_DIR is required"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			cfg, err := Load()
			require.NoError(t, err)
			tc.mutate(cfg)

			err = cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errorContains)
		})
	}
}

func TestLoadEnv_ReadsDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DEEPGRAM_API_KEY=dg-from-file\n"), 0644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(wd)

	// godotenv keeps variables that are already set
	require.NoError(t, os.Unsetenv("DEEPGRAM_API_KEY"))
	require.NoError(t, LoadEnv())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "dg-from-file", cfg.DeepgramAPIKey)
}

func TestValidateTimeout(t *testing.T) {
	assert.NoError(t, ValidateTimeout(time.Minute, "whisper"))
	assert.Error(t, ValidateTimeout(0, "whisper"))
	assert.Error(t, ValidateTimeout(time.Hour, "whisper"))
}
