package config

import "time"

// Defaults applied by Load when a variable is unset.
const (
	DefaultEnvironment     = "development"
	DefaultHost            = "127.0.0.1"
	DefaultPort            = "5000"
	DefaultWorkDir         = "uploads"
	DefaultDBConnStr       = "file:data/audio.db"
	DefaultTunnelAPIURL    = "http://127.0.0.1:4040"
	DefaultLogFile         = "app.log"
	DefaultFrontendLogFile = "frontend.log"
	DefaultBackendsFile    = "config/backends.yaml"

	DefaultWhisperBinary = "whisper-cli"
	DefaultWhisperModel  = "models/ggml-base.bin"

	DefaultBatchWorkers  = 1
	DefaultFailurePolicy = "abort"
	DefaultCacheTTL      = 7 * 24 * time.Hour

	DefaultLocalTimeout  = 10 * time.Minute
	DefaultRemoteTimeout = 120 * time.Second
)
