package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"audio-pipeline/internal/api/handlers"
	"audio-pipeline/internal/api/middleware"
	"audio-pipeline/internal/api/routes"
	"audio-pipeline/internal/api/server"
	"audio-pipeline/internal/app/api/deepgram"
	"audio-pipeline/internal/app/api/elevenlabs"
	openaiclient "audio-pipeline/internal/app/api/openai"
	"audio-pipeline/internal/app/api/openai/whisper"
	"audio-pipeline/internal/app/api/provider"
	"audio-pipeline/internal/app/api/whisper_cpp"
	"audio-pipeline/internal/app/cache"
	"audio-pipeline/internal/app/logging"
	"audio-pipeline/internal/app/orchestrator"
	"audio-pipeline/internal/app/repository"
	"audio-pipeline/internal/app/repository/pg"
	"audio-pipeline/internal/app/repository/sqlite"
	"audio-pipeline/internal/app/resolver"
	"audio-pipeline/internal/app/storage/blob"
	"audio-pipeline/internal/config"
)

const maxUploadBytes = 32 << 20

// provideBackendsFile loads the optional backends.yaml.
func provideBackendsFile(cfg *config.Config) (*provider.BackendsFile, error) {
	return provider.NewConfigManager(cfg.BackendsFile).LoadConfig()
}

func provideProviderMetrics() *provider.DefaultProviderMetrics {
	return provider.NewProviderMetrics()
}

// provideProviderRegistry registers every backend that is enabled and configured.
// A backend that fails validation is skipped with a warning; requests naming it get backend_unavailable.
func provideProviderRegistry(cfg *config.Config, file *provider.BackendsFile, logger *zap.Logger) (provider.ProviderRegistry, error) {
	registry := provider.NewProviderRegistry()

	for _, id := range provider.AllBackends {
		bc := file.For(id)
		if !bc.IsEnabled() {
			logger.Info("backend disabled", zap.String("backend", string(id)))
			continue
		}

		backend := createBackend(cfg, id, bc, logger)
		if backend == nil {
			logger.Debug("backend not configured", zap.String("backend", string(id)))
			continue
		}
		if err := registry.RegisterProvider(id, backend); err != nil {
			logger.Warn("backend not registered", zap.String("backend", string(id)), zap.Error(err))
			continue
		}
		logger.Info("registered backend", zap.String("backend", string(id)))
	}

	defaultName := cfg.DefaultBackend
	if defaultName == "" {
		defaultName = file.DefaultBackend
	}
	if defaultName == "" {
		defaultName = string(provider.BackendWhisper)
	}
	id, err := provider.ParseBackendID(defaultName)
	if err != nil {
		return nil, err
	}
	if err := registry.SetDefaultProvider(id); err != nil {
		logger.Warn("default backend is not available", zap.String("backend", string(id)), zap.Error(err))
	}

	return registry, nil
}

// createBackend returns nil when the backend lacks the credentials it needs.
func createBackend(cfg *config.Config, id provider.BackendID, bc provider.BackendConfig, logger *zap.Logger) provider.TranscriptionProvider {
	switch id {
	case provider.BackendWhisper:
		binary, modelPath := cfg.WhisperBinary, cfg.WhisperModel
		if bc.BinaryPath != "" {
			binary = bc.BinaryPath
		}
		if bc.ModelPath != "" {
			modelPath = bc.ModelPath
		}
		return whisper_cpp.NewLocalTranscriber(whisper_cpp.LocalProviderConfig{
			BinaryPath: binary,
			ModelPath:  modelPath,
			Language:   bc.Language,
			Timeout:    bc.Timeout(config.DefaultLocalTimeout),
		}, logger.Named("whisper"))

	case provider.BackendDeepgram:
		key := firstNonEmpty(bc.APIKey, cfg.DeepgramAPIKey)
		if key == "" {
			return nil
		}
		return deepgram.NewClient(deepgram.Config{
			APIKey:    key,
			ListenURL: bc.BaseURL,
			Timeout:   bc.Timeout(config.DefaultRemoteTimeout),
		}, deepgram.NewTunnelDiscoverer(firstNonEmpty(bc.TunnelAPIURL, cfg.TunnelAPIURL)), logger.Named("deepgram"))

	case provider.BackendOpenAI:
		client, err := openaiclient.NewClient(firstNonEmpty(bc.APIKey, cfg.OpenAIAPIKey), bc.BaseURL)
		if err != nil {
			return nil
		}
		return whisper.NewRemoteTranscriber(client, bc.Model)

	case provider.BackendElevenLabs:
		key := firstNonEmpty(bc.APIKey, cfg.ElevenLabsAPIKey)
		if key == "" {
			return nil
		}
		return elevenlabs.NewElevenLabsSTTProvider(elevenlabs.ElevenLabsConfig{
			APIKey:   key,
			BaseURL:  bc.BaseURL,
			Model:    bc.Model,
			Language: bc.Language,
			Timeout:  bc.Timeout(config.DefaultRemoteTimeout),
		})
	}
	return nil
}

// provideStore opens sqlite or postgres depending on the DSN and bootstraps the schema.
func provideStore(cfg *config.Config) (repository.Store, func(), error) {
	var (
		db  *repository.CommonDB
		err error
	)
	if repository.DriverForDSN(cfg.DBConnStr) == repository.DriverPostgres {
		db, err = pg.NewPostgresStore(cfg.DBConnStr)
	} else {
		db, err = sqlite.NewSQLiteStore(cfg.DBConnStr)
	}
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}

	return db, func() { db.Close() }, nil
}

// provideBlobStore returns nil when no remote container is configured.
func provideBlobStore(cfg *config.Config) (blob.Store, error) {
	if !cfg.Blob.Enabled() {
		return nil, nil
	}
	store, err := blob.NewMinioStore(blob.MinioConfig{
		Endpoint:  cfg.Blob.Endpoint,
		AccessKey: cfg.Blob.AccessKey,
		SecretKey: cfg.Blob.SecretKey,
		Container: cfg.Blob.Container,
		UseSSL:    cfg.Blob.UseSSL,
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// provideTranscriptCache returns the no-op cache when REDIS_URL is empty.
func provideTranscriptCache(cfg *config.Config, logger *zap.Logger) (cache.TranscriptCache, func(), error) {
	if cfg.RedisURL == "" {
		return cache.Noop{}, func() {}, nil
	}
	rc, err := cache.NewRedisCache(cfg.RedisURL, cfg.CacheTTL, logger.Named("cache"))
	if err != nil {
		return nil, nil, err
	}
	return rc, func() { rc.Close() }, nil
}

func provideResolver(cfg *config.Config, blobs blob.Store, logger *zap.Logger) *resolver.Resolver {
	return resolver.New(cfg.WorkDir, cfg.LocalFolderPath, blobs, logger)
}

func provideRecorder(store repository.Store, logger *zap.Logger) *orchestrator.Recorder {
	return orchestrator.NewRecorder(store, logger.Named("recorder"), nil)
}

func provideOrchestratorOptions(cfg *config.Config, progress orchestrator.ProgressFunc) (orchestrator.Options, error) {
	policy, err := orchestrator.ParsePolicy(cfg.FailurePolicy)
	if err != nil {
		return orchestrator.Options{}, err
	}
	return orchestrator.Options{
		Workers:  cfg.BatchWorkers,
		Policy:   policy,
		Progress: progress,
	}, nil
}

func provideNoProgress() orchestrator.ProgressFunc {
	return nil
}

func provideOrchestrator(
	res *resolver.Resolver,
	registry provider.ProviderRegistry,
	recorder *orchestrator.Recorder,
	transcripts cache.TranscriptCache,
	stats provider.ProviderMetrics,
	logger *zap.Logger,
	opts orchestrator.Options,
) *orchestrator.Orchestrator {
	return orchestrator.New(res, registry, recorder, transcripts, stats, logger, opts)
}

func provideFrontendLogger(cfg *config.Config) (*logging.FrontendLogger, func(), error) {
	fl, err := logging.NewFrontendLogger(cfg.FrontendLogFile)
	if err != nil {
		return nil, nil, err
	}
	return fl, func() { fl.Close() }, nil
}

func provideHandlers(
	res *resolver.Resolver,
	orch *orchestrator.Orchestrator,
	registry provider.ProviderRegistry,
	stats provider.ProviderMetrics,
	frontend *logging.FrontendLogger,
	logger *zap.Logger,
) *routes.Handlers {
	return &routes.Handlers{
		Audio:    handlers.NewAudioHandler(res.WorkRoot(), res.LibraryDir(), res.Blobs(), logger.Named("audio")),
		Files:    handlers.NewFilesHandler(res.LibraryDir(), res.Blobs(), logger.Named("files")),
		Process:  handlers.NewProcessHandler(orch, res, logger.Named("process")),
		Log:      handlers.NewLogHandler(frontend),
		Backends: handlers.NewBackendsHandler(registry, stats),
	}
}

func provideServerConfig(cfg *config.Config) server.Config {
	return server.Config{
		Host:           cfg.Host,
		Port:           cfg.Port,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Minute,
		IdleTimeout:    2 * time.Minute,
		Environment:    cfg.Environment,
		MaxUploadBytes: maxUploadBytes,
		CORS:           middleware.NewCORSConfig(cfg.CORSAllowedOrigins, cfg.CORSAllowedHeaders),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
