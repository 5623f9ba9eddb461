//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"go.uber.org/zap"

	"audio-pipeline/internal/api/server"
	"audio-pipeline/internal/app/api/provider"
	"audio-pipeline/internal/app/orchestrator"
	"audio-pipeline/internal/app/repository"
	"audio-pipeline/internal/config"
)

var backendSet = wire.NewSet(
	provideBackendsFile,
	provideProviderRegistry,
	provideProviderMetrics,
	wire.Bind(new(provider.ProviderMetrics), new(*provider.DefaultProviderMetrics)),
)

var pipelineSet = wire.NewSet(
	backendSet,
	provideStore,
	provideBlobStore,
	provideTranscriptCache,
	provideResolver,
	provideRecorder,
	provideOrchestratorOptions,
	provideOrchestrator,
)

// InitializeServer builds the HTTP server and everything behind it.
func InitializeServer(cfg *config.Config, logger *zap.Logger) (*server.Server, func(), error) {
	wire.Build(
		pipelineSet,
		provideNoProgress,
		provideFrontendLogger,
		provideHandlers,
		provideServerConfig,
		server.NewServer,
	)
	return nil, nil, nil
}

// InitializeOrchestrator builds a batch orchestrator for command line use.
func InitializeOrchestrator(cfg *config.Config, logger *zap.Logger, progress orchestrator.ProgressFunc) (*orchestrator.Orchestrator, func(), error) {
	wire.Build(pipelineSet)
	return nil, nil, nil
}

// InitializeStore opens the configured database with its schema in place.
func InitializeStore(cfg *config.Config) (repository.Store, func(), error) {
	wire.Build(provideStore)
	return nil, nil, nil
}
