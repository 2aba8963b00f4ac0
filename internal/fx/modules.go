package fx

import (
	"dota-coach/internal/analysis"
	"dota-coach/internal/api"
	"dota-coach/internal/benchmark"
	"dota-coach/internal/coachtext"
	"dota-coach/internal/config"
	"dota-coach/internal/database"
	"dota-coach/internal/logger"
	"dota-coach/internal/metrics"
	"dota-coach/internal/repository"
	"dota-coach/internal/server"
	"dota-coach/internal/service"

	"go.uber.org/fx"
)

func provideBenchmarkBackend(repo *repository.BenchmarkRepository) benchmark.Repository {
	return repo
}

func provideCoachGenerator() coachtext.Generator {
	return coachtext.Disabled{}
}

var Module = fx.Options(
	logger.Module,
	config.Module,
	fx.Provide(database.New),
	fx.Provide(metrics.New),
	// repos
	fx.Provide(repository.NewAnalysisRepository),
	fx.Provide(repository.NewBenchmarkRepository),
	fx.Provide(repository.NewHistoryRepository),
	fx.Provide(provideBenchmarkBackend),
	fx.Provide(benchmark.NewStore),
	// provider client
	fx.Provide(api.NewProviderClient),
	// detectors
	fx.Provide(analysis.DefaultPerformanceConfig),
	fx.Provide(analysis.DefaultTimelineConfig),
	fx.Provide(analysis.DefaultMomentConfig),
	fx.Provide(analysis.DefaultItemBuildConfig),
	fx.Provide(analysis.DefaultSessionConfig),
	fx.Provide(analysis.NewPerformanceDetector),
	fx.Provide(analysis.NewTimelineDetector),
	fx.Provide(analysis.NewMomentExtractor),
	fx.Provide(analysis.NewItemBuildAnalyzer),
	fx.Provide(analysis.NewSessionAnalyzer),
	fx.Provide(provideCoachGenerator),
	fx.Provide(analysis.NewOrchestrator),
	// svc
	fx.Provide(service.NewAnalysisService),
	fx.Provide(service.NewSessionService),
	// server
	fx.Provide(server.NewCoachServer),
)
