package service

import (
	"context"
	"errors"
	"fmt"

	"dota-coach/internal/analysis"
	"dota-coach/internal/api"
	"dota-coach/internal/benchmark"
	"dota-coach/internal/constants"
	"dota-coach/internal/domain"
	"dota-coach/internal/metrics"
	"dota-coach/internal/repository"

	"github.com/rs/zerolog"
)

// AnalysisService runs the end-to-end per-match flow: cache lookup, provider
// fetch, orchestrated detection, persistence, and the once-per-match
// benchmark sample write.
type AnalysisService struct {
	provider     *api.ProviderClient
	analysisRepo *repository.AnalysisRepository
	historyRepo  *repository.HistoryRepository
	bench        *benchmark.Store
	orch         *analysis.Orchestrator
	metrics      *metrics.Metrics
	logger       zerolog.Logger
}

func NewAnalysisService(
	provider *api.ProviderClient,
	analysisRepo *repository.AnalysisRepository,
	historyRepo *repository.HistoryRepository,
	bench *benchmark.Store,
	orch *analysis.Orchestrator,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *AnalysisService {
	return &AnalysisService{
		provider:     provider,
		analysisRepo: analysisRepo,
		historyRepo:  historyRepo,
		bench:        bench,
		orch:         orch,
		metrics:      m,
		logger:       logger,
	}
}

// AnalyzeMatch returns the stored analysis when one exists, otherwise
// fetches the match, runs the pipeline, and persists the result. refresh
// forces a re-run past the cache.
func (s *AnalysisService) AnalyzeMatch(ctx context.Context, matchID, accountID int64, refresh bool) (*domain.MatchAnalysis, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	if !refresh {
		cached, err := s.analysisRepo.Get(ctx, matchID, accountID)
		if err == nil {
			s.metrics.CacheHits.Inc()
			s.logger.Debug().Int64("match_id", matchID).Int64("account_id", accountID).Msg("analysis cache hit")
			return cached, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn().Err(err).Int64("match_id", matchID).Msg("analysis cache read failed, recomputing")
		}
	}

	apiCtx, apiCancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	match, err := s.provider.GetMatch(apiCtx, matchID)
	apiCancel()
	if err != nil {
		s.metrics.ProviderErrors.Inc()
		s.logger.Error().Err(err).Int64("match_id", matchID).Msg("failed to fetch match")
		return nil, fmt.Errorf("fetch match %d: %w", matchID, err)
	}

	result, err := s.orch.Analyze(ctx, match, accountID)
	if err != nil {
		return nil, err
	}
	s.metrics.AnalysesTotal.Inc()
	for _, component := range result.SkippedComponents {
		s.metrics.DetectorSkips.WithLabelValues(component).Inc()
	}

	// One benchmark sample per analyzed match; failure here degrades
	// future benchmarks but never the returned analysis.
	p := match.ParticipantByAccount(accountID)
	if err := s.bench.RecordSample(ctx, p.HeroID, benchmark.SampleFromParticipant(p, match.DurationMinutes())); err != nil {
		s.logger.Warn().Err(err).Int("hero_id", p.HeroID).Msg("failed to record benchmark sample")
	}

	if err := s.analysisRepo.Upsert(ctx, result); err != nil {
		s.logger.Warn().Err(err).Int64("match_id", matchID).Msg("failed to store analysis")
	}

	history := domain.HistoryMatch{
		MatchID:    match.MatchID,
		HeroID:     p.HeroID,
		Won:        result.Won,
		Kills:      p.Kills,
		Deaths:     p.Deaths,
		Assists:    p.Assists,
		GoldPerMin: p.GoldPerMin,
		StartTime:  match.StartTime,
		Duration:   match.Duration,
	}
	if err := s.historyRepo.UpsertBatch(ctx, accountID, []domain.HistoryMatch{history}); err != nil {
		s.logger.Warn().Err(err).Int64("match_id", matchID).Msg("failed to store history row")
	}

	return result, nil
}
