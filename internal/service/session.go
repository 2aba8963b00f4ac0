package service

import (
	"context"
	"fmt"
	"time"

	"dota-coach/internal/analysis"
	"dota-coach/internal/api"
	"dota-coach/internal/constants"
	"dota-coach/internal/domain"
	"dota-coach/internal/metrics"
	"dota-coach/internal/repository"

	"github.com/rs/zerolog"
)

// SessionReport bundles the three cross-match views served together.
type SessionReport struct {
	Sessions []domain.PlaySession     `json:"sessions"`
	Tilt     domain.TiltReport        `json:"tilt"`
	Patterns domain.TimePatternReport `json:"patterns"`
}

// SessionService resolves a user's match history and runs the session/tilt
// analyzer over it.
type SessionService struct {
	provider    *api.ProviderClient
	historyRepo *repository.HistoryRepository
	analyzer    *analysis.SessionAnalyzer
	metrics     *metrics.Metrics
	logger      zerolog.Logger
}

func NewSessionService(
	provider *api.ProviderClient,
	historyRepo *repository.HistoryRepository,
	analyzer *analysis.SessionAnalyzer,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *SessionService {
	return &SessionService{
		provider:    provider,
		historyRepo: historyRepo,
		analyzer:    analyzer,
		metrics:     m,
		logger:      logger,
	}
}

// GetReport loads the account's history for the lookback window, pulling it
// from the provider on first sight, and derives sessions, tilt, and time
// patterns.
func (s *SessionService) GetReport(ctx context.Context, accountID int64, lookbackDays int, refresh bool) (*SessionReport, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	since := time.Now().AddDate(0, 0, -lookbackDays)
	matches, err := s.historyRepo.ListByAccount(ctx, accountID, since)
	if err != nil {
		return nil, fmt.Errorf("load history for account %d: %w", accountID, err)
	}

	if len(matches) == 0 || refresh {
		s.logger.Info().Int64("account_id", accountID).Bool("refresh", refresh).Msg("fetching match history from provider")

		apiCtx, apiCancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
		fetched, err := s.provider.GetPlayerMatches(apiCtx, accountID, lookbackDays)
		apiCancel()
		if err != nil {
			s.metrics.ProviderErrors.Inc()
			if len(matches) == 0 {
				return nil, fmt.Errorf("fetch history for account %d: %w", accountID, err)
			}
			s.logger.Warn().Err(err).Int64("account_id", accountID).Msg("history refresh failed, using stored rows")
		} else {
			if err := s.historyRepo.UpsertBatch(ctx, accountID, fetched); err != nil {
				s.logger.Warn().Err(err).Int64("account_id", accountID).Msg("failed to store fetched history")
			}
			matches, err = s.historyRepo.ListByAccount(ctx, accountID, since)
			if err != nil {
				return nil, fmt.Errorf("reload history for account %d: %w", accountID, err)
			}
		}
	}

	s.metrics.SessionRequests.Inc()

	report := &SessionReport{
		Sessions: s.analyzer.Sessions(matches),
		Tilt:     s.analyzer.TiltReport(matches),
		Patterns: s.analyzer.TimePatterns(matches),
	}

	s.logger.Info().
		Int64("account_id", accountID).
		Int("matches", len(matches)).
		Int("sessions", len(report.Sessions)).
		Str("tilt_risk", string(report.Tilt.Risk)).
		Msg("session report built")
	return report, nil
}
