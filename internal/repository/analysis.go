package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"dota-coach/internal/constants"
	"dota-coach/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("repository: not found")

// AnalysisRepository persists merged match analyses keyed by
// (match_id, account_id). A stored row acts as the analysis cache: a hit
// means the detectors are not re-run for that request.
type AnalysisRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewAnalysisRepository(db *sql.DB, logger zerolog.Logger) *AnalysisRepository {
	return &AnalysisRepository{db: db, logger: logger}
}

// Get returns the stored analysis, treating rows older than the cache TTL
// as absent so stale results get recomputed.
func (r *AnalysisRepository) Get(ctx context.Context, matchID, accountID int64) (*domain.MatchAnalysis, error) {
	cutoff := time.Now().Add(-constants.AnalysisCacheTTL)
	var payload string
	err := r.db.QueryRowContext(ctx,
		`SELECT payload FROM analyses WHERE match_id = ? AND account_id = ? AND updated_at >= ?`,
		matchID, accountID, cutoff,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query analysis: %w", err)
	}

	var analysis domain.MatchAnalysis
	if err := json.Unmarshal([]byte(payload), &analysis); err != nil {
		return nil, fmt.Errorf("decode analysis payload: %w", err)
	}
	return &analysis, nil
}

func (r *AnalysisRepository) Upsert(ctx context.Context, analysis *domain.MatchAnalysis) error {
	payload, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("encode analysis payload: %w", err)
	}

	id, err := gonanoid.New()
	if err != nil {
		return fmt.Errorf("generate analysis id: %w", err)
	}

	now := time.Now()
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO analyses (id, match_id, account_id, hero_id, payload, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (match_id, account_id) DO UPDATE SET
			hero_id = excluded.hero_id,
			payload = excluded.payload,
			updated_at = excluded.updated_at`,
		id, analysis.MatchID, analysis.AccountID, analysis.HeroID, string(payload), now, now,
	)
	if err != nil {
		return fmt.Errorf("upsert analysis: %w", err)
	}

	r.logger.Debug().
		Int64("match_id", analysis.MatchID).
		Int64("account_id", analysis.AccountID).
		Msg("analysis stored")
	return nil
}
