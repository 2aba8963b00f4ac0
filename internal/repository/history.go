package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"dota-coach/internal/constants"
	"dota-coach/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

// HistoryRepository stores a user's match history rows, the input to the
// session/tilt analyzer.
type HistoryRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewHistoryRepository(db *sql.DB, logger zerolog.Logger) *HistoryRepository {
	return &HistoryRepository{db: db, logger: logger}
}

// ListByAccount returns the account's matches since the cutoff, ascending
// by start time as the session analyzer requires.
func (r *HistoryRepository) ListByAccount(ctx context.Context, accountID int64, since time.Time) ([]domain.HistoryMatch, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT match_id, hero_id, won, kills, deaths, assists, gold_per_min, start_time, duration
		FROM history_matches
		WHERE account_id = ? AND start_time >= ?
		ORDER BY start_time ASC`,
		accountID, since,
	)
	if err != nil {
		return nil, fmt.Errorf("query match history: %w", err)
	}
	defer rows.Close()

	var matches []domain.HistoryMatch
	for rows.Next() {
		var m domain.HistoryMatch
		if err := rows.Scan(&m.MatchID, &m.HeroID, &m.Won, &m.Kills, &m.Deaths, &m.Assists, &m.GoldPerMin, &m.StartTime, &m.Duration); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history rows: %w", err)
	}
	return matches, nil
}

// UpsertBatch stores a page of history rows in one transaction, in batches
// sized like the rest of the write paths.
func (r *HistoryRepository) UpsertBatch(ctx context.Context, accountID int64, matches []domain.HistoryMatch) error {
	if len(matches) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO history_matches (
			id, account_id, match_id, hero_id, won,
			kills, deaths, assists, gold_per_min, start_time, duration, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (account_id, match_id) DO UPDATE SET
			hero_id = excluded.hero_id,
			won = excluded.won,
			kills = excluded.kills,
			deaths = excluded.deaths,
			assists = excluded.assists,
			gold_per_min = excluded.gold_per_min,
			start_time = excluded.start_time,
			duration = excluded.duration`)
	if err != nil {
		return fmt.Errorf("prepare history upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for i, m := range matches {
		id, err := gonanoid.New()
		if err != nil {
			return fmt.Errorf("generate history id: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, id, accountID, m.MatchID, m.HeroID, m.Won,
			m.Kills, m.Deaths, m.Assists, m.GoldPerMin, m.StartTime, m.Duration, now); err != nil {
			return fmt.Errorf("upsert history row %d: %w", i, err)
		}
		if (i+1)%constants.DBBatchSize == 0 {
			r.logger.Debug().Int64("account_id", accountID).Int("rows", i+1).Msg("history batch progress")
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit history upsert: %w", err)
	}

	r.logger.Debug().Int64("account_id", accountID).Int("rows", len(matches)).Msg("history stored")
	return nil
}
