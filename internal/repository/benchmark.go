package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"dota-coach/internal/benchmark"
	"dota-coach/internal/domain"

	"github.com/rs/zerolog"
)

// BenchmarkRepository is the sqlite backend injected into the benchmark
// store. One row per hero.
type BenchmarkRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewBenchmarkRepository(db *sql.DB, logger zerolog.Logger) *BenchmarkRepository {
	return &BenchmarkRepository{db: db, logger: logger}
}

func (r *BenchmarkRepository) Get(ctx context.Context, heroID int) (*domain.HeroBenchmark, error) {
	b := domain.HeroBenchmark{HeroID: heroID}
	err := r.db.QueryRowContext(ctx, `
		SELECT matches,
		       avg_gold_per_min, avg_xp_per_min, avg_cs_per_min,
		       avg_last_hits, avg_denies,
		       avg_kills, avg_deaths, avg_assists,
		       avg_hero_damage, avg_tower_damage, avg_healing,
		       avg_observer_wards, avg_sentry_wards, avg_camps_stacked,
		       p50_gold_per_min, p75_gold_per_min,
		       p50_xp_per_min, p75_xp_per_min,
		       p50_cs_per_min, p75_cs_per_min
		FROM hero_benchmarks WHERE hero_id = ?`, heroID,
	).Scan(
		&b.Matches,
		&b.AvgGoldPerMin, &b.AvgXPPerMin, &b.AvgCSPerMin,
		&b.AvgLastHits, &b.AvgDenies,
		&b.AvgKills, &b.AvgDeaths, &b.AvgAssists,
		&b.AvgHeroDamage, &b.AvgTowerDamage, &b.AvgHealing,
		&b.AvgObserverWards, &b.AvgSentryWards, &b.AvgCampsStacked,
		&b.P50GoldPerMin, &b.P75GoldPerMin,
		&b.P50XPPerMin, &b.P75XPPerMin,
		&b.P50CSPerMin, &b.P75CSPerMin,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, benchmark.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query hero benchmark: %w", err)
	}
	return &b, nil
}

func (r *BenchmarkRepository) Upsert(ctx context.Context, b *domain.HeroBenchmark) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO hero_benchmarks (
			hero_id, matches,
			avg_gold_per_min, avg_xp_per_min, avg_cs_per_min,
			avg_last_hits, avg_denies,
			avg_kills, avg_deaths, avg_assists,
			avg_hero_damage, avg_tower_damage, avg_healing,
			avg_observer_wards, avg_sentry_wards, avg_camps_stacked,
			p50_gold_per_min, p75_gold_per_min,
			p50_xp_per_min, p75_xp_per_min,
			p50_cs_per_min, p75_cs_per_min,
			updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (hero_id) DO UPDATE SET
			matches = excluded.matches,
			avg_gold_per_min = excluded.avg_gold_per_min,
			avg_xp_per_min = excluded.avg_xp_per_min,
			avg_cs_per_min = excluded.avg_cs_per_min,
			avg_last_hits = excluded.avg_last_hits,
			avg_denies = excluded.avg_denies,
			avg_kills = excluded.avg_kills,
			avg_deaths = excluded.avg_deaths,
			avg_assists = excluded.avg_assists,
			avg_hero_damage = excluded.avg_hero_damage,
			avg_tower_damage = excluded.avg_tower_damage,
			avg_healing = excluded.avg_healing,
			avg_observer_wards = excluded.avg_observer_wards,
			avg_sentry_wards = excluded.avg_sentry_wards,
			avg_camps_stacked = excluded.avg_camps_stacked,
			p50_gold_per_min = excluded.p50_gold_per_min,
			p75_gold_per_min = excluded.p75_gold_per_min,
			p50_xp_per_min = excluded.p50_xp_per_min,
			p75_xp_per_min = excluded.p75_xp_per_min,
			p50_cs_per_min = excluded.p50_cs_per_min,
			p75_cs_per_min = excluded.p75_cs_per_min,
			updated_at = excluded.updated_at`,
		b.HeroID, b.Matches,
		b.AvgGoldPerMin, b.AvgXPPerMin, b.AvgCSPerMin,
		b.AvgLastHits, b.AvgDenies,
		b.AvgKills, b.AvgDeaths, b.AvgAssists,
		b.AvgHeroDamage, b.AvgTowerDamage, b.AvgHealing,
		b.AvgObserverWards, b.AvgSentryWards, b.AvgCampsStacked,
		b.P50GoldPerMin, b.P75GoldPerMin,
		b.P50XPPerMin, b.P75XPPerMin,
		b.P50CSPerMin, b.P75CSPerMin,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("upsert hero benchmark: %w", err)
	}

	r.logger.Debug().Int("hero_id", b.HeroID).Int("matches", b.Matches).Msg("hero benchmark stored")
	return nil
}
