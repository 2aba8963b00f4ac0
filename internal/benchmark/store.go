// Package benchmark maintains per-hero running performance averages shared
// across every analyzed match of a hero.
package benchmark

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"dota-coach/internal/domain"

	"github.com/rs/zerolog"
)

// ErrNotFound signals that no sample has been recorded for a hero yet.
var ErrNotFound = errors.New("benchmark: hero not found")

// Repository is the injected storage backend, keyed by hero id.
type Repository interface {
	Get(ctx context.Context, heroID int) (*domain.HeroBenchmark, error)
	Upsert(ctx context.Context, bench *domain.HeroBenchmark) error
}

// Store applies incremental mean updates on top of a Repository. Updates
// for the same hero serialize on a per-hero lock; different heroes proceed
// in parallel.
type Store struct {
	repo Repository
	log  zerolog.Logger

	mu    sync.Mutex
	locks map[int]*sync.Mutex
}

func NewStore(repo Repository, log zerolog.Logger) *Store {
	return &Store{
		repo:  repo,
		log:   log.With().Str("component", "benchmark_store").Logger(),
		locks: make(map[int]*sync.Mutex),
	}
}

func (s *Store) heroLock(heroID int) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[heroID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[heroID] = l
	}
	return l
}

// RecordSample folds one match's stats into the hero's running means:
// newMean = (oldMean*N + sample) / (N+1), then N += 1. N never decreases.
func (s *Store) RecordSample(ctx context.Context, heroID int, sample domain.BenchmarkSample) error {
	lock := s.heroLock(heroID)
	lock.Lock()
	defer lock.Unlock()

	bench, err := s.repo.Get(ctx, heroID)
	if errors.Is(err, ErrNotFound) {
		bench = &domain.HeroBenchmark{HeroID: heroID}
	} else if err != nil {
		return fmt.Errorf("benchmark read for hero %d: %w", heroID, err)
	}

	n := float64(bench.Matches)
	fold := func(mean float64, x float64) float64 {
		return (mean*n + x) / (n + 1)
	}

	bench.AvgGoldPerMin = fold(bench.AvgGoldPerMin, sample.GoldPerMin)
	bench.AvgXPPerMin = fold(bench.AvgXPPerMin, sample.XPPerMin)
	bench.AvgCSPerMin = fold(bench.AvgCSPerMin, sample.CSPerMin)
	bench.AvgLastHits = fold(bench.AvgLastHits, sample.LastHits)
	bench.AvgDenies = fold(bench.AvgDenies, sample.Denies)
	bench.AvgKills = fold(bench.AvgKills, sample.Kills)
	bench.AvgDeaths = fold(bench.AvgDeaths, sample.Deaths)
	bench.AvgAssists = fold(bench.AvgAssists, sample.Assists)
	bench.AvgHeroDamage = fold(bench.AvgHeroDamage, sample.HeroDamage)
	bench.AvgTowerDamage = fold(bench.AvgTowerDamage, sample.TowerDamage)
	bench.AvgHealing = fold(bench.AvgHealing, sample.Healing)
	bench.AvgObserverWards = fold(bench.AvgObserverWards, sample.ObserverWards)
	bench.AvgSentryWards = fold(bench.AvgSentryWards, sample.SentryWards)
	bench.AvgCampsStacked = fold(bench.AvgCampsStacked, sample.CampsStacked)
	bench.Matches++

	if err := s.repo.Upsert(ctx, bench); err != nil {
		return fmt.Errorf("benchmark write for hero %d: %w", heroID, err)
	}

	s.log.Debug().
		Int("hero_id", heroID).
		Int("matches", bench.Matches).
		Msg("benchmark sample recorded")
	return nil
}

// Benchmark returns the current aggregate, or ErrNotFound when no sample
// has ever been recorded for the hero.
func (s *Store) Benchmark(ctx context.Context, heroID int) (*domain.HeroBenchmark, error) {
	bench, err := s.repo.Get(ctx, heroID)
	if err != nil {
		return nil, err
	}
	if bench.Matches == 0 {
		return nil, ErrNotFound
	}
	return bench, nil
}

// SampleFromParticipant builds a benchmark sample from a participant's
// final stats.
func SampleFromParticipant(p *domain.ParticipantRecord, durationMin float64) domain.BenchmarkSample {
	if durationMin <= 0 {
		durationMin = 1
	}
	return domain.BenchmarkSample{
		GoldPerMin:    float64(p.GoldPerMin),
		XPPerMin:      float64(p.XPPerMin),
		CSPerMin:      float64(p.LastHits) / durationMin,
		LastHits:      float64(p.LastHits),
		Denies:        float64(p.Denies),
		Kills:         float64(p.Kills),
		Deaths:        float64(p.Deaths),
		Assists:       float64(p.Assists),
		HeroDamage:    float64(p.HeroDamage),
		TowerDamage:   float64(p.TowerDamage),
		Healing:       float64(p.HeroHealing),
		ObserverWards: float64(p.ObserverWards),
		SentryWards:   float64(p.SentryWards),
		CampsStacked:  float64(p.CampsStacked),
	}
}
