package benchmark

import (
	"context"
	"sync"
	"testing"

	"dota-coach/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore() *Store {
	return NewStore(NewMemoryRepository(), zerolog.Nop())
}

func TestBenchmarkBeforeAnySample(t *testing.T) {
	s := newTestStore()
	_, err := s.Benchmark(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecordSampleRunningMean(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	samples := []float64{400, 600, 500, 700}
	var sum float64
	for _, gpm := range samples {
		sum += gpm
		require.NoError(t, s.RecordSample(ctx, 1, domain.BenchmarkSample{GoldPerMin: gpm, Kills: 5}))
	}

	bench, err := s.Benchmark(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, len(samples), bench.Matches)
	assert.InDelta(t, sum/float64(len(samples)), bench.AvgGoldPerMin, 1e-9)
	assert.InDelta(t, 5, bench.AvgKills, 1e-9)
}

func TestRecordSamplePerHeroIsolation(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	require.NoError(t, s.RecordSample(ctx, 1, domain.BenchmarkSample{GoldPerMin: 400}))
	require.NoError(t, s.RecordSample(ctx, 2, domain.BenchmarkSample{GoldPerMin: 800}))

	one, err := s.Benchmark(ctx, 1)
	require.NoError(t, err)
	two, err := s.Benchmark(ctx, 2)
	require.NoError(t, err)

	assert.InDelta(t, 400, one.AvgGoldPerMin, 1e-9)
	assert.InDelta(t, 800, two.AvgGoldPerMin, 1e-9)
	assert.Equal(t, 1, one.Matches)
}

func TestRecordSampleConcurrent(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.RecordSample(ctx, 7, domain.BenchmarkSample{GoldPerMin: 500})
		}()
	}
	wg.Wait()

	bench, err := s.Benchmark(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, n, bench.Matches)
	assert.InDelta(t, 500, bench.AvgGoldPerMin, 1e-9)
}

func TestSampleFromParticipant(t *testing.T) {
	p := &domain.ParticipantRecord{
		GoldPerMin:    520,
		XPPerMin:      600,
		LastHits:      280,
		Denies:        12,
		Kills:         6,
		Deaths:        4,
		Assists:       8,
		HeroDamage:    21000,
		TowerDamage:   4000,
		HeroHealing:   300,
		ObserverWards: 2,
		SentryWards:   1,
		CampsStacked:  3,
	}

	sample := SampleFromParticipant(p, 40)
	assert.InDelta(t, 7.0, sample.CSPerMin, 1e-9)
	assert.InDelta(t, 520, sample.GoldPerMin, 1e-9)
	assert.InDelta(t, 300, sample.Healing, 1e-9)

	// A degenerate duration never divides by zero.
	sample = SampleFromParticipant(p, 0)
	assert.InDelta(t, 280, sample.CSPerMin, 1e-9)
}
