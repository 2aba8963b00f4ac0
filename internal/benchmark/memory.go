package benchmark

import (
	"context"
	"sync"

	"dota-coach/internal/domain"
)

// MemoryRepository is an in-process Repository used by the offline CLI and
// tests. The server wires the sqlite-backed repository instead.
type MemoryRepository struct {
	mu     sync.RWMutex
	byHero map[int]domain.HeroBenchmark
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byHero: make(map[int]domain.HeroBenchmark)}
}

func (r *MemoryRepository) Get(_ context.Context, heroID int) (*domain.HeroBenchmark, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	bench, ok := r.byHero[heroID]
	if !ok {
		return nil, ErrNotFound
	}
	out := bench
	return &out, nil
}

func (r *MemoryRepository) Upsert(_ context.Context, bench *domain.HeroBenchmark) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byHero[bench.HeroID] = *bench
	return nil
}
