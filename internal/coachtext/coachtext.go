// Package coachtext declares the contract for the optional natural-language
// coaching generator. When no generator is configured, or a generator
// returns nothing, the orchestrator falls back to the rule-based insight
// detector; the two are alternatives, never combined.
package coachtext

import (
	"context"
	"errors"

	"dota-coach/internal/domain"
)

// ErrUnavailable signals that no generator is configured or the backing
// service cannot be reached. Callers treat it as "fall back to rules".
var ErrUnavailable = errors.New("coachtext: generator unavailable")

// Generator produces a richer insight list for one participant.
type Generator interface {
	Generate(ctx context.Context, p *domain.ParticipantRecord, durationMin float64, won bool) ([]domain.Insight, error)
}

// Disabled is the no-generator placeholder wired by default.
type Disabled struct{}

func (Disabled) Generate(context.Context, *domain.ParticipantRecord, float64, bool) ([]domain.Insight, error) {
	return nil, ErrUnavailable
}
