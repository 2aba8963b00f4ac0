package analysis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"dota-coach/internal/benchmark"
	"dota-coach/internal/coachtext"
	"dota-coach/internal/domain"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ErrNoParticipant means the tracked account does not appear in the match
// record. This is the only fatal outcome of a single analysis call.
var ErrNoParticipant = errors.New("analysis: participant not in match")

const (
	sourceRules = "rules"
	sourceCoach = "coach"
)

// Orchestrator fans the four single-match detectors out in parallel and
// merges whatever they produced. A failing detector is recorded as skipped
// and never blocks the others.
type Orchestrator struct {
	perf     *PerformanceDetector
	timeline *TimelineDetector
	moments  *MomentExtractor
	items    *ItemBuildAnalyzer
	bench    *benchmark.Store
	coach    coachtext.Generator
	log      zerolog.Logger

	mu sync.Mutex // guards the skipped-component list during fan-out
}

func NewOrchestrator(
	perf *PerformanceDetector,
	timeline *TimelineDetector,
	moments *MomentExtractor,
	items *ItemBuildAnalyzer,
	bench *benchmark.Store,
	coach coachtext.Generator,
	log zerolog.Logger,
) *Orchestrator {
	if coach == nil {
		coach = coachtext.Disabled{}
	}
	return &Orchestrator{
		perf:     perf,
		timeline: timeline,
		moments:  moments,
		items:    items,
		bench:    bench,
		coach:    coach,
		log:      log.With().Str("component", "orchestrator").Logger(),
	}
}

// Analyze runs the full single-match pipeline for the tracked account.
func (o *Orchestrator) Analyze(ctx context.Context, match *domain.MatchRecord, accountID int64) (*domain.MatchAnalysis, error) {
	p := match.ParticipantByAccount(accountID)
	if p == nil {
		return nil, fmt.Errorf("account %d in match %d: %w", accountID, match.MatchID, ErrNoParticipant)
	}

	durationMin := match.DurationMinutes()
	won := match.Won(p)

	var bench *domain.HeroBenchmark
	if o.bench != nil {
		b, err := o.bench.Benchmark(ctx, p.HeroID)
		if err != nil && !errors.Is(err, benchmark.ErrNotFound) {
			o.log.Warn().Err(err).Int("hero_id", p.HeroID).Msg("benchmark unavailable, using fallbacks")
		} else {
			bench = b
		}
	}

	result := &domain.MatchAnalysis{
		MatchID:       match.MatchID,
		AccountID:     accountID,
		HeroID:        p.HeroID,
		HeroName:      p.HeroName,
		Won:           won,
		CreatedAt:     time.Now().UTC(),
		InsightSource: sourceRules,
	}

	var (
		perfInsights     []domain.Insight
		timelineInsights []domain.Insight
		buildReport      domain.ItemBuildReport
		allMoments       []domain.KeyMoment
		topMoments       []domain.KeyMoment
		skipped          []string
	)

	// The role drives both the performance rules and the item-build
	// archetypes; derive it once up front.
	role := ClassifyRole(o.perf.cfg.Role, p, durationMin)
	result.Role = role

	var g errgroup.Group

	g.Go(o.component("performance", &skipped, func() {
		perfInsights, _ = o.perf.Detect(p, durationMin, bench)
	}))
	g.Go(o.component("timeline", &skipped, func() {
		timelineInsights = o.timeline.Detect(p, p.PlayerSlot)
	}))
	g.Go(o.component("moments", &skipped, func() {
		allMoments, topMoments = o.moments.Extract(match, p)
	}))
	g.Go(o.component("itembuild", &skipped, func() {
		buildReport = o.items.Analyze(role, p, durationMin)
	}))

	// Detectors never return errors; Wait is just the join point.
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// The coaching generator replaces only the performance insights.
	if generated, err := o.coach.Generate(ctx, p, durationMin, won); err == nil && len(generated) > 0 {
		perfInsights = generated
		result.InsightSource = sourceCoach
	} else if err != nil && !errors.Is(err, coachtext.ErrUnavailable) {
		o.log.Warn().Err(err).Msg("coaching generator failed, keeping rule-based insights")
	}

	result.Insights = mergeInsights(perfInsights, timelineInsights, buildReport.Insights)
	result.KeyMoments = allMoments
	result.Highlights = topMoments
	result.ItemBuild = buildReport
	result.SkippedComponents = skipped
	result.Summary = summarize(result.Insights)

	o.log.Info().
		Int64("match_id", match.MatchID).
		Int64("account_id", accountID).
		Str("hero", p.HeroName).
		Int("insights", len(result.Insights)).
		Int("moments", len(result.KeyMoments)).
		Strs("skipped", skipped).
		Msg("match analyzed")

	return result, nil
}

// component wraps one detector run so a panic sidelines only that detector
// while the rest keep producing output.
func (o *Orchestrator) component(name string, skipped *[]string, run func()) func() error {
	return func() error {
		defer func() {
			if r := recover(); r != nil {
				o.log.Error().Interface("panic", r).Str("component", name).Msg("detector panicked")
				o.mu.Lock()
				*skipped = append(*skipped, name)
				o.mu.Unlock()
			}
		}()
		run()
		return nil
	}
}

func mergeInsights(lists ...[]domain.Insight) []domain.Insight {
	var merged []domain.Insight
	for _, l := range lists {
		merged = append(merged, l...)
	}
	return merged
}

// summarize buckets insights by type and severity.
func summarize(insights []domain.Insight) domain.AnalysisSummary {
	s := domain.AnalysisSummary{BySeverity: make(map[domain.Severity]int)}
	for _, in := range insights {
		switch in.Type {
		case domain.InsightMistake:
			s.Mistakes++
		case domain.InsightMissedOpportunity:
			s.MissedOpportunities++
		case domain.InsightGoodPlay:
			s.GoodPlays++
		}
		s.BySeverity[in.Severity]++
	}
	for _, sev := range []domain.Severity{domain.SeverityCritical, domain.SeverityHigh, domain.SeverityMedium, domain.SeverityLow} {
		if s.BySeverity[sev] > 0 {
			s.TopSeverity = sev
			break
		}
	}
	return s
}
