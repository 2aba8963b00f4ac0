package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"dota-coach/internal/benchmark"
	"dota-coach/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCoach struct {
	insights []domain.Insight
	err      error
}

func (s stubCoach) Generate(context.Context, *domain.ParticipantRecord, float64, bool) ([]domain.Insight, error) {
	return s.insights, s.err
}

func testOrchestrator(coach stubCoach) *Orchestrator {
	log := testLogger()
	return NewOrchestrator(
		NewPerformanceDetector(DefaultPerformanceConfig(), log),
		NewTimelineDetector(DefaultTimelineConfig(), log),
		NewMomentExtractor(DefaultMomentConfig(), log),
		NewItemBuildAnalyzer(DefaultItemBuildConfig(), log),
		benchmark.NewStore(benchmark.NewMemoryRepository(), log),
		coach,
		log,
	)
}

func fullMatch() *domain.MatchRecord {
	p := coreParticipant()
	p.PlayerSlot = 0
	p.Deaths = 9
	p.DeathTimes = []int{400, 500, 600, 1900}
	p.KillLog = []domain.KillEvent{
		{Time: 100, VictimHero: "Pudge"},
		{Time: 112, VictimHero: "Lion"},
	}
	return &domain.MatchRecord{
		MatchID:      42,
		StartTime:    time.Date(2025, 3, 4, 19, 0, 0, 0, time.UTC),
		Duration:     2400,
		RadiantWin:   true,
		Participants: []domain.ParticipantRecord{*p},
	}
}

func TestAnalyzeUnknownAccount(t *testing.T) {
	o := testOrchestrator(stubCoach{})
	_, err := o.Analyze(context.Background(), fullMatch(), 999)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoParticipant)
}

func TestAnalyzeMergesDetectors(t *testing.T) {
	o := testOrchestrator(stubCoach{})
	match := fullMatch()

	result, err := o.Analyze(context.Background(), match, 101)
	require.NoError(t, err)

	assert.Equal(t, int64(42), result.MatchID)
	assert.Equal(t, "Anti-Mage", result.HeroName)
	assert.Equal(t, domain.RoleCore, result.Role)
	assert.True(t, result.Won)
	assert.Equal(t, "rules", result.InsightSource)
	assert.Empty(t, result.SkippedComponents)

	// Nine deaths and a death cluster both fire.
	titles := insightTitles(result.Insights)
	assert.Contains(t, titles, "Dying far too often")
	assert.Contains(t, titles, "Chain of deaths")

	// First Blood and a Double Kill land in the moment stream.
	assert.NotEmpty(t, result.KeyMoments)
	assert.NotEmpty(t, result.Highlights)
	assert.LessOrEqual(t, len(result.Highlights), DefaultMomentConfig().TopN)

	// Summary buckets cover every merged insight.
	total := result.Summary.Mistakes + result.Summary.MissedOpportunities + result.Summary.GoodPlays
	assert.Equal(t, len(result.Insights), total)
	assert.NotEmpty(t, result.Summary.TopSeverity)
}

func TestAnalyzeCoachReplacesPerformanceInsights(t *testing.T) {
	coached := domain.Insight{
		Type:     domain.InsightMistake,
		Category: domain.CategoryDecisionMaking,
		Severity: domain.SeverityMedium,
		Title:    "Coached insight",
	}
	o := testOrchestrator(stubCoach{insights: []domain.Insight{coached}})

	result, err := o.Analyze(context.Background(), fullMatch(), 101)
	require.NoError(t, err)

	assert.Equal(t, "coach", result.InsightSource)
	titles := insightTitles(result.Insights)
	assert.Contains(t, titles, "Coached insight")
	// Rule-based performance output is replaced, timeline output stays.
	assert.NotContains(t, titles, "Dying far too often")
	assert.Contains(t, titles, "Chain of deaths")
}

func TestAnalyzeCoachFailureFallsBack(t *testing.T) {
	o := testOrchestrator(stubCoach{err: errors.New("upstream down")})

	result, err := o.Analyze(context.Background(), fullMatch(), 101)
	require.NoError(t, err)

	assert.Equal(t, "rules", result.InsightSource)
	assert.Contains(t, insightTitles(result.Insights), "Dying far too often")
}

func TestSummarizeTopSeverity(t *testing.T) {
	s := summarize([]domain.Insight{
		{Type: domain.InsightGoodPlay, Severity: domain.SeverityLow},
		{Type: domain.InsightMistake, Severity: domain.SeverityHigh},
		{Type: domain.InsightMistake, Severity: domain.SeverityMedium},
	})

	assert.Equal(t, 2, s.Mistakes)
	assert.Equal(t, 1, s.GoodPlays)
	assert.Equal(t, domain.SeverityHigh, s.TopSeverity)
	assert.Equal(t, 1, s.BySeverity[domain.SeverityMedium])
}

func TestSummarizeEmpty(t *testing.T) {
	s := summarize(nil)
	assert.Zero(t, s.Mistakes)
	assert.Empty(t, s.TopSeverity)
}
