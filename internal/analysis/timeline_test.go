package analysis

import (
	"testing"

	"dota-coach/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func timelineInsightsOf(typ domain.InsightCategory, insights []domain.Insight) []domain.Insight {
	var out []domain.Insight
	for _, in := range insights {
		if in.Category == typ {
			out = append(out, in)
		}
	}
	return out
}

func TestDeathClusters(t *testing.T) {
	d := NewTimelineDetector(DefaultTimelineConfig(), testLogger())

	t.Run("three deaths in window form one cluster", func(t *testing.T) {
		p := &domain.ParticipantRecord{DeathTimes: []int{60, 120, 180, 600}}
		insights := d.Detect(p, 0)

		clusters := timelineInsightsOf(domain.CategoryPositioning, insights)
		require.Len(t, clusters, 1)
		assert.Equal(t, domain.SeverityHigh, clusters[0].Severity)
		require.NotNil(t, clusters[0].GameTime)
		assert.Equal(t, 60, *clusters[0].GameTime)
	})

	t.Run("four deaths upgrade to critical", func(t *testing.T) {
		p := &domain.ParticipantRecord{DeathTimes: []int{10, 40, 90, 200}}
		insights := d.Detect(p, 0)

		clusters := timelineInsightsOf(domain.CategoryPositioning, insights)
		require.Len(t, clusters, 1)
		assert.Equal(t, domain.SeverityCritical, clusters[0].Severity)
	})

	t.Run("spread deaths produce nothing", func(t *testing.T) {
		p := &domain.ParticipantRecord{DeathTimes: []int{60, 600, 1200, 1800}}
		assert.Empty(t, d.Detect(p, 0))
	})

	t.Run("unsorted input is tolerated", func(t *testing.T) {
		p := &domain.ParticipantRecord{DeathTimes: []int{180, 60, 120}}
		clusters := timelineInsightsOf(domain.CategoryPositioning, d.Detect(p, 0))
		require.Len(t, clusters, 1)
		assert.Equal(t, 60, *clusters[0].GameTime)
	})
}

func TestFarmDroughts(t *testing.T) {
	d := NewTimelineDetector(DefaultTimelineConfig(), testLogger())

	t.Run("three dead minutes flag one drought", func(t *testing.T) {
		// Steady 8 CS/min with minutes 12-14 flat.
		cs := make([]int, 20)
		for m := 1; m < len(cs); m++ {
			delta := 8
			if m >= 12 && m <= 14 {
				delta = 0
			}
			cs[m] = cs[m-1] + delta
		}
		p := &domain.ParticipantRecord{LastHitsPerMin: cs}

		insights := timelineInsightsOf(domain.CategoryFarmEfficiency, d.Detect(p, 0))
		require.Len(t, insights, 1)
		require.NotNil(t, insights[0].GameTime)
		assert.Equal(t, 12*60, *insights[0].GameTime)
		assert.Equal(t, domain.InsightMissedOpportunity, insights[0].Type)
	})

	t.Run("early-game dead minutes are ignored", func(t *testing.T) {
		// Flat minutes 5-7 fall before the scan start.
		cs := make([]int, 20)
		for m := 1; m < len(cs); m++ {
			delta := 8
			if m >= 5 && m <= 7 {
				delta = 0
			}
			cs[m] = cs[m-1] + delta
		}
		p := &domain.ParticipantRecord{LastHitsPerMin: cs}
		assert.Empty(t, d.Detect(p, 0))
	})

	t.Run("missing array skips the scan", func(t *testing.T) {
		p := &domain.ParticipantRecord{DeathTimes: []int{60, 120, 180}}
		insights := d.Detect(p, 0)
		assert.Empty(t, timelineInsightsOf(domain.CategoryFarmEfficiency, insights))
		assert.NotEmpty(t, timelineInsightsOf(domain.CategoryPositioning, insights))
	})
}

func TestFightQuality(t *testing.T) {
	d := NewTimelineDetector(DefaultTimelineConfig(), testLogger())

	fights := []domain.TeamFightRecord{
		{Start: 600, End: 630, Players: []domain.TeamFightPlayer{
			{}, {}, {Deaths: 1, Damage: 150, GoldDelta: -400},
		}},
		{Start: 900, End: 940, Players: []domain.TeamFightPlayer{
			{}, {}, {Deaths: 1, Damage: 120, GoldDelta: -300},
		}},
		{Start: 1500, End: 1560, Players: []domain.TeamFightPlayer{
			{}, {}, {Deaths: 0, Damage: 2600, GoldDelta: 900},
		}},
	}
	p := &domain.ParticipantRecord{TeamFights: fights}

	insights := d.Detect(p, 2)
	require.Len(t, insights, 2)

	bad := findInsight(t, insights, "Died without contributing")
	require.NotNil(t, bad.GameTime)
	assert.Equal(t, 600, *bad.GameTime) // first qualifying fight only

	good := findInsight(t, insights, "Clean team fight")
	require.NotNil(t, good.GameTime)
	assert.Equal(t, 1500, *good.GameTime)
}

func TestFightQualityOutOfRangeSlot(t *testing.T) {
	d := NewTimelineDetector(DefaultTimelineConfig(), testLogger())
	p := &domain.ParticipantRecord{TeamFights: []domain.TeamFightRecord{
		{Start: 600, Players: []domain.TeamFightPlayer{{Deaths: 1, Damage: 100}}},
	}}
	assert.Empty(t, d.Detect(p, 7))
}
