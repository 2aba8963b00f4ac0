package analysis

import (
	"testing"

	"dota-coach/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Item ids from the name table: 1 blink, 116 black_king_bar, 141 daedalus,
// 135 monkey_king_bar, 112 battle_fury, 254 glimmer_cape, 42 observer_ward.

func TestItemBuildWellItemizedCore(t *testing.T) {
	a := NewItemBuildAnalyzer(DefaultItemBuildConfig(), testLogger())
	p := &domain.ParticipantRecord{
		ItemIDs:    []int{116, 1, 141, 135, 112, 0},
		NetWorth:   24000,
		GoldPerMin: 620,
		Deaths:     4,
	}

	report := a.Analyze(domain.RoleCore, p, 40)

	// 70 +3 mobility +5 slots +8 two damage items +5 farming item.
	assert.Equal(t, 91, report.Score)
	assert.Empty(t, report.KeyIssues)
	assert.NotEmpty(t, report.Positives)
}

func TestItemBuildNakedCore(t *testing.T) {
	a := NewItemBuildAnalyzer(DefaultItemBuildConfig(), testLogger())
	p := &domain.ParticipantRecord{
		ItemIDs:  []int{0, 0, 0, 0, 0, 0},
		NetWorth: 20000,
		Deaths:   10,
	}

	report := a.Analyze(domain.RoleCore, p, 40)

	// 70 -15 no BKB -8 no mobility +5 slots -12 no damage -15 no defensive.
	assert.Equal(t, 25, report.Score)

	titles := make([]string, 0, len(report.Insights))
	for _, in := range report.Insights {
		titles = append(titles, in.Title)
	}
	assert.Contains(t, titles, "Missing Black King Bar")
	assert.Contains(t, titles, "Net worth without damage")
	assert.Contains(t, titles, "No answer to your deaths")
}

func TestItemBuildSupport(t *testing.T) {
	a := NewItemBuildAnalyzer(DefaultItemBuildConfig(), testLogger())

	t.Run("utility and vision", func(t *testing.T) {
		p := &domain.ParticipantRecord{ItemIDs: []int{254, 42, 29, 0, 0, 0}, Deaths: 5}
		report := a.Analyze(domain.RoleSupport, p, 40)

		assert.Equal(t, 74, report.Score)
		assert.Empty(t, report.KeyIssues)
		require.Len(t, report.Positives, 2)
	})

	t.Run("carry item on a support", func(t *testing.T) {
		p := &domain.ParticipantRecord{ItemIDs: []int{254, 141, 0, 0, 0, 0}, Deaths: 5}
		report := a.Analyze(domain.RoleSupport, p, 40)

		var found bool
		for _, in := range report.Insights {
			if in.Title == "Carry item on a support" {
				found = true
				assert.Equal(t, domain.CategoryDecisionMaking, in.Category)
			}
		}
		assert.True(t, found)
	})

	t.Run("no utility at all", func(t *testing.T) {
		p := &domain.ParticipantRecord{ItemIDs: []int{29, 36, 0, 0, 0, 0}, Deaths: 5}
		report := a.Analyze(domain.RoleSupport, p, 40)

		assert.Equal(t, 60, report.Score)
		assert.Contains(t, report.KeyIssues, "No utility items to help allies")
	})
}

func TestItemBuildScoreClamped(t *testing.T) {
	t.Run("floor at zero", func(t *testing.T) {
		cfg := DefaultItemBuildConfig()
		cfg.BaseScore = 10
		cfg.NoDefensivePenalty = 60
		a := NewItemBuildAnalyzer(cfg, testLogger())

		p := &domain.ParticipantRecord{ItemIDs: []int{29, 0, 0, 0, 0, 0}, Deaths: 12}
		report := a.Analyze(domain.RoleSupport, p, 20)
		assert.Equal(t, 0, report.Score)
	})

	t.Run("ceiling at one hundred", func(t *testing.T) {
		cfg := DefaultItemBuildConfig()
		cfg.BaseScore = 95
		cfg.UtilityBonus = 30
		a := NewItemBuildAnalyzer(cfg, testLogger())

		p := &domain.ParticipantRecord{ItemIDs: []int{254, 0, 0, 0, 0, 0}, Deaths: 2}
		report := a.Analyze(domain.RoleSupport, p, 20)
		assert.Equal(t, 100, report.Score)
	})
}

func TestItemBuildEarlyStatItemsHeldLate(t *testing.T) {
	a := NewItemBuildAnalyzer(DefaultItemBuildConfig(), testLogger())

	p := &domain.ParticipantRecord{
		ItemIDs:    []int{116, 1, 75, 141, 135, 0}, // wraith band at minute 40
		NetWorth:   22000,
		GoldPerMin: 600,
		Deaths:     3,
	}
	report := a.Analyze(domain.RoleCore, p, 40)

	assert.Contains(t, report.KeyIssues, "Early-game stat items still occupying slots late")
	// 70 +3 mobility -5 early item +8 two damage items.
	assert.Equal(t, 76, report.Score)
}

func TestHeldKeysSkipsEmptyAndUnknown(t *testing.T) {
	held := heldKeys([]int{0, 1, 9999, 116})
	assert.Len(t, held, 2)
	assert.True(t, held["blink"])
	assert.True(t, held["black_king_bar"])
}
