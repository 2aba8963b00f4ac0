package analysis

import (
	"testing"

	"dota-coach/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func momentsOf(typ domain.MomentType, moments []domain.KeyMoment) []domain.KeyMoment {
	var out []domain.KeyMoment
	for _, m := range moments {
		if m.Type == typ {
			out = append(out, m)
		}
	}
	return out
}

func emptyMatch() *domain.MatchRecord {
	return &domain.MatchRecord{MatchID: 1, Duration: 2400, RadiantWin: true}
}

func TestFirstBlood(t *testing.T) {
	e := NewMomentExtractor(DefaultMomentConfig(), testLogger())

	t.Run("early first kill", func(t *testing.T) {
		p := &domain.ParticipantRecord{KillLog: []domain.KillEvent{{Time: 90, VictimHero: "Pudge"}}}
		all, _ := e.Extract(emptyMatch(), p)

		kills := momentsOf(domain.MomentKill, all)
		require.Len(t, kills, 1)
		assert.Equal(t, "First Blood", kills[0].Title)
		assert.Equal(t, domain.ImportanceHigh, kills[0].Importance)
	})

	t.Run("late first kill stays a plain kill", func(t *testing.T) {
		p := &domain.ParticipantRecord{KillLog: []domain.KillEvent{{Time: 150, VictimHero: "Pudge"}}}
		all, _ := e.Extract(emptyMatch(), p)

		kills := momentsOf(domain.MomentKill, all)
		require.Len(t, kills, 1)
		assert.Equal(t, "Killed Pudge", kills[0].Title)
		assert.Equal(t, domain.ImportanceMedium, kills[0].Importance)
	})
}

func TestMultiKillStreaks(t *testing.T) {
	e := NewMomentExtractor(DefaultMomentConfig(), testLogger())

	p := &domain.ParticipantRecord{KillLog: []domain.KillEvent{
		{Time: 300, VictimHero: "Pudge"},
		{Time: 310, VictimHero: "Lion"},
		{Time: 325, VictimHero: "Sniper"},
		{Time: 500, VictimHero: "Pudge"},
	}}
	all, _ := e.Extract(emptyMatch(), p)

	multis := momentsOf(domain.MomentMultiKill, all)
	require.Len(t, multis, 1)
	assert.Equal(t, "Triple Kill", multis[0].Title)
	assert.Equal(t, 300, multis[0].Timestamp)
	require.NotNil(t, multis[0].Metadata)
	assert.Equal(t, 3, multis[0].Metadata.StreakLength)
}

func TestMultiKillLabels(t *testing.T) {
	assert.Equal(t, "Double Kill", multiKillLabel(2))
	assert.Equal(t, "Triple Kill", multiKillLabel(3))
	assert.Equal(t, "Ultra Kill", multiKillLabel(4))
	assert.Equal(t, "Rampage", multiKillLabel(5))
	assert.Equal(t, "Rampage", multiKillLabel(7))
}

func TestObjectiveMoments(t *testing.T) {
	e := NewMomentExtractor(DefaultMomentConfig(), testLogger())

	p := &domain.ParticipantRecord{
		IsRadiant: true,
		Objectives: []domain.ObjectiveEvent{
			{Time: 900, IsRadiant: true, Type: "building_kill"},
			{Time: 1100, IsRadiant: false, Type: "building_kill"}, // enemy tower, dropped
			{Time: 1600, IsRadiant: false, Type: "roshan_kill"},   // kept regardless of team
		},
	}
	all, _ := e.Extract(emptyMatch(), p)

	objectives := momentsOf(domain.MomentObjective, all)
	require.Len(t, objectives, 2)
	assert.Equal(t, "Tower destroyed", objectives[0].Title)
	assert.Equal(t, "Roshan slain", objectives[1].Title)
	assert.Equal(t, domain.ImportanceHigh, objectives[1].Importance)
}

func TestPurchaseMoments(t *testing.T) {
	e := NewMomentExtractor(DefaultMomentConfig(), testLogger())

	p := &domain.ParticipantRecord{PurchaseLog: []domain.PurchaseEvent{
		{Time: 600, ItemKey: "magic_wand"}, // filler, dropped
		{Time: 1400, ItemKey: "black_king_bar"},
	}}
	all, _ := e.Extract(emptyMatch(), p)

	purchases := momentsOf(domain.MomentItemPurchase, all)
	require.Len(t, purchases, 1)
	assert.Equal(t, "Bought Black King Bar", purchases[0].Title)
	require.NotNil(t, purchases[0].Metadata)
	assert.Equal(t, "Black King Bar", purchases[0].Metadata.ItemName)
}

func TestComebackMoments(t *testing.T) {
	e := NewMomentExtractor(DefaultMomentConfig(), testLogger())

	adv := []int{-4000, -4000, -4000, -4000, -4000, -4000, -4000, -4000, -4000, -4000, 2000}
	match := emptyMatch()
	match.RadiantGoldAdv = adv

	t.Run("radiant side sees the swing", func(t *testing.T) {
		p := &domain.ParticipantRecord{IsRadiant: true}
		all, _ := e.Extract(match, p)

		comebacks := momentsOf(domain.MomentComeback, all)
		require.Len(t, comebacks, 1)
		assert.Equal(t, 600, comebacks[0].Timestamp)
		require.NotNil(t, comebacks[0].Metadata)
		assert.Equal(t, 6000, comebacks[0].Metadata.GoldSwing)
	})

	t.Run("dire side was never behind", func(t *testing.T) {
		p := &domain.ParticipantRecord{IsRadiant: false}
		all, _ := e.Extract(match, p)
		assert.Empty(t, momentsOf(domain.MomentComeback, all))
	})
}

func TestTeamFightMoments(t *testing.T) {
	e := NewMomentExtractor(DefaultMomentConfig(), testLogger())

	p := &domain.ParticipantRecord{
		KillLog:    []domain.KillEvent{{Time: 1000, VictimHero: "Pudge"}, {Time: 1012, VictimHero: "Lion"}},
		DeathTimes: []int{1005, 1020},
	}
	all, _ := e.Extract(emptyMatch(), p)

	fights := momentsOf(domain.MomentTeamFight, all)
	require.Len(t, fights, 1)
	assert.Equal(t, 1000, fights[0].Timestamp)
	assert.Equal(t, domain.ImportanceMedium, fights[0].Importance)
}

func TestHighlightRanking(t *testing.T) {
	e := NewMomentExtractor(DefaultMomentConfig(), testLogger())

	p := &domain.ParticipantRecord{
		IsRadiant: true,
		KillLog: []domain.KillEvent{
			{Time: 90, VictimHero: "Pudge"}, // First Blood
			{Time: 800, VictimHero: "Lion"},
			{Time: 810, VictimHero: "Sniper"}, // Double Kill at 800
			{Time: 1500, VictimHero: "Pudge"},
		},
		DeathTimes: []int{400, 700, 1100, 1700, 2000},
		Objectives: []domain.ObjectiveEvent{
			{Time: 1600, IsRadiant: true, Type: "roshan_kill"},
		},
	}
	all, top := e.Extract(emptyMatch(), p)

	assert.Greater(t, len(all), 5)
	require.Len(t, top, 5)

	// Chronological output from both lists.
	for i := 1; i < len(all); i++ {
		assert.LessOrEqual(t, all[i-1].Timestamp, all[i].Timestamp)
	}
	for i := 1; i < len(top); i++ {
		assert.LessOrEqual(t, top[i-1].Timestamp, top[i].Timestamp)
	}

	// The big-score moments all survive the cut.
	assert.NotEmpty(t, momentsOf(domain.MomentMultiKill, top))
	titles := make([]string, 0, len(top))
	for _, m := range top {
		titles = append(titles, m.Title)
	}
	assert.Contains(t, titles, "First Blood")
	assert.Contains(t, titles, "Roshan slain")

	// Ranking is deterministic: repeated runs over the same chronological
	// list return the identical selection in the identical order.
	assert.Equal(t, top, e.rank(all))
	assert.Equal(t, e.rank(all), e.rank(all))
}
