package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchResponseToDomain(t *testing.T) {
	resp := &matchResponse{
		MatchID:    42,
		StartTime:  1741114800,
		Duration:   2400,
		RadiantWin: true,
		Teamfights: []teamfight{
			{Start: 900, End: 940, Players: []teamfightPlayer{
				{Deaths: 1, Damage: 300, GoldDelta: -200},
				{Deaths: 0, Damage: 2500, GoldDelta: 800},
			}},
		},
		Objectives: []objective{
			{Time: 1200, Team: 2, Type: "building_kill"},
			{Time: 1600, Team: 3, Type: "roshan_kill"},
		},
		Players: []playerPayload{
			{
				AccountID: 101,
				HeroID:    1,
				HeroName:  "Anti-Mage",
				IsRadiant: true,
				Kills:     6,
				Item0:     116,
				Item1:     1,
				KillsLog:  []killLogEntry{{Time: 100, Key: "Pudge"}},
				// Alive until minute 14, dead through 15, alive, dead at 20.
				LifeStateByMin: buildLifeState(25, 14, 15, 20),
				PurchaseLog:    []purchaseLogEntry{{Time: 1400, Key: "black_king_bar"}},
			},
			{AccountID: 102, HeroID: 2, IsRadiant: false},
		},
	}

	record := resp.toDomain()
	assert.Equal(t, int64(42), record.MatchID)
	require.Len(t, record.Participants, 2)

	p := record.Participants[0]
	assert.Equal(t, 0, p.PlayerSlot)
	assert.Equal(t, 1, record.Participants[1].PlayerSlot)

	// Item slots flatten into one list.
	assert.Equal(t, []int{116, 1, 0, 0, 0, 0}, p.ItemIDs)

	// Kill and purchase logs carry over.
	require.Len(t, p.KillLog, 1)
	assert.Equal(t, "Pudge", p.KillLog[0].VictimHero)
	require.Len(t, p.PurchaseLog, 1)
	assert.Equal(t, "black_king_bar", p.PurchaseLog[0].ItemKey)

	// Two alive-to-dead transitions become two death timestamps.
	assert.Equal(t, []int{14 * 60, 20 * 60}, p.DeathTimes)

	// Match-level fights and objectives reach every participant.
	require.Len(t, p.TeamFights, 1)
	assert.Equal(t, 2500, p.TeamFights[0].Players[1].Damage)
	require.Len(t, p.Objectives, 2)
	assert.True(t, p.Objectives[0].IsRadiant)
	assert.False(t, p.Objectives[1].IsRadiant)
}

// buildLifeState returns a minutes-long life-state track with the given
// minutes marked dead.
func buildLifeState(minutes int, deadAt ...int) []int {
	out := make([]int, minutes)
	for _, m := range deadAt {
		out[m] = 1
	}
	return out
}

func TestPlayerMatchToDomain(t *testing.T) {
	t.Run("radiant slot wins radiant game", func(t *testing.T) {
		h := playerMatch{MatchID: 7, PlayerSlot: 2, RadiantWin: true, StartTime: 1741114800, Duration: 1500}.toDomain()
		assert.True(t, h.Won)
		assert.Equal(t, int64(7), h.MatchID)
		assert.Equal(t, 1500, h.Duration)
	})

	t.Run("dire slot loses radiant game", func(t *testing.T) {
		h := playerMatch{PlayerSlot: 130, RadiantWin: true}.toDomain()
		assert.False(t, h.Won)
	})
}
