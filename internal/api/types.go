package api

import (
	"time"

	"dota-coach/internal/domain"
)

// Wire types for the provider's match payload. Optional telemetry arrays
// are only present for parsed matches.

type matchResponse struct {
	MatchID        int64           `json:"match_id"`
	StartTime      int64           `json:"start_time"` // unix seconds
	Duration       int             `json:"duration"`
	RadiantWin     bool            `json:"radiant_win"`
	RadiantGoldAdv []int           `json:"radiant_gold_adv"`
	Players        []playerPayload `json:"players"`
	Teamfights     []teamfight     `json:"teamfights"`
	Objectives     []objective     `json:"objectives"`
}

type playerPayload struct {
	AccountID     int64  `json:"account_id"`
	PlayerSlot    int    `json:"player_slot"`
	HeroID        int    `json:"hero_id"`
	HeroName      string `json:"hero_name"`
	IsRadiant     bool   `json:"isRadiant"`
	Kills         int    `json:"kills"`
	Deaths        int    `json:"deaths"`
	Assists       int    `json:"assists"`
	LastHits      int    `json:"last_hits"`
	Denies        int    `json:"denies"`
	GoldPerMin    int    `json:"gold_per_min"`
	XPPerMin      int    `json:"xp_per_min"`
	TotalGold     int    `json:"total_gold"`
	NetWorth      int    `json:"net_worth"`
	HeroDamage    int    `json:"hero_damage"`
	TowerDamage   int    `json:"tower_damage"`
	HeroHealing   int    `json:"hero_healing"`
	Level         int    `json:"level"`
	ObserverWards int    `json:"obs_placed"`
	SentryWards   int    `json:"sen_placed"`
	CampsStacked  int    `json:"camps_stacked"`

	Item0 int `json:"item_0"`
	Item1 int `json:"item_1"`
	Item2 int `json:"item_2"`
	Item3 int `json:"item_3"`
	Item4 int `json:"item_4"`
	Item5 int `json:"item_5"`

	LastHitsT []int `json:"lh_t"`
	GoldT     []int `json:"gold_t"`
	XPT       []int `json:"xp_t"`

	KillsLog []killLogEntry `json:"kills_log"`
	// LifeStateByMin is the per-minute life state: 0 alive, 1 dead.
	LifeStateByMin []int              `json:"life_state_t"`
	PurchaseLog    []purchaseLogEntry `json:"purchase_log"`
}

type killLogEntry struct {
	Time int    `json:"time"`
	Key  string `json:"key"` // victim hero
}

type purchaseLogEntry struct {
	Time int    `json:"time"`
	Key  string `json:"key"` // item key
}

type teamfight struct {
	Start   int               `json:"start"`
	End     int               `json:"end"`
	Players []teamfightPlayer `json:"players"`
}

type teamfightPlayer struct {
	Deaths    int `json:"deaths"`
	Damage    int `json:"damage"`
	GoldDelta int `json:"gold_delta"`
	XPDelta   int `json:"xp_delta"`
}

type objective struct {
	Time int    `json:"time"`
	Team int    `json:"team"` // 2 radiant, 3 dire
	Type string `json:"type"`
}

func (m *matchResponse) toDomain() *domain.MatchRecord {
	record := &domain.MatchRecord{
		MatchID:        m.MatchID,
		StartTime:      time.Unix(m.StartTime, 0),
		Duration:       m.Duration,
		RadiantWin:     m.RadiantWin,
		RadiantGoldAdv: m.RadiantGoldAdv,
	}

	fights := make([]domain.TeamFightRecord, 0, len(m.Teamfights))
	for _, f := range m.Teamfights {
		players := make([]domain.TeamFightPlayer, len(f.Players))
		for i, p := range f.Players {
			players[i] = domain.TeamFightPlayer{
				Deaths:    p.Deaths,
				Damage:    p.Damage,
				GoldDelta: p.GoldDelta,
				XPDelta:   p.XPDelta,
			}
		}
		fights = append(fights, domain.TeamFightRecord{Start: f.Start, End: f.End, Players: players})
	}

	objectives := make([]domain.ObjectiveEvent, 0, len(m.Objectives))
	for _, o := range m.Objectives {
		objectives = append(objectives, domain.ObjectiveEvent{
			Time:      o.Time,
			IsRadiant: o.Team == 2,
			Type:      o.Type,
		})
	}

	record.Participants = make([]domain.ParticipantRecord, 0, len(m.Players))
	for slot, p := range m.Players {
		record.Participants = append(record.Participants, p.toDomain(slot, fights, objectives))
	}
	return record
}

func (p *playerPayload) toDomain(slot int, fights []domain.TeamFightRecord, objectives []domain.ObjectiveEvent) domain.ParticipantRecord {
	out := domain.ParticipantRecord{
		AccountID:     p.AccountID,
		PlayerSlot:    slot,
		HeroID:        p.HeroID,
		HeroName:      p.HeroName,
		IsRadiant:     p.IsRadiant,
		Kills:         p.Kills,
		Deaths:        p.Deaths,
		Assists:       p.Assists,
		LastHits:      p.LastHits,
		Denies:        p.Denies,
		GoldPerMin:    p.GoldPerMin,
		XPPerMin:      p.XPPerMin,
		NetWorth:      p.NetWorth,
		HeroDamage:    p.HeroDamage,
		TowerDamage:   p.TowerDamage,
		HeroHealing:   p.HeroHealing,
		Level:         p.Level,
		ObserverWards: p.ObserverWards,
		SentryWards:   p.SentryWards,
		CampsStacked:  p.CampsStacked,
		ItemIDs:       []int{p.Item0, p.Item1, p.Item2, p.Item3, p.Item4, p.Item5},

		LastHitsPerMin: p.LastHitsT,
		GoldPerMinArr:  p.GoldT,
		XPPerMinArr:    p.XPT,

		TeamFights: fights,
		Objectives: objectives,
	}

	for _, k := range p.KillsLog {
		out.KillLog = append(out.KillLog, domain.KillEvent{Time: k.Time, VictimHero: k.Key})
	}
	for _, pur := range p.PurchaseLog {
		out.PurchaseLog = append(out.PurchaseLog, domain.PurchaseEvent{Time: pur.Time, ItemKey: pur.Key})
	}

	// Each alive→dead transition in the per-minute life state marks one
	// death at that minute.
	for m := 1; m < len(p.LifeStateByMin); m++ {
		if p.LifeStateByMin[m] != 0 && p.LifeStateByMin[m-1] == 0 {
			out.DeathTimes = append(out.DeathTimes, m*60)
		}
	}

	return out
}

type playerMatch struct {
	MatchID    int64 `json:"match_id"`
	PlayerSlot int   `json:"player_slot"`
	RadiantWin bool  `json:"radiant_win"`
	HeroID     int   `json:"hero_id"`
	Kills      int   `json:"kills"`
	Deaths     int   `json:"deaths"`
	Assists    int   `json:"assists"`
	GoldPerMin int   `json:"gold_per_min"`
	StartTime  int64 `json:"start_time"`
	Duration   int   `json:"duration"`
}

func (m playerMatch) toDomain() domain.HistoryMatch {
	isRadiant := m.PlayerSlot < 128
	return domain.HistoryMatch{
		MatchID:    m.MatchID,
		HeroID:     m.HeroID,
		Won:        isRadiant == m.RadiantWin,
		Kills:      m.Kills,
		Deaths:     m.Deaths,
		Assists:    m.Assists,
		GoldPerMin: m.GoldPerMin,
		StartTime:  time.Unix(m.StartTime, 0),
		Duration:   m.Duration,
	}
}
