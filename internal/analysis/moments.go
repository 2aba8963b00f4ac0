package analysis

import (
	"fmt"
	"sort"

	"dota-coach/internal/domain"

	"github.com/rs/zerolog"
)

// MomentConfig holds the event-synthesis and ranking knobs.
type MomentConfig struct {
	FirstBloodWindow int // seconds; first kill before this is First Blood

	MultiKillGap int // max seconds between kills of one streak

	// Comeback detection over the team gold-advantage series.
	ComebackLookbackMin int
	ComebackDeficit     int // advantage below this counts as "behind"
	ComebackSwing       int // minimum gold recovered over the lookback

	// Team-fight detection over merged kill+death timestamps.
	FightWindow    int // seconds
	FightMinEvents int
	FightBigEvents int

	TopN int

	// Ranking score tables.
	ImportanceBase  map[domain.Importance]int
	TypeBonus       map[domain.MomentType]int
	RoshanBonus     int
	FirstBloodBonus int
}

func DefaultMomentConfig() MomentConfig {
	return MomentConfig{
		FirstBloodWindow:    120,
		MultiKillGap:        18,
		ComebackLookbackMin: 5,
		ComebackDeficit:     -3000,
		ComebackSwing:       5000,
		FightWindow:         30,
		FightMinEvents:      3,
		FightBigEvents:      5,
		TopN:                5,
		ImportanceBase: map[domain.Importance]int{
			domain.ImportanceHigh:   10,
			domain.ImportanceMedium: 5,
			domain.ImportanceLow:    2,
		},
		TypeBonus: map[domain.MomentType]int{
			domain.MomentMultiKill: 8,
			domain.MomentComeback:  7,
			domain.MomentTeamFight: 6,
		},
		RoshanBonus:     5,
		FirstBloodBonus: 5,
	}
}

const (
	titleFirstBlood = "First Blood"
	objectiveRoshan = "roshan_kill"
)

// MomentExtractor synthesizes a typed event stream from the match record,
// then scores and ranks it into a fixed-size highlight subset.
type MomentExtractor struct {
	cfg MomentConfig
	log zerolog.Logger
}

func NewMomentExtractor(cfg MomentConfig, log zerolog.Logger) *MomentExtractor {
	return &MomentExtractor{cfg: cfg, log: log.With().Str("detector", "moments").Logger()}
}

// Extract returns the full chronological moment list and the top-N subset
// (ranked by score, then re-sorted by timestamp for display).
func (e *MomentExtractor) Extract(match *domain.MatchRecord, p *domain.ParticipantRecord) (all, top []domain.KeyMoment) {
	var moments []domain.KeyMoment
	moments = append(moments, e.killMoments(p)...)
	moments = append(moments, e.deathMoments(p)...)
	moments = append(moments, e.objectiveMoments(p)...)
	moments = append(moments, e.purchaseMoments(p)...)
	moments = append(moments, e.multiKills(p)...)
	moments = append(moments, e.comebacks(match, p)...)
	moments = append(moments, e.teamFights(p)...)

	sort.SliceStable(moments, func(i, j int) bool {
		return moments[i].Timestamp < moments[j].Timestamp
	})

	top = e.rank(moments)

	e.log.Debug().
		Int("moments", len(moments)).
		Int("highlights", len(top)).
		Msg("key moments extracted")
	return moments, top
}

func (e *MomentExtractor) killMoments(p *domain.ParticipantRecord) []domain.KeyMoment {
	var out []domain.KeyMoment
	for i, k := range p.KillLog {
		m := domain.KeyMoment{
			Timestamp:   k.Time,
			Type:        domain.MomentKill,
			Title:       fmt.Sprintf("Killed %s", k.VictimHero),
			Description: fmt.Sprintf("Took down %s at %s.", k.VictimHero, formatGameTime(k.Time)),
			Importance:  domain.ImportanceMedium,
			Metadata:    &domain.MomentMetadata{VictimHero: k.VictimHero},
		}
		if i == 0 && k.Time < e.cfg.FirstBloodWindow {
			m.Title = titleFirstBlood
			m.Description = fmt.Sprintf("Drew first blood on %s at %s.", k.VictimHero, formatGameTime(k.Time))
			m.Importance = domain.ImportanceHigh
		}
		out = append(out, m)
	}
	return out
}

func (e *MomentExtractor) deathMoments(p *domain.ParticipantRecord) []domain.KeyMoment {
	var out []domain.KeyMoment
	for i, t := range p.DeathTimes {
		imp := domain.ImportanceMedium
		if i < 3 {
			imp = domain.ImportanceHigh
		}
		out = append(out, domain.KeyMoment{
			Timestamp:   t,
			Type:        domain.MomentDeath,
			Title:       fmt.Sprintf("Death #%d", i+1),
			Description: fmt.Sprintf("You died at %s.", formatGameTime(t)),
			Importance:  imp,
		})
	}
	return out
}

// objectiveMoments keeps objectives taken by the player's team, plus every
// Roshan kill regardless of team.
func (e *MomentExtractor) objectiveMoments(p *domain.ParticipantRecord) []domain.KeyMoment {
	var out []domain.KeyMoment
	for _, o := range p.Objectives {
		roshan := o.Type == objectiveRoshan
		if o.IsRadiant != p.IsRadiant && !roshan {
			continue
		}
		m := domain.KeyMoment{
			Timestamp:   o.Time,
			Type:        domain.MomentObjective,
			Title:       objectiveTitle(o),
			Description: fmt.Sprintf("%s at %s.", objectiveTitle(o), formatGameTime(o.Time)),
			Importance:  domain.ImportanceMedium,
		}
		if roshan {
			m.Importance = domain.ImportanceHigh
		}
		out = append(out, m)
	}
	return out
}

func objectiveTitle(o domain.ObjectiveEvent) string {
	switch o.Type {
	case objectiveRoshan:
		return "Roshan slain"
	case "building_kill":
		return "Tower destroyed"
	case "barracks_kill":
		return "Barracks destroyed"
	default:
		return "Objective taken"
	}
}

func (e *MomentExtractor) purchaseMoments(p *domain.ParticipantRecord) []domain.KeyMoment {
	var out []domain.KeyMoment
	for _, pur := range p.PurchaseLog {
		if !majorPurchaseItems[pur.ItemKey] {
			continue
		}
		name := displayName(pur.ItemKey)
		out = append(out, domain.KeyMoment{
			Timestamp:   pur.Time,
			Type:        domain.MomentItemPurchase,
			Title:       fmt.Sprintf("Bought %s", name),
			Description: fmt.Sprintf("Completed %s at %s.", name, formatGameTime(pur.Time)),
			Importance:  domain.ImportanceMedium,
			Metadata:    &domain.MomentMetadata{ItemName: name},
		})
	}
	return out
}

// multiKills scans sorted kill timestamps for runs whose consecutive gaps
// all stay within MultiKillGap, emitting one moment per streak.
func (e *MomentExtractor) multiKills(p *domain.ParticipantRecord) []domain.KeyMoment {
	if len(p.KillLog) < 2 {
		return nil
	}
	times := make([]int, len(p.KillLog))
	for i, k := range p.KillLog {
		times[i] = k.Time
	}
	sort.Ints(times)

	var out []domain.KeyMoment
	i := 0
	for i < len(times) {
		j := i + 1
		for j < len(times) && times[j]-times[j-1] <= e.cfg.MultiKillGap {
			j++
		}
		if streak := j - i; streak >= 2 {
			out = append(out, domain.KeyMoment{
				Timestamp:   times[i],
				Type:        domain.MomentMultiKill,
				Title:       multiKillLabel(streak),
				Description: fmt.Sprintf("%s starting at %s.", multiKillLabel(streak), formatGameTime(times[i])),
				Importance:  domain.ImportanceHigh,
				Metadata:    &domain.MomentMetadata{StreakLength: streak},
			})
		}
		i = j
	}
	return out
}

func multiKillLabel(streak int) string {
	switch {
	case streak == 2:
		return "Double Kill"
	case streak == 3:
		return "Triple Kill"
	case streak == 4:
		return "Ultra Kill"
	default:
		return "Rampage"
	}
}

// comebacks compares the player-team-relative gold advantage at each minute
// against the lookback point; a deep deficit that swings hard emits a
// comeback moment at that minute.
func (e *MomentExtractor) comebacks(match *domain.MatchRecord, p *domain.ParticipantRecord) []domain.KeyMoment {
	adv := match.RadiantGoldAdv
	if len(adv) == 0 {
		return nil
	}
	sign := 1
	if !p.IsRadiant {
		sign = -1
	}
	var out []domain.KeyMoment
	for i := e.cfg.ComebackLookbackMin; i < len(adv); i++ {
		prev := sign * adv[i-e.cfg.ComebackLookbackMin]
		cur := sign * adv[i]
		if prev < e.cfg.ComebackDeficit && cur-prev > e.cfg.ComebackSwing {
			out = append(out, domain.KeyMoment{
				Timestamp: i * 60,
				Type:      domain.MomentComeback,
				Title:     "Comeback swing",
				Description: fmt.Sprintf("Your team recovered %d gold over the last %d minutes.",
					cur-prev, e.cfg.ComebackLookbackMin),
				Importance: domain.ImportanceHigh,
				Metadata:   &domain.MomentMetadata{GoldSwing: cur - prev},
			})
		}
	}
	return out
}

// teamFights merges the player's kill and death timestamps and flags dense
// runs as fights, scanning non-overlapping windows.
func (e *MomentExtractor) teamFights(p *domain.ParticipantRecord) []domain.KeyMoment {
	events := make([]int, 0, len(p.KillLog)+len(p.DeathTimes))
	for _, k := range p.KillLog {
		events = append(events, k.Time)
	}
	events = append(events, p.DeathTimes...)
	if len(events) < e.cfg.FightMinEvents {
		return nil
	}
	sort.Ints(events)

	var out []domain.KeyMoment
	i := 0
	for i < len(events) {
		j := i + 1
		for j < len(events) && events[j]-events[i] <= e.cfg.FightWindow {
			j++
		}
		if count := j - i; count >= e.cfg.FightMinEvents {
			imp := domain.ImportanceMedium
			if count >= e.cfg.FightBigEvents {
				imp = domain.ImportanceHigh
			}
			out = append(out, domain.KeyMoment{
				Timestamp: events[i],
				Type:      domain.MomentTeamFight,
				Title:     "Team fight",
				Description: fmt.Sprintf("A %d-event brawl broke out at %s.",
					count, formatGameTime(events[i])),
				Importance: imp,
			})
			i = j
			continue
		}
		i++
	}
	return out
}

// score implements the ranking formula: importance base plus type bonus.
func (e *MomentExtractor) score(m domain.KeyMoment) int {
	s := e.cfg.ImportanceBase[m.Importance]
	s += e.cfg.TypeBonus[m.Type]
	if m.Type == domain.MomentObjective && m.Title == "Roshan slain" {
		s += e.cfg.RoshanBonus
	}
	if m.Type == domain.MomentKill && m.Title == titleFirstBlood {
		s += e.cfg.FirstBloodBonus
	}
	return s
}

// rank picks the TopN moments by score (ties break toward the earlier
// timestamp via the pre-sorted input and stable sort), then restores
// chronological order for display.
func (e *MomentExtractor) rank(chronological []domain.KeyMoment) []domain.KeyMoment {
	ranked := append([]domain.KeyMoment(nil), chronological...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return e.score(ranked[i]) > e.score(ranked[j])
	})
	if len(ranked) > e.cfg.TopN {
		ranked = ranked[:e.cfg.TopN]
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Timestamp < ranked[j].Timestamp
	})
	return ranked
}
