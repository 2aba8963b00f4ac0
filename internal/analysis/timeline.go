package analysis

import (
	"fmt"
	"sort"

	"dota-coach/internal/domain"

	"github.com/rs/zerolog"
)

// TimelineConfig holds the windowed-scan thresholds.
type TimelineConfig struct {
	// Death clusters: ClusterSize consecutive deaths within ClusterWindow
	// seconds form one cluster; ClusterCriticalSize or more upgrades the
	// severity.
	ClusterSize         int
	ClusterWindow       int
	ClusterCriticalSize int

	// Farm droughts: from DroughtStartMin on, DroughtRunLen consecutive
	// minutes each below DroughtMinDelta last hits.
	DroughtStartMin int
	DroughtRunLen   int
	DroughtMinDelta int

	// Team-fight quality cutoffs.
	FightBadMaxDamage  int
	FightGoodMinDamage int
	FightGoodMinGold   int
}

func DefaultTimelineConfig() TimelineConfig {
	return TimelineConfig{
		ClusterSize:         3,
		ClusterWindow:       300,
		ClusterCriticalSize: 4,
		DroughtStartMin:     10,
		DroughtRunLen:       3,
		DroughtMinDelta:     2,
		FightBadMaxDamage:   500,
		FightGoodMinDamage:  2000,
		FightGoodMinGold:    500,
	}
}

// TimelineDetector scans the per-minute and per-event timelines for temporal
// patterns. The three scans are independent; missing inputs skip only the
// scan that needs them.
type TimelineDetector struct {
	cfg TimelineConfig
	log zerolog.Logger
}

func NewTimelineDetector(cfg TimelineConfig, log zerolog.Logger) *TimelineDetector {
	return &TimelineDetector{cfg: cfg, log: log.With().Str("detector", "timeline").Logger()}
}

// Detect concatenates the death-cluster, farm-drought, and team-fight scans
// for the participant at the given slot index.
func (d *TimelineDetector) Detect(p *domain.ParticipantRecord, slot int) []domain.Insight {
	var insights []domain.Insight
	insights = append(insights, d.deathClusters(p.DeathTimes)...)
	insights = append(insights, d.farmDroughts(p.LastHitsPerMin)...)
	insights = append(insights, d.fightQuality(p.TeamFights, slot)...)

	d.log.Debug().
		Int("deaths", len(p.DeathTimes)).
		Int("fights", len(p.TeamFights)).
		Int("insights", len(insights)).
		Msg("timeline scans complete")
	return insights
}

// deathClusters slides over the sorted death timestamps and emits one
// insight per non-overlapping cluster.
func (d *TimelineDetector) deathClusters(deaths []int) []domain.Insight {
	if len(deaths) < d.cfg.ClusterSize {
		return nil
	}
	sorted := append([]int(nil), deaths...)
	sort.Ints(sorted)

	var insights []domain.Insight
	i := 0
	for i+d.cfg.ClusterSize-1 < len(sorted) {
		if sorted[i+d.cfg.ClusterSize-1]-sorted[i] > d.cfg.ClusterWindow {
			i++
			continue
		}
		// Extend the cluster as far as the window allows.
		j := i + d.cfg.ClusterSize
		for j < len(sorted) && sorted[j]-sorted[i] <= d.cfg.ClusterWindow {
			j++
		}
		size := j - i
		sev := domain.SeverityHigh
		if size >= d.cfg.ClusterCriticalSize {
			sev = domain.SeverityCritical
		}
		at := sorted[i]
		insights = append(insights, domain.Insight{
			Type:     domain.InsightMistake,
			Category: domain.CategoryPositioning,
			Severity: sev,
			Title:    "Chain of deaths",
			Description: fmt.Sprintf("You died %d times within %d minutes starting at %s.",
				size, d.cfg.ClusterWindow/60, formatGameTime(at)),
			Recommendation: "After a death, reset expectations: farm safe areas until your timers and item deficit recover.",
			GameTime:       intPtr(at),
		})
		i = j
	}
	return insights
}

// farmDroughts walks the per-minute CS deltas from the cumulative array and
// flags runs of dead minutes, skipping past each reported window.
func (d *TimelineDetector) farmDroughts(cumulative []int) []domain.Insight {
	if len(cumulative) == 0 {
		return nil
	}
	var insights []domain.Insight
	m := d.cfg.DroughtStartMin
	for m+d.cfg.DroughtRunLen-1 < len(cumulative) {
		dry := true
		for k := 0; k < d.cfg.DroughtRunLen; k++ {
			idx := m + k
			delta := cumulative[idx]
			if idx > 0 {
				delta = cumulative[idx] - cumulative[idx-1]
			}
			if delta >= d.cfg.DroughtMinDelta {
				dry = false
				break
			}
		}
		if !dry {
			m++
			continue
		}
		at := m * 60
		insights = append(insights, domain.Insight{
			Type:     domain.InsightMissedOpportunity,
			Category: domain.CategoryFarmEfficiency,
			Severity: domain.SeverityMedium,
			Title:    "Farm drought",
			Description: fmt.Sprintf("Starting at minute %d you went %d minutes with almost no last hits.",
				m, d.cfg.DroughtRunLen),
			Recommendation: "When the map is quiet, always be walking toward the next wave or camp.",
			GameTime:       intPtr(at),
		})
		m += d.cfg.DroughtRunLen
	}
	return insights
}

// fightQuality reports at most one negative and one positive fight per
// match, taken from the first qualifying snapshot of each polarity.
func (d *TimelineDetector) fightQuality(fights []domain.TeamFightRecord, slot int) []domain.Insight {
	var insights []domain.Insight
	var badDone, goodDone bool
	for _, f := range fights {
		if slot < 0 || slot >= len(f.Players) {
			continue
		}
		me := f.Players[slot]
		if !badDone && me.Deaths > 0 && me.Damage < d.cfg.FightBadMaxDamage {
			insights = append(insights, domain.Insight{
				Type:     domain.InsightMistake,
				Category: domain.CategoryTeamfight,
				Severity: domain.SeverityMedium,
				Title:    "Died without contributing",
				Description: fmt.Sprintf("In the fight at %s you died after dealing only %d damage.",
					formatGameTime(f.Start), me.Damage),
				Recommendation: "Enter fights after the enemy commits their lockdown, not before.",
				GameTime:       intPtr(f.Start),
			})
			badDone = true
		}
		if !goodDone && me.Deaths == 0 && me.Damage > d.cfg.FightGoodMinDamage && me.GoldDelta > d.cfg.FightGoodMinGold {
			insights = append(insights, domain.Insight{
				Type:     domain.InsightGoodPlay,
				Category: domain.CategoryTeamfight,
				Severity: domain.SeverityLow,
				Title:    "Clean team fight",
				Description: fmt.Sprintf("At %s you dealt %d damage and came out %d gold ahead without dying.",
					formatGameTime(f.Start), me.Damage, me.GoldDelta),
				Recommendation: "That positioning is the template: damage dealt, nothing given back.",
				GameTime:       intPtr(f.Start),
			})
			goodDone = true
		}
		if badDone && goodDone {
			break
		}
	}
	return insights
}

func formatGameTime(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func intPtr(v int) *int { return &v }
