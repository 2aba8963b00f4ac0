package analysis

import (
	"fmt"

	"dota-coach/internal/domain"

	"github.com/rs/zerolog"
)

// PerformanceConfig holds every threshold the final-stat rules compare
// against, so tuning never touches detection logic.
type PerformanceConfig struct {
	Role RoleConfig

	// Benchmark ratios and their fallbacks when no hero benchmark exists.
	LowCSBenchmarkRatio  float64 // below ratio * avg CS/min → mistake
	FallbackCSPerMin     float64
	LowGPMBenchmarkRatio float64
	FallbackGoldPerMin   float64
	HighCSBenchmarkRatio float64 // above ratio * avg CS/min → good play
	FallbackHighCSPerMin float64

	HighDeaths     int
	CriticalDeaths int

	LowKDARatio     float64
	LowKDAMinDeaths int

	// Support vision: expected wards are half of floor(durationMin/2).
	WardExpectationRatio float64
	SupportLowGoldPerMin float64

	LowHeroDamage       int
	LowHeroDamageMinMin float64

	GoodKDARatio float64
	GoodKDAKills int
}

func DefaultPerformanceConfig() PerformanceConfig {
	return PerformanceConfig{
		Role:                 DefaultRoleConfig(),
		LowCSBenchmarkRatio:  0.85,
		FallbackCSPerMin:     7,
		LowGPMBenchmarkRatio: 0.8,
		FallbackGoldPerMin:   500,
		HighCSBenchmarkRatio: 1.2,
		FallbackHighCSPerMin: 8,
		HighDeaths:           8,
		CriticalDeaths:       12,
		LowKDARatio:          2,
		LowKDAMinDeaths:      5,
		WardExpectationRatio: 0.5,
		SupportLowGoldPerMin: 250,
		LowHeroDamage:        5000,
		LowHeroDamageMinMin:  25,
		GoodKDARatio:         5,
		GoodKDAKills:         5,
	}
}

// PerformanceDetector evaluates a participant's final stats against
// role-appropriate thresholds and the hero benchmark. Rules are independent;
// several may fire for the same match.
type PerformanceDetector struct {
	cfg PerformanceConfig
	log zerolog.Logger
}

func NewPerformanceDetector(cfg PerformanceConfig, log zerolog.Logger) *PerformanceDetector {
	return &PerformanceDetector{cfg: cfg, log: log.With().Str("detector", "performance").Logger()}
}

// Detect runs every rule and returns the fired insights plus the derived
// role. bench may be nil, in which case the fixed fallbacks apply.
func (d *PerformanceDetector) Detect(p *domain.ParticipantRecord, durationMin float64, bench *domain.HeroBenchmark) ([]domain.Insight, domain.Role) {
	role := ClassifyRole(d.cfg.Role, p, durationMin)
	csPerMin := float64(p.LastHits) / durationMin
	kda := kdaRatio(p.Kills, p.Deaths, p.Assists)

	var insights []domain.Insight
	add := func(in domain.Insight) { insights = append(insights, in) }

	if role == domain.RoleCore {
		csTarget := d.cfg.FallbackCSPerMin
		gpmTarget := d.cfg.FallbackGoldPerMin
		highCSTarget := d.cfg.FallbackHighCSPerMin
		if bench != nil {
			csTarget = bench.AvgCSPerMin
			gpmTarget = bench.AvgGoldPerMin
			highCSTarget = bench.AvgCSPerMin
		}

		if csPerMin < d.cfg.LowCSBenchmarkRatio*csTarget {
			add(domain.Insight{
				Type:     domain.InsightMistake,
				Category: domain.CategoryFarmEfficiency,
				Severity: domain.SeverityHigh,
				Title:    "Low creep score for a core",
				Description: fmt.Sprintf("You averaged %.1f last hits per minute; %s cores on this hero average %.1f.",
					csPerMin, p.HeroName, csTarget),
				Recommendation: "Prioritize lane equilibrium and jungle rotations between fights to keep your farm curve up.",
			})
		}

		if float64(p.GoldPerMin) < d.cfg.LowGPMBenchmarkRatio*gpmTarget {
			add(domain.Insight{
				Type:     domain.InsightMistake,
				Category: domain.CategoryFarmEfficiency,
				Severity: domain.SeverityMedium,
				Title:    "Gold income below benchmark",
				Description: fmt.Sprintf("Your %d GPM trails the %s benchmark of %.0f.",
					p.GoldPerMin, p.HeroName, gpmTarget),
				Recommendation: "Stack camps before fights and pick up lane waves that would otherwise push in.",
			})
		}

		if csPerMin > d.cfg.HighCSBenchmarkRatio*highCSTarget {
			add(domain.Insight{
				Type:     domain.InsightGoodPlay,
				Category: domain.CategoryFarmEfficiency,
				Severity: domain.SeverityLow,
				Title:    "Excellent farming pace",
				Description: fmt.Sprintf("%.1f last hits per minute is well above the hero benchmark.",
					csPerMin),
				Recommendation: "Keep converting that farm lead into timely item spikes.",
			})
		}
	}

	if p.Deaths > d.cfg.HighDeaths {
		sev := domain.SeverityHigh
		if p.Deaths > d.cfg.CriticalDeaths {
			sev = domain.SeverityCritical
		}
		add(domain.Insight{
			Type:     domain.InsightMistake,
			Category: domain.CategoryPositioning,
			Severity: sev,
			Title:    "Dying far too often",
			Description: fmt.Sprintf("%d deaths fed the enemy team gold and experience all game.",
				p.Deaths),
			Recommendation: "Play further back until key fights start and carry detection against gankers.",
		})
	}

	if kda < d.cfg.LowKDARatio && p.Deaths > d.cfg.LowKDAMinDeaths {
		add(domain.Insight{
			Type:     domain.InsightMistake,
			Category: domain.CategoryTeamfight,
			Severity: domain.SeverityMedium,
			Title:    "Unfavorable fight trades",
			Description: fmt.Sprintf("A %.1f KDA with %d deaths means your fights cost more than they returned.",
				kda, p.Deaths),
			Recommendation: "Wait for your team to initiate and commit only when the fight is already favorable.",
		})
	}

	if role == domain.RoleSupport {
		expectedWards := d.cfg.WardExpectationRatio * float64(int(durationMin)/2)
		if float64(p.ObserverWards+p.SentryWards) < expectedWards {
			add(domain.Insight{
				Type:     domain.InsightMistake,
				Category: domain.CategoryVision,
				Severity: domain.SeverityHigh,
				Title:    "Not enough wards placed",
				Description: fmt.Sprintf("%d wards over %.0f minutes left your team playing blind.",
					p.ObserverWards+p.SentryWards, durationMin),
				Recommendation: "Refresh observer wards on cooldown and sweep key spots before objectives.",
			})
		}

		if float64(p.GoldPerMin) < d.cfg.SupportLowGoldPerMin {
			add(domain.Insight{
				Type:     domain.InsightMissedOpportunity,
				Category: domain.CategoryFarmEfficiency,
				Severity: domain.SeverityLow,
				Title:    "Support income could be higher",
				Description: fmt.Sprintf("%d GPM limits how quickly you reach utility items.",
					p.GoldPerMin),
				Recommendation: "Take unclaimed waves and neutral camps when your cores are elsewhere.",
			})
		}
	}

	if p.HeroDamage < d.cfg.LowHeroDamage && durationMin > d.cfg.LowHeroDamageMinMin {
		add(domain.Insight{
			Type:     domain.InsightMistake,
			Category: domain.CategoryTeamfight,
			Severity: domain.SeverityMedium,
			Title:    "Minimal hero damage",
			Description: fmt.Sprintf("%d hero damage over a %.0f-minute game means you were absent from fights.",
				p.HeroDamage, durationMin),
			Recommendation: "Position to land your full spell rotation every team fight.",
		})
	}

	if kda > d.cfg.GoodKDARatio && p.Kills > d.cfg.GoodKDAKills {
		add(domain.Insight{
			Type:     domain.InsightGoodPlay,
			Category: domain.CategoryTeamfight,
			Severity: domain.SeverityLow,
			Title:    "Dominant fight presence",
			Description: fmt.Sprintf("A %.1f KDA with %d kills carried your team's fights.",
				kda, p.Kills),
			Recommendation: "Use leads like this to force objectives while the enemy respawns.",
		})
	}

	d.log.Debug().
		Str("hero", p.HeroName).
		Str("role", string(role)).
		Int("insights", len(insights)).
		Bool("benchmark", bench != nil).
		Msg("performance rules evaluated")

	return insights, role
}
