// Package analysis holds the per-match insight detectors, the key-moment
// extractor, the session/tilt analyzer, and the orchestrator that fans the
// single-match detectors out and merges their output.
package analysis

import (
	"dota-coach/internal/domain"
)

// RoleConfig holds the role-classification thresholds.
type RoleConfig struct {
	// CoreGoldPerMin is the gold/min above which a player counts as a core.
	CoreGoldPerMin float64
	// CoreCSPerMin is the last-hits-per-minute above which a player counts
	// as a core.
	CoreCSPerMin float64
}

func DefaultRoleConfig() RoleConfig {
	return RoleConfig{
		CoreGoldPerMin: 350,
		CoreCSPerMin:   3,
	}
}

// ClassifyRole derives the participant's role from farm rate alone. It is a
// pure function of goldPerMin and lastHits/durationMinutes and is the single
// role source for every component that needs one.
func ClassifyRole(cfg RoleConfig, p *domain.ParticipantRecord, durationMin float64) domain.Role {
	if durationMin <= 0 {
		durationMin = 1
	}
	if float64(p.GoldPerMin) > cfg.CoreGoldPerMin || float64(p.LastHits)/durationMin > cfg.CoreCSPerMin {
		return domain.RoleCore
	}
	return domain.RoleSupport
}

// kdaRatio is the shared (kills+assists)/deaths measure. A deathless game
// returns kills+assists.
func kdaRatio(kills, deaths, assists int) float64 {
	ka := float64(kills + assists)
	if deaths == 0 {
		return ka
	}
	return ka / float64(deaths)
}
