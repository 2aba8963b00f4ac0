package analysis

import (
	"fmt"

	"dota-coach/internal/domain"

	"github.com/rs/zerolog"
)

// ItemBuildConfig holds the score weights and timing thresholds for the
// build evaluation.
type ItemBuildConfig struct {
	BaseScore int

	// Core checks.
	SpellImmunityMinute  float64
	SpellImmunityPenalty int
	MobilityPenalty      int
	MobilityBonus        int
	EarlyItemMinute      float64
	EarlyItemPenalty     int
	SlotEfficiencyBonus  int
	DamageNetWorthFloor  int
	NoDamagePenalty      int
	TwoDamageBonus       int
	FarmingGPMFloor      int
	FarmingItemBonus     int

	// Support checks.
	NoUtilityPenalty int
	UtilityBonus     int

	// Role-independent defensive check.
	DefensiveDeathFloor int
	NoDefensivePenalty  int
}

func DefaultItemBuildConfig() ItemBuildConfig {
	return ItemBuildConfig{
		BaseScore:            70,
		SpellImmunityMinute:  25,
		SpellImmunityPenalty: 15,
		MobilityPenalty:      8,
		MobilityBonus:        3,
		EarlyItemMinute:      35,
		EarlyItemPenalty:     5,
		SlotEfficiencyBonus:  5,
		DamageNetWorthFloor:  15000,
		NoDamagePenalty:      12,
		TwoDamageBonus:       8,
		FarmingGPMFloor:      550,
		FarmingItemBonus:     5,
		NoUtilityPenalty:     10,
		UtilityBonus:         4,
		DefensiveDeathFloor:  8,
		NoDefensivePenalty:   15,
	}
}

// ItemBuildAnalyzer scores the participant's final item set against
// role-appropriate archetypes.
type ItemBuildAnalyzer struct {
	cfg ItemBuildConfig
	log zerolog.Logger
}

func NewItemBuildAnalyzer(cfg ItemBuildConfig, log zerolog.Logger) *ItemBuildAnalyzer {
	return &ItemBuildAnalyzer{cfg: cfg, log: log.With().Str("detector", "itembuild").Logger()}
}

// Analyze evaluates the final item list for the given role and returns the
// bounded score plus build insights, positives, and key issues.
func (a *ItemBuildAnalyzer) Analyze(role domain.Role, p *domain.ParticipantRecord, durationMin float64) domain.ItemBuildReport {
	held := heldKeys(p.ItemIDs)
	score := a.cfg.BaseScore

	var (
		insights  []domain.Insight
		positives []string
		issues    []string
	)

	switch role {
	case domain.RoleCore:
		if durationMin > a.cfg.SpellImmunityMinute && !holdsAny(held, spellImmunityItems) {
			score -= a.cfg.SpellImmunityPenalty
			issues = append(issues, "No spell immunity this deep into the game")
			insights = append(insights, domain.Insight{
				Type:           domain.InsightMistake,
				Category:       domain.CategoryItemization,
				Severity:       domain.SeverityCritical,
				Title:          "Missing Black King Bar",
				Description:    fmt.Sprintf("Past minute %.0f a core without spell immunity gets chain-stunned out of every fight.", a.cfg.SpellImmunityMinute),
				Recommendation: "Pick up Black King Bar before the next big fight window.",
			})
		}

		if holdsAny(held, mobilityItems) {
			score += a.cfg.MobilityBonus
			positives = append(positives, "Mobility item lets you pick and escape fights")
		} else {
			score -= a.cfg.MobilityPenalty
			insights = append(insights, domain.Insight{
				Type:           domain.InsightMissedOpportunity,
				Category:       domain.CategoryItemization,
				Severity:       domain.SeverityMedium,
				Title:          "No mobility item",
				Description:    "Without Blink Dagger or a similar item you rely on walking into position.",
				Recommendation: "A mobility item multiplies the value of every other item you own.",
			})
		}

		if durationMin > a.cfg.EarlyItemMinute {
			if holdsAny(held, earlyStatItems) {
				score -= a.cfg.EarlyItemPenalty
				issues = append(issues, "Early-game stat items still occupying slots late")
			} else if !held["boots"] {
				score += a.cfg.SlotEfficiencyBonus
				positives = append(positives, "Slots upgraded as the game went long")
			}
		}

		damageCount := countIn(held, majorDamageItems)
		if damageCount == 0 && p.NetWorth > a.cfg.DamageNetWorthFloor {
			score -= a.cfg.NoDamagePenalty
			issues = append(issues, "High net worth with no major damage item")
			insights = append(insights, domain.Insight{
				Type:           domain.InsightMistake,
				Category:       domain.CategoryItemization,
				Severity:       domain.SeverityCritical,
				Title:          "Net worth without damage",
				Description:    fmt.Sprintf("%d net worth bought you no major damage item.", p.NetWorth),
				Recommendation: "Convert gold leads into items that close games.",
			})
		} else if damageCount >= 2 {
			score += a.cfg.TwoDamageBonus
			positives = append(positives, "Multiple damage items to close out the game")
		}

		if p.GoldPerMin > a.cfg.FarmingGPMFloor && holdsAny(held, farmingItems) {
			score += a.cfg.FarmingItemBonus
			positives = append(positives, "Farming item paired with a strong gold curve")
		}

	case domain.RoleSupport:
		if holdsAny(held, supportUtilityItems) {
			score += a.cfg.UtilityBonus
			positives = append(positives, "Utility items supporting your team")
		} else {
			score -= a.cfg.NoUtilityPenalty
			issues = append(issues, "No utility items to help allies")
			insights = append(insights, domain.Insight{
				Type:           domain.InsightMistake,
				Category:       domain.CategoryItemization,
				Severity:       domain.SeverityCritical,
				Title:          "No utility items",
				Description:    "A support with zero save or aura items leaves cores fighting unassisted.",
				Recommendation: "Glimmer Cape or Force Staff should be your first big purchase most games.",
			})
		}

		if holdsAny(held, carryArchetypeItems) {
			insights = append(insights, domain.Insight{
				Type:           domain.InsightMistake,
				Category:       domain.CategoryDecisionMaking,
				Severity:       domain.SeverityMedium,
				Title:          "Carry item on a support",
				Description:    "That gold would save more games as utility for your team.",
				Recommendation: "Leave the damage farm to your cores and buy items your team lacks.",
			})
		}

		if holdsAny(held, visionItems) {
			positives = append(positives, "Carrying vision for your team")
		}
	}

	if p.Deaths > a.cfg.DefensiveDeathFloor && !holdsAny(held, defensiveItems) {
		score -= a.cfg.NoDefensivePenalty
		issues = append(issues, "Repeated deaths without any defensive itemization")
		insights = append(insights, domain.Insight{
			Type:           domain.InsightMistake,
			Category:       domain.CategoryItemization,
			Severity:       domain.SeverityCritical,
			Title:          "No answer to your deaths",
			Description:    fmt.Sprintf("You died %d times without buying a single defensive item.", p.Deaths),
			Recommendation: "When you keep dying, the next item should stop the deaths, not add damage.",
		})
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	a.log.Debug().
		Str("role", string(role)).
		Int("score", score).
		Int("insights", len(insights)).
		Msg("item build analyzed")

	return domain.ItemBuildReport{
		Score:     score,
		Insights:  insights,
		Positives: positives,
		KeyIssues: issues,
	}
}
