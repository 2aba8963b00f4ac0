package domain

import (
	"time"
)

type InsightType string

const (
	InsightMistake           InsightType = "mistake"
	InsightMissedOpportunity InsightType = "missed_opportunity"
	InsightGoodPlay          InsightType = "good_play"
)

type InsightCategory string

const (
	CategoryPositioning    InsightCategory = "positioning"
	CategoryItemization    InsightCategory = "itemization"
	CategoryFarmEfficiency InsightCategory = "farm_efficiency"
	CategoryVision         InsightCategory = "vision"
	CategoryTeamfight      InsightCategory = "teamfight"
	CategoryDecisionMaking InsightCategory = "decision_making"
)

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

type Role string

const (
	RoleCore    Role = "core"
	RoleSupport Role = "support"
)

type MomentType string

const (
	MomentKill         MomentType = "kill"
	MomentDeath        MomentType = "death"
	MomentMultiKill    MomentType = "multikill"
	MomentObjective    MomentType = "objective"
	MomentItemPurchase MomentType = "item_purchase"
	MomentComeback     MomentType = "comeback"
	MomentTeamFight    MomentType = "team_fight"
)

type Importance string

const (
	ImportanceHigh   Importance = "high"
	ImportanceMedium Importance = "medium"
	ImportanceLow    Importance = "low"
)

// Insight is one coaching observation produced by a detector. Value object,
// never mutated after creation.
type Insight struct {
	Type           InsightType     `json:"type"`
	Category       InsightCategory `json:"category"`
	Severity       Severity        `json:"severity"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Recommendation string          `json:"recommendation"`
	// GameTime anchors the insight in match seconds; nil for whole-match
	// observations.
	GameTime *int `json:"game_time,omitempty"`
}

// MomentMetadata carries type-specific detail for a KeyMoment.
type MomentMetadata struct {
	VictimHero   string `json:"victim_hero,omitempty"`
	ItemName     string `json:"item_name,omitempty"`
	GoldSwing    int    `json:"gold_swing,omitempty"`
	StreakLength int    `json:"streak_length,omitempty"`
}

// KeyMoment is one timestamped event selected for replay navigation.
// Timestamp is match seconds, always within [0, match duration].
type KeyMoment struct {
	Timestamp   int             `json:"timestamp"`
	Type        MomentType      `json:"type"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Importance  Importance      `json:"importance"`
	Metadata    *MomentMetadata `json:"metadata,omitempty"`
}

// KillEvent is one kill by the tracked participant.
type KillEvent struct {
	Time       int    `json:"time"`
	VictimHero string `json:"victim_hero"`
}

// PurchaseEvent is one item purchase from the participant's purchase log.
type PurchaseEvent struct {
	Time    int    `json:"time"`
	ItemKey string `json:"item_key"`
}

// TeamFightPlayer is one participant's slice of a team-fight snapshot,
// aligned with the match's participant order.
type TeamFightPlayer struct {
	Deaths    int `json:"deaths"`
	Damage    int `json:"damage"`
	GoldDelta int `json:"gold_delta"`
	XPDelta   int `json:"xp_delta"`
}

// TeamFightRecord is one team-fight snapshot.
type TeamFightRecord struct {
	Start   int               `json:"start"`
	End     int               `json:"end"`
	Players []TeamFightPlayer `json:"players"`
}

// ObjectiveEvent is one entry of the team-objective log.
type ObjectiveEvent struct {
	Time      int    `json:"time"`
	IsRadiant bool   `json:"is_radiant"`
	Type      string `json:"type"`
}

// ParticipantRecord holds one player's final stats plus the optional
// timeline and event logs the provider was able to deliver. Absent optional
// fields mean "no data for checks needing them", never zero.
type ParticipantRecord struct {
	AccountID     int64  `json:"account_id"`
	PlayerSlot    int    `json:"player_slot"`
	HeroID        int    `json:"hero_id"`
	HeroName      string `json:"hero_name"`
	IsRadiant     bool   `json:"is_radiant"`
	Kills         int    `json:"kills"`
	Deaths        int    `json:"deaths"`
	Assists       int    `json:"assists"`
	LastHits      int    `json:"last_hits"`
	Denies        int    `json:"denies"`
	GoldPerMin    int    `json:"gold_per_min"`
	XPPerMin      int    `json:"xp_per_min"`
	NetWorth      int    `json:"net_worth"`
	HeroDamage    int    `json:"hero_damage"`
	TowerDamage   int    `json:"tower_damage"`
	HeroHealing   int    `json:"hero_healing"`
	Level         int    `json:"level"`
	ObserverWards int    `json:"observer_wards"`
	SentryWards   int    `json:"sentry_wards"`
	CampsStacked  int    `json:"camps_stacked"`
	ItemIDs       []int  `json:"item_ids"`

	// Optional per-minute cumulative arrays, index 0 = minute 0.
	LastHitsPerMin []int `json:"last_hits_per_min,omitempty"`
	GoldPerMinArr  []int `json:"gold_t,omitempty"`
	XPPerMinArr    []int `json:"xp_t,omitempty"`

	// Optional event logs. DeathTimes is derived from the provider's
	// life-state-by-minute track, in match seconds ascending.
	KillLog     []KillEvent       `json:"kill_log,omitempty"`
	DeathTimes  []int             `json:"death_times,omitempty"`
	PurchaseLog []PurchaseEvent   `json:"purchase_log,omitempty"`
	TeamFights  []TeamFightRecord `json:"team_fights,omitempty"`
	Objectives  []ObjectiveEvent  `json:"objectives,omitempty"`
}

// MatchRecord is the immutable per-match input to the analysis pipeline.
type MatchRecord struct {
	MatchID    int64     `json:"match_id"`
	StartTime  time.Time `json:"start_time"`
	Duration   int       `json:"duration"` // seconds
	RadiantWin bool      `json:"radiant_win"`

	// RadiantGoldAdv is the per-minute radiant gold advantage; optional.
	RadiantGoldAdv []int `json:"radiant_gold_adv,omitempty"`

	Participants []ParticipantRecord `json:"participants"`
}

// DurationMinutes returns the match length in fractional minutes, never
// less than one so per-minute rates stay defined for aborted records.
func (m *MatchRecord) DurationMinutes() float64 {
	min := float64(m.Duration) / 60
	if min < 1 {
		return 1
	}
	return min
}

// ParticipantByAccount finds the tracked participant, or nil.
func (m *MatchRecord) ParticipantByAccount(accountID int64) *ParticipantRecord {
	for i := range m.Participants {
		if m.Participants[i].AccountID == accountID {
			return &m.Participants[i]
		}
	}
	return nil
}

// Won reports whether the given participant's team won the match.
func (m *MatchRecord) Won(p *ParticipantRecord) bool {
	return p.IsRadiant == m.RadiantWin
}

// BenchmarkSample is one match's contribution to a hero benchmark.
type BenchmarkSample struct {
	GoldPerMin    float64 `json:"gold_per_min"`
	XPPerMin      float64 `json:"xp_per_min"`
	CSPerMin      float64 `json:"cs_per_min"`
	LastHits      float64 `json:"last_hits"`
	Denies        float64 `json:"denies"`
	Kills         float64 `json:"kills"`
	Deaths        float64 `json:"deaths"`
	Assists       float64 `json:"assists"`
	HeroDamage    float64 `json:"hero_damage"`
	TowerDamage   float64 `json:"tower_damage"`
	Healing       float64 `json:"healing"`
	ObserverWards float64 `json:"observer_wards"`
	SentryWards   float64 `json:"sentry_wards"`
	CampsStacked  float64 `json:"camps_stacked"`
}

// HeroBenchmark holds running means over every analyzed match of one hero.
// Matches is monotonically non-decreasing; there is no retraction path.
type HeroBenchmark struct {
	HeroID  int `json:"hero_id"`
	Matches int `json:"matches"`

	AvgGoldPerMin    float64 `json:"avg_gold_per_min"`
	AvgXPPerMin      float64 `json:"avg_xp_per_min"`
	AvgCSPerMin      float64 `json:"avg_cs_per_min"`
	AvgLastHits      float64 `json:"avg_last_hits"`
	AvgDenies        float64 `json:"avg_denies"`
	AvgKills         float64 `json:"avg_kills"`
	AvgDeaths        float64 `json:"avg_deaths"`
	AvgAssists       float64 `json:"avg_assists"`
	AvgHeroDamage    float64 `json:"avg_hero_damage"`
	AvgTowerDamage   float64 `json:"avg_tower_damage"`
	AvgHealing       float64 `json:"avg_healing"`
	AvgObserverWards float64 `json:"avg_observer_wards"`
	AvgSentryWards   float64 `json:"avg_sentry_wards"`
	AvgCampsStacked  float64 `json:"avg_camps_stacked"`

	// Optional percentile thresholds; backfilled offline, not maintained
	// incrementally.
	P50GoldPerMin *float64 `json:"p50_gold_per_min,omitempty"`
	P75GoldPerMin *float64 `json:"p75_gold_per_min,omitempty"`
	P50XPPerMin   *float64 `json:"p50_xp_per_min,omitempty"`
	P75XPPerMin   *float64 `json:"p75_xp_per_min,omitempty"`
	P50CSPerMin   *float64 `json:"p50_cs_per_min,omitempty"`
	P75CSPerMin   *float64 `json:"p75_cs_per_min,omitempty"`
}

// HistoryMatch is one row of a user's time-ordered match history.
type HistoryMatch struct {
	MatchID    int64     `json:"match_id"`
	HeroID     int       `json:"hero_id"`
	Won        bool      `json:"won"`
	Kills      int       `json:"kills"`
	Deaths     int       `json:"deaths"`
	Assists    int       `json:"assists"`
	GoldPerMin int       `json:"gold_per_min"`
	StartTime  time.Time `json:"start_time"`
	Duration   int       `json:"duration"` // seconds
}

// EndTime is when the match finished.
func (h HistoryMatch) EndTime() time.Time {
	return h.StartTime.Add(time.Duration(h.Duration) * time.Second)
}

// KDA is the per-match (kills+assists)/deaths ratio; a deathless match
// counts kills+assists.
func (h HistoryMatch) KDA() float64 {
	ka := float64(h.Kills + h.Assists)
	if h.Deaths == 0 {
		return ka
	}
	return ka / float64(h.Deaths)
}

type SessionTrend string

const (
	TrendImproving SessionTrend = "improving"
	TrendDeclining SessionTrend = "declining"
	TrendStable    SessionTrend = "stable"
)

// PlaySession is one contiguous run of matches with inter-match gaps under
// the session threshold. Derived fresh from the history on every query.
type PlaySession struct {
	StartedAt         time.Time      `json:"started_at"`
	EndedAt           time.Time      `json:"ended_at"`
	Matches           []HistoryMatch `json:"matches"`
	Wins              int            `json:"wins"`
	WinRate           float64        `json:"win_rate"`
	AvgKDA            float64        `json:"avg_kda"`
	AvgGoldPerMin     float64        `json:"avg_gold_per_min"`
	LongestLossStreak int            `json:"longest_loss_streak"`
	Trend             SessionTrend   `json:"trend"`
}

type TiltRisk string

const (
	TiltLow    TiltRisk = "low"
	TiltMedium TiltRisk = "medium"
	TiltHigh   TiltRisk = "high"
)

type WarningSeverity string

const (
	WarnInfo    WarningSeverity = "info"
	WarnWarning WarningSeverity = "warning"
	WarnDanger  WarningSeverity = "danger"
)

// TiltWarning is one active tilt-risk signal.
type TiltWarning struct {
	Type     string          `json:"type"`
	Severity WarningSeverity `json:"severity"`
	Message  string          `json:"message"`
}

// TiltReport classifies a user's current tilt risk from recent results.
// The three rate patterns default to 0.5 when their sample counts fall
// below the stated minimums; the paired count fields say how much data
// backed each rate.
type TiltReport struct {
	RecentLosingStreak int           `json:"recent_losing_streak"`
	LastMatchWon       bool          `json:"last_match_won"`
	Risk               TiltRisk      `json:"risk"`
	Warnings           []TiltWarning `json:"warnings"`

	WinRateAfterLoss   float64 `json:"win_rate_after_loss"`
	LossesWithFollowUp int     `json:"losses_with_follow_up"`

	LateNightWinRate float64 `json:"late_night_win_rate"`
	LateNightMatches int     `json:"late_night_matches"`

	LongSessionWinRate float64 `json:"long_session_win_rate"`
	LongSessionMatches int     `json:"long_session_matches"`
}

// BucketStats is a win-rate aggregate for one time-of-day or weekday bucket.
type BucketStats struct {
	Bucket  string  `json:"bucket"`
	Matches int     `json:"matches"`
	Wins    int     `json:"wins"`
	WinRate float64 `json:"win_rate"`
}

// NotEnoughData marks a "best bucket" answer that lacks the minimum sample.
const NotEnoughData = "not enough data"

// TimePatternReport aggregates win rates by local hour bucket and weekday.
type TimePatternReport struct {
	TimeOfDay     []BucketStats `json:"time_of_day"`
	DayOfWeek     []BucketStats `json:"day_of_week"`
	BestTimeOfDay string        `json:"best_time_of_day"`
	BestDayOfWeek string        `json:"best_day_of_week"`
}

// ItemBuildReport is the item-build analyzer's output. Score is clamped to
// [0,100].
type ItemBuildReport struct {
	Score     int       `json:"score"`
	Insights  []Insight `json:"insights"`
	Positives []string  `json:"positives"`
	KeyIssues []string  `json:"key_issues"`
}

// AnalysisSummary is the severity-bucketed rollup of a match's insights.
type AnalysisSummary struct {
	Mistakes            int              `json:"mistakes"`
	MissedOpportunities int              `json:"missed_opportunities"`
	GoodPlays           int              `json:"good_plays"`
	BySeverity          map[Severity]int `json:"by_severity"`
	TopSeverity         Severity         `json:"top_severity"`
}

// MatchAnalysis is the orchestrator's merged result for one (match,
// participant) pair.
type MatchAnalysis struct {
	MatchID   int64     `json:"match_id"`
	AccountID int64     `json:"account_id"`
	HeroID    int       `json:"hero_id"`
	HeroName  string    `json:"hero_name"`
	Won       bool      `json:"won"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`

	Insights   []Insight       `json:"insights"`
	KeyMoments []KeyMoment     `json:"key_moments"`
	Highlights []KeyMoment     `json:"highlights"`
	ItemBuild  ItemBuildReport `json:"item_build"`
	Summary    AnalysisSummary `json:"summary"`

	// InsightSource records whether Insights came from the coaching-text
	// generator or the rule-based detector.
	InsightSource string `json:"insight_source"`

	// SkippedComponents lists detectors that produced nothing because a
	// failure sidelined them.
	SkippedComponents []string `json:"skipped_components,omitempty"`
}
