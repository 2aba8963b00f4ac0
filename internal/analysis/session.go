package analysis

import (
	"fmt"
	"time"

	"dota-coach/internal/domain"

	"github.com/rs/zerolog"
)

// SessionConfig holds the session-grouping and tilt thresholds.
type SessionConfig struct {
	// SessionGap is the maximum pause between one match's end and the next
	// match's start inside a single session.
	SessionGap time.Duration

	TrendMinMatches int
	TrendDelta      float64

	RecentWindow      int // matches considered for the losing streak
	StreakWarn        int
	StreakDanger      int
	MinLateNight      int // minimum late-night matches for the rate
	LateNightEndHour  int // matches starting before this local hour count
	LongSessionIndex  int // 1-based position of the first "long session" match
	MinLongSession    int
	LowWinRate        float64
	MinWarningsMedium int

	BucketMinMatches int // minimum sample for a "best bucket" answer
}

func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		SessionGap:        45 * time.Minute,
		TrendMinMatches:   4,
		TrendDelta:        0.15,
		RecentWindow:      20,
		StreakWarn:        3,
		StreakDanger:      5,
		MinLateNight:      3,
		LateNightEndHour:  4,
		LongSessionIndex:  4,
		MinLongSession:    3,
		LowWinRate:        0.40,
		MinWarningsMedium: 2,
		BucketMinMatches:  3,
	}
}

// defaultRate is reported for a rate pattern whose sample is too small.
const defaultRate = 0.5

// SessionAnalyzer groups a user's time-ordered match history into play
// sessions and derives streak, tilt, and time-bucket aggregates. It never
// mutates its input and is safe to run concurrently for different users.
type SessionAnalyzer struct {
	cfg SessionConfig
	log zerolog.Logger
}

func NewSessionAnalyzer(cfg SessionConfig, log zerolog.Logger) *SessionAnalyzer {
	return &SessionAnalyzer{cfg: cfg, log: log.With().Str("analyzer", "session").Logger()}
}

// Sessions partitions the ascending match list into play sessions and
// returns them most-recent-first. Every match lands in exactly one session.
func (a *SessionAnalyzer) Sessions(matches []domain.HistoryMatch) []domain.PlaySession {
	if len(matches) == 0 {
		return nil
	}

	var groups [][]domain.HistoryMatch
	current := []domain.HistoryMatch{matches[0]}
	for _, m := range matches[1:] {
		prev := current[len(current)-1]
		if m.StartTime.Sub(prev.EndTime()) > a.cfg.SessionGap {
			groups = append(groups, current)
			current = []domain.HistoryMatch{m}
			continue
		}
		current = append(current, m)
	}
	groups = append(groups, current)

	sessions := make([]domain.PlaySession, 0, len(groups))
	for i := len(groups) - 1; i >= 0; i-- {
		sessions = append(sessions, a.buildSession(groups[i]))
	}

	a.log.Debug().
		Int("matches", len(matches)).
		Int("sessions", len(sessions)).
		Msg("history grouped into sessions")
	return sessions
}

func (a *SessionAnalyzer) buildSession(matches []domain.HistoryMatch) domain.PlaySession {
	var wins, lossRun, longestLossRun int
	var kdaSum, gpmSum float64
	for _, m := range matches {
		if m.Won {
			wins++
			lossRun = 0
		} else {
			lossRun++
			if lossRun > longestLossRun {
				longestLossRun = lossRun
			}
		}
		kdaSum += m.KDA()
		gpmSum += float64(m.GoldPerMin)
	}

	n := float64(len(matches))
	return domain.PlaySession{
		StartedAt:         matches[0].StartTime,
		EndedAt:           matches[len(matches)-1].EndTime(),
		Matches:           matches,
		Wins:              wins,
		WinRate:           float64(wins) / n,
		AvgKDA:            kdaSum / n,
		AvgGoldPerMin:     gpmSum / n,
		LongestLossStreak: longestLossRun,
		Trend:             a.trend(matches),
	}
}

// trend compares first-half and second-half win rates; short sessions stay
// stable by definition.
func (a *SessionAnalyzer) trend(matches []domain.HistoryMatch) domain.SessionTrend {
	if len(matches) < a.cfg.TrendMinMatches {
		return domain.TrendStable
	}
	half := len(matches) / 2
	first := winRate(matches[:half])
	second := winRate(matches[half:])
	switch {
	case second-first > a.cfg.TrendDelta:
		return domain.TrendImproving
	case first-second > a.cfg.TrendDelta:
		return domain.TrendDeclining
	default:
		return domain.TrendStable
	}
}

// TiltReport derives the current losing streak, the three rate patterns,
// active warnings, and the overall risk classification. matches must be
// ascending by start time.
func (a *SessionAnalyzer) TiltReport(matches []domain.HistoryMatch) domain.TiltReport {
	report := domain.TiltReport{
		WinRateAfterLoss:   defaultRate,
		LateNightWinRate:   defaultRate,
		LongSessionWinRate: defaultRate,
	}
	if len(matches) == 0 {
		report.Risk = domain.TiltLow
		return report
	}

	report.LastMatchWon = matches[len(matches)-1].Won

	// Losing streak over the most recent window.
	recent := matches
	if len(recent) > a.cfg.RecentWindow {
		recent = recent[len(recent)-a.cfg.RecentWindow:]
	}
	for i := len(recent) - 1; i >= 0; i-- {
		if recent[i].Won {
			break
		}
		report.RecentLosingStreak++
	}

	// Win rate in the match immediately following a loss, over full history.
	var afterLossWins, lossesWithNext int
	for i := 0; i < len(matches)-1; i++ {
		if matches[i].Won {
			continue
		}
		lossesWithNext++
		if matches[i+1].Won {
			afterLossWins++
		}
	}
	report.LossesWithFollowUp = lossesWithNext
	if lossesWithNext > 0 {
		report.WinRateAfterLoss = float64(afterLossWins) / float64(lossesWithNext)
	}

	// Late-night win rate.
	var nightMatches, nightWins int
	for _, m := range matches {
		if m.StartTime.Hour() < a.cfg.LateNightEndHour {
			nightMatches++
			if m.Won {
				nightWins++
			}
		}
	}
	report.LateNightMatches = nightMatches
	if nightMatches >= a.cfg.MinLateNight {
		report.LateNightWinRate = float64(nightWins) / float64(nightMatches)
	}

	// Win rate of the 4th-and-later match within each session.
	var longMatches, longWins int
	for _, s := range a.Sessions(matches) {
		for i, m := range s.Matches {
			if i+1 < a.cfg.LongSessionIndex {
				continue
			}
			longMatches++
			if m.Won {
				longWins++
			}
		}
	}
	report.LongSessionMatches = longMatches
	if longMatches >= a.cfg.MinLongSession {
		report.LongSessionWinRate = float64(longWins) / float64(longMatches)
	}

	report.Warnings = a.warnings(report)
	report.Risk = a.classify(report)
	return report
}

func (a *SessionAnalyzer) warnings(r domain.TiltReport) []domain.TiltWarning {
	var warnings []domain.TiltWarning
	if r.RecentLosingStreak >= a.cfg.StreakWarn {
		sev := domain.WarnWarning
		if r.RecentLosingStreak >= a.cfg.StreakDanger {
			sev = domain.WarnDanger
		}
		warnings = append(warnings, domain.TiltWarning{
			Type:     "losing_streak",
			Severity: sev,
			Message:  fmt.Sprintf("You have lost %d matches in a row. Consider taking a break.", r.RecentLosingStreak),
		})
	}
	if r.LateNightMatches >= a.cfg.MinLateNight && r.LateNightWinRate < a.cfg.LowWinRate {
		warnings = append(warnings, domain.TiltWarning{
			Type:     "late_night",
			Severity: domain.WarnWarning,
			Message:  fmt.Sprintf("You win only %.0f%% of matches started between midnight and 4 AM.", r.LateNightWinRate*100),
		})
	}
	if r.LongSessionMatches >= a.cfg.MinLongSession && r.LongSessionWinRate < a.cfg.LowWinRate {
		warnings = append(warnings, domain.TiltWarning{
			Type:     "long_session",
			Severity: domain.WarnWarning,
			Message:  fmt.Sprintf("Your win rate drops to %.0f%% from the 4th match of a session onward.", r.LongSessionWinRate*100),
		})
	}
	return warnings
}

func (a *SessionAnalyzer) classify(r domain.TiltReport) domain.TiltRisk {
	danger := false
	for _, w := range r.Warnings {
		if w.Severity == domain.WarnDanger {
			danger = true
			break
		}
	}
	switch {
	case r.RecentLosingStreak >= a.cfg.StreakDanger || danger:
		return domain.TiltHigh
	case r.RecentLosingStreak >= a.cfg.StreakWarn || len(r.Warnings) >= a.cfg.MinWarningsMedium:
		return domain.TiltMedium
	default:
		return domain.TiltLow
	}
}

// timeOfDayBuckets in display order.
var timeOfDayBuckets = []struct {
	name       string
	start, end int // local hour, start inclusive, end exclusive
}{
	{"night", 0, 6},
	{"morning", 6, 12},
	{"afternoon", 12, 18},
	{"evening", 18, 24},
}

// TimePatterns buckets matches by local hour band and weekday and computes
// win rates per bucket. Best buckets require the minimum sample.
func (a *SessionAnalyzer) TimePatterns(matches []domain.HistoryMatch) domain.TimePatternReport {
	report := domain.TimePatternReport{
		BestTimeOfDay: domain.NotEnoughData,
		BestDayOfWeek: domain.NotEnoughData,
	}

	byHour := make(map[string]*domain.BucketStats)
	for _, b := range timeOfDayBuckets {
		byHour[b.name] = &domain.BucketStats{Bucket: b.name}
	}
	byDay := make(map[time.Weekday]*domain.BucketStats)
	for d := time.Sunday; d <= time.Saturday; d++ {
		byDay[d] = &domain.BucketStats{Bucket: d.String()}
	}

	for _, m := range matches {
		hour := m.StartTime.Hour()
		for _, b := range timeOfDayBuckets {
			if hour >= b.start && hour < b.end {
				bump(byHour[b.name], m.Won)
				break
			}
		}
		bump(byDay[m.StartTime.Weekday()], m.Won)
	}

	var bestTime, bestDay *domain.BucketStats
	for _, b := range timeOfDayBuckets {
		s := finalize(byHour[b.name])
		report.TimeOfDay = append(report.TimeOfDay, s)
		if s.Matches >= a.cfg.BucketMinMatches && (bestTime == nil || s.WinRate > bestTime.WinRate) {
			c := s
			bestTime = &c
		}
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		s := finalize(byDay[d])
		report.DayOfWeek = append(report.DayOfWeek, s)
		if s.Matches >= a.cfg.BucketMinMatches && (bestDay == nil || s.WinRate > bestDay.WinRate) {
			c := s
			bestDay = &c
		}
	}
	if bestTime != nil {
		report.BestTimeOfDay = bestTime.Bucket
	}
	if bestDay != nil {
		report.BestDayOfWeek = bestDay.Bucket
	}
	return report
}

func bump(s *domain.BucketStats, won bool) {
	s.Matches++
	if won {
		s.Wins++
	}
}

func finalize(s *domain.BucketStats) domain.BucketStats {
	out := *s
	if out.Matches > 0 {
		out.WinRate = float64(out.Wins) / float64(out.Matches)
	}
	return out
}

func winRate(matches []domain.HistoryMatch) float64 {
	if len(matches) == 0 {
		return 0
	}
	wins := 0
	for _, m := range matches {
		if m.Won {
			wins++
		}
	}
	return float64(wins) / float64(len(matches))
}
