// coachctl analyzes match-record and match-history JSON files offline,
// without the server or a database.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"dota-coach/internal/analysis"
	"dota-coach/internal/benchmark"
	"dota-coach/internal/domain"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var accountID int64

var rootCmd = &cobra.Command{
	Use:   "coachctl",
	Short: "Offline match-analysis tool",
	Long:  "Run the coaching analysis pipeline over match and history JSON files.",
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <match.json>",
	Short: "Analyze one match record for the tracked account",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

var sessionsCmd = &cobra.Command{
	Use:   "sessions <history.json>",
	Short: "Group a match history into sessions and report tilt risk",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessions,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	analyzeCmd.Flags().Int64Var(&accountID, "account", 0, "account id of the tracked participant")
	_ = analyzeCmd.MarkFlagRequired("account")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(sessionsCmd)
}

func quietLogger() zerolog.Logger {
	return zerolog.New(os.Stderr).Level(zerolog.WarnLevel)
}

func runAnalyze(_ *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read match file: %w", err)
	}
	var match domain.MatchRecord
	if err := json.Unmarshal(data, &match); err != nil {
		return fmt.Errorf("decode match file: %w", err)
	}

	log := quietLogger()
	orch := analysis.NewOrchestrator(
		analysis.NewPerformanceDetector(analysis.DefaultPerformanceConfig(), log),
		analysis.NewTimelineDetector(analysis.DefaultTimelineConfig(), log),
		analysis.NewMomentExtractor(analysis.DefaultMomentConfig(), log),
		analysis.NewItemBuildAnalyzer(analysis.DefaultItemBuildConfig(), log),
		benchmark.NewStore(benchmark.NewMemoryRepository(), log),
		nil,
		log,
	)

	result, err := orch.Analyze(context.Background(), &match, accountID)
	if err != nil {
		return err
	}

	fmt.Printf("\nMatch %d  |  %s (%s)  |  %s  |  build score %d/100\n\n",
		result.MatchID, result.HeroName, result.Role, winLossLabel(result.Won), result.ItemBuild.Score)

	printInsightTable(result.Insights)
	printMomentTable(result.Highlights)

	if len(result.ItemBuild.KeyIssues) > 0 {
		fmt.Println("\nKey issues:")
		for _, issue := range result.ItemBuild.KeyIssues {
			fmt.Printf("  - %s\n", issue)
		}
	}
	return nil
}

func runSessions(_ *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read history file: %w", err)
	}
	var matches []domain.HistoryMatch
	if err := json.Unmarshal(data, &matches); err != nil {
		return fmt.Errorf("decode history file: %w", err)
	}

	analyzer := analysis.NewSessionAnalyzer(analysis.DefaultSessionConfig(), quietLogger())
	sessions := analyzer.Sessions(matches)
	tilt := analyzer.TiltReport(matches)
	patterns := analyzer.TimePatterns(matches)

	table := tablewriter.NewTable(os.Stdout)
	table.Header("STARTED", "MATCHES", "WINRATE", "AVG KDA", "AVG GPM", "LOSS STREAK", "TREND")
	for _, s := range sessions {
		table.Append(
			s.StartedAt.Format("2006-01-02 15:04"),
			strconv.Itoa(len(s.Matches)),
			fmt.Sprintf("%.0f%%", s.WinRate*100),
			fmt.Sprintf("%.1f", s.AvgKDA),
			fmt.Sprintf("%.0f", s.AvgGoldPerMin),
			strconv.Itoa(s.LongestLossStreak),
			string(s.Trend),
		)
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Printf("\nTilt risk: %s  |  losing streak: %d  |  best time: %s  |  best day: %s\n",
		strings.ToUpper(string(tilt.Risk)), tilt.RecentLosingStreak, patterns.BestTimeOfDay, patterns.BestDayOfWeek)
	for _, w := range tilt.Warnings {
		fmt.Printf("  [%s] %s\n", w.Severity, w.Message)
	}
	return nil
}

func printInsightTable(insights []domain.Insight) {
	table := tablewriter.NewTable(os.Stdout)
	table.Header("TYPE", "CATEGORY", "SEVERITY", "TIME", "TITLE")
	for _, in := range insights {
		at := "-"
		if in.GameTime != nil {
			at = fmt.Sprintf("%d:%02d", *in.GameTime/60, *in.GameTime%60)
		}
		table.Append(string(in.Type), string(in.Category), string(in.Severity), at, in.Title)
	}
	_ = table.Render()
}

func printMomentTable(moments []domain.KeyMoment) {
	fmt.Println("\nHighlights:")
	table := tablewriter.NewTable(os.Stdout)
	table.Header("TIME", "TYPE", "IMPORTANCE", "TITLE")
	for _, m := range moments {
		table.Append(
			fmt.Sprintf("%d:%02d", m.Timestamp/60, m.Timestamp%60),
			string(m.Type), string(m.Importance), m.Title,
		)
	}
	_ = table.Render()
}

func winLossLabel(won bool) string {
	if won {
		return "victory"
	}
	return "defeat"
}
