package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"habitflow/internal/apiclient"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the dashboard: streaks, today's progress, weekly trend",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := apiclient.New(cfg.APIBaseURL, userID)
		stats, err := client.Dashboard(cmd.Context())
		if err != nil {
			return err
		}

		cmd.Printf("Habits:        %d\n", stats.TotalHabits)
		cmd.Printf("Done today:    %d\n", stats.CompletedToday)
		cmd.Printf("Streak:        %d (longest %d)\n", stats.CurrentStreak, stats.LongestStreak)
		cmd.Printf("Reflections:   %d\n", stats.TotalReflections)
		cmd.Printf("Last 7 days:   %s\n", sparkline(stats.WeeklyProgress))
		return nil
	},
}

// sparkline renders completion percentages as a small bar chart.
func sparkline(pcts []int) string {
	bars := []rune("  ▂▃▄▅▆▇█")
	var b strings.Builder
	for _, p := range pcts {
		idx := p * (len(bars) - 1) / 100
		if idx < 0 {
			idx = 0
		}
		if idx >= len(bars) {
			idx = len(bars) - 1
		}
		b.WriteRune(bars[idx])
	}
	return b.String()
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
