package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"habitflow/internal/apiclient"
	"habitflow/pkg/habit"
)

var (
	logMood       string
	logNote       string
	logReflection string
)

var logCmd = &cobra.Command{
	Use:   "log <habit-name>",
	Short: "Log a completion for a habit",
	Long: `The "log" command records that you did a habit today and updates its
streak. The habit is matched by name against your habit list.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := apiclient.New(cfg.APIBaseURL, userID)

		habits, err := client.ListHabits(cmd.Context())
		if err != nil {
			return err
		}
		habitID := ""
		for _, h := range habits {
			if h.Name == args[0] {
				habitID = h.ID
				break
			}
		}
		if habitID == "" {
			return fmt.Errorf("no habit named %q", args[0])
		}

		resp, err := client.LogCompletion(cmd.Context(), habitID,
			habit.Mood(logMood), logNote, logReflection)
		if err != nil {
			return err
		}
		cmd.Printf("Logged %q. Current streak: %d (longest %d)\n",
			args[0], resp.Streak.CurrentStreak, resp.Streak.LongestStreak)
		return nil
	},
}

func init() {
	logCmd.Flags().StringVar(&logMood, "mood", "", "how it felt: great, good, neutral, bad, terrible")
	logCmd.Flags().StringVar(&logNote, "note", "", "short note to keep with the completion")
	logCmd.Flags().StringVar(&logReflection, "reflection", "", "longer reflection text")
	rootCmd.AddCommand(logCmd)
}
