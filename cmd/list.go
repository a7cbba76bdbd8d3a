package cmd

import (
	"github.com/spf13/cobra"

	"habitflow/internal/apiclient"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List habits with their streaks",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := apiclient.New(cfg.APIBaseURL, userID)
		habits, err := client.ListHabits(cmd.Context())
		if err != nil {
			return err
		}
		if len(habits) == 0 {
			cmd.Println("No habits yet. Create one with: habitflow add <name>")
			return nil
		}
		for _, h := range habits {
			cmd.Printf("%-30s current %3d  longest %3d\n",
				h.Name, h.Streak.CurrentStreak, h.Streak.LongestStreak)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
