package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"habitflow/internal/config"
)

var (
	cfg    config.Config
	userID string
)

var rootCmd = &cobra.Command{
	Use:   "habitflow",
	Short: "Track daily habits, streaks and reflections",
	Long: `
	Habitflow tracks daily habits: log completions, keep streaks alive, write
	reflections, and read back daily, weekly and monthly progress. Most
	commands talk to a running habitflow server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&userID, "user", "", "user id to act as (default server-side user)")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
