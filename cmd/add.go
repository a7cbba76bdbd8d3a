package cmd

import (
	"github.com/spf13/cobra"

	"habitflow/internal/apiclient"
	"habitflow/pkg/habit"
)

var (
	addDescription string
	addCategory    string
	addIcon        string
)

var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a new habit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := apiclient.New(cfg.APIBaseURL, userID)
		created, err := client.CreateHabit(cmd.Context(), habit.Habit{
			Name:        args[0],
			Description: addDescription,
			Category:    addCategory,
			Icon:        addIcon,
		})
		if err != nil {
			return err
		}
		cmd.Printf("Created habit %q (%s)\n", created.Name, created.ID)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&addDescription, "description", "", "what this habit is about")
	addCmd.Flags().StringVar(&addCategory, "category", "", "habit category, e.g. health")
	addCmd.Flags().StringVar(&addIcon, "icon", "", "icon name shown in clients")
	rootCmd.AddCommand(addCmd)
}
