package cmd

import (
	"github.com/spf13/cobra"

	"habitflow/internal/apiclient"
	"habitflow/pkg/versioninfo"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `The "version" command displays the current version info for both client
and server if available.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("Client Version: %s\n", versioninfo.Version)

		client := apiclient.New(cfg.APIBaseURL, userID)
		info, err := client.ServerVersion(cmd.Context())
		if err != nil {
			cmd.Println("Error fetching server version:", err)
			return
		}
		cmd.Printf("Server Version: %s\n", info.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
