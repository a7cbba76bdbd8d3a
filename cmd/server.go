package cmd

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"habitflow/internal/logger"
	"habitflow/internal/server"
	"habitflow/internal/storage/bolt"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return startServer()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}

func startServer() error {
	logger.Setup(cfg.LogFormat, cfg.LogLevel)

	store, err := bolt.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening store %s: %w", cfg.DBPath, err)
	}
	defer store.Close()

	srv, err := server.New(store, &cfg)
	if err != nil {
		return err
	}

	logger.Info("Starting server", "addr", cfg.ListenAddr, "db_path", cfg.DBPath)
	if err := http.ListenAndServe(cfg.ListenAddr, srv.Router()); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}
